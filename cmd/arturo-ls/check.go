package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/boyter/gocodewalker"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
	"github.com/rlch/arturo/report"
)

// Check command errors.
var (
	ErrNoArturoFiles = errors.New("no .art files found")
	ErrCheckFailed   = errors.New("arturo files contain errors")
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report diagnostics for Arturo files",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (text, json)",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Action: runCheck,
	}
}

func runCheck(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	analyzer, cfg, base, err := loadAnalyzer(cwd)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	files = excludeFiles(files, base, cfg.Exclude)
	if len(files) == 0 {
		return ErrNoArturoFiles
	}

	results := checkFiles(analyzer, files)

	for i := range results {
		results[i].Path = displayPath(cwd, results[i].Path)
	}

	w := cmd.Root().Writer
	color := !cmd.Bool("no-color") && report.ColorEnabled(w)
	formatter := report.NewFormatter(cmd.String("format"), w, color)

	summary := report.Summarize(results)

	for _, r := range results {
		if err := formatter.File(r); err != nil {
			return err
		}
	}

	if err := formatter.Summary(summary); err != nil {
		return err
	}

	if !summary.Ok() {
		return ErrCheckFailed
	}

	return nil
}

// checkFiles analyzes files in parallel. Results keep the order of files.
func checkFiles(analyzer *analysis.Analyzer, files []string) []report.FileResult {
	results := make([]report.FileResult, len(files))

	var g errgroup.Group

	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			results[i].Path = path

			content, err := os.ReadFile(filepath.Clean(path))
			if err != nil {
				results[i].Err = err

				return nil
			}

			results[i].Diagnostics = analyzer.Analyze(path, content).Diagnostics

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// collectFiles expands args into a sorted list of Arturo files. Directories
// are walked honoring .gitignore; files named explicitly are kept whatever
// their extension.
func collectFiles(args []string) ([]string, error) {
	seen := make(map[string]struct{})

	var mu sync.Mutex

	add := func(path string) {
		mu.Lock()
		seen[filepath.Clean(path)] = struct{}{}
		mu.Unlock()
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			add(arg)

			continue
		}

		if err := walkDir(arg, add); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}

	slices.Sort(files)

	return files, nil
}

// walkDir walks a directory for .art files, respecting .gitignore.
func walkDir(root string, callback func(path string)) error {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{strings.TrimPrefix(arturo.FileExtension, ".")}

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range fileListQueue {
			callback(f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return err
	}

	wg.Wait()
	return walkErr
}

// excludeFiles drops files matching any of the doublestar patterns. Patterns
// are matched against the path relative to base and against the absolute path.
func excludeFiles(files []string, base string, patterns []string) []string {
	if len(patterns) == 0 {
		return files
	}

	kept := files[:0:0]

	for _, path := range files {
		if !excluded(path, base, patterns) {
			kept = append(kept, path)
		}
	}

	return kept
}

func excluded(path, base string, patterns []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	candidates := []string{filepath.ToSlash(abs)}
	if rel, err := filepath.Rel(base, abs); err == nil && !strings.HasPrefix(rel, "..") {
		candidates = append(candidates, filepath.ToSlash(rel))
	}

	for _, pattern := range patterns {
		for _, candidate := range candidates {
			if matched, err := doublestar.Match(pattern, candidate); err == nil && matched {
				return true
			}
		}
	}

	return false
}

// displayPath shortens path to be relative to dir when it lies below it.
func displayPath(dir, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	rel, err := filepath.Rel(dir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return rel
}
