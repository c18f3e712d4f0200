package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

// ErrUnformatted is returned by fmt -l when some file needs formatting.
var ErrUnformatted = errors.New("some files are not formatted")

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Format Arturo files",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "write result to the source file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list files whose formatting differs",
			},
		},
		Action: runFmt,
	}
}

func runFmt(_ context.Context, cmd *cli.Command) error {
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

	write, list := cmd.Bool("write"), cmd.Bool("list")
	unformatted := false

	for _, path := range files {
		original, formatted, err := formatFile(analyzer, cfg, path)
		if err != nil {
			return err
		}

		changed := original != formatted
		unformatted = unformatted || changed

		switch {
		case list:
			if changed {
				fmt.Fprintln(cmd.Root().Writer, displayPath(cwd, path))
			}
		case write:
			if changed {
				if err := writeFile(path, formatted); err != nil {
					return err
				}
			}
		default:
			fmt.Fprint(cmd.Root().Writer, formatted)
		}
	}

	if list && unformatted {
		return ErrUnformatted
	}

	return nil
}

// formatFile returns the file's content before and after formatting.
func formatFile(analyzer *analysis.Analyzer, cfg *arturo.Config, path string) (string, string, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}

	f := analyzer.Analyze(path, content)

	return string(content), arturo.FormatDocument(f.Doc, cfg.Format), nil
}

func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
