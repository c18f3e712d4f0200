package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rlch/arturo/analysis"
)

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "List the functions and variables a file defines",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output symbols as JSON",
			},
		},
		Action: runSymbols,
	}
}

type symbolOutput struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func runSymbols(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: %s symbols <file>", cmd.Root().Name)
	}

	path := cmd.Args().First()

	analyzer, _, _, err := loadAnalyzer(filepath.Dir(path))
	if err != nil {
		return err
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	syms := symbolOutputs(analyzer.Analyze(path, content))
	w := cmd.Root().Writer

	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(syms)
	}

	for _, s := range syms {
		fmt.Fprintf(w, "%d:%d\t%s\t%s\t%s\n", s.Line, s.Column, s.Kind, s.Name, s.Detail)
	}

	return nil
}

// symbolOutputs lists a file's symbols with 1-based positions.
func symbolOutputs(f *analysis.AnalyzedFile) []symbolOutput {
	syms := f.DocumentSymbols()

	out := make([]symbolOutput, 0, len(syms))
	for _, s := range syms {
		out = append(out, symbolOutput{
			Name:   s.Name,
			Kind:   s.Kind.String(),
			Detail: s.Detail,
			Line:   s.Selection.Start.Line,
			Column: s.Selection.Start.Column,
		})
	}

	return out
}
