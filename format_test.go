package arturo_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rlch/arturo"
)

func defaultFormat() arturo.FormatConfig {
	return arturo.DefaultConfig().Format
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		cfg      arturo.FormatConfig
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			cfg:      defaultFormat(),
			expected: "",
		},
		{
			name:     "trailing newline added",
			input:    "print 1",
			cfg:      defaultFormat(),
			expected: "print 1\n",
		},
		{
			name:     "trailing whitespace trimmed",
			input:    "x: 1   \nprint x\t\n",
			cfg:      defaultFormat(),
			expected: "x: 1\nprint x\n",
		},
		{
			name:     "block indented",
			input:    "f: function [x][\nprint x\n  x + 1\n]",
			cfg:      defaultFormat(),
			expected: "f: function [x][\n    print x\n    x + 1\n]\n",
		},
		{
			name:     "nested blocks",
			input:    "loop 1..3 'i [\nif i > 1 [\nprint i\n]\n]",
			cfg:      defaultFormat(),
			expected: "loop 1..3 'i [\n    if i > 1 [\n        print i\n    ]\n]\n",
		},
		{
			name:     "tabs",
			input:    "d: #[\n  a: 1\n]",
			cfg:      arturo.FormatConfig{UseTabs: true, MaxBlankLines: 1},
			expected: "d: #[\n\ta: 1\n]\n",
		},
		{
			name:     "two space indent",
			input:    "x: [\n1\n]",
			cfg:      arturo.FormatConfig{IndentSize: 2, MaxBlankLines: 1},
			expected: "x: [\n  1\n]\n",
		},
		{
			name:     "closing then opening bracket",
			input:    "if x [\nprint 1\n] else [\nprint 2\n]",
			cfg:      defaultFormat(),
			expected: "if x [\n    print 1\n] else [\n    print 2\n]\n",
		},
		{
			name:     "blank lines capped",
			input:    "\n\nx: 1\n\n\n\ny: 2\n\n\n",
			cfg:      defaultFormat(),
			expected: "x: 1\n\ny: 2\n",
		},
		{
			name:     "blank lines removed",
			input:    "x: 1\n\ny: 2",
			cfg:      arturo.FormatConfig{MaxBlankLines: 0},
			expected: "x: 1\ny: 2\n",
		},
		{
			name:     "multiline string untouched",
			input:    "s: {:\n   keep   \n\n\n  this  \n:}\n  print s",
			cfg:      defaultFormat(),
			expected: "s: {:\n   keep   \n\n\n  this  \n:}\nprint s\n",
		},
		{
			name:     "brackets in strings ignored",
			input:    "x: \"[\"\nprint x",
			cfg:      defaultFormat(),
			expected: "x: \"[\"\nprint x\n",
		},
		{
			name:     "comments indented",
			input:    "f: function [][\n; body\n1\n]",
			cfg:      defaultFormat(),
			expected: "f: function [][\n    ; body\n    1\n]\n",
		},
		{
			name:     "crlf",
			input:    "x: [\r\n1\r\n]\r\n",
			cfg:      defaultFormat(),
			expected: "x: [\n    1\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := arturo.Format(tt.input, tt.cfg)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Format() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"f: function [x][\nprint x\n  x + 1\n]",
		"s: {:\n   keep   \n:}\n\n\n\nloop 1..3 'i [\n  print i ]",
		"d: #[\n a: [\n1 2\n ]\n]\n; end",
		"x: ]]\ny: [",
	}

	for _, in := range inputs {
		once := arturo.Format(in, defaultFormat())
		twice := arturo.Format(once, defaultFormat())

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Format not idempotent for %q (-once +twice):\n%s", in, diff)
		}
	}
}
