package catalog

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cockroachdb/errors"
)

// Signature is a parsed builtin signature such as
//
//	add valueA:integer|floating valueB:integer|floating -> integer|floating
type Signature struct {
	Name    string
	Params  []Param
	Returns []string
}

// Param is one positional parameter of a builtin.
type Param struct {
	Name  string
	Types []string
}

type signatureAST struct {
	Name    string      `@Ident`
	Params  []*paramAST `@@*`
	Returns []string    `( "->" @Ident ( "|" @Ident )* )?`
}

type paramAST struct {
	Name  string   `@Ident ":"`
	Types []string `@Ident ( "|" @Ident )*`
}

var signatureLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*\??`},
	{Name: "Punct", Pattern: `[:|]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var signatureParser = participle.MustBuild[signatureAST](
	participle.Lexer(signatureLexer),
	participle.Elide("Whitespace"),
)

// ParseSignature parses a signature line.
func ParseSignature(src string) (*Signature, error) {
	ast, err := signatureParser.ParseString("", strings.TrimSpace(src))
	if err != nil {
		return nil, errors.Wrapf(err, "parse signature %q", src)
	}

	sig := &Signature{Name: ast.Name, Returns: ast.Returns}
	for _, p := range ast.Params {
		sig.Params = append(sig.Params, Param{Name: p.Name, Types: p.Types})
	}

	return sig, nil
}

// String renders the signature in its canonical form.
func (s *Signature) String() string {
	var b strings.Builder

	b.WriteString(s.Name)

	for _, p := range s.Params {
		b.WriteByte(' ')
		b.WriteString(p.Name)
		b.WriteByte(':')
		b.WriteString(strings.Join(p.Types, "|"))
	}

	if len(s.Returns) > 0 {
		b.WriteString(" -> ")
		b.WriteString(strings.Join(s.Returns, "|"))
	}

	return b.String()
}
