package analysis

import (
	"regexp"
	"strings"
)

// Type tags produced by InferType.
const (
	TypeInteger    = "integer"
	TypeFloating   = "floating"
	TypeRational   = "rational"
	TypeLogical    = "logical"
	TypeNull       = "null"
	TypeString     = "string"
	TypeChar       = "char"
	TypeDictionary = "dictionary"
	TypeBlock      = "block"
	TypeType       = "type"
	TypeLiteral    = "literal"
	TypeFunction   = "function"
	TypeColor      = "color"
	TypeRange      = "range"
	TypeAny        = "any"
)

var (
	rationalPattern  = regexp.MustCompile(`^-?\d+:\d+$`)
	logicalPattern   = regexp.MustCompile(`^(true|false|maybe)$`)
	charValuePattern = regexp.MustCompile("^`.`$")
	typeValuePattern = regexp.MustCompile(`^:[a-zA-Z]`)
	colorPattern     = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[a-zA-Z]+)$`)
	functionPattern  = regexp.MustCompile(`^(function|method)\b|^\$\s*\[|^->|^=>`)
)

type typeRule struct {
	tag   string
	match func(v string) bool
}

// typeRules are evaluated in order; the first match wins. Dictionary sits
// before block and color because "#[" is a prefix-superset of both.
var typeRules = []typeRule{
	{TypeInteger, integerPattern.MatchString},
	{TypeFloating, floatPattern.MatchString},
	{TypeRational, rationalPattern.MatchString},
	{TypeLogical, logicalPattern.MatchString},
	{TypeNull, func(v string) bool { return v == "null" }},
	{TypeString, func(v string) bool {
		return strings.HasPrefix(v, `"`) || strings.HasPrefix(v, "{") || strings.HasPrefix(v, "«")
	}},
	{TypeChar, charValuePattern.MatchString},
	{TypeDictionary, func(v string) bool { return strings.HasPrefix(v, "#[") }},
	{TypeBlock, func(v string) bool { return strings.HasPrefix(v, "[") }},
	{TypeType, typeValuePattern.MatchString},
	{TypeLiteral, func(v string) bool { return strings.HasPrefix(v, "'") }},
	{TypeFunction, IsFunctionValue},
	{TypeColor, colorPattern.MatchString},
	{TypeRange, func(v string) bool { return strings.Contains(v, "..") }},
}

// InferType returns the type tag of a value by its textual shape.
func InferType(value string) string {
	v := strings.TrimSpace(value)
	for _, r := range typeRules {
		if r.match(v) {
			return r.tag
		}
	}

	return TypeAny
}

// IsFunctionValue reports whether a bound value constructs a function.
func IsFunctionValue(value string) bool {
	return functionPattern.MatchString(strings.TrimSpace(value))
}

// IsNumericType reports whether tag is one of the number types.
func IsNumericType(tag string) bool {
	return tag == TypeInteger || tag == TypeFloating || tag == TypeRational
}
