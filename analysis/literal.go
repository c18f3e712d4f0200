package analysis

import (
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/rlch/arturo/catalog"
)

var (
	integerPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern     = regexp.MustCompile(`^-?\d+\.\d+([eE][-+]?\d+)?$`)
	hexPattern       = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
	binaryPattern    = regexp.MustCompile(`^0b[01]+$`)
	versionPattern   = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)
	colorBodyPattern = regexp.MustCompile(`^([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	charPattern      = regexp.MustCompile(`^[a-z]$`)
)

var literalKeywords = map[string]struct{}{
	"true":  {},
	"false": {},
	"maybe": {},
	"null":  {},
}

// IsLiteral reports whether token is a literal that never needs a definition:
// a number, a logical or null keyword, a version, a bare hex color body, a
// unit or color name, or a single lowercase letter.
func IsLiteral(cat *catalog.Catalog, token string) bool {
	if token == "" {
		return false
	}

	if _, ok := literalKeywords[token]; ok {
		return true
	}

	switch {
	case integerPattern.MatchString(token),
		floatPattern.MatchString(token),
		hexPattern.MatchString(token),
		binaryPattern.MatchString(token),
		colorBodyPattern.MatchString(token),
		charPattern.MatchString(token):
		return true
	}

	if IsVersion(token) {
		return true
	}

	return cat != nil && (cat.IsUnit(token) || cat.IsColor(token))
}

// IsVersion reports whether token is a dotted version such as 1.2.3-rc.1.
func IsVersion(token string) bool {
	if !versionPattern.MatchString(token) {
		return false
	}

	_, err := semver.StrictNewVersion(token)

	return err == nil
}

// ParseVersion parses a version literal.
func ParseVersion(token string) (*semver.Version, bool) {
	if !versionPattern.MatchString(token) {
		return nil, false
	}

	v, err := semver.StrictNewVersion(token)
	if err != nil {
		return nil, false
	}

	return v, true
}
