package arturo

import "regexp"

// Language server identity.
const (
	ServerName    = "arturo-ls"
	ServerVersion = "0.4.0"

	// SourceName is the diagnostic source reported to clients.
	SourceName = "arturo"

	// FileExtension is the extension of Arturo source files.
	FileExtension = ".art"
)

var (
	// identifierPattern matches a bare word as the language scans it.
	identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*\??$`)

	// newNamePattern is the grammar a rename target must satisfy.
	newNamePattern = regexp.MustCompile(`^[a-zA-Z_][\w-]*\??$`)
)

// IsIdentifier reports whether name is a single identifier token.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// IsValidNewName reports whether name may be used as a rename target.
func IsValidNewName(name string) bool {
	return newNamePattern.MatchString(name)
}
