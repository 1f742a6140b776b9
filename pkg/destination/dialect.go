package destination

import "strconv"

// LimitStyle selects how a row limit is rendered in a SELECT.
type LimitStyle int

const (
	// LimitSuffix renders "... LIMIT n" after the table reference.
	LimitSuffix LimitStyle = iota
	// TopPrefix renders "SELECT TOP n ..." before the column list.
	TopPrefix
)

// Dialect holds the SQL dialect settings a relation needs to synthesize
// queries for a destination: identifier quoting, the default schema and
// the shape of the limit clause.
type Dialect struct {
	Name          string
	DefaultSchema string

	// Identifier quoting. QuoteEnd and Escape default to Quote doubled
	// when empty ("..." style dialects).
	Quote    string
	QuoteEnd string
	Escape   string

	Limit LimitStyle

	// PlaceholderDollar selects "$1, $2" parameter placeholders instead
	// of the default "?".
	PlaceholderDollar bool
}

// FormatPlaceholder returns the placeholder for a 1-based parameter
// index in this dialect.
func (d Dialect) FormatPlaceholder(index int) string {
	if d.PlaceholderDollar {
		return "$" + strconv.Itoa(index)
	}
	return "?"
}

// QuoteIdentifier quotes an identifier, escaping embedded quote ends.
func (d Dialect) QuoteIdentifier(name string) string {
	quote, quoteEnd, escape := d.Quote, d.QuoteEnd, d.Escape
	if quote == "" {
		quote = `"`
	}
	if quoteEnd == "" {
		quoteEnd = quote
	}
	if escape == "" {
		escape = quoteEnd + quoteEnd
	}
	escaped := ""
	for _, r := range name {
		if string(r) == quoteEnd {
			escaped += escape
		} else {
			escaped += string(r)
		}
	}
	return quote + escaped + quoteEnd
}

// LimitClause returns the dialect's limit prefix and suffix for n rows.
// Exactly one of the two is non-empty for n > 0; both are empty for
// n <= 0 (no limit).
func (d Dialect) LimitClause(n int) (prefix, suffix string) {
	if n <= 0 {
		return "", ""
	}
	switch d.Limit {
	case TopPrefix:
		return "TOP " + strconv.Itoa(n), ""
	default:
		return "", "LIMIT " + strconv.Itoa(n)
	}
}
