package destination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{name: "default double quotes", dialect: Dialect{}, in: "orders", want: `"orders"`},
		{name: "embedded quote escaped", dialect: Dialect{Quote: `"`}, in: `or"ders`, want: `"or""ders"`},
		{name: "backtick quoting", dialect: Dialect{Quote: "`"}, in: "orders", want: "`orders`"},
		{
			name:    "bracket quoting",
			dialect: Dialect{Quote: "[", QuoteEnd: "]", Escape: "]]"},
			in:      "or]ders",
			want:    "[or]]ders]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.QuoteIdentifier(tt.in))
		})
	}
}

func TestLimitClause(t *testing.T) {
	prefix, suffix := Dialect{}.LimitClause(10)
	assert.Empty(t, prefix)
	assert.Equal(t, "LIMIT 10", suffix)

	prefix, suffix = Dialect{Limit: TopPrefix}.LimitClause(10)
	assert.Equal(t, "TOP 10", prefix)
	assert.Empty(t, suffix)

	prefix, suffix = Dialect{}.LimitClause(0)
	assert.Empty(t, prefix)
	assert.Empty(t, suffix)
}

func TestFormatPlaceholder(t *testing.T) {
	assert.Equal(t, "?", Dialect{}.FormatPlaceholder(1))
	assert.Equal(t, "$2", Dialect{PlaceholderDollar: true}.FormatPlaceholder(2))
}
