package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_Validate(t *testing.T) {
	tests := []struct {
		name      string
		quote     Quote
		wantField string
	}{
		{"valid", Quote{Text: "Be curious.", Category: "Life"}, ""},
		{"empty text", Quote{Text: "", Category: "Foo"}, "text"},
		{"whitespace text", Quote{Text: "   ", Category: "Foo"}, "text"},
		{"empty category", Quote{Text: "Hello", Category: ""}, "category"},
		{"whitespace category", Quote{Text: "Hello", Category: "\t\n"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quote.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestQuote_Normalize(t *testing.T) {
	q := Quote{Text: "  spaced out  ", Category: " Life "}.Normalize()
	assert.Equal(t, Quote{Text: "spaced out", Category: "Life"}, q)
}

func TestQuote_Equal(t *testing.T) {
	a := Quote{Text: "A", Category: "X"}

	assert.True(t, a.Equal(Quote{Text: "A", Category: "X"}))
	assert.False(t, a.Equal(Quote{Text: "A", Category: "x"}), "category comparison is case-sensitive")
	assert.False(t, a.Equal(Quote{Text: "a", Category: "X"}), "text comparison is case-sensitive")
}

func TestDefaultQuotes(t *testing.T) {
	first := DefaultQuotes()
	require.Len(t, first, 5)

	for _, q := range first {
		require.NoError(t, q.Validate())
	}

	first[0].Text = "mutated"
	assert.NotEqual(t, "mutated", DefaultQuotes()[0].Text, "each call returns a fresh copy")
}

func TestFilterByCategory(t *testing.T) {
	quotes := []Quote{
		{Text: "1", Category: "Work"},
		{Text: "2", Category: "work"},
		{Text: "3", Category: "Life"},
	}

	assert.Equal(t, quotes, FilterByCategory(quotes, FilterAll))
	assert.Equal(t, []Quote{{Text: "1", Category: "Work"}, {Text: "2", Category: "work"}},
		FilterByCategory(quotes, "WORK"))
	assert.Empty(t, FilterByCategory(quotes, "Missing"))
}

func TestFilterByCategory_ReturnsCopy(t *testing.T) {
	quotes := []Quote{{Text: "1", Category: "Work"}}

	filtered := FilterByCategory(quotes, FilterAll)
	filtered[0].Text = "changed"

	assert.Equal(t, "1", quotes[0].Text)
}

func TestCategories(t *testing.T) {
	quotes := []Quote{
		{Text: "1", Category: "work"},
		{Text: "2", Category: "Action"},
		{Text: "3", Category: "Work"},
		{Text: "4", Category: "action"},
		{Text: "5", Category: "Action"},
		{Text: "6", Category: "Dreams"},
	}

	got := Categories(quotes)
	want := []string{"Action", "action", "Dreams", "Work", "work"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}

func TestCategories_Empty(t *testing.T) {
	assert.Empty(t, Categories(nil))
}
