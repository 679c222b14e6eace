package domain

import (
	"sort"
	"strings"
)

const (
	// FilterAll is the selected-filter value that matches every category.
	FilterAll = "all"

	// NoQuoteYet is reported as the last-viewed marker before any quote was shown in a session.
	NoQuoteYet = "no quote yet"

	// FallbackCategory is assigned to remote records that carry no category token.
	FallbackCategory = "General"
)

// Quote is a single quotation and the category it is filed under.
// Quotes have no identity: two quotes are the same quote when both fields match exactly.
type Quote struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Equal reports structural equality (exact, case-sensitive match of text and category).
func (q Quote) Equal(other Quote) bool {
	return q.Text == other.Text && q.Category == other.Category
}

// Normalize returns a copy with surrounding whitespace removed from both fields.
func (q Quote) Normalize() Quote {
	return Quote{
		Text:     strings.TrimSpace(q.Text),
		Category: strings.TrimSpace(q.Category),
	}
}

// Validate checks that text and category are non-empty after trimming whitespace.
func (q Quote) Validate() error {
	n := q.Normalize()

	if n.Text == "" {
		return NewValidationError("text", "must not be empty")
	}

	if n.Category == "" {
		return NewValidationError("category", "must not be empty")
	}

	return nil
}

// DefaultQuotes returns the seed collection used when no stored collection exists.
// A fresh slice is returned on every call.
func DefaultQuotes() []Quote {
	return []Quote{
		{Text: "The only way to do great work is to love what you do.", Category: "Work"},
		{Text: "Innovation distinguishes between a leader and a follower.", Category: "Innovation"},
		{Text: "Strive not to be a success, but rather to be of value.", Category: "Motivation"},
		{Text: "The future belongs to those who believe in the beauty of their dreams.", Category: "Dreams"},
		{Text: "The best way to predict the future is to create it.", Category: "Action"},
	}
}

// Clone returns an independent copy of a collection.
func Clone(quotes []Quote) []Quote {
	out := make([]Quote, len(quotes))
	copy(out, quotes)

	return out
}

// FilterByCategory returns the quotes matching filter.
// FilterAll matches everything; any other value is compared case-insensitively.
func FilterByCategory(quotes []Quote, filter string) []Quote {
	if filter == FilterAll {
		return Clone(quotes)
	}

	out := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if strings.EqualFold(q.Category, filter) {
			out = append(out, q)
		}
	}

	return out
}

// Categories returns the distinct categories present in quotes, sorted
// case-insensitively. Distinctness is case-sensitive, so "Work" and "work"
// are both listed.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	out := make([]string, 0, len(quotes))

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}

	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}

		return out[i] < out[j]
	})

	return out
}
