package dto

import (
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// AddQuoteRequest is the body of POST /api/v1/quotes.
type AddQuoteRequest struct {
	Text     string `json:"text" validate:"required,notempty,max=1000"`
	Category string `json:"category" validate:"required,notempty,max=100"`
}

// ListQuotesRequest holds the query parameters of GET /api/v1/quotes.
type ListQuotesRequest struct {
	PaginationRequest

	// Category filters the list. Empty uses the saved filter.
	Category string `form:"category" validate:"max=100"`
}

// RandomQuoteRequest holds the query parameters of GET /api/v1/quotes/random.
type RandomQuoteRequest struct {
	Category string `form:"category" validate:"max=100"`
}

// FilterRequest is the body of PUT /api/v1/filter. A blank category selects all.
type FilterRequest struct {
	Category string `json:"category" validate:"max=100"`
}

// QuoteResponse is the HTTP representation of a quote.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse(q)
}

// NewQuoteResponses converts a collection.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = NewQuoteResponse(q)
	}

	return out
}

// CategoriesResponse lists the categories and the saved filter.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
}

// FilterResponse reports the saved filter.
type FilterResponse struct {
	Category string `json:"category"`
}

// LastViewedResponse reports the session's last viewed quote.
type LastViewedResponse struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}
