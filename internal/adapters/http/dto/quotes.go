package dto

import (
	"github.com/motivationapp/motivation-service/internal/app"
	"github.com/motivationapp/motivation-service/internal/domain"
)

// QuotesQuery selects the feed of GET /quotes. It defaults to the app feed.
type QuotesQuery struct {
	Feed string `form:"feed" validate:"omitempty,oneof=app widget"`
}

// QuoteResponse is a quote as served to clients.
type QuoteResponse struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	URL      string `json:"url,omitempty"`
}

// QuotesResponse is the body of GET /quotes.
type QuotesResponse struct {
	Feed     string          `json:"feed"`
	Page     int             `json:"page"`
	Quotes   []QuoteResponse `json:"quotes"`
	Fallback bool            `json:"fallback"`
}

// ToQuoteResponse converts a domain quote.
func ToQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:       q.ID,
		Category: q.Category,
		Type:     q.Type,
		Author:   q.Author,
		Content:  q.Content,
		URL:      q.URL,
	}
}

// ToQuoteResponses converts quotes, never returning nil.
func ToQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = ToQuoteResponse(q)
	}

	return out
}

// ToQuotesResponse converts a feed result.
func ToQuotesResponse(r *app.FeedResult) QuotesResponse {
	return QuotesResponse{
		Feed:     string(r.Feed),
		Page:     r.Page,
		Quotes:   ToQuoteResponses(r.Quotes),
		Fallback: r.Fallback,
	}
}
