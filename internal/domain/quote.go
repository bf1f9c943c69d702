package domain

// Quote is a motivational quote served by the remote quote API.
// Quotes are never mutated locally, only filtered and selected. Identity is ID.
type Quote struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	URL      string `json:"url,omitempty"`
}

// NotificationBody renders the quote as a reminder body.
func (q Quote) NotificationBody() string {
	return q.Content + " — " + q.Author
}

// QuoteIDs returns the identifiers of quotes in order.
func QuoteIDs(quotes []Quote) []int {
	ids := make([]int, len(quotes))
	for i, q := range quotes {
		ids[i] = q.ID
	}

	return ids
}

var fallbackQuotes = []Quote{
	{ID: 1, Category: "Motivational", Type: "text", Author: "Nelson Mandela",
		Content: "It always seems impossible until it's done."},
	{ID: 2, Category: "Motivational", Type: "text", Author: "Walt Disney",
		Content: "The way to get started is to quit talking and begin doing."},
	{ID: 3, Category: "Motivational", Type: "text", Author: "Eleanor Roosevelt",
		Content: "The future belongs to those who believe in the beauty of their dreams."},
	{ID: 4, Category: "Motivational", Type: "text", Author: "Oprah Winfrey",
		Content: "The greatest discovery of all time is that a person can change his future by merely changing his attitude."},
	{ID: 5, Category: "Motivational", Type: "text", Author: "Steve Jobs",
		Content: "Your work is going to fill a large part of your life, and the only way to be truly satisfied is to do what you believe is great work."},
}

// FallbackQuotes returns the built-in quotes used when the remote API cannot
// be reached or returns an unusable page. The slice is a fresh copy.
func FallbackQuotes() []Quote {
	out := make([]Quote, len(fallbackQuotes))
	copy(out, fallbackQuotes)

	return out
}
