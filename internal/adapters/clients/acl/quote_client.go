package acl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/motivationapp/motivation-service/internal/adapters/clients"
	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
)

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client must point at the API root, e.g. https://motivation.kakhoshvili.com/api.
	Client *clients.Client

	// ServiceName labels errors and the health check. Defaults to "quote-api".
	ServiceName string

	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteSource against GET /quotes?page=N.
type QuoteClient struct {
	BaseAdapter

	logger *slog.Logger
}

// NewQuoteClient creates a quote client adapter.
// Panics if Client is nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	name := cfg.ServiceName
	if name == "" {
		name = "quote-api"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, name),
		logger:      logger.With(slog.String("component", "acl.QuoteClient")),
	}
}

// quotePage is the body of GET /quotes.
type quotePage struct {
	Quotes []externalQuote `json:"quotes"`
}

type externalQuote struct {
	ID       int     `json:"id"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Author   string  `json:"author"`
	Content  string  `json:"content"`
	URL      *string `json:"url"`
}

func quotePath(page int) string {
	return "/quotes?page=" + strconv.Itoa(page)
}

// FetchPage returns the quotes on page. Implements ports.QuoteSource.
func (c *QuoteClient) FetchPage(ctx context.Context, page int) ([]domain.Quote, error) {
	path := quotePath(page)
	logger := logging.FromContext(ctx)

	logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := c.Get(ctx, path, "fetch quotes", strconv.Itoa(page))
	if err != nil {
		logger.WarnContext(ctx, "quote page fetch failed",
			slog.Int("page", page),
			slog.Any("error", err))

		return nil, err
	}

	decoded, err := Decode[quotePage](c.ServiceName(), body)
	if err != nil {
		return nil, err
	}

	quotes, err := TranslateSlice[externalQuote, domain.Quote](decoded.Quotes, translateQuote)
	if err != nil {
		return nil, domain.NewDecodingError(c.ServiceName(), err)
	}

	logger.DebugContext(ctx, "quote page fetched",
		slog.Int("page", page),
		slog.Int("count", len(quotes)))

	return quotes, nil
}

// translateQuote rejects quotes without an id or text; a null url becomes "".
func translateQuote(ext *externalQuote) (domain.Quote, error) {
	if err := ValidatePositive(ext.ID, "id"); err != nil {
		return domain.Quote{}, err
	}

	if err := ValidateRequired(ext.Content, "content"); err != nil {
		return domain.Quote{}, err
	}

	q := domain.Quote{
		ID:       ext.ID,
		Category: ext.Category,
		Type:     ext.Type,
		Author:   ext.Author,
		Content:  ext.Content,
	}

	if ext.URL != nil {
		q.URL = *ext.URL
	}

	return q, nil
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Optional reports the quote API as non-critical: fallback quotes cover
// an outage. Implements ports.OptionalChecker.
func (c *QuoteClient) Optional() bool {
	return true
}

// Check fetches the first page. Implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, quotePath(domain.FirstPage))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	return nil
}
