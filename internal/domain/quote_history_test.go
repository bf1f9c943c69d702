package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var historyNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func quotesWithIDs(ids ...int) []Quote {
	quotes := make([]Quote, len(ids))
	for i, id := range ids {
		quotes[i] = Quote{ID: id, Author: "author", Content: "content"}
	}

	return quotes
}

func TestFilterNewQuotes_EmptyHistoryReturnsCandidates(t *testing.T) {
	candidates := quotesWithIDs(1, 2, 3)

	got := FilterNewQuotes(candidates, nil, historyNow, DefaultRetentionWindow)

	assert.Equal(t, candidates, got)
}

func TestFilterNewQuotes_DropsRecentlySeen(t *testing.T) {
	candidates := quotesWithIDs(1, 2, 3)
	history := []QuoteHistoryEntry{
		{ID: 2, FetchDate: historyNow.Add(-time.Hour), PageNumber: 1},
	}

	got := FilterNewQuotes(candidates, history, historyNow, DefaultRetentionWindow)

	assert.Equal(t, []int{1, 3}, QuoteIDs(got))
}

func TestFilterNewQuotes_RetentionExpiry(t *testing.T) {
	window := DefaultRetentionWindow
	candidates := quotesWithIDs(1, 2)

	tests := []struct {
		name      string
		fetchDate time.Time
		want      []int
	}{
		{
			name:      "expired entry does not suppress",
			fetchDate: historyNow.Add(-window - time.Second),
			want:      []int{1, 2},
		},
		{
			name:      "entry exactly at the window is expired",
			fetchDate: historyNow.Add(-window),
			want:      []int{1, 2},
		},
		{
			name:      "recent entry suppresses",
			fetchDate: historyNow.Add(-time.Second),
			want:      []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []QuoteHistoryEntry{{ID: 1, FetchDate: tt.fetchDate, PageNumber: 1}}

			got := FilterNewQuotes(candidates, history, historyNow, window)

			assert.Equal(t, tt.want, QuoteIDs(got))
		})
	}
}

func TestFilterNewQuotes_FallsBackWhenAllSeen(t *testing.T) {
	candidates := quotesWithIDs(1, 2)
	history := []QuoteHistoryEntry{
		{ID: 1, FetchDate: historyNow.Add(-time.Minute)},
		{ID: 2, FetchDate: historyNow.Add(-2 * time.Minute)},
	}

	got := FilterNewQuotes(candidates, history, historyNow, DefaultRetentionWindow)

	require.Len(t, got, 2)
	assert.Equal(t, candidates, got)
}

func TestFilterNewQuotes_NeverEmptyForNonEmptyInput(t *testing.T) {
	candidates := quotesWithIDs(7)
	histories := [][]QuoteHistoryEntry{
		nil,
		{{ID: 7, FetchDate: historyNow}},
		{{ID: 7, FetchDate: historyNow.Add(-30 * 24 * time.Hour)}},
		{{ID: 8, FetchDate: historyNow}},
	}

	for _, h := range histories {
		assert.NotEmpty(t, FilterNewQuotes(candidates, h, historyNow, DefaultRetentionWindow))
	}
}

func TestFilterNewQuotes_DoesNotMutateCandidates(t *testing.T) {
	candidates := quotesWithIDs(1, 2, 3)
	history := []QuoteHistoryEntry{{ID: 1, FetchDate: historyNow}}

	got := FilterNewQuotes(candidates, history, historyNow, DefaultRetentionWindow)
	got[0].Content = "changed"

	assert.Equal(t, []int{1, 2, 3}, QuoteIDs(candidates))
	assert.Equal(t, "content", candidates[1].Content)
}

func TestRecordShown_PrunesAndAppends(t *testing.T) {
	history := []QuoteHistoryEntry{
		{ID: 1, FetchDate: historyNow.Add(-20 * 24 * time.Hour), PageNumber: 1},
		{ID: 2, FetchDate: historyNow.Add(-time.Hour), PageNumber: 1},
	}

	got := RecordShown(history, quotesWithIDs(5, 6), historyNow, 3, DefaultRetentionWindow)

	assert.Equal(t, []QuoteHistoryEntry{
		{ID: 2, FetchDate: historyNow.Add(-time.Hour), PageNumber: 1},
		{ID: 5, FetchDate: historyNow, PageNumber: 3},
		{ID: 6, FetchDate: historyNow, PageNumber: 3},
	}, got)
	assert.Len(t, history, 2)
}

func TestShouldAdvancePage(t *testing.T) {
	threshold := DefaultPageAdvanceThreshold

	assert.True(t, ShouldAdvancePage(historyNow.Add(-threshold-time.Second), historyNow, threshold))
	assert.True(t, ShouldAdvancePage(historyNow.Add(-threshold), historyNow, threshold))
	assert.False(t, ShouldAdvancePage(historyNow.Add(-time.Hour), historyNow, threshold))
}

func TestAdvancePageCursor(t *testing.T) {
	cursor := PageCursor{CurrentPage: 4, LastUpdateDate: historyNow.Add(-5 * time.Hour)}

	got := AdvancePageCursor(cursor, historyNow)

	assert.Equal(t, PageCursor{CurrentPage: 5, LastUpdateDate: historyNow}, got)
	assert.Equal(t, 4, cursor.CurrentPage)
}

func TestNewPageCursor_ClampsToFirstPage(t *testing.T) {
	assert.Equal(t, FirstPage, NewPageCursor(0, historyNow).CurrentPage)
	assert.Equal(t, 3, NewPageCursor(3, historyNow).CurrentPage)
}

func TestFallbackQuotes(t *testing.T) {
	quotes := FallbackQuotes()

	require.Len(t, quotes, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, QuoteIDs(quotes))
	assert.Equal(t, "Nelson Mandela", quotes[0].Author)

	quotes[0].Author = "changed"
	assert.Equal(t, "Nelson Mandela", FallbackQuotes()[0].Author)
}
