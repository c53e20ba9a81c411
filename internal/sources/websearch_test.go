package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScoreRelevance(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		snippet string
		url     string
		want    float64
	}{
		{
			name:  "full name in title",
			title: "Jane Doe on distributed systems",
			url:   "https://example.com/post",
			want:  1.0,
		},
		{
			name:    "half the name tokens",
			snippet: "an interview with Jane",
			url:     "https://example.com",
			want:    0.5,
		},
		{
			name: "no overlap",
			url:  "https://example.com",
			want: 0.0,
		},
		{
			name:  "trusted domain boost",
			title: "jane",
			url:   "https://github.com/jane",
			want:  0.8,
		},
		{
			name:  "boost is capped at one",
			title: "Jane Doe",
			url:   "https://github.com/jane",
			want:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreRelevance("Jane Doe", tt.title, tt.snippet, tt.url)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestScoreRelevanceEmptyName(t *testing.T) {
	assert.Zero(t, ScoreRelevance("", "title", "snippet", "https://example.com"))
}

func TestClassifyPublication(t *testing.T) {
	tests := []struct {
		url   string
		title string
		want  string
	}{
		{"https://arxiv.org/abs/1234", "Consensus revisited", "article"},
		{"https://medium.com/@jane/post", "Shipping Go services", "article"},
		{"https://jane.dev/blog/post", "Notes", "article"},
		{"https://youtube.com/watch?v=x", "GopherCon session", "talk"},
		{"https://example.com", "Keynote announcement", "talk"},
		{"https://example.com", "Award winner 2024", "award"},
		{"https://github.com/jane", "jane", "profile"},
		{"https://example.com/page", "random page", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url+" "+tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPublication(tt.url, tt.title))
		})
	}
}

func TestWebSearchWithoutCredentialsReturnsEmpty(t *testing.T) {
	adapter, err := NewWebSearchAdapter(context.Background(), "", "", zap.NewNop())
	require.NoError(t, err)

	payload, err := adapter.Fetch(context.Background(), Request{FullName: "Jane Doe"})
	require.NoError(t, err)

	require.NotNil(t, payload.Web)
	assert.Empty(t, payload.Web.Hits)
	assert.Empty(t, payload.Web.Publications)
}
