package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><main>hello</main></body></html>")
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "hello")
	assert.Contains(t, result.ContentType, "text/html")
}

func TestURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := URL(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, srv.URL, fetchErr.URL)
}

func TestURLInvalid(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Message, "invalid URL")
}

func TestURLServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := URL(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestURLSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	_, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestExtractMainText(t *testing.T) {
	html := `<html><body>
		<nav>navigation junk</nav>
		<script>var x = 1;</script>
		<main>
			<p>First paragraph.</p>
			<p>Second paragraph.</p>
		</main>
	</body></html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)

	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
	assert.NotContains(t, text, "var x")
}

func TestExtractMainTextFallsBackToBody(t *testing.T) {
	html := `<html><body><div>plain content</div></body></html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "plain content")
}

func TestShouldUseBrowser(t *testing.T) {
	longText := make([]byte, MinContentLength+1)
	for i := range longText {
		longText[i] = 'a'
	}

	assert.True(t, ShouldUseBrowser("short"))
	assert.False(t, ShouldUseBrowser(string(longText)))
}
