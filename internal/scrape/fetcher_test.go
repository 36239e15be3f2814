package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollyFetcherFetchesAndParses(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		_, _ = w.Write([]byte(`<html><body><dl><dt>価格</dt><dd>9,800万円</dd></dl></body></html>`))
	}))
	defer srv.Close()

	fetcher, err := NewCollyFetcher("rise-tracker-test/1.0", 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	doc, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "rise-tracker-test/1.0", gotUA)
	require.Equal(t, "9,800万円", dlValue(doc, "価格"))
}

func TestCollyFetcherReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher, err := NewCollyFetcher("rise-tracker-test/1.0", 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestCollyFetcherHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher, err := NewCollyFetcher("rise-tracker-test/1.0", 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	_, err = fetcher.Fetch(ctx, "http://127.0.0.1:0/")
	require.ErrorIs(t, err, context.Canceled)
}
