package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failureRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (f *failureRecorder) ProviderFailure(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func (f *failureRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs)
}

func newService(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteSimilaritySuccess(t *testing.T) {
	var got checkWordRequest
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/check_word", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"top_matches":[{"word":"salama","score":0.7},{"word":"salam","score":0.9},{"word":"","score":1},{"word":"sala","score":0.2}]}`))
	})

	rep := &failureRecorder{}
	r := NewRemoteSimilarity(srv.URL+"/", WithReporter(rep), WithHeader("Authorization", "Bearer token"), WithLogger(logger.Discard()))
	assert.Equal(t, srv.URL+"/check_word", r.Endpoint())

	cands := r.Query(context.Background(), "salammma", 2)
	assert.Equal(t, checkWordRequest{Word: "salammma", TopK: 2}, got)
	require.Len(t, cands, 2)
	assert.Equal(t, []string{"salam", "salama"}, Words(cands))
	require.NotNil(t, cands[0].Score)
	assert.InDelta(t, 0.9, *cands[0].Score, 1e-9)
	assert.Zero(t, rep.count())
	assert.Equal(t, SourceRemote, r.Source())
}

func TestRemoteSimilarityKeepsServiceOrderWithoutScores(t *testing.T) {
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"top_matches":[{"word":"b"},{"word":"a","score":3},{"word":"c"}]}`))
	})

	r := NewRemoteSimilarity(srv.URL, WithLogger(logger.Discard()))
	cands, err := r.Fetch(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, Words(cands))
}

func TestRemoteSimilarityFailures(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"top_matches": [`))
		}},
		{"missing top_matches", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"matches": []}`))
		}},
		{"wrong shape", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"top_matches": "salama"}`))
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newService(t, tc.handler)
			rep := &failureRecorder{}
			r := NewRemoteSimilarity(srv.URL, WithReporter(rep), WithLogger(logger.Discard()))

			_, err := r.Fetch(context.Background(), "salama", 5)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrProviderFailure))

			var cands []Candidate
			assert.NotPanics(t, func() { cands = r.Query(context.Background(), "salama", 5) })
			assert.Empty(t, cands)
			assert.Equal(t, 1, rep.count())
		})
	}
}

func TestRemoteSimilarityTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	rep := &failureRecorder{}
	r := NewRemoteSimilarity(srv.URL, WithTimeout(50*time.Millisecond), WithReporter(rep), WithLogger(logger.Discard()))

	assert.Empty(t, r.Query(context.Background(), "salama", 5))
	assert.Equal(t, 1, rep.count())
}

func TestRemoteSimilarityUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rep := &failureRecorder{}
	r := NewRemoteSimilarity(url, WithReporter(rep), WithLogger(logger.Discard()))
	assert.Empty(t, r.Query(context.Background(), "salama", 5))
	assert.Equal(t, 1, rep.count())
}

func TestRemoteSimilarityEmptyQuerySkipsNetwork(t *testing.T) {
	calls := 0
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	r := NewRemoteSimilarity(srv.URL, WithLogger(logger.Discard()))
	cands, err := r.Fetch(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, cands)
	cands, err = r.Fetch(context.Background(), "word", 0)
	require.NoError(t, err)
	assert.Empty(t, cands)
	assert.Zero(t, calls)
}

func TestRemoteSimilarityCache(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		_, _ = w.Write([]byte(`{"top_matches":[{"word":"salama","score":1}]}`))
	})

	r := NewRemoteSimilarity(srv.URL, WithCache(4), WithLogger(logger.Discard()))
	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"salama"}, Words(r.Query(context.Background(), "salam", 5)))
	}
	r.Query(context.Background(), "salam", 3)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestRemoteSimilarityRateLimitHonoursContext(t *testing.T) {
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"top_matches":[]}`))
	})

	r := NewRemoteSimilarity(srv.URL, WithRateLimit(0.001, 1), WithLogger(logger.Discard()))
	_, err := r.Fetch(context.Background(), "a", 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.Fetch(ctx, "b", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderFailure))
}

func TestRemoteSimilarityDropsRepeatedWords(t *testing.T) {
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"top_matches":[{"word":"salama","score":0.9},{"word":"Salama","score":0.8},{"word":"salady","score":0.5}]}`))
	})

	r := NewRemoteSimilarity(srv.URL, WithLogger(logger.Discard()))
	cands, err := r.Fetch(context.Background(), "salam", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"salama", "salady"}, Words(cands))
}
