package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

const (
	checkWordPath      = "/check_word"
	defaultTimeout     = 3 * time.Second
	maxResponseBytes   = 1 << 20
	errorSnippetLength = 256
)

type checkWordRequest struct {
	Word string `json:"word"`
	TopK int    `json:"top_k"`
}

type checkWordMatch struct {
	Word  string   `json:"word"`
	Score *float64 `json:"score,omitempty"`
}

type checkWordResponse struct {
	TopMatches *[]checkWordMatch `json:"top_matches"`
}

// RemoteSimilarity asks a word similarity service for the closest matches
// of a whole word: POST {baseURL}/check_word with {"word", "top_k"}.
type RemoteSimilarity struct {
	endpoint string
	client   *http.Client
	header   http.Header
	limiter  *rate.Limiter
	cache    *ResultCache
	reporter FailureReporter
	logger   *log.Logger
}

// RemoteOption configures a RemoteSimilarity.
type RemoteOption func(*RemoteSimilarity)

// WithHTTPClient replaces the HTTP client (and its timeout).
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *RemoteSimilarity) {
		if c != nil {
			r.client = c
		}
	}
}

// WithTimeout bounds each call, including reading the body.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *RemoteSimilarity) {
		if d > 0 {
			r.client.Timeout = d
		}
	}
}

// WithHeader adds a header to every call, e.g. for deployment auth.
func WithHeader(key, value string) RemoteOption {
	return func(r *RemoteSimilarity) {
		r.header.Add(key, value)
	}
}

// WithRateLimit allows perSecond calls with the given burst. Calls over
// the limit wait; a non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) RemoteOption {
	return func(r *RemoteSimilarity) {
		if perSecond <= 0 {
			r.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCache keeps up to n recent results.
func WithCache(n int) RemoteOption {
	return func(r *RemoteSimilarity) {
		if n > 0 {
			r.cache = NewResultCache(n)
		}
	}
}

// WithReporter sets who is told about failed calls.
func WithReporter(rep FailureReporter) RemoteOption {
	return func(r *RemoteSimilarity) {
		r.reporter = rep
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) RemoteOption {
	return func(r *RemoteSimilarity) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRemoteSimilarity creates a provider for the service at baseURL.
func NewRemoteSimilarity(baseURL string, opts ...RemoteOption) *RemoteSimilarity {
	r := &RemoteSimilarity{
		endpoint: strings.TrimRight(baseURL, "/") + checkWordPath,
		client:   &http.Client{Timeout: defaultTimeout},
		header:   make(http.Header),
		logger:   logger.New("remote"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Endpoint returns the URL calls are sent to.
func (r *RemoteSimilarity) Endpoint() string {
	return r.endpoint
}

func (r *RemoteSimilarity) Source() Source {
	return SourceRemote
}

// Query returns the service's top matches for text. Failures are reported
// and give an empty result.
func (r *RemoteSimilarity) Query(ctx context.Context, text string, topK int) []Candidate {
	candidates, err := r.Fetch(ctx, text, topK)
	if err != nil {
		if r.reporter != nil {
			r.reporter.ProviderFailure(err)
		} else {
			r.logger.Error("similarity lookup failed", "word", text, "err", err)
		}
		return []Candidate{}
	}
	return candidates
}

// Fetch performs one call. Every error it returns is marked with
// ErrProviderFailure.
func (r *RemoteSimilarity) Fetch(ctx context.Context, text string, topK int) ([]Candidate, error) {
	text = strings.TrimSpace(text)
	if text == "" || topK <= 0 {
		return []Candidate{}, nil
	}
	if r.cache != nil {
		if cached, ok := r.cache.Get(text, topK); ok {
			r.logger.Debug("cache hit", "word", text)
			return cached, nil
		}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, failure(err, "rate limit wait")
		}
	}

	body, err := json.Marshal(checkWordRequest{Word: text, TopK: topK})
	if err != nil {
		return nil, failure(err, "marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, failure(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range r.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, failure(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetLength))
		return nil, errors.Mark(
			errors.Newf("similarity service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
			ErrProviderFailure)
	}

	var payload checkWordResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, failure(err, "decode response")
	}
	if payload.TopMatches == nil {
		return nil, errors.Mark(errors.New("response has no top_matches"), ErrProviderFailure)
	}

	candidates := rankMatches(*payload.TopMatches, topK)
	r.logger.Debugf("Took [ %v ] for '%s': %d matches", time.Since(start), text, len(candidates))

	if r.cache != nil {
		r.cache.Put(text, topK, candidates)
	}
	return candidates, nil
}

// rankMatches drops empty and repeated words, orders by descending score
// when every match is scored (service order otherwise) and keeps topK.
func rankMatches(matches []checkWordMatch, topK int) []Candidate {
	candidates := make([]Candidate, 0, len(matches))
	seen := utils.NewSuggestionFilter()
	allScored := true
	for _, m := range matches {
		w := strings.TrimSpace(m.Word)
		if w == "" || !seen.ShouldInclude(w) {
			continue
		}
		if m.Score == nil {
			allScored = false
		}
		candidates = append(candidates, Candidate{Word: w, Score: m.Score})
	}

	if allScored {
		sort.SliceStable(candidates, func(i, j int) bool {
			return *candidates[i].Score > *candidates[j].Score
		})
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

func failure(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrProviderFailure)
}
