package engine

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/laodeai/models"
)

// DefaultCandidateTimeout bounds each candidate fetch.
const DefaultCandidateTimeout = 15 * time.Second

// ExtractorLookup resolves a normalized hostname to its extraction function.
type ExtractorLookup interface {
	Extractor(host string) (models.ExtractFunc, bool)
}

// Attempt is what happened to one candidate.
type Attempt struct {
	StatusCode int
	Err        error // transport failure or timeout
	Extraction models.Extraction
}

// Verdict is the outcome of Decide.
type Verdict int

const (
	// Next moves on to the following candidate.
	Next Verdict = iota
	// Accept stops with the attempt's extraction.
	Accept
	// Exhausted stops with no answer.
	Exhausted
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Exhausted:
		return "exhausted"
	default:
		return "next"
	}
}

// Decide is the pure continue/stop rule of the fallback chain. A candidate
// is accepted only when it answered 200 and its extraction produced text or
// an image. Anything else advances, unless it was the last candidate.
func Decide(a Attempt, last bool) Verdict {
	if a.Err == nil && a.StatusCode == http.StatusOK && a.Extraction.OK() {
		return Accept
	}
	if last {
		return Exhausted
	}
	return Next
}

// FallbackChain tries candidates strictly in order, one fetch each, and
// returns the first usable extraction. It never fans out and never retries.
type FallbackChain struct {
	engine   Engine
	lookup   ExtractorLookup
	timeout  time.Duration
	headers  map[string]string
	attempts func(host string, v Verdict)
}

// FallbackOption configures a FallbackChain.
type FallbackOption func(*FallbackChain)

// WithCandidateTimeout overrides the per-candidate timeout.
func WithCandidateTimeout(d time.Duration) FallbackOption {
	return func(c *FallbackChain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAttemptHook registers a callback invoked after every candidate.
func WithAttemptHook(fn func(host string, v Verdict)) FallbackOption {
	return func(c *FallbackChain) { c.attempts = fn }
}

// NewFallbackChain builds a chain fetching with e and extracting with lookup.
func NewFallbackChain(e Engine, lookup ExtractorLookup, opts ...FallbackOption) *FallbackChain {
	c := &FallbackChain{
		engine:  e,
		lookup:  lookup,
		timeout: DefaultCandidateTimeout,
		headers: map[string]string{"Accept": "text/html"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve walks the candidates and returns the first Text or Image
// extraction with its URL set to the candidate's. It returns
// models.ErrNoValidSource for an empty list and models.ErrExtractionExhausted
// when every candidate failed. A cancelled ctx stops the walk early.
func (c *FallbackChain) Resolve(ctx context.Context, candidates []models.Candidate) (models.Extraction, error) {
	if len(candidates) == 0 {
		return models.Failed(), models.ErrNoValidSource
	}

	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return models.Failed(), models.NewAnswerError(models.ErrCodeExtractionExhausted, "resolution cancelled", err)
		}

		attempt := c.try(ctx, cand)
		verdict := Decide(attempt, i == len(candidates)-1)
		if c.attempts != nil {
			c.attempts(cand.Host, verdict)
		}

		switch verdict {
		case Accept:
			ext := attempt.Extraction
			ext.URL = cand.Href()
			slog.Info("candidate accepted", "url", ext.URL, "kind", ext.Kind.String(), "position", i)
			return ext, nil
		case Exhausted:
			slog.Info("all candidates failed", "candidates", len(candidates))
			return models.Failed(), models.NewAnswerError(
				models.ErrCodeExtractionExhausted,
				"no candidate produced an answer",
				attempt.Err,
			)
		}
	}
	return models.Failed(), models.ErrExtractionExhausted
}

// try fetches one candidate and, on 200, runs its extraction function.
func (c *FallbackChain) try(ctx context.Context, cand models.Candidate) Attempt {
	extract, ok := c.lookup.Extractor(cand.Host)
	if !ok {
		return Attempt{Extraction: models.Failed()}
	}

	res, err := c.engine.Fetch(ctx, &FetchRequest{
		URL:     cand.Href(),
		Headers: c.headers,
		Timeout: c.timeout,
	})
	if err != nil {
		slog.Debug("candidate unreachable", "url", cand.Href(), "error", err)
		return Attempt{
			Err:        models.NewAnswerError(models.ErrCodeCandidateUnreachable, cand.Host, err),
			Extraction: models.Failed(),
		}
	}
	if res.StatusCode != http.StatusOK {
		slog.Debug("candidate returned non-200", "url", cand.Href(), "status", res.StatusCode)
		return Attempt{StatusCode: res.StatusCode, Extraction: models.Failed()}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err != nil {
		return Attempt{StatusCode: res.StatusCode, Extraction: models.Failed()}
	}
	doc.Url = cand.URL
	if final, perr := url.Parse(res.FinalURL); perr == nil && final.Host != "" {
		doc.Url = final
	}

	return Attempt{StatusCode: res.StatusCode, Extraction: extract(doc)}
}
