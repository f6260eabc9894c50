// Package answer runs the search → validate → resolve pipeline and delivers
// the outcome to a chat.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/use-agent/laodeai/models"
	"github.com/use-agent/laodeai/search"
)

// Searcher fetches and parses a results page.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Page, error)
}

// Validator filters result links down to candidates with an extractor.
type Validator interface {
	Candidates(links []*url.URL) []models.Candidate
}

// Resolver walks candidates until one yields an answer.
type Resolver interface {
	Resolve(ctx context.Context, candidates []models.Candidate) (models.Extraction, error)
}

// Outcome is the terminal result of one query.
type Outcome struct {
	// Extraction is the answer; its Kind is KindError when Err is set.
	Extraction models.Extraction

	// ZeroClick marks an answer taken from the results page itself.
	ZeroClick bool

	// Err is an *models.AnswerError naming the failure.
	Err error

	Timing models.TimingInfo
}

// Code returns the error code of a failed outcome, or "".
func (o Outcome) Code() string {
	if o.Err == nil {
		return ""
	}
	if ae, ok := o.Err.(*models.AnswerError); ok {
		return ae.Code
	}
	return models.ErrCodeInternal
}

// Service runs the resolution pipeline. It sends nothing.
type Service struct {
	searcher  Searcher
	validator Validator
	resolver  Resolver
}

// NewService wires the pipeline stages.
func NewService(s Searcher, v Validator, r Resolver) *Service {
	return &Service{searcher: s, validator: v, resolver: r}
}

// Resolve answers query. Panics in any stage are recovered and reported as
// an internal error outcome.
func (s *Service) Resolve(ctx context.Context, query string) (out Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("answer pipeline panic", "panic", r, "stack", string(debug.Stack()))
			out = Outcome{
				Extraction: models.Failed(),
				Err:        models.NewAnswerError(models.ErrCodeInternal, fmt.Sprint(r), nil),
			}
		}
		out.Timing.TotalMs = time.Since(start).Milliseconds()
	}()

	page, err := s.searcher.Search(ctx, query)
	out.Timing.SearchMs = time.Since(start).Milliseconds()
	if err != nil {
		slog.Warn("search failed", "query", query, "error", err)
		return Outcome{Extraction: models.Failed(), Err: asAnswerError(err, models.ErrCodeSearchUnavailable), Timing: out.Timing}
	}

	if page.ZeroClick.OK() {
		return Outcome{
			Extraction: models.Extraction{
				Kind:    models.KindText,
				URL:     page.ZeroClick.Source,
				Content: page.ZeroClick.Markup(),
			},
			ZeroClick: true,
			Timing:    out.Timing,
		}
	}
	if page.NoResults {
		return Outcome{Extraction: models.Failed(), Err: models.ErrNoResults, Timing: out.Timing}
	}

	candidates := s.validator.Candidates(page.Links())
	slog.Debug("candidates selected", "query", query, "results", len(page.Results), "candidates", len(candidates))
	if len(candidates) == 0 {
		return Outcome{Extraction: models.Failed(), Err: models.ErrNoValidSource, Timing: out.Timing}
	}

	resolveStart := time.Now()
	ext, err := s.resolver.Resolve(ctx, candidates)
	out.Timing.ResolveMs = time.Since(resolveStart).Milliseconds()
	if err != nil {
		return Outcome{Extraction: models.Failed(), Err: asAnswerError(err, models.ErrCodeExtractionExhausted), Timing: out.Timing}
	}
	return Outcome{Extraction: ext, Timing: out.Timing}
}

// asAnswerError keeps AnswerErrors as they are and wraps anything else
// under fallbackCode.
func asAnswerError(err error, fallbackCode string) error {
	if _, ok := err.(*models.AnswerError); ok {
		return err
	}
	return models.NewAnswerError(fallbackCode, "", err)
}
