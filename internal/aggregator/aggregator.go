// Package aggregator fetches every configured policy source concurrently
// and normalizes the results, tolerating per-source failures.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"policyscope/internal/config"
	"policyscope/internal/graph"
	"policyscope/internal/logger"
	"policyscope/internal/models"
	"policyscope/internal/normalizer"
)

// Aggregation errors.
var (
	ErrAllSourcesFailed = errors.New("failed to load any policies")
	ErrNoSources        = errors.New("no sources configured")
)

const defaultMaxConcurrency = 8

// Source is one Graph collection to read.
type Source struct {
	Name        string
	Kind        models.SourceKind
	Endpoints   []string
	Detail      bool
	Assignments bool
}

// DisplayName returns Name, or the collection's display name when unset.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}

	return s.Kind.DisplayName()
}

// SourcesFromConfig converts the enabled configured sources.
func SourcesFromConfig(cfg *config.Config) []Source {
	enabled := cfg.GetEnabledSources()
	sources := make([]Source, 0, len(enabled))

	for _, src := range enabled {
		sources = append(sources, Source{
			Name:        src.DisplayName(),
			Kind:        models.SourceKind(src.Kind),
			Endpoints:   src.Endpoints,
			Detail:      src.Detail,
			Assignments: src.Assignments,
		})
	}

	return sources
}

// SourceOutcome reports how one source fared.
type SourceOutcome struct {
	Err      error         `json:"-"`
	Source   string        `json:"source"`
	Family   models.Family `json:"family"`
	Error    string        `json:"error,omitempty"`
	Count    int           `json:"count"`
	Duration time.Duration `json:"duration"`
}

// Result is the combined output of one aggregation.
type Result struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Policies  []models.Policy `json:"policies"`
	Outcomes  []SourceOutcome `json:"outcomes"`
}

// Failed lists the names of sources that failed entirely.
func (r *Result) Failed() []string {
	var failed []string

	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o.Source)
		}
	}

	return failed
}

// AggregateError is returned when every source failed.
type AggregateError struct {
	Failed []string
	Errs   []error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("%s, failed sources: %s", ErrAllSourcesFailed, strings.Join(e.Failed, ", "))
}

// Unwrap exposes ErrAllSourcesFailed and every source error.
func (e *AggregateError) Unwrap() []error {
	return append([]error{ErrAllSourcesFailed}, e.Errs...)
}

// Options tunes an Aggregator.
type Options struct {
	Logger *logger.Logger
	// MaxConcurrency bounds in-flight detail requests per source.
	MaxConcurrency int
	// Strict drops records that fail validation.
	Strict bool
}

// Aggregator reads and normalizes policies from all sources.
type Aggregator struct {
	fetcher        graph.Fetcher
	sources        []Source
	processor      *normalizer.Processor
	logger         *logger.Logger
	maxConcurrency int
}

// New creates an aggregator over sources.
func New(fetcher graph.Fetcher, sources []Source, opts Options) *Aggregator {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = defaultMaxConcurrency
	}

	processor := normalizer.NewProcessor(log)
	processor.Strict = opts.Strict

	return &Aggregator{
		fetcher:        fetcher,
		sources:        sources,
		processor:      processor,
		logger:         log,
		maxConcurrency: maxConcurrency,
	}
}

// Sources returns the configured sources.
func (a *Aggregator) Sources() []Source {
	return a.sources
}

// GetAllPolicies fetches all sources concurrently. It fails only when every
// source failed; partial failures are reported in Result.Outcomes.
func (a *Aggregator) GetAllPolicies(ctx context.Context) (*Result, error) {
	if len(a.sources) == 0 {
		return nil, ErrNoSources
	}

	type slot struct {
		policies []models.Policy
		outcome  SourceOutcome
	}

	slots := make([]slot, len(a.sources))

	var wg sync.WaitGroup

	for i, src := range a.sources {
		wg.Add(1)

		go func(i int, src Source) {
			defer wg.Done()

			start := time.Now()
			policies, err := a.fetchSource(ctx, src)

			outcome := SourceOutcome{
				Source:   src.DisplayName(),
				Family:   src.Kind.Family(),
				Count:    len(policies),
				Err:      err,
				Duration: time.Since(start),
			}
			if err != nil {
				outcome.Error = err.Error()
			}

			slots[i] = slot{policies: policies, outcome: outcome}
		}(i, src)
	}

	wg.Wait()

	result := &Result{FetchedAt: time.Now().UTC()}
	aggErr := &AggregateError{}

	for _, s := range slots {
		result.Outcomes = append(result.Outcomes, s.outcome)

		if s.outcome.Err != nil {
			a.logger.Warn("source failed", "source", s.outcome.Source, "error", s.outcome.Err)
			aggErr.Failed = append(aggErr.Failed, s.outcome.Source)
			aggErr.Errs = append(aggErr.Errs, fmt.Errorf("%s: %w", s.outcome.Source, s.outcome.Err))

			continue
		}

		a.logger.Info("source loaded",
			"source", s.outcome.Source,
			"count", s.outcome.Count,
			"duration", s.outcome.Duration,
		)
		result.Policies = append(result.Policies, s.policies...)
	}

	if len(aggErr.Failed) == len(a.sources) {
		return nil, aggErr
	}

	if result.Policies == nil {
		result.Policies = []models.Policy{}
	}

	if failed := result.Failed(); len(failed) > 0 {
		a.logger.Warn("some sources failed", "failed", strings.Join(failed, ", "), "policies", len(result.Policies))
	}

	return result, nil
}

// fetchSource lists every endpoint of src, hydrates items when configured
// and normalizes them. An endpoint failure is tolerated while another
// endpoint of the same source succeeds.
func (a *Aggregator) fetchSource(ctx context.Context, src Source) ([]models.Policy, error) {
	var (
		raw  []models.RawRecord
		errs []error
	)

	for _, endpoint := range src.Endpoints {
		items, err := graph.FetchAll(ctx, a.fetcher, endpoint)
		if err != nil {
			a.logger.Warn("endpoint failed", "source", src.DisplayName(), "endpoint", endpoint, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", endpoint, err))

			continue
		}

		if src.Detail || src.Assignments {
			items = a.hydrate(ctx, src, endpoint, items)
		}

		raw = append(raw, items...)
	}

	if len(errs) == len(src.Endpoints) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return a.processor.ProcessAll(raw, src.Kind), nil
}

// hydrate replaces each summary item with its detailed form, one request
// per item, bounded by maxConcurrency. Items keep their list order.
func (a *Aggregator) hydrate(ctx context.Context, src Source, endpoint string, items []models.RawRecord) []models.RawRecord {
	out := make([]models.RawRecord, len(items))

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, a.maxConcurrency)
	)

	for i, item := range items {
		id, ok := item.Text("id")
		if !ok || id == "" {
			out[i] = item

			continue
		}

		wg.Add(1)

		go func(i int, item models.RawRecord, id string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				out[i] = item

				return
			}
			defer func() { <-sem }()

			out[i] = a.detail(ctx, src, endpoint, item, id)
		}(i, item, id)
	}

	wg.Wait()

	return out
}

// detail fetches one item. Failures degrade to the summary item.
func (a *Aggregator) detail(ctx context.Context, src Source, endpoint string, item models.RawRecord, id string) models.RawRecord {
	itemURL := itemPath(endpoint, id)
	log := a.logger.With("source", src.DisplayName(), "id", id)

	detailed := item

	if src.Detail {
		if src.Kind == models.SourceConfigurationPolicies {
			expanded, err := a.fetcher.FetchOne(ctx, itemURL+"?$expand=settings")
			if err != nil {
				log.Warn("detail fetch failed, using summary", "error", err)

				return item
			}

			detailed = item.Clone()
			if settings, ok := expanded["settings"]; ok {
				detailed["settings"] = settings
			}
		} else {
			full, err := a.fetcher.FetchOne(ctx, itemURL)
			if err != nil {
				log.Warn("detail fetch failed, using summary", "error", err)

				return item
			}

			detailed = full
		}
	}

	if src.Assignments {
		assignments, err := graph.FetchAll(ctx, a.fetcher, itemURL+"/assignments")
		if err != nil {
			log.Warn("assignment fetch failed", "error", err)

			return detailed
		}

		if !src.Detail {
			detailed = item.Clone()
		}

		list := make([]any, 0, len(assignments))
		for _, assignment := range assignments {
			list = append(list, map[string]any(assignment))
		}

		detailed["assignments"] = list
	}

	return detailed
}

// itemPath builds {endpoint}/{id}, dropping any query on the collection path.
func itemPath(endpoint, id string) string {
	base, _, _ := strings.Cut(endpoint, "?")

	return strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
}
