// Package recommend is the hybrid recommendation engine: a similarity
// calculator, four candidate generators (collaborative, content-based,
// popularity, knowledge-based), and a combiner that blends their proposals
// into one ranked list.
//
// The engine is stateless. Everything it reads goes through a Source, and
// the settings of a run are passed in by value, so runs are independent of
// each other and of concurrent settings updates. Persisting the result is
// the caller's job.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// DefaultGeneratorTimeout bounds a single generator within a run.
const DefaultGeneratorTimeout = 10 * time.Second

// Engine fans a run out to its generators and combines what they return.
type Engine struct {
	source     Source
	generators []Generator
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithGenerators replaces the standard generator set.
func WithGenerators(gs ...Generator) Option {
	return func(e *Engine) { e.generators = gs }
}

// WithGeneratorTimeout bounds each generator; zero or less disables the bound.
func WithGeneratorTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine returns an engine reading from src with the four standard
// generators.
func NewEngine(src Source, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		source: src,
		generators: []Generator{
			NewCollaborative(src),
			NewContentBased(src),
			NewPopularity(src),
			NewKnowledgeBased(src),
		},
		timeout: DefaultGeneratorTimeout,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one engine run.
type Result struct {
	Items []Ranked
	// Failed lists generators that contributed nothing because they errored,
	// panicked or timed out.
	Failed []domain.Algorithm
}

// Run executes every generator concurrently, drops excluded courses, and
// combines the rest. A failing generator is logged and skipped; if all of
// them fail the result is simply empty. Run never returns an error.
func (e *Engine) Run(ctx context.Context, in Input) Result {
	start := time.Now()
	defer observeRun(start)
	log := e.logger.With().Str("user_id", in.UserID).Logger()

	results := make([][]Candidate, len(e.generators))
	failed := make([]bool, len(e.generators))

	g, gctx := errgroup.WithContext(ctx)
	for i, gen := range e.generators {
		g.Go(func() error {
			alg := string(gen.Algorithm())
			cands, err := e.runGenerator(gctx, gen, in)
			if err != nil {
				failed[i] = true
				generatorFailures.WithLabelValues(alg).Inc()
				log.Warn().Err(err).Str("algorithm", alg).Msg("generator failed, continuing without it")
				return nil
			}
			candidatesTotal.WithLabelValues(alg).Add(float64(len(cands)))
			results[i] = cands
			return nil
		})
	}
	_ = g.Wait()

	exclude := e.exclusions(ctx, in, log)
	var all []Candidate
	for _, cands := range results {
		for _, c := range cands {
			if _, skip := exclude[c.CourseID]; skip {
				continue
			}
			all = append(all, c)
		}
	}

	res := Result{Items: Combine(all, in.Settings)}
	for i, f := range failed {
		if f {
			res.Failed = append(res.Failed, e.generators[i].Algorithm())
		}
	}
	log.Debug().
		Int("candidates", len(all)).
		Int("ranked", len(res.Items)).
		Int("failed_generators", len(res.Failed)).
		Dur("took", time.Since(start)).
		Msg("engine run finished")
	return res
}

type generatorResult struct {
	cands []Candidate
	err   error
}

// runGenerator isolates one generator: panics become errors and the
// configured timeout is enforced even if the generator ignores ctx.
func (e *Engine) runGenerator(ctx context.Context, gen Generator, in Input) ([]Candidate, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	done := make(chan generatorResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- generatorResult{err: fmt.Errorf("generator panicked: %v", r)}
			}
		}()
		cands, err := gen.Generate(ctx, in)
		done <- generatorResult{cands: cands, err: err}
	}()

	select {
	case r := <-done:
		return r.cands, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("generator aborted: %w", ctx.Err())
	}
}

// exclusions returns the course IDs the settings keep out of the output.
// Failing to load enrollments only disables that part of the filter.
func (e *Engine) exclusions(ctx context.Context, in Input, log zerolog.Logger) map[string]struct{} {
	out := make(map[string]struct{})
	if in.Settings.ExcludeCompletedItems && in.Profile != nil {
		for _, id := range in.Profile.CompletedCourses {
			out[id] = struct{}{}
		}
	}
	if in.Settings.ExcludeEnrolledItems {
		ids, err := e.source.ActiveEnrollments(ctx, in.UserID)
		if err != nil {
			log.Warn().Err(err).Msg("could not load enrollments, enrolled courses not excluded")
		}
		for _, id := range ids {
			out[id] = struct{}{}
		}
	}
	return out
}
