// Package workflow drives one run from a search reference and a CV to a set of
// application packages.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/filtering"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/utils"
)

const (
	DefaultSettleDelay = 1500 * time.Millisecond

	listingsMessage    = "Step 1/3: Generating relevant job listings..."
	analyzingMessage   = "Step 2/3: Analyzing & customizing CV for \"%s\" (%d/%d)..."
	finalizingMessage  = "Step 3/3: Finalizing your application packages..."
	unknownFailureText = "An unknown error occurred."
)

var (
	// ErrInvalidTransition is returned when a command is not allowed in the current status.
	ErrInvalidTransition = errors.New("invalid workflow transition")

	ErrNoListings        = errors.New("Could not find any jobs for the provided URL.")
	ErrNoQualifyingMatch = errors.New("No jobs with a strong enough skills match were found. Try a different search URL or update your CV.")
)

type Option func(*Controller)

// WithSettleDelay sets the pause between the last analysis and the done state. Zero disables it.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

// Controller owns the workflow state machine. Only one run may be active at a time.
type Controller struct {
	listings    ai.ListingGenerator
	analyzer    ai.MatchAnalyzer
	logger      *zap.Logger
	settleDelay time.Duration

	// dispatch serializes transitions with their notifications. It is taken before mu.
	dispatch     sync.Mutex
	mu           sync.RWMutex
	state        State
	observers    map[int]Observer
	nextObserver int
}

func New(listings ai.ListingGenerator, analyzer ai.MatchAnalyzer, log *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		listings:    listings,
		analyzer:    analyzer,
		logger:      logger.WithFields(log),
		settleDelay: DefaultSettleDelay,
		state:       State{Status: StatusIdle},
		observers:   make(map[int]Observer),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state.clone()
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are called synchronously from the goroutine changing the state and
// see every change in the order it was applied. An observer must not call
// Start or Reset.
func (c *Controller) Subscribe(o Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = o

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// Start runs the workflow to completion and returns the terminal state.
// It is only allowed from the idle status; otherwise ErrInvalidTransition is returned
// and the state is left untouched. Failures of the run itself are reported through
// the returned state, not the error.
func (c *Controller) Start(ctx context.Context, ref, cv string) (State, error) {
	runID, err := c.begin()
	if err != nil {
		return c.State(), err
	}

	return c.run(ctx, runID, ref, cv), nil
}

// StartAsync enters processing synchronously and runs the rest of the workflow in
// a new goroutine. The terminal state is delivered on the returned channel.
func (c *Controller) StartAsync(ctx context.Context, ref, cv string) (<-chan State, error) {
	runID, err := c.begin()
	if err != nil {
		return nil, err
	}

	done := make(chan State, 1)
	go func() {
		done <- c.run(ctx, runID, ref, cv)
		close(done)
	}()

	return done, nil
}

func (c *Controller) begin() (string, error) {
	runID := uuid.NewString()

	err := c.transition(func(s *State) error {
		if s.Status != StatusIdle {
			return fmt.Errorf("%w: cannot start from %s", ErrInvalidTransition, s.Status)
		}
		*s = State{RunID: runID, Status: StatusProcessing}
		return nil
	})

	return runID, err
}

func (c *Controller) run(ctx context.Context, runID, ref, cv string) State {
	log := logger.WithRun(c.logger, runID)
	log.Info("workflow started", zap.String("ref", ref))

	packages, err := c.execute(ctx, log, ref, cv)
	if err != nil {
		return c.fail(log, runID, err)
	}

	final := State{RunID: runID, Status: StatusDone, Packages: packages}
	_ = c.transition(func(s *State) error {
		*s = final.clone()
		return nil
	})
	log.Info("workflow completed", zap.Int("packages", packages.Len()))

	return final
}

// Reset returns a finished controller to idle, discarding results and errors.
func (c *Controller) Reset() error {
	return c.transition(func(s *State) error {
		if s.Status == StatusProcessing {
			return fmt.Errorf("%w: cannot reset while processing", ErrInvalidTransition)
		}
		*s = State{Status: StatusIdle}
		return nil
	})
}

func (c *Controller) execute(ctx context.Context, log *zap.Logger, ref, cv string) (packages *jobs.Packages, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workflow panicked: %v", r)
		}
	}()

	c.progress(listingsMessage)

	postings, err := c.listings.GenerateListings(ctx, ref)
	if err != nil {
		return nil, err
	}

	total := postings.Len()
	if total == 0 {
		return nil, ErrNoListings
	}

	log.Info("job listings received", zap.Int("count", total))

	candidates := make([]filtering.Candidate, 0, total)
	for idx, job := range postings.Items {
		if job == nil {
			return nil, fmt.Errorf("job listing %d is empty", idx+1)
		}

		jobLog := log.With(logger.JobFields(idx+1, total, job.Title)...)
		c.progress(fmt.Sprintf(analyzingMessage, job.Title, idx+1, total))

		analysis, err := c.analyzer.AnalyzeMatch(ctx, job, cv)
		if err != nil {
			return nil, err
		}
		if analysis == nil {
			return nil, &ai.AnalysisError{Title: job.Title, Err: errors.New("empty analysis")}
		}

		if filtering.Admitted(analysis.MatchScore) {
			jobLog.Info("job approved", zap.Int("match_score", analysis.MatchScore))
		} else {
			jobLog.Info("job rejected by match score",
				zap.Int("match_score", analysis.MatchScore),
				zap.Int("threshold", filtering.MinimumMatchScore),
			)
		}

		candidates = append(candidates, filtering.Candidate{Job: job, Analysis: analysis})
	}

	packages, step := filtering.Admit(candidates)
	log.Info("admission completed",
		zap.Int("initial", step.Initial),
		zap.Int("dropped", step.Dropped),
		zap.Int("left", step.Left),
	)

	if packages.Len() == 0 {
		return nil, ErrNoQualifyingMatch
	}

	c.progress(finalizingMessage)

	if err := utils.WaitFor(ctx, c.settleDelay); err != nil {
		return nil, err
	}

	return packages, nil
}

func (c *Controller) fail(log *zap.Logger, runID string, err error) State {
	message := strings.TrimSpace(err.Error())
	if message == "" {
		message = unknownFailureText
	}

	fields := []zap.Field{zap.Error(err)}
	if cause := errors.Unwrap(err); cause != nil {
		fields = append(fields, zap.NamedError("cause", cause))
	}

	if errors.Is(err, ErrNoListings) || errors.Is(err, ErrNoQualifyingMatch) {
		log.Warn("workflow finished without results", fields...)
	} else {
		log.Error("workflow failed", fields...)
	}

	final := State{RunID: runID, Status: StatusError, Error: message}
	_ = c.transition(func(s *State) error {
		*s = final
		return nil
	})

	return final
}

func (c *Controller) progress(message string) {
	_ = c.transition(func(s *State) error {
		s.Message = message
		return nil
	})
}

// transition applies fn under the lock and notifies observers when it succeeds.
// The next transition waits until every observer has seen this one.
func (c *Controller) transition(fn func(*State) error) error {
	c.dispatch.Lock()
	defer c.dispatch.Unlock()

	c.mu.Lock()
	if err := fn(&c.state); err != nil {
		c.mu.Unlock()
		return err
	}

	snapshot := c.state.clone()
	observers := make([]Observer, 0, len(c.observers))
	for id := 0; id < c.nextObserver; id++ {
		if o, ok := c.observers[id]; ok {
			observers = append(observers, o)
		}
	}
	c.mu.Unlock()

	for _, o := range observers {
		o(snapshot)
	}

	return nil
}
