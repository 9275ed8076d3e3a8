package usecase

import (
	"context"
	"sync"
	"time"

	crdberrors "github.com/cockroachdb/errors"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/platform/id"
	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
)

const (
	defaultSpawnQueueSize   = 64
	defaultSpawnMaxAttempts = 3
	defaultSpawnBackoff     = 500 * time.Millisecond
)

// errSpawnPermanent marks failures that retrying cannot fix.
var errSpawnPermanent = crdberrors.New("permanent spawn failure")

// OpsAlerter pushes an operator-facing alert for conditions the system
// cannot recover from on its own.
type OpsAlerter interface {
	Alert(ctx context.Context, title string, fields map[string]string) error
}

// ContestSpawner consumes fill events and creates sibling contests with
// the same economics. It runs outside the join path: a spawn failure costs
// a replacement contest, never a user's entry, so failures retry with
// backoff and finally page instead of propagating.
type ContestSpawner struct {
	contestRepo contest.Repository
	idGen       id.Generator
	logger      *logging.Logger
	alerter     OpsAlerter
	now         func() time.Time

	maxAttempts int
	backoff     time.Duration

	events   chan contest.SpawnEvent
	stopOnce sync.Once
	done     chan struct{}
}

type SpawnerOptions struct {
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
}

func NewContestSpawner(
	contestRepo contest.Repository,
	idGen id.Generator,
	logger *logging.Logger,
	alerter OpsAlerter,
	opts SpawnerOptions,
) *ContestSpawner {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = defaultSpawnQueueSize
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaultSpawnMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultSpawnBackoff
	}
	return &ContestSpawner{
		contestRepo: contestRepo,
		idGen:       idGen,
		logger:      logger,
		alerter:     alerter,
		now:         time.Now,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		events:      make(chan contest.SpawnEvent, opts.QueueSize),
		done:        make(chan struct{}),
	}
}

// Enqueue hands off an event without blocking the caller. A full queue
// drops the event; the source contest stays closed either way.
func (s *ContestSpawner) Enqueue(event contest.SpawnEvent) error {
	select {
	case s.events <- event:
		return nil
	default:
		return crdberrors.Newf("spawn queue full, dropping event for contest %s", event.SourceContestID)
	}
}

// Start launches the consumer goroutine. It drains until Stop is called
// or ctx is cancelled.
func (s *ContestSpawner) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-s.events:
				if !ok {
					return
				}
				s.handle(ctx, event)
			}
		}
	}()
}

// Stop closes the intake and waits for the in-flight event to finish.
func (s *ContestSpawner) Stop() {
	s.stopOnce.Do(func() {
		close(s.events)
	})
	<-s.done
}

func (s *ContestSpawner) handle(ctx context.Context, event contest.SpawnEvent) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lastErr = s.spawnOnce(ctx, event)
		if lastErr == nil {
			return
		}
		if crdberrors.Is(lastErr, errSpawnPermanent) {
			break
		}
		s.logger.WarnContext(ctx, "sibling spawn attempt failed",
			"source_contest_id", event.SourceContestID,
			"attempt", attempt,
			"error", lastErr,
		)
		if attempt < s.maxAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.backoff * time.Duration(attempt)):
			}
		}
	}

	s.logger.ErrorContext(ctx, "sibling spawn exhausted retries",
		"source_contest_id", event.SourceContestID,
		"match_id", event.MatchID,
		"error", lastErr,
	)
	if s.alerter != nil {
		alertErr := s.alerter.Alert(ctx, "contest sibling spawn failed", map[string]string{
			"source_contest_id": event.SourceContestID,
			"match_id":          event.MatchID,
			"error":             lastErr.Error(),
		})
		if alertErr != nil {
			s.logger.ErrorContext(ctx, "ops alert delivery failed", "error", alertErr)
		}
	}
}

func (s *ContestSpawner) spawnOnce(ctx context.Context, event contest.SpawnEvent) error {
	contestID, err := s.idGen.NewID()
	if err != nil {
		return crdberrors.Wrap(err, "generate sibling contest id")
	}

	template := contest.Contest{
		MatchID:        event.MatchID,
		Format:         event.Format,
		EntryFee:       event.EntryFee,
		PrizePool:      event.PrizePool,
		TotalSpots:     event.TotalSpots,
		MaxTeamPerUser: event.MaxTeamPerUser,
	}
	sibling := template.Sibling(contestID, s.now().UTC())
	if err := sibling.ValidateEconomics(); err != nil {
		return crdberrors.Mark(crdberrors.Wrap(err, "sibling economics"), errSpawnPermanent)
	}

	if err := s.contestRepo.Create(ctx, sibling); err != nil {
		return crdberrors.Wrapf(err, "create sibling of contest %s", event.SourceContestID)
	}

	s.logger.InfoContext(ctx, "sibling contest spawned",
		"source_contest_id", event.SourceContestID,
		"contest_id", sibling.ID,
		"match_id", sibling.MatchID,
	)
	return nil
}
