package snapshot

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/pkg/rtlog"
)

// StatsSource is the subset of a Runtime the periodic recorder samples.
type StatsSource interface {
	Stats() core.Stats
	Phase() core.Phase
}

// Scheduler drives periodic Store.Record calls at a fixed interval,
// grounded on the single-scheduler-instance pattern internal/taskManager
// uses for its own periodic jobs — one gocron.Scheduler running however
// many registered jobs a host needs, started and shut down together.
type Scheduler struct {
	sched gocron.Scheduler
	log   *rtlog.Logger
}

// NewScheduler constructs a Scheduler. Call RegisterPeriodicSnapshot (and
// any other jobs) before Start.
func NewScheduler(log *rtlog.Logger) (*Scheduler, error) {
	if log == nil {
		log = rtlog.Default
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{sched: s, log: log}, nil
}

// RegisterPeriodicSnapshot records src's Stats/Phase into store every
// interval.
func (s *Scheduler) RegisterPeriodicSnapshot(store *Store, src StatsSource, interval time.Duration) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := store.Record(context.Background(), recordedAt(), src.Stats(), src.Phase()); err != nil {
				s.log.Warnf("snapshot: periodic record failed: %v", err)
			}
		}),
	)
	return err
}

func recordedAt() time.Time {
	return time.Now()
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
