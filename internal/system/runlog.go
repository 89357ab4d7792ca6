package system

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/cudagame/cudasim/internal/core/event"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/persist"
	"github.com/cudagame/cudasim/internal/world"
)

// RunLog is the sink RunLogSystem writes to. *persist.RunLog implements it.
type RunLog interface {
	WriteDeaths(ctx context.Context, deaths []persist.DeathRow) error
	WriteSnapshot(ctx context.Context, s persist.SnapshotRow) error
}

// RunLogSystem forwards character deaths and periodic stats snapshots to a
// RunLog. Deaths are buffered and written with each snapshot.
// Priority 5 (Persist).
type RunLogSystem struct {
	world     *world.State
	sink      RunLog
	log       *zap.Logger
	interval  int // snapshot every N ticks
	tickCount int
	timeout   time.Duration
	deaths    []persist.DeathRow
}

func NewRunLogSystem(ws *world.State, sink RunLog, intervalTicks int) *RunLogSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	s := &RunLogSystem{
		world:    ws,
		sink:     sink,
		log:      ws.Log(),
		interval: intervalTicks,
		timeout:  5 * time.Second,
	}
	event.Subscribe(ws.Bus, func(ev event.CharacterDied) {
		s.deaths = append(s.deaths, persist.DeathRow{
			Tick:   ws.Tick(),
			Entity: uint64(ev.Entity),
			Name:   ev.Name,
		})
	})
	return s
}

func (s *RunLogSystem) Name() string               { return "run_log" }
func (s *RunLogSystem) Priority() coresys.Priority { return coresys.PriorityPersist }

func (s *RunLogSystem) Update(_ time.Duration) error {
	s.tickCount++
	if s.tickCount < s.interval {
		return nil
	}
	s.tickCount = 0
	return s.Flush()
}

// Flush writes buffered deaths and a snapshot immediately. Called by the
// driver on shutdown so the tail of a run is not lost.
func (s *RunLogSystem) Flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var errs error
	if len(s.deaths) > 0 {
		if err := s.sink.WriteDeaths(ctx, s.deaths); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			s.deaths = s.deaths[:0]
		}
	}

	st := s.world.Stats()
	if err := s.sink.WriteSnapshot(ctx, persist.SnapshotRow{
		Tick:       st.Tick,
		Entities:   st.Entities,
		Characters: st.Characters,
		Alive:      st.Alive,
		Spawned:    st.Spawned,
		Destroyed:  st.Destroyed,
		Failures:   st.Failures,
	}); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		s.log.Warn("run log write failed", zap.Int("buffered_deaths", len(s.deaths)), zap.Error(errs))
	}
	return errs
}
