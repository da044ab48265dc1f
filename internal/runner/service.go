package runner

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"formicarium/internal/colony"
	"formicarium/internal/config"
	"formicarium/internal/domain"
	"formicarium/internal/sim"
)

type Store interface {
	CreateRun(ctx context.Context, run domain.Run) error
	AppendSample(ctx context.Context, sample domain.Sample) error
	FinishRun(ctx context.Context, runID string, status domain.RunStatus, generations uint64, stored uint64, finishedAt time.Time) error
}

type Publisher interface {
	Publish(snapshot domain.Snapshot)
}

type Config struct {
	// TickRate throttles the simulation; zero or negative runs unthrottled.
	TickRate time.Duration
	// MaxGenerations caps the run; zero means no cap.
	MaxGenerations uint64
	// SampleInterval is the number of generations between persisted samples.
	SampleInterval int
}

func (c Config) withDefaults() Config {
	if c.SampleInterval <= 0 {
		c.SampleInterval = 100
	}
	return c
}

// Service drives one colony run: it steps the simulation, publishes frames,
// persists periodic samples and records the run outcome.
type Service struct {
	colony *colony.Colony
	store  Store
	bus    Publisher
	cfg    Config
	logger *log.Logger

	runID  string
	seed   int64
	paused atomic.Bool
}

func New(c *colony.Colony, seed int64, store Store, bus Publisher, cfg Config, logger *log.Logger) *Service {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		colony: c,
		store:  store,
		bus:    bus,
		cfg:    cfg,
		logger: logger,
		runID:  uuid.NewString(),
		seed:   seed,
	}
}

// FromConfig assembles a colony from the application configuration and
// wraps it in a service.
func FromConfig(cfg config.Config, store Store, bus Publisher, logger *log.Logger) (*Service, error) {
	c, err := colony.New(colony.Params{
		Dimension: sim.Dimension{
			Width:  cfg.Environment.Width,
			Height: cfg.Environment.Height,
		},
		NestLocation: sim.Location{X: cfg.Nest.X, Y: cfg.Nest.Y},
		Ants:         cfg.Ants.Count,
		AntParams: colony.AntParams{
			MemoryCapacity:     cfg.Ants.MemoryCapacity,
			MaxConcentration:   cfg.Ants.MaxConcentration,
			ConcentrationDecay: cfg.Ants.ConcentrationDecay,
			ReinforceRatio:     cfg.Ants.ReinforceRatio,
		},
		Morsels:      cfg.Morsels.Count,
		MorselSupply: cfg.Morsels.Supply,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	runnerCfg := Config{
		MaxGenerations: cfg.Runner.MaxGenerations,
		SampleInterval: cfg.Runner.SampleInterval,
	}
	if cfg.FPS > 0 {
		runnerCfg.TickRate = time.Second / time.Duration(cfg.FPS)
	}
	return New(c, cfg.Seed, store, bus, runnerCfg, logger), nil
}

// RunID identifies this run in the store.
func (s *Service) RunID() string {
	return s.runID
}

// Pause suspends stepping; the service keeps publishing the last frame.
func (s *Service) Pause() {
	s.paused.Store(true)
}

func (s *Service) Resume() {
	s.paused.Store(false)
}

func (s *Service) Paused() bool {
	return s.paused.Load()
}

// TogglePause flips the paused state and reports the new value.
func (s *Service) TogglePause() bool {
	for {
		old := s.paused.Load()
		if s.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Run steps the colony until every unit of food is home, the generation cap
// is reached or the context is canceled. It always records the outcome.
func (s *Service) Run(ctx context.Context) (domain.Run, error) {
	run := domain.Run{
		ID:          s.runID,
		Seed:        s.seed,
		Ants:        len(s.colony.Ants()),
		Morsels:     len(s.colony.Morsels()),
		TotalSupply: s.colony.TotalSupply(),
		Status:      domain.RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return domain.Run{}, fmt.Errorf("record run start: %w", err)
	}

	s.logger.Printf("run %s started: seed=%d ants=%d supply=%d", s.runID, s.seed, run.Ants, run.TotalSupply)

	var ticker *time.Ticker
	if s.cfg.TickRate > 0 {
		ticker = time.NewTicker(s.cfg.TickRate)
		defer ticker.Stop()
	}

	status := domain.RunStatusRunning
	var runErr error

loop:
	for {
		select {
		case <-ctx.Done():
			status = domain.RunStatusAborted
			break loop
		default:
		}

		if s.paused.Load() {
			s.publish()
			if !s.sleep(ctx, ticker) {
				status = domain.RunStatusAborted
				break loop
			}
			continue
		}

		if err := s.colony.Step(); err != nil {
			status = domain.RunStatusAborted
			runErr = fmt.Errorf("step colony: %w", err)
			break loop
		}

		gen := s.colony.Generation()
		s.publish()

		if gen%uint64(s.cfg.SampleInterval) == 0 {
			s.sample(ctx, gen)
		}

		if s.colony.Over() {
			status = domain.RunStatusCompleted
			break loop
		}
		if s.cfg.MaxGenerations > 0 && gen >= s.cfg.MaxGenerations {
			status = domain.RunStatusTimedOut
			break loop
		}

		if ticker != nil && !s.sleep(ctx, ticker) {
			status = domain.RunStatusAborted
			break loop
		}
	}

	now := time.Now().UTC()
	run.Status = status
	run.Generations = s.colony.Generation()
	run.Stored = s.colony.Stored()
	run.FinishedAt = &now

	finishCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		finishCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.store.FinishRun(finishCtx, s.runID, status, run.Generations, run.Stored, now); err != nil {
		s.logger.Printf("run %s: record finish: %v", s.runID, err)
	}

	s.logger.Printf("run %s finished: status=%s generations=%d stored=%d/%d",
		s.runID, status, run.Generations, run.Stored, run.TotalSupply)
	return run, runErr
}

func (s *Service) sleep(ctx context.Context, ticker *time.Ticker) bool {
	var tick <-chan time.Time
	if ticker != nil {
		tick = ticker.C
	} else {
		timer := time.NewTimer(250 * time.Millisecond)
		defer timer.Stop()
		tick = timer.C
	}
	select {
	case <-ctx.Done():
		return false
	case <-tick:
		return true
	}
}

func (s *Service) sample(ctx context.Context, gen uint64) {
	foraging, carrying := s.colony.Counts()
	err := s.store.AppendSample(ctx, domain.Sample{
		RunID:      s.runID,
		Generation: gen,
		Stored:     s.colony.Stored(),
		Trails:     s.colony.TrailCount(),
		Foraging:   foraging,
		Carrying:   carrying,
	})
	if err != nil {
		s.logger.Printf("run %s: append sample at generation %d: %v", s.runID, gen, err)
	}
}

func (s *Service) publish() {
	if s.bus == nil {
		return
	}
	s.bus.Publish(Snapshot(s.colony))
}

// Snapshot renders the colony's current state into one presentation frame.
func Snapshot(c *colony.Colony) domain.Snapshot {
	dim := c.Dimension()
	foraging, carrying := c.Counts()

	snap := domain.Snapshot{
		Generation:  c.Generation(),
		Width:       dim.Width,
		Height:      dim.Height,
		Stored:      c.Stored(),
		TotalSupply: c.TotalSupply(),
		Over:        c.Over(),
		Foraging:    foraging,
		Carrying:    carrying,
		Trails:      c.TrailCount(),
	}

	for _, marker := range c.Trails() {
		kind := domain.CellKindColonyTrail
		if marker.Scent() == sim.ScentFood {
			kind = domain.CellKindFoodTrail
		}
		loc := marker.Location()
		snap.Cells = append(snap.Cells, domain.Cell{X: loc.X, Y: loc.Y, Kind: kind, Value: marker.Strength()})
	}
	for _, morsel := range c.Morsels() {
		loc := morsel.Location()
		snap.Cells = append(snap.Cells, domain.Cell{X: loc.X, Y: loc.Y, Kind: domain.CellKindMorsel, Value: morsel.Strength()})
	}
	nestLoc := c.Nest().Location()
	snap.Cells = append(snap.Cells, domain.Cell{X: nestLoc.X, Y: nestLoc.Y, Kind: domain.CellKindNest, Value: int(c.Stored())})
	for _, ant := range c.Ants() {
		kind := domain.CellKindAntForaging
		if ant.Activity() == colony.Carrying {
			kind = domain.CellKindAntCarrying
		}
		loc := ant.Location()
		snap.Cells = append(snap.Cells, domain.Cell{X: loc.X, Y: loc.Y, Kind: kind})
	}
	return snap
}
