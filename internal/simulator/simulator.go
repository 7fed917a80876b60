// Package simulator drives the recurring activity loop for deployed
// strategies: rotating status messages, synthesized scan counters, and
// occasional trade synthesis.
package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trade-station/internal/deploy"
	"github.com/yourusername/trade-station/internal/metrics"
	"github.com/yourusername/trade-station/internal/models"
)

// DefaultTradeProbability is the per-strategy chance of a trade synthesis
// attempt on each tick. Carried over from the source system.
const DefaultTradeProbability = 0.08

// Source supplies the simulator's randomness. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Publisher receives activity updates after each tick, e.g. a websocket hub
type Publisher interface {
	PublishActivity(state models.ActivityState)
}

// Config controls the simulator schedule
type Config struct {
	MinInterval      time.Duration
	MaxInterval      time.Duration
	TradeProbability float64
}

// DefaultConfig returns the source system's schedule: a randomized interval
// in [3s, 5s) and an 8% trade chance per strategy per tick.
func DefaultConfig() Config {
	return Config{
		MinInterval:      3 * time.Second,
		MaxInterval:      5 * time.Second,
		TradeProbability: DefaultTradeProbability,
	}
}

// ActivitySimulator is the explicitly owned scheduler driving the activity
// loop. Its lifecycle (Start/Stop) is owned by whatever composes it.
type ActivitySimulator struct {
	config      Config
	store       *deploy.Store
	board       *Board
	synthesizer *Synthesizer
	publisher   Publisher
	rng         Source
	logger      *logrus.Logger
	done        chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
}

// NewActivitySimulator creates a simulator. A nil rng gets a time-seeded
// source; a nil publisher disables broadcasting.
func NewActivitySimulator(
	config Config,
	store *deploy.Store,
	board *Board,
	synthesizer *Synthesizer,
	publisher Publisher,
	rng Source,
	logger *logrus.Logger,
) *ActivitySimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logrus.New()
	}
	if config.MinInterval <= 0 || config.MaxInterval <= config.MinInterval {
		config = DefaultConfig()
	}
	if config.TradeProbability <= 0 {
		config.TradeProbability = DefaultTradeProbability
	}
	return &ActivitySimulator{
		config:      config,
		store:       store,
		board:       board,
		synthesizer: synthesizer,
		publisher:   publisher,
		rng:         rng,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Start launches the recurring timer loop
func (s *ActivitySimulator) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"min_interval":      s.config.MinInterval,
		"max_interval":      s.config.MaxInterval,
		"trade_probability": s.config.TradeProbability,
	}).Info("Activity simulator started")

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop clears the recurring timer and waits for the loop to exit. In-flight
// collaborator calls are not forcibly cancelled; their late results are
// discarded by the store's running-only update path.
func (s *ActivitySimulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Activity simulator stopped")
}

// Board returns the activity board for read access
func (s *ActivitySimulator) Board() *Board {
	return s.board
}

func (s *ActivitySimulator) loop(ctx context.Context) {
	defer s.wg.Done()

	timer := time.NewTimer(s.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Activity loop stopped by context")
			return
		case <-s.done:
			s.logger.Info("Activity loop stopped")
			return
		case <-timer.C:
			s.Tick(ctx)
			timer.Reset(s.nextInterval())
		}
	}
}

// nextInterval draws a randomized interval in [MinInterval, MaxInterval)
func (s *ActivitySimulator) nextInterval() time.Duration {
	spread := s.config.MaxInterval - s.config.MinInterval
	return s.config.MinInterval + time.Duration(s.rng.Float64()*float64(spread))
}

// Tick runs one activity iteration across all running strategies. Ticks
// for a given timer are strictly sequential; strategies are processed in
// store order.
func (s *ActivitySimulator) Tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.TickDuration.Observe(time.Since(start).Seconds())
	}()

	all := s.store.List()
	keep := make(map[uuid.UUID]struct{}, len(all))
	running := 0
	openPnL := 0.0

	for _, strategy := range all {
		keep[strategy.ID] = struct{}{}
		openPnL += strategy.PnL
		if !strategy.IsRunning() {
			// Suspended: the activity record is retained but frozen.
			continue
		}
		running++

		if _, ok := s.board.Get(strategy.ID); !ok {
			s.seed(strategy)
		}

		s.board.Set(models.ActivityState{
			StrategyID:         strategy.ID,
			Message:            s.pickMessage(strategy),
			MarketsScanned:     10 + s.rng.Intn(50),
			OpportunitiesFound: s.rng.Intn(5),
			LastActive:         time.Now().UTC(),
		})

		if s.rng.Float64() < s.config.TradeProbability {
			// Fire and forget; the synthesizer catches every failure.
			s.synthesizer.Execute(ctx, strategy)
		}

		if state, ok := s.board.Get(strategy.ID); ok && s.publisher != nil {
			s.publisher.PublishActivity(state)
		}
	}

	s.board.Prune(keep)

	metrics.ActivityTicksTotal.Inc()
	metrics.RunningStrategies.Set(float64(running))
	metrics.DeployedStrategies.Set(float64(len(all)))
	metrics.OpenPnL.Set(openPnL)
}

// seed creates the initial activity record for a newly running strategy,
// before the timer's first tick touches it.
func (s *ActivitySimulator) seed(strategy *models.DeployedStrategy) {
	s.board.Set(models.ActivityState{
		StrategyID:         strategy.ID,
		Message:            rotatingMessages[0],
		MarketsScanned:     5 + s.rng.Intn(30),
		OpportunitiesFound: 0,
		LastActive:         time.Now().UTC(),
	})
}

// pickMessage selects uniformly from the union of the fixed rotating set
// and the strategy's market-specific messages.
func (s *ActivitySimulator) pickMessage(strategy *models.DeployedStrategy) models.ActivityMessage {
	pool := append(append([]models.ActivityMessage(nil), rotatingMessages...), marketMessages(strategy.Markets)...)
	return pool[s.rng.Intn(len(pool))]
}
