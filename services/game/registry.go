package game

import (
	"fmt"
	"log"
	"sync"
	"time"

	"cardparty/services/catalog"

	"github.com/go-co-op/gocron/v2"
)

// RegistryConfig carries the per-party game settings.
type RegistryConfig struct {
	HandSize    int
	RoundLength time.Duration
	Expansion   string
	PartyTTL    time.Duration
}

// Registry maps party codes to live Game instances. It is the only piece of
// process-wide mutable state; abandoned parties are reclaimed by a periodic
// idle sweep instead of growing the map forever.
type Registry struct {
	mu      sync.Mutex
	games   map[string]*Game
	catalog *catalog.Service
	cfg     RegistryConfig
	sched   gocron.Scheduler
}

func NewRegistry(catalogService *catalog.Service, cfg RegistryConfig) *Registry {
	return &Registry{
		games:   make(map[string]*Game),
		catalog: catalogService,
		cfg:     cfg,
	}
}

// Get returns the live Game for a party code, if one exists.
func (r *Registry) Get(partyCode string) (*Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[partyCode]
	return g, ok
}

// GetOrCreate resolves a party code to its Game, creating the engine and
// drawing its decks from the catalog on first use. Every caller for the same
// code gets the same in-memory instance.
func (r *Registry) GetOrCreate(partyCode string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.games[partyCode]; ok {
		return g, nil
	}

	answerDeck, err := r.catalog.GetShuffledAnswerCards(r.cfg.Expansion)
	if err != nil {
		return nil, fmt.Errorf("error drawing answer deck: %v", err)
	}
	promptDeck, err := r.catalog.GetShuffledPromptCards(r.cfg.Expansion, 0)
	if err != nil {
		return nil, fmt.Errorf("error drawing prompt deck: %v", err)
	}

	g := NewGame(partyCode, answerDeck, promptDeck, r.cfg.HandSize, r.cfg.RoundLength, r.catalog)
	r.games[partyCode] = g
	log.Printf("[REGISTRY] Party %s created (answer deck %d, prompt deck %d)",
		partyCode, len(answerDeck), len(promptDeck))
	return g, nil
}

// SweepIdleParties evicts every party whose last activity is older than the
// configured TTL. Returns the number of evicted parties.
func (r *Registry) SweepIdleParties() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	cutoff := time.Now().Add(-r.cfg.PartyTTL)
	for code, g := range r.games {
		if g.LastActivity().Before(cutoff) {
			if err := g.EndRound(); err != nil && err != ErrNoRound {
				log.Printf("[REGISTRY-ERROR] Party %s: closing round on eviction: %v", code, err)
			}
			delete(r.games, code)
			evicted++
			log.Printf("[REGISTRY] Party %s evicted after idling", code)
		}
	}
	return evicted
}

// StartSweeper schedules the idle sweep every minute.
func (r *Registry) StartSweeper() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("error creating sweep scheduler: %v", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if n := r.SweepIdleParties(); n > 0 {
				log.Printf("[REGISTRY] Sweep reclaimed %d idle parties", n)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("error scheduling party sweep: %v", err)
	}
	sched.Start()
	r.sched = sched
	return nil
}

// Stop shuts the sweep scheduler down.
func (r *Registry) Stop() {
	if r.sched != nil {
		if err := r.sched.Shutdown(); err != nil {
			log.Printf("[REGISTRY-ERROR] Shutting down sweeper: %v", err)
		}
	}
}
