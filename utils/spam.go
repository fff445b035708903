package utils

import (
	"strings"
	"sync"
	"time"
)

// SpamGate is the yes/no gate consulted before a card submission is accepted.
// The production heuristics live in an external middleware service; the
// default implementation below only blocks a session from re-submitting
// near-identical text within a short window.
type SpamGate interface {
	Allow(sessionId, text string) bool
}

// RecentSubmissionGate remembers each session's last submissions for a window
// and rejects repeats.
type RecentSubmissionGate struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]map[string]time.Time // session -> normalized text -> time
}

func NewRecentSubmissionGate(window time.Duration) *RecentSubmissionGate {
	return &RecentSubmissionGate{
		window: window,
		seen:   make(map[string]map[string]time.Time),
	}
}

func (g *RecentSubmissionGate) Allow(sessionId, text string) bool {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	recent, ok := g.seen[sessionId]
	if !ok {
		recent = make(map[string]time.Time)
		g.seen[sessionId] = recent
	}
	for old, when := range recent {
		if now.Sub(when) > g.window {
			delete(recent, old)
		}
	}
	if _, dup := recent[normalized]; dup {
		return false
	}
	recent[normalized] = now
	return true
}
