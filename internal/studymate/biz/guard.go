package biz

import (
	"sync"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// sessionGuard coordinates writers and deletion for one session.
// writer serializes store and index commits (single writer per
// session); the inflight counter lets a delete wait for running
// ingest tasks; once deleting is set, no new task can begin.
type sessionGuard struct {
	writer sync.Mutex

	mu       sync.Mutex
	cond     *sync.Cond
	inflight int
	deleting bool
}

func newSessionGuard() *sessionGuard {
	g := &sessionGuard{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// begin registers an ingest task. Fails once deletion has started.
func (g *sessionGuard) begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleting {
		return errors.ErrSessionDeleting
	}
	g.inflight++
	return nil
}

// end unregisters an ingest task.
func (g *sessionGuard) end() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inflight--
	if g.inflight <= 0 {
		g.cond.Broadcast()
	}
}

// beginDelete blocks new tasks and waits until in-flight tasks drain.
// Safe to call more than once.
func (g *sessionGuard) beginDelete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleting = true
	for g.inflight > 0 {
		g.cond.Wait()
	}
}

// guardSet hands out per-session guards. Guards for different
// sessions are independent; no lock spans sessions beyond the map
// itself.
type guardSet struct {
	mu     sync.Mutex
	guards map[string]*sessionGuard
}

func newGuardSet() *guardSet {
	return &guardSet{guards: make(map[string]*sessionGuard)}
}

func (s *guardSet) get(sessionID string) *sessionGuard {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guards[sessionID]
	if !ok {
		g = newSessionGuard()
		s.guards[sessionID] = g
	}
	return g
}

// drop removes a session's guard after its delete cascade completes.
func (s *guardSet) drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.guards, sessionID)
}
