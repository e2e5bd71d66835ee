package controllers

import (
	"sync"
	"time"

	"github.com/kendall-kelly/tailoring-orders-portal/views"
)

// Sessions tracks the open orders modal of each signed-in user, keyed by
// token subject. A session unused for longer than the idle timeout is torn
// down the next time the registry is touched.
type Sessions struct {
	mu          sync.Mutex
	opts        views.ListOptions
	idleTimeout time.Duration
	now         func() time.Time
	sessions    map[string]*session
}

type session struct {
	token    string
	list     *views.OrderList
	lastUsed time.Time
}

// NewSessions creates an empty registry. opts is the template for every
// list; its Token is replaced per user. A zero idleTimeout keeps sessions
// until they are closed.
func NewSessions(opts views.ListOptions, idleTimeout time.Duration) *Sessions {
	return &Sessions{
		opts:        opts,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
}

// Open starts a fresh list for userID, tearing down any previous one
func (s *Sessions) Open(userID, token string) *views.OrderList {
	opts := s.opts
	opts.Token = token
	list := views.NewOrderList(opts)

	s.mu.Lock()
	stale := s.evictLocked()
	if prev := s.sessions[userID]; prev != nil {
		stale = append(stale, prev.list)
	}
	s.sessions[userID] = &session{token: token, list: list, lastUsed: s.now()}
	s.mu.Unlock()

	closeLists(stale)
	return list
}

// Get returns the open list for userID. A session opened with a different
// token does not match.
func (s *Sessions) Get(userID, token string) (*views.OrderList, bool) {
	s.mu.Lock()
	stale := s.evictLocked()
	sess, ok := s.sessions[userID]
	if ok && sess.token == token {
		sess.lastUsed = s.now()
	}
	s.mu.Unlock()

	closeLists(stale)
	if !ok || sess.token != token {
		return nil, false
	}
	return sess.list, true
}

// Close tears down the list of userID opened with token and reports whether
// one was open. A different token leaves the session in place.
func (s *Sessions) Close(userID, token string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if ok && sess.token != token {
		ok = false
	}
	if ok {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	if ok {
		sess.list.Close()
	}
	return ok
}

// CloseAll tears down every open list
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range open {
		sess.list.Close()
	}
}

// Len returns the number of open sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictLocked drops idle sessions and returns their lists for closing
// outside the lock
func (s *Sessions) evictLocked() []*views.OrderList {
	if s.idleTimeout <= 0 {
		return nil
	}
	var stale []*views.OrderList
	cutoff := s.now().Add(-s.idleTimeout)
	for userID, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			stale = append(stale, sess.list)
			delete(s.sessions, userID)
		}
	}
	return stale
}

func closeLists(lists []*views.OrderList) {
	for _, list := range lists {
		list.Close()
	}
}
