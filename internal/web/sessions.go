package web

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/officespace/internal/popup"
)

// DefaultSessionTTL is how long an untouched popup session lives.
const DefaultSessionTTL = 30 * time.Minute

// ErrNoSession is returned for an unknown or expired session id.
var ErrNoSession = errors.New("popup session not found")

// session is one browser tab's dialog. confirmed carries the client's
// answer to the delete prompt into the machine.
type session struct {
	mu        sync.Mutex
	machine   *popup.Machine
	confirmed bool
	lastUsed  time.Time
}

// Sessions holds popup dialogs keyed by id.
type Sessions struct {
	mu     sync.Mutex
	target popup.Target
	ttl    time.Duration
	now    func() time.Time
	byID   map[string]*session
}

// NewSessions creates a registry whose dialogs edit target.
func NewSessions(target popup.Target, ttl time.Duration) *Sessions {
	return &Sessions{
		target: target,
		ttl:    ttl,
		now:    time.Now,
		byID:   make(map[string]*session),
	}
}

// Create starts a closed dialog and returns its id.
func (s *Sessions) Create() string {
	sess := &session{}
	sess.machine = popup.New(s.target, popup.ConfirmFunc(func(string) bool { return sess.confirmed }))

	id := uuid.NewString()
	s.mu.Lock()
	sess.lastUsed = s.now()
	s.byID[id] = sess
	s.mu.Unlock()
	return id
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// do runs fn with exclusive use of the session and refreshes its idle
// timer.
func (s *Sessions) do(id string, fn func(sess *session) error) error {
	s.mu.Lock()
	sess, ok := s.byID[id]
	if ok && s.expired(sess, s.now()) {
		delete(s.byID, id)
		ok = false
	}
	if ok {
		sess.lastUsed = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrNoSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped.
func (s *Sessions) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.byID {
		if s.expired(sess, now) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

func (s *Sessions) expired(sess *session, now time.Time) bool {
	return now.Sub(sess.lastUsed) > s.ttl
}
