package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
)

// Store keeps sessions in memory. A session is dropped after ttl without
// access, or when size newer sessions push it out.
type Store struct {
	client   client.Client
	reporter FailureReporter
	sessions *expirable.LRU[string, *Session]
}

// NewStore creates an empty session store. reporter may be nil.
func NewStore(c client.Client, reporter FailureReporter, size int, ttl time.Duration) *Store {
	logger := config.GetLogger()
	onEvict := func(id string, _ *Session) {
		metrics.ActiveSessions.Dec()
		logger.Debug().Str("session", id).Msg("Session evicted")
	}
	return &Store{
		client:   c,
		reporter: reporter,
		sessions: expirable.NewLRU[string, *Session](size, onEvict, ttl),
	}
}

// Get returns the session stored under id and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s.sessions.Add(id, sess)
	return sess, true
}

// Create starts a new session under a random id.
func (s *Store) Create() (*Session, error) {
	sess, err := NewSession(uuid.NewString(), s.client, s.reporter)
	if err != nil {
		return nil, err
	}
	s.sessions.Add(sess.ID, sess)
	metrics.ActiveSessions.Inc()
	return sess, nil
}

// GetOrCreate returns the session stored under id, or a new session when id is unknown or expired.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool, err error) {
	if sess, ok := s.Get(id); ok {
		return sess, false, nil
	}
	sess, err = s.Create()
	return sess, err == nil, err
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.sessions.Len()
}
