package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/laureanodiez/tarjeta/internal/card"
	"github.com/laureanodiez/tarjeta/internal/view"
)

// clickBus is the per-session "click outside the card" source granted to
// the card on mount.
type clickBus struct {
	subscribers map[int]func()
	next        int
}

func (b *clickBus) Subscribe(fn func()) func() {
	if b.subscribers == nil {
		b.subscribers = make(map[int]func())
	}
	id := b.next
	b.next++
	b.subscribers[id] = fn
	return func() { delete(b.subscribers, id) }
}

func (b *clickBus) publish() {
	for _, fn := range b.subscribers {
		fn()
	}
}

// session is one visitor's in-memory UI state. Callers hold mu while
// touching any field.
type session struct {
	mu sync.Mutex

	id       string
	card     *card.Machine
	router   view.Router
	clicks   clickBus
	blurred  bool
	selected []string
	lastSeen time.Time

	stream  string
	lastSeq int64
}

func newSession(id string, now time.Time) *session {
	s := &session{id: id, lastSeen: now}
	s.card = card.New(
		card.WithSelectHandler(func(key string) {
			s.router.Select(key)
			s.selected = append(s.selected, key)
		}),
		card.WithFloatingHandler(func(floating bool) {
			s.blurred = floating
		}),
	)
	s.card.Mount(&s.clicks)
	return s
}

// accept reports whether an event numbered seq on stream is newer than
// the last one applied. Unnumbered events are always accepted; a new
// stream (a reloaded page or another tab) restarts the count.
func (s *session) accept(stream string, seq int64) bool {
	if seq <= 0 {
		return true
	}
	if stream != s.stream {
		s.stream, s.lastSeq = stream, 0
	}
	if seq <= s.lastSeq {
		return false
	}
	s.lastSeq = seq
	return true
}

// takeSelections drains the section keys selected since the last call.
func (s *session) takeSelections() []string {
	out := s.selected
	s.selected = nil
	return out
}

// sweepInterval bounds how often expired sessions are scanned for.
const sweepInterval = time.Minute

type sessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// lookup returns the live session for id without creating one.
func (st *sessionStore) lookup(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.liveLocked(id, st.now())
}

// get returns the live session for id, or creates and stores a fresh one
// when id is unknown or expired. created reports the latter.
func (st *sessionStore) get(id string) (s *session, created bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if s, ok := st.liveLocked(id, now); ok {
		return s, false
	}

	newID, err := uuid.NewV7()
	if err != nil {
		newID = uuid.New()
	}
	s = newSession(newID.String(), now)
	st.sessions[s.id] = s
	return s, true
}

func (st *sessionStore) liveLocked(id string, now time.Time) (*session, bool) {
	if now.Sub(st.lastSweep) >= sweepInterval {
		st.sweepLocked(now)
		st.lastSweep = now
	}
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if st.expired(s, now) {
		st.dropLocked(id, s)
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *sessionStore) expired(s *session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(s.lastSeen) > st.ttl
}

func (st *sessionStore) sweepLocked(now time.Time) {
	for id, s := range st.sessions {
		if st.expired(s, now) {
			st.dropLocked(id, s)
		}
	}
}

func (st *sessionStore) dropLocked(id string, s *session) {
	s.mu.Lock()
	s.card.Unmount()
	s.mu.Unlock()
	delete(st.sessions, id)
}
