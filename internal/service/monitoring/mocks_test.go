package monitoring

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Get(ctx context.Context, userID string) (*monitoring.UserActivitySession, error) {
	args := m.Called(ctx, userID)
	if session := args.Get(0); session != nil {
		return session.(*monitoring.UserActivitySession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionStore) Put(ctx context.Context, session *monitoring.UserActivitySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

type mockEventStore struct {
	mock.Mock
}

func (m *mockEventStore) Append(ctx context.Context, event *monitoring.SecurityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventStore) ListByUser(ctx context.Context, userID string, since time.Time) ([]*monitoring.SecurityEvent, error) {
	args := m.Called(ctx, userID, since)
	if events := args.Get(0); events != nil {
		return events.([]*monitoring.SecurityEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventStore) CountByTypeSince(ctx context.Context, since time.Time) (map[monitoring.EventType]int, error) {
	args := m.Called(ctx, since)
	if counts := args.Get(0); counts != nil {
		return counts.(map[monitoring.EventType]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventStore) DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, userID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEventStore) DeleteExcess(ctx context.Context, userID string, keep int) (int64, error) {
	args := m.Called(ctx, userID, keep)
	return args.Get(0).(int64), args.Error(1)
}

type mockErrorLog struct {
	mock.Mock
}

func (m *mockErrorLog) Append(ctx context.Context, entry *monitoring.ErrorLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// In-memory fakes for behavioral tests that drive many records through the
// engine. Safe for concurrent use.

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*monitoring.UserActivitySession
	getErr   error
	putErr   error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*monitoring.UserActivitySession)}
}

func (s *memSessionStore) Get(_ context.Context, userID string) (*monitoring.UserActivitySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := *session
	copied.Activities = append([]monitoring.ActivityEvent(nil), session.Activities...)
	return &copied, nil
}

func (s *memSessionStore) Put(_ context.Context, session *monitoring.UserActivitySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	copied := *session
	copied.Activities = append([]monitoring.ActivityEvent(nil), session.Activities...)
	s.sessions[session.UserID] = &copied
	return nil
}

type memEventStore struct {
	mu        sync.Mutex
	events    []*monitoring.SecurityEvent
	appendErr error
	countErr  error
}

func newMemEventStore() *memEventStore {
	return &memEventStore{}
}

func (s *memEventStore) Append(_ context.Context, event *monitoring.SecurityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.events = append(s.events, event)
	return nil
}

func (s *memEventStore) ListByUser(_ context.Context, userID string, since time.Time) ([]*monitoring.SecurityEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*monitoring.SecurityEvent
	for _, event := range s.events {
		if event.UserID == userID && !event.Timestamp.Before(since) {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *memEventStore) CountByTypeSince(_ context.Context, since time.Time) (map[monitoring.EventType]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return nil, s.countErr
	}
	counts := make(map[monitoring.EventType]int)
	for _, event := range s.events {
		if !event.Timestamp.Before(since) {
			counts[event.Type]++
		}
	}
	return counts, nil
}

func (s *memEventStore) DeleteOlderThan(_ context.Context, userID string, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	var removed int64
	for _, event := range s.events {
		if event.UserID == userID && event.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, event)
	}
	s.events = kept
	return removed, nil
}

func (s *memEventStore) DeleteExcess(_ context.Context, userID string, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owned []*monitoring.SecurityEvent
	for _, event := range s.events {
		if event.UserID == userID {
			owned = append(owned, event)
		}
	}
	if len(owned) <= keep {
		return 0, nil
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Timestamp.Before(owned[j].Timestamp) })
	drop := make(map[*monitoring.SecurityEvent]struct{}, len(owned)-keep)
	for _, event := range owned[:len(owned)-keep] {
		drop[event] = struct{}{}
	}
	kept := s.events[:0]
	for _, event := range s.events {
		if _, gone := drop[event]; gone {
			continue
		}
		kept = append(kept, event)
	}
	s.events = kept
	return int64(len(drop)), nil
}

func (s *memEventStore) byType(t monitoring.EventType) []*monitoring.SecurityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*monitoring.SecurityEvent
	for _, event := range s.events {
		if event.Type == t {
			out = append(out, event)
		}
	}
	return out
}

type memErrorLog struct {
	mu      sync.Mutex
	entries []*monitoring.ErrorLogEntry
}

func newMemErrorLog() *memErrorLog {
	return &memErrorLog{}
}

func (l *memErrorLog) Append(_ context.Context, entry *monitoring.ErrorLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func (l *memErrorLog) byKind(kind string) []*monitoring.ErrorLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*monitoring.ErrorLogEntry
	for _, entry := range l.entries {
		if entry.Kind == kind {
			out = append(out, entry)
		}
	}
	return out
}
