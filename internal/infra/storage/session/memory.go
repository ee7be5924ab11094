package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore хранит сессии мастера записи в памяти процесса.
// Сессия лежит в том же JSON, что и в Redis, поэтому Get всегда отдает
// независимую копию, включая снимок и срезы.
// Просроченные сессии не отдаются и удаляются периодической очисткой.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
	cron  *cron.Cron
}

// NewMemoryStore создает хранилище в памяти
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get возвращает сессию по ID
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.BookingSession, error) {
	s.mu.RLock()
	e, ok := s.items[id]
	expired := ok && !s.now().Before(e.expiresAt)
	s.mu.RUnlock()

	if !ok || expired {
		return nil, ErrSessionNotFound
	}

	var session domain.BookingSession
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, fmt.Errorf("%w: Get: %v", ErrDecode, err)
	}

	return &session, nil
}

// Save сохраняет сессию и продлевает ее срок жизни
func (s *MemoryStore) Save(_ context.Context, session domain.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Save: %v", ErrEncode, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[session.ID] = entry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Delete удаляет сессию
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// Cleanup удаляет просроченные сессии и возвращает их количество
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.items {
		if !now.Before(e.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// StartJanitor запускает очистку по cron-расписанию (например "@every 1m")
func (s *MemoryStore) StartJanitor(spec string, log Logger) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if removed := s.Cleanup(); removed > 0 {
			log.Info("Session janitor: removed %d expired sessions", removed)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	s.cron = c
	return nil
}

// Close останавливает очистку
func (s *MemoryStore) Close() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	return nil
}
