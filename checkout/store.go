package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"gestaorh-checkout-api/models"
)

// SessionTTL limita quanto tempo dados de cartão ficam no Redis. Sessão que
// expira obriga o usuário a recomeçar o assistente.
const SessionTTL = 30 * time.Minute

var ErrSessionNotFound = errors.New("checkout session not found")

type Store interface {
	Get(ctx context.Context, id string) (*models.CheckoutSession, error)
	Save(ctx context.Context, session *models.CheckoutSession) error
	Delete(ctx context.Context, id string) error
}

// RedisStore guarda sessões serializadas em JSON sob checkout:session:<id>
// com TTL renovado a cada Save.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id string) string {
	return "checkout:session:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.CheckoutSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error fetching checkout session: %v", err)
	}

	var session models.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("error decoding checkout session: %v", err)
	}

	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *models.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error encoding checkout session: %v", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, SessionTTL).Err(); err != nil {
		return fmt.Errorf("error saving checkout session: %v", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("error deleting checkout session: %v", err)
	}
	return nil
}

// MemoryStore existe para os testes. Guarda cópias para que mutações fora de
// um Save não vazem para o estado armazenado.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]models.CheckoutSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.CheckoutSession)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := session
	return &copied, nil
}

func (s *MemoryStore) Save(ctx context.Context, session *models.CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
