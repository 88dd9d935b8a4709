package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dedeku/tinicoach/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// Each session lives at sessionPrefix+token with a TTL; the token is also a
// member of a per-account set so every session of an account can be dropped
// at once (password reset, logout-all, account deletion).
type SessionRepositoryImpl struct {
	client        *redis.Client
	sessionPrefix string
	accountPrefix string
	ttl           time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client:        client,
		sessionPrefix: "session:",
		accountPrefix: "account-sessions:",
		ttl:           ttl,
	}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := r.sessionPrefix + session.Token
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return err
	}

	accountKey := r.accountKey(session.AccountID)
	if err := r.client.SAdd(ctx, accountKey, session.Token).Err(); err != nil {
		return err
	}
	// The index may not outlive its longest session.
	return r.client.Expire(ctx, accountKey, r.ttl).Err()
}

// FindByToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.sessionPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, token string) error {
	// Look up the session first so the account index stays consistent.
	session, err := r.FindByToken(ctx, token)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil
		}
		return err
	}

	if err := r.client.Del(ctx, r.sessionPrefix+token).Err(); err != nil {
		return err
	}
	return r.client.SRem(ctx, r.accountKey(session.AccountID), token).Err()
}

// DeleteAllForAccount implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteAllForAccount(ctx context.Context, accountID uint) error {
	accountKey := r.accountKey(accountID)

	tokens, err := r.client.SMembers(ctx, accountKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, r.sessionPrefix+token)
	}
	keys = append(keys, accountKey)

	return r.client.Del(ctx, keys...).Err()
}

func (r *SessionRepositoryImpl) accountKey(accountID uint) string {
	return fmt.Sprintf("%s%d", r.accountPrefix, accountID)
}
