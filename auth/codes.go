package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeLength is the number of digits in a confirmation code
	CodeLength = 6

	codeKeyPrefix = "yamdb:confirmation:"
)

var (
	// ErrCodeNotFound is returned when no code is pending for the user or it has expired
	ErrCodeNotFound = errors.New("confirmation code not found or expired")
	// ErrCodeMismatch is returned when the presented code does not match the stored hash
	ErrCodeMismatch = errors.New("confirmation code does not match")
)

var codeUpperBound = big.NewInt(1_000_000)

// GenerateCode returns a random zero-padded numeric confirmation code
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeUpperBound)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// CodeStore keeps bcrypt hashes of pending confirmation codes in Redis
type CodeStore struct {
	client *redis.Client
	ttl    time.Duration
	cost   int
	logger *zap.Logger
}

// NewCodeStore creates a new CodeStore
func NewCodeStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CodeStore {
	return &CodeStore{
		client: client,
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		logger: logger,
	}
}

func (s *CodeStore) key(username string) string {
	return codeKeyPrefix + username
}

// Save stores the code for the user, replacing any pending one
func (s *CodeStore) Save(ctx context.Context, username, code string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error before redis set: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}

	if err := s.client.Set(ctx, s.key(username), hash, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	s.logger.Debug("confirmation code stored",
		zap.String("username", username),
		zap.Duration("ttl", s.ttl))
	return nil
}

// Consume verifies the code and deletes it on success.
// A mismatch leaves the pending code in place.
func (s *CodeStore) Consume(ctx context.Context, username, code string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error before redis get: %w", err)
	}

	hash, err := s.client.Get(ctx, s.key(username)).Bytes()
	if err == redis.Nil {
		return ErrCodeNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(code)); err != nil {
		return ErrCodeMismatch
	}

	deleted, err := s.client.Del(ctx, s.key(username)).Result()
	if err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	// a concurrent request consumed it first
	if deleted == 0 {
		return ErrCodeNotFound
	}
	return nil
}

// Ping checks connectivity to Redis
func (s *CodeStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
