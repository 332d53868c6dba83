// Package idempotency remembers the response of a mutating request so a retry with the
// same key replays it instead of repeating the side effects.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
)

var ErrConflict = errors.New("idempotency key conflicts with existing request")

type Store interface {
	Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type entry struct {
	hash     string
	response json.RawMessage
}

// Memory keeps keys for the life of the process.
type Memory struct {
	mu   sync.Mutex
	keys map[string]entry
}

func NewMemory() *Memory {
	return &Memory{keys: make(map[string]entry)}
}

func memoryKey(userID, endpoint, key string) string {
	return userID + "\x00" + endpoint + "\x00" + key
}

func (m *Memory) Check(_ context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.keys[memoryKey(userID, endpoint, key)]
	if !ok {
		return nil, false, nil
	}
	if stored.hash != requestHash {
		return nil, false, ErrConflict
	}
	return stored.response, true, nil
}

func (m *Memory) Save(_ context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memoryKey(userID, endpoint, key)
	if stored, ok := m.keys[k]; ok && stored.hash != requestHash {
		return ErrConflict
	}
	m.keys[k] = entry{hash: requestHash, response: append(json.RawMessage(nil), response...)}
	return nil
}
