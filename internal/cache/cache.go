// Package cache stores serialized tool responses keyed by a hash of the
// tool name and its params as sent.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is the interface for response persistence.
type Cache interface {
	// Get returns the stored value or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, overwriting if it exists.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases resources.
	Close() error
}

// Key hashes a tool name and its params. encoding/json sorts map keys, so
// equal params always give equal keys.
func Key(tool string, params map[string]interface{}) (string, error) {
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal params: %w", err)
	}
	sum := sha256.Sum256(append([]byte(tool+"\x00"), b...))
	return tool + ":" + hex.EncodeToString(sum[:]), nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }
func (Nop) Set(context.Context, string, []byte) error   { return nil }
func (Nop) Close() error                                { return nil }
