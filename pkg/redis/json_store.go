package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	setStoreValue = Set
	getStoreValue = Get
	delStoreValue = Del
)

// JSONStore keeps JSON encoded values under a common key prefix
type JSONStore struct {
	prefix string
}

// NewJSONStore creates a store whose keys start with prefix
func NewJSONStore(prefix string) *JSONStore {
	return &JSONStore{prefix: prefix}
}

func (s *JSONStore) key(k string) string {
	return s.prefix + ":" + k
}

// Put stores v under k for ttl
func (s *JSONStore) Put(ctx context.Context, k string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", k, err)
	}
	return setStoreValue(ctx, s.key(k), data, ttl)
}

// Fetch decodes the value under k into dst. It reports false on a miss.
func (s *JSONStore) Fetch(ctx context.Context, k string, dst interface{}) (bool, error) {
	raw, err := getStoreValue(ctx, s.key(k))
	if err != nil {
		if errors.Is(err, Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", k, err)
	}
	return true, nil
}

// Delete removes the value under k
func (s *JSONStore) Delete(ctx context.Context, k string) error {
	return delStoreValue(ctx, s.key(k))
}
