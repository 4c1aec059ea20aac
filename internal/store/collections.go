package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pbaille/wellness/internal/domain"
)

// Load decodes the collection stored under key.
// A missing key is an empty collection. Malformed content is reset to
// empty and reported as a *domain.ParseError alongside the empty result.
func Load[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return []T{}, err
	}
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || raw == "null" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if resetErr := s.Set(ctx, key, "[]"); resetErr != nil {
			log.Printf("store: reset malformed %s: %v", key, resetErr)
		}
		return []T{}, &domain.ParseError{Key: key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the whole collection under key
func Save[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// Clear removes the collection under key
func Clear(ctx context.Context, s *Store, key string) error {
	return s.Delete(ctx, key)
}

// IsParseError reports whether err is a recoverable decode failure
func IsParseError(err error) bool {
	var perr *domain.ParseError
	return errors.As(err, &perr)
}

// IsUnavailable reports whether err means the write stayed in memory
func IsUnavailable(err error) bool {
	var uerr *domain.StoreUnavailableError
	return errors.As(err, &uerr)
}
