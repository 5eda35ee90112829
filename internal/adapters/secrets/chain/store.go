// Package chain queries several secret stores in order.
package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/sentra-emo/internal/adapters/secrets/file"
	passstore "github.com/bnema/sentra-emo/internal/adapters/secrets/pass"
	"github.com/bnema/sentra-emo/internal/ports"
)

// Store reads from the first backend that has the key, writes to the first backend that
// accepts the value and deletes from every backend.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret chain has no backends")

func NewStore(backends ...ports.SecretStore) (*Store, error) {
	kept := make([]ports.SecretStore, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return nil, errNoBackends
	}

	return &Store{backends: kept}, nil
}

// NewTokenStore prefers pass and falls back to plain files under fileRoot.
func NewTokenStore(fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(passstore.DefaultPrefix), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	errs := make([]error, 0, len(s.backends))
	for i, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldStop(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d put: %w", i, err))
	}

	return errors.Join(errs...)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	errs := make([]error, 0, len(s.backends))
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldStop(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend %d get: %w", i, err))
	}

	return "", errors.Join(errs...)
}

// Delete succeeds when at least one backend removed the key, so an unreachable pass does not
// block cleaning up the file copy.
func (s *Store) Delete(ctx context.Context, key string) error {
	errs := make([]error, 0, len(s.backends))
	removed := false
	for i, backend := range s.backends {
		err := backend.Delete(ctx, key)
		if err == nil {
			removed = true
			continue
		}
		if shouldStop(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d delete: %w", i, err))
	}
	if removed {
		return nil
	}

	return errors.Join(errs...)
}

func shouldStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
