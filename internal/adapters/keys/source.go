package keys

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
)

var ErrKeyExists = errors.New("key already stored")

// SecretSource keeps a keypair in a secret store under a fixed reference.
type SecretSource struct {
	store ports.SecretStore
	ref   string
}

var _ ports.KeyMaterialSource = (*SecretSource)(nil)

func NewSecretSource(store ports.SecretStore, ref string) *SecretSource {
	return &SecretSource{store: store, ref: ref}
}

func (s *SecretSource) Load(ctx context.Context) (ports.Signer, error) {
	raw, err := s.store.Get(ctx, s.ref)
	if err != nil {
		return nil, fmt.Errorf("load key %q: %w", s.ref, err)
	}

	keypair, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("load key %q: %w", s.ref, err)
	}
	return keypair, nil
}

// Generate creates and stores a fresh keypair. An existing key is kept
// unless replace is set.
func (s *SecretSource) Generate(ctx context.Context, replace bool) (*Keypair, error) {
	keypair, err := Generate()
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, keypair, replace); err != nil {
		return nil, err
	}
	return keypair, nil
}

func (s *SecretSource) Import(ctx context.Context, raw string, replace bool) (*Keypair, error) {
	keypair, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, keypair, replace); err != nil {
		return nil, err
	}
	return keypair, nil
}

func (s *SecretSource) put(ctx context.Context, keypair *Keypair, replace bool) error {
	if !replace {
		_, err := s.store.Get(ctx, s.ref)
		switch {
		case err == nil:
			return fmt.Errorf("%w at %q", ErrKeyExists, s.ref)
		case !errors.Is(err, domain.ErrSecretNotFound):
			return fmt.Errorf("check key %q: %w", s.ref, err)
		}
	}

	if err := s.store.Put(ctx, s.ref, keypair.MarshalKeygen()); err != nil {
		return fmt.Errorf("store key %q: %w", s.ref, err)
	}
	return nil
}
