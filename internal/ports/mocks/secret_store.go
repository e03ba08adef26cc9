package mocks

import (
	"context"
	"testing"

	"github.com/bnema/solgifs-cli/internal/ports"
	"github.com/stretchr/testify/mock"
)

type SecretStore struct {
	mock.Mock
}

var _ ports.SecretStore = (*SecretStore)(nil)

// NewSecretStore registers an expectation check on test cleanup.
func NewSecretStore(t *testing.T) *SecretStore {
	m := &SecretStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecretStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *SecretStore) Put(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *SecretStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
