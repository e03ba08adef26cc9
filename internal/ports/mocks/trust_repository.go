package mocks

import (
	"context"
	"testing"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	"github.com/stretchr/testify/mock"
)

type TrustRepository struct {
	mock.Mock
}

var _ ports.TrustRepository = (*TrustRepository)(nil)

func NewTrustRepository(t *testing.T) *TrustRepository {
	m := &TrustRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TrustRepository) Get(ctx context.Context, address domain.Address) (domain.TrustGrant, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.TrustGrant), args.Error(1)
}

func (m *TrustRepository) List(ctx context.Context) ([]domain.TrustGrant, error) {
	args := m.Called(ctx)
	grants, _ := args.Get(0).([]domain.TrustGrant)
	return grants, args.Error(1)
}

func (m *TrustRepository) Save(ctx context.Context, grant domain.TrustGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *TrustRepository) Delete(ctx context.Context, address domain.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}
