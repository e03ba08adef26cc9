package ports

import (
	"context"

	"github.com/bnema/solgifs-cli/internal/domain"
)

type TrustRepository interface {
	Get(ctx context.Context, address domain.Address) (domain.TrustGrant, error)
	List(ctx context.Context) ([]domain.TrustGrant, error)
	Save(ctx context.Context, grant domain.TrustGrant) error
	Delete(ctx context.Context, address domain.Address) error
}
