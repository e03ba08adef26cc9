package ports

import (
	"context"

	"github.com/bnema/solgifs-cli/internal/domain"
)

type Signer interface {
	Address() domain.Address
	Sign(ctx context.Context, message []byte) ([]byte, error)
}

type KeyMaterialSource interface {
	Load(ctx context.Context) (Signer, error)
}
