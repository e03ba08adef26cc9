package ports

import (
	"context"

	"github.com/bnema/solgifs-cli/internal/domain"
)

type ConnectOptions struct {
	// OnlyIfTrusted fails with domain.ErrNotTrusted instead of asking the
	// user when the wallet never approved this app.
	OnlyIfTrusted bool
}

type MessageSigner interface {
	SignMessage(ctx context.Context, address domain.Address, message []byte) ([]byte, error)
}

type WalletProvider interface {
	MessageSigner
	Available(ctx context.Context) bool
	Connect(ctx context.Context, opts ConnectOptions) (domain.Address, error)
	Disconnect(ctx context.Context) error
}
