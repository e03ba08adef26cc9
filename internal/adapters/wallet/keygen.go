package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bnema/solgifs-cli/internal/adapters/keys"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	"go.uber.org/zap"
)

// ApproveFunc asks the user whether this app may use the wallet at address.
type ApproveFunc func(ctx context.Context, address domain.Address) (bool, error)

// KeygenWallet is a wallet backed by a solana-keygen file. Approvals are
// remembered in the trust repository so later silent connects succeed.
type KeygenWallet struct {
	path    string
	trust   ports.TrustRepository
	clock   ports.Clock
	approve ApproveFunc
	logger  *zap.Logger

	mu      sync.Mutex
	keypair *keys.Keypair
}

var _ ports.WalletProvider = (*KeygenWallet)(nil)

func NewKeygenWallet(path string, trust ports.TrustRepository, clock ports.Clock, approve ApproveFunc, logger *zap.Logger) *KeygenWallet {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &KeygenWallet{
		path:    path,
		trust:   trust,
		clock:   clock,
		approve: approve,
		logger:  logger.Named("wallet").With(zap.String("path", path)),
	}
}

func (w *KeygenWallet) Available(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	info, err := os.Stat(w.path)
	return err == nil && info.Mode().IsRegular()
}

func (w *KeygenWallet) Connect(ctx context.Context, opts ports.ConnectOptions) (domain.Address, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	keypair, err := keys.LoadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrProviderUnavailable
		}
		return "", err
	}
	address := keypair.Address()

	_, err = w.trust.Get(ctx, address)
	switch {
	case err == nil:
		w.logger.Debug("wallet already trusted", zap.String("address", address.String()))
	case !errors.Is(err, domain.ErrTrustNotFound):
		return "", fmt.Errorf("read trust grant: %w", err)
	case opts.OnlyIfTrusted:
		return "", domain.ErrNotTrusted
	default:
		if err := w.askApproval(ctx, address); err != nil {
			return "", err
		}
	}

	w.mu.Lock()
	w.keypair = keypair
	w.mu.Unlock()

	return address, nil
}

func (w *KeygenWallet) askApproval(ctx context.Context, address domain.Address) error {
	if w.approve == nil {
		return domain.ErrConnectionRejected
	}

	approved, err := w.approve(ctx, address)
	if err != nil {
		return fmt.Errorf("ask wallet approval: %w", err)
	}
	if !approved {
		w.logger.Info("wallet approval declined", zap.String("address", address.String()))
		return domain.ErrConnectionRejected
	}

	grant := domain.TrustGrant{Address: address, WalletPath: w.path, GrantedAt: w.clock.Now()}
	if err := w.trust.Save(ctx, grant); err != nil {
		return fmt.Errorf("save trust grant: %w", err)
	}
	w.logger.Info("wallet approved", zap.String("address", address.String()))
	return nil
}

// Disconnect forgets the approval for the loaded wallet, so the next
// silent connect stays disconnected until the user approves again.
func (w *KeygenWallet) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	keypair := w.keypair
	w.keypair = nil
	w.mu.Unlock()

	if keypair == nil {
		loaded, err := keys.LoadFile(w.path)
		if err != nil {
			w.logger.Warn("wallet file unreadable, revoking grants by path", zap.Error(err))
			return w.revokeByPath(ctx)
		}
		keypair = loaded
	}

	if err := w.trust.Delete(ctx, keypair.Address()); err != nil {
		return fmt.Errorf("revoke trust grant: %w", err)
	}
	return nil
}

// revokeByPath drops every grant recorded for this wallet file.
func (w *KeygenWallet) revokeByPath(ctx context.Context) error {
	grants, err := w.trust.List(ctx)
	if err != nil {
		return fmt.Errorf("list trust grants: %w", err)
	}

	for _, grant := range grants {
		if grant.WalletPath != w.path {
			continue
		}
		if err := w.trust.Delete(ctx, grant.Address); err != nil {
			return fmt.Errorf("revoke trust grant: %w", err)
		}
	}
	return nil
}

func (w *KeygenWallet) SignMessage(ctx context.Context, address domain.Address, message []byte) ([]byte, error) {
	w.mu.Lock()
	keypair := w.keypair
	w.mu.Unlock()

	if keypair == nil || keypair.Address() != address {
		return nil, domain.ErrNotConnected
	}
	return keypair.Sign(ctx, message)
}
