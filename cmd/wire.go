package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/solgifs-cli/internal/adapters/config"
	"github.com/bnema/solgifs-cli/internal/adapters/keys"
	"github.com/bnema/solgifs-cli/internal/adapters/ledger"
	boardrender "github.com/bnema/solgifs-cli/internal/adapters/render/board"
	tomlrepo "github.com/bnema/solgifs-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/solgifs-cli/internal/adapters/secrets/chain"
	"github.com/bnema/solgifs-cli/internal/adapters/wallet"
	"github.com/bnema/solgifs-cli/internal/application"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/logging"
	"github.com/bnema/solgifs-cli/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var errBoardKeyMissing = errors.New("board key not found, run `sg key generate` first")

type app struct {
	settings  config.Settings
	logger    *zap.Logger
	trust     ports.TrustRepository
	boardKeys *keys.SecretSource
	dialer    ports.LedgerDialer
	renderer  func(application.Snapshot, boardrender.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg := viper.New()
	settings, err := config.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	trust, err := tomlrepo.NewTrustRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire trust repository: %w", err)
	}

	return &app{
		settings: settings,
		logger:   zap.NewNop(),
		trust:    trust,
		renderer: boardrender.Render,
	}, nil
}

// start finishes wiring once flags are parsed: the logger depends on
// --verbose and everything downstream takes the logger.
func (a *app) start(verbose bool, ownsTerminal bool) error {
	logger, err := logging.New(logging.Options{
		Path:     a.settings.LogPath,
		Level:    a.settings.LogLevel,
		Verbose:  verbose,
		NoStderr: ownsTerminal,
	})
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}
	a.logger = logger

	secrets, err := chainstore.Open(a.settings.SecretsBackend, a.settings.SecretsDir, logger)
	if err != nil {
		return fmt.Errorf("wire secret store: %w", err)
	}
	a.boardKeys = keys.NewSecretSource(secrets, a.settings.BoardKeyRef)
	a.dialer = ledger.NewDialer(a.settings.PollInterval, logger)

	return nil
}

func (a *app) wallet(approve wallet.ApproveFunc) *wallet.KeygenWallet {
	return wallet.NewKeygenWallet(a.settings.WalletPath, a.trust, ports.SystemClock{}, approve, a.logger)
}

// board assembles the session and list services around the stored board
// key. Each command gets a fresh instance.
func (a *app) board(ctx context.Context, approve wallet.ApproveFunc) (*application.Board, error) {
	boardKey, err := a.boardKeys.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return nil, errBoardKeyMissing
		}
		return nil, err
	}

	provider := a.wallet(approve)
	sessions := application.NewSessionManager(provider, a.logger)
	factory := application.NewClientFactory(a.settings.Network, a.dialer, provider)
	lists := application.NewListSynchronizer(sessions, factory, boardKey, a.logger)

	return application.NewBoard(sessions, lists), nil
}
