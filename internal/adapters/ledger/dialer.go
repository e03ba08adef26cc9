package ledger

import (
	"fmt"
	"time"

	"github.com/bnema/solgifs-cli/internal/ports"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultConfirmTimeout = 90 * time.Second
)

type Dialer struct {
	logger  *zap.Logger
	confirm confirmPolicy
	newAPI  func(endpoint string) rpcAPI
}

var _ ports.LedgerDialer = (*Dialer)(nil)

func NewDialer(pollInterval time.Duration, logger *zap.Logger) *Dialer {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dialer{
		logger:  logger.Named("ledger"),
		confirm: confirmPolicy{interval: pollInterval, timeout: DefaultConfirmTimeout},
		newAPI: func(endpoint string) rpcAPI {
			return rpc.New(endpoint)
		},
	}
}

// Dial never fails; a bad binding yields a client that returns the error
// from every call.
func (d *Dialer) Dial(binding ports.LedgerBinding) ports.LedgerClient {
	programID, err := solana.PublicKeyFromBase58(binding.ProgramID.String())
	if err != nil {
		return brokenClient{err: fmt.Errorf("parse program id %q: %w", binding.ProgramID, err)}
	}

	return &Client{
		api:        d.newAPI(binding.Endpoint),
		programID:  programID,
		commitment: rpc.CommitmentType(binding.Commitment),
		payer:      binding.Payer,
		signer:     binding.Signer,
		confirm:    d.confirm,
		logger:     d.logger.With(zap.String("endpoint", binding.Endpoint)),
	}
}
