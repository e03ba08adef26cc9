package application

import (
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
)

type ClientBuilder interface {
	Build(session domain.Session) ports.LedgerClient
}

// ClientFactory binds a ledger client to the configured network and the
// given session. Clients are never cached since the session may change
// between calls.
type ClientFactory struct {
	cfg    Config
	dialer ports.LedgerDialer
	signer ports.MessageSigner
}

var _ ClientBuilder = (*ClientFactory)(nil)

func NewClientFactory(cfg Config, dialer ports.LedgerDialer, signer ports.MessageSigner) *ClientFactory {
	return &ClientFactory{cfg: cfg, dialer: dialer, signer: signer}
}

// Build returns a read-only client when the session is disconnected.
func (f *ClientFactory) Build(session domain.Session) ports.LedgerClient {
	binding := ports.LedgerBinding{
		Endpoint:   f.cfg.Endpoint,
		Commitment: f.cfg.Commitment,
		ProgramID:  f.cfg.ProgramID,
	}
	if session.Connected() {
		binding.Payer = session.Address
		binding.Signer = f.signer
	}

	return f.dialer.Dial(binding)
}
