package ports

import (
	"context"

	"github.com/bnema/solgifs-cli/internal/domain"
)

type AccountRef struct {
	Name     string
	Address  domain.Address
	Writable bool
	Signer   bool
}

// Call is one program method invocation. Signers are co-signers beyond the
// fee payer bound to the client.
type Call struct {
	Method   string
	Args     []any
	Accounts []AccountRef
	Signers  []Signer
}

type LedgerClient interface {
	FetchList(ctx context.Context, account domain.Address) (domain.Board, error)
	Submit(ctx context.Context, call Call) (string, error)
}

type LedgerBinding struct {
	Endpoint   string
	Commitment string
	ProgramID  domain.Address
	Payer      domain.Address
	Signer     MessageSigner
}

type LedgerDialer interface {
	Dial(binding LedgerBinding) LedgerClient
}
