package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
)

const (
	testWallet  domain.Address = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	testBoard   domain.Address = "BoArD1111111111111111111111111111111111111111"
	testProgram domain.Address = "726Xd1yVMjwokPPAX9qNS6tZAdGnPHCahHLKuddW4DiU"
)

type fakeProvider struct {
	available bool
	trusted   bool
	approve   bool
	address   domain.Address

	// gate, when set, blocks Connect until closed.
	gate chan struct{}

	mu          sync.Mutex
	calls       []ports.ConnectOptions
	disconnects int
}

var _ ports.WalletProvider = (*fakeProvider)(nil)

func newTrustedProvider() *fakeProvider {
	return &fakeProvider{available: true, trusted: true, approve: true, address: testWallet}
}

func (p *fakeProvider) Available(context.Context) bool {
	return p.available
}

func (p *fakeProvider) Connect(ctx context.Context, opts ports.ConnectOptions) (domain.Address, error) {
	p.mu.Lock()
	p.calls = append(p.calls, opts)
	p.mu.Unlock()

	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if opts.OnlyIfTrusted && !p.trusted {
		return "", domain.ErrNotTrusted
	}
	if !opts.OnlyIfTrusted && !p.approve {
		return "", domain.ErrConnectionRejected
	}
	return p.address, nil
}

func (p *fakeProvider) Disconnect(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects++
	return nil
}

func (p *fakeProvider) SignMessage(_ context.Context, address domain.Address, message []byte) ([]byte, error) {
	if address != p.address {
		return nil, errors.New("unknown address")
	}
	return append([]byte("sig:"), message...), nil
}

func (p *fakeProvider) connectCalls() []ports.ConnectOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.ConnectOptions(nil), p.calls...)
}

// fakeLedger is an in-memory stand-in for the remote board program.
type fakeLedger struct {
	mu          sync.Mutex
	initialized bool
	board       domain.Board
	fetchErr    error
	submitErr   error
	calls       []ports.Call
	bindings    []ports.LedgerBinding
	fetches     atomic.Int32
}

var _ ports.LedgerDialer = (*fakeLedger)(nil)

func (l *fakeLedger) Dial(binding ports.LedgerBinding) ports.LedgerClient {
	l.mu.Lock()
	l.bindings = append(l.bindings, binding)
	l.mu.Unlock()
	return &fakeLedgerClient{ledger: l, binding: binding}
}

func (l *fakeLedger) submitted() []ports.Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ports.Call(nil), l.calls...)
}

type fakeLedgerClient struct {
	ledger  *fakeLedger
	binding ports.LedgerBinding
}

func (c *fakeLedgerClient) FetchList(ctx context.Context, account domain.Address) (domain.Board, error) {
	if err := ctx.Err(); err != nil {
		return domain.Board{}, err
	}
	c.ledger.fetches.Add(1)

	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	if c.ledger.fetchErr != nil {
		return domain.Board{}, c.ledger.fetchErr
	}
	if !c.ledger.initialized || account != testBoard {
		return domain.Board{}, domain.ErrAccountNotFound
	}
	entries := append([]domain.ListEntry(nil), c.ledger.board.Entries...)
	return domain.Board{Entries: entries, TotalEntries: c.ledger.board.TotalEntries}, nil
}

func (c *fakeLedgerClient) Submit(_ context.Context, call ports.Call) (string, error) {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()

	c.ledger.calls = append(c.ledger.calls, call)
	if c.ledger.submitErr != nil {
		return "", c.ledger.submitErr
	}
	if c.binding.Payer.IsZero() {
		return "", errors.New("read-only client")
	}

	switch call.Method {
	case MethodInitialize:
		if c.ledger.initialized {
			return "", errors.New("account already in use")
		}
		c.ledger.initialized = true
	case MethodAppend:
		link, _ := call.Args[0].(string)
		c.ledger.board.Entries = append(c.ledger.board.Entries, domain.ListEntry{Link: link, Submitter: c.binding.Payer})
		c.ledger.board.TotalEntries++
	default:
		return "", errors.New("unknown method " + call.Method)
	}
	return "5ig" + call.Method, nil
}

type fakeSigner struct {
	address domain.Address
}

func (s fakeSigner) Address() domain.Address {
	return s.address
}

func (s fakeSigner) Sign(_ context.Context, message []byte) ([]byte, error) {
	return append([]byte("board:"), message...), nil
}

type stubSessions struct {
	session domain.Session
}

func (s stubSessions) Current() domain.Session {
	return s.session
}

func testConfig() Config {
	return Config{Endpoint: "https://api.devnet.solana.com", Commitment: CommitmentProcessed, ProgramID: testProgram}
}

func newTestSynchronizer(session domain.Session, ledger *fakeLedger) *ListSynchronizer {
	factory := NewClientFactory(testConfig(), ledger, newTrustedProvider())
	return NewListSynchronizer(stubSessions{session: session}, factory, fakeSigner{address: testBoard}, nil)
}
