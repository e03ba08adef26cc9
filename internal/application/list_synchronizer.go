package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Program methods and the accounts they expect, as declared by the on-chain
// board program.
const (
	MethodInitialize = "start_stuff_off"
	MethodAppend     = "add_gif"

	SystemProgramAddress domain.Address = "11111111111111111111111111111111"
)

type SessionSource interface {
	Current() domain.Session
}

type FetchKind int

const (
	FetchFound FetchKind = iota
	FetchNotFound
	FetchTransient
)

// FetchOutcome separates a missing account from every other fetch failure.
type FetchOutcome struct {
	Kind  FetchKind
	Board domain.Board
	Cause error
}

func ClassifyFetch(board domain.Board, err error) FetchOutcome {
	switch {
	case err == nil:
		return FetchOutcome{Kind: FetchFound, Board: board}
	case errors.Is(err, domain.ErrAccountNotFound):
		return FetchOutcome{Kind: FetchNotFound, Cause: err}
	default:
		return FetchOutcome{Kind: FetchTransient, Cause: err}
	}
}

func (o FetchOutcome) State() domain.SyncState {
	switch o.Kind {
	case FetchFound:
		return domain.LoadedState(o.Board)
	case FetchNotFound:
		return domain.UninitializedState()
	default:
		return domain.UnavailableState(o.Cause)
	}
}

type ListSynchronizer struct {
	sessions SessionSource
	clients  ClientBuilder
	boardKey ports.Signer
	logger   *zap.Logger
	newOpID  func() string

	mu    sync.RWMutex
	state domain.SyncState
}

func NewListSynchronizer(sessions SessionSource, clients ClientBuilder, boardKey ports.Signer, logger *zap.Logger) *ListSynchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ListSynchronizer{
		sessions: sessions,
		clients:  clients,
		boardKey: boardKey,
		logger:   logger.Named("sync").With(zap.String("board", boardKey.Address().String())),
		newOpID:  uuid.NewString,
		state:    domain.NotLoadedState(),
	}
}

func (s *ListSynchronizer) BoardAddress() domain.Address {
	return s.boardKey.Address()
}

func (s *ListSynchronizer) State() domain.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *ListSynchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.NotLoadedState()
}

// FetchList replaces the local state with whatever the remote holds now.
func (s *ListSynchronizer) FetchList(ctx context.Context) domain.SyncState {
	client := s.clients.Build(s.sessions.Current())
	outcome := ClassifyFetch(client.FetchList(ctx, s.boardKey.Address()))

	switch outcome.Kind {
	case FetchFound:
		s.logger.Debug("board fetched", zap.Int("entries", len(outcome.Board.Entries)))
	case FetchNotFound:
		s.logger.Info("board account not initialized")
	default:
		s.logger.Warn("board fetch failed", zap.Error(outcome.Cause))
	}

	next := outcome.State()
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	return next
}

// InitializeAccount creates the board account, co-signed by the board key.
// On failure the state is left untouched so the command can be retried.
func (s *ListSynchronizer) InitializeAccount(ctx context.Context) error {
	session := s.sessions.Current()
	if !session.Connected() {
		s.logger.Info("initialize skipped without a wallet session")
		return domain.ErrNotConnected
	}

	logger := s.logger.With(zap.String("op_id", s.newOpID()), zap.String("method", MethodInitialize))
	call := ports.Call{
		Method: MethodInitialize,
		Accounts: []ports.AccountRef{
			{Name: "base_account", Address: s.boardKey.Address(), Writable: true, Signer: true},
			{Name: "user", Address: session.Address, Writable: true, Signer: true},
			{Name: "system_program", Address: SystemProgramAddress},
		},
		Signers: []ports.Signer{s.boardKey},
	}

	signature, err := s.clients.Build(session).Submit(ctx, call)
	if err != nil {
		logger.Error("initialize board account failed", zap.Error(err))
		return fmt.Errorf("initialize board account: %w", err)
	}

	logger.Info("board account created", zap.String("signature", signature))
	s.FetchList(ctx)
	return nil
}

// SubmitEntry appends link to the board. Blank links are ignored. The new
// entry shows up only through the follow-up fetch.
func (s *ListSynchronizer) SubmitEntry(ctx context.Context, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		s.logger.Info("no link given, nothing to submit")
		return nil
	}
	if err := domain.ValidateLink(link); err != nil {
		s.logger.Warn("link is not a web URL, submitting as typed", zap.String("link", link), zap.Error(err))
	}

	session := s.sessions.Current()
	if !session.Connected() {
		s.logger.Info("submit skipped without a wallet session")
		return domain.ErrNotConnected
	}

	logger := s.logger.With(zap.String("op_id", s.newOpID()), zap.String("method", MethodAppend))
	call := ports.Call{
		Method: MethodAppend,
		Args:   []any{link},
		Accounts: []ports.AccountRef{
			{Name: "base_account", Address: s.boardKey.Address(), Writable: true},
			{Name: "user", Address: session.Address, Writable: true, Signer: true},
		},
	}

	signature, err := s.clients.Build(session).Submit(ctx, call)
	if err != nil {
		logger.Error("submit link failed", zap.String("link", link), zap.Error(err))
		return fmt.Errorf("submit link: %w", err)
	}

	logger.Info("link submitted", zap.String("link", link), zap.String("signature", signature))
	s.FetchList(ctx)
	return nil
}
