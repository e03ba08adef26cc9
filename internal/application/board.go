package application

import (
	"context"

	"github.com/bnema/solgifs-cli/internal/domain"
)

// Board ties the session to the list: the first connect triggers a fetch,
// and every command returns the resulting snapshot.
type Board struct {
	sessions *SessionManager
	lists    *ListSynchronizer
}

func NewBoard(sessions *SessionManager, lists *ListSynchronizer) *Board {
	sessions.OnConnect(func(ctx context.Context, _ domain.Session) {
		lists.FetchList(ctx)
	})

	return &Board{sessions: sessions, lists: lists}
}

// Start runs the silent reconnect; call it once the first frame is shown.
func (b *Board) Start(ctx context.Context) Snapshot {
	b.sessions.CheckExistingSession(ctx)
	return b.Snapshot()
}

func (b *Board) Connect(ctx context.Context) (Snapshot, error) {
	_, err := b.sessions.Connect(ctx)
	return b.Snapshot(), err
}

func (b *Board) Disconnect(ctx context.Context) (Snapshot, error) {
	if err := b.sessions.Disconnect(ctx); err != nil {
		return b.Snapshot(), err
	}
	b.lists.Reset()
	return b.Snapshot(), nil
}

func (b *Board) Initialize(ctx context.Context) (Snapshot, error) {
	err := b.lists.InitializeAccount(ctx)
	return b.Snapshot(), err
}

func (b *Board) Submit(ctx context.Context, link string) (Snapshot, error) {
	err := b.lists.SubmitEntry(ctx, link)
	return b.Snapshot(), err
}

func (b *Board) Refresh(ctx context.Context) Snapshot {
	if b.sessions.Current().Connected() {
		b.lists.FetchList(ctx)
	}
	return b.Snapshot()
}

func (b *Board) Snapshot() Snapshot {
	session := b.sessions.Current()
	sync := b.lists.State()

	snapshot := Snapshot{
		Session: session,
		Board:   b.lists.BoardAddress(),
		Sync:    sync,
		View:    domain.DeriveView(session, sync),
	}
	if notice := b.sessions.Notice(); notice != nil {
		snapshot.Notice = notice.Error()
	}

	return snapshot
}
