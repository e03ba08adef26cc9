package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ConnectHook runs once per disconnected -> connected transition, after the
// new address is visible through Current.
type ConnectHook func(ctx context.Context, session domain.Session)

type SessionManager struct {
	provider ports.WalletProvider
	logger   *zap.Logger

	// guard admits one connect/disconnect at a time so a late silent check
	// cannot interleave with an explicit connect.
	guard *semaphore.Weighted

	mu      sync.RWMutex
	session domain.Session
	notice  error
	hooks   []ConnectHook
}

func NewSessionManager(provider ports.WalletProvider, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionManager{
		provider: provider,
		logger:   logger.Named("session"),
		guard:    semaphore.NewWeighted(1),
	}
}

func (m *SessionManager) OnConnect(hook ConnectHook) {
	if hook == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

func (m *SessionManager) Current() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Notice returns the last user-facing provider problem, if any.
func (m *SessionManager) Notice() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notice
}

// CheckExistingSession reconnects without prompting. Failures leave the
// session as it was and are only logged.
func (m *SessionManager) CheckExistingSession(ctx context.Context) domain.Session {
	if err := m.guard.Acquire(ctx, 1); err != nil {
		m.logger.Debug("silent reconnect abandoned", zap.Error(err))
		return m.Current()
	}

	if current := m.Current(); current.Connected() {
		m.guard.Release(1)
		return current
	}

	if !m.provider.Available(ctx) {
		m.setNotice(domain.ErrProviderUnavailable)
		m.guard.Release(1)
		m.logger.Warn("wallet provider not found")
		return m.Current()
	}

	address, err := m.provider.Connect(ctx, ports.ConnectOptions{OnlyIfTrusted: true})
	if err != nil {
		m.guard.Release(1)
		if errors.Is(err, domain.ErrNotTrusted) {
			m.logger.Debug("wallet not trusted yet, staying disconnected")
		} else {
			m.logger.Warn("silent reconnect failed", zap.Error(err))
		}
		return m.Current()
	}

	session, transitioned := m.store(address)
	m.guard.Release(1)

	m.logger.Info("wallet reconnected", zap.String("address", address.String()))
	if transitioned {
		m.fire(ctx, session)
	}

	return session
}

// Connect asks the wallet for explicit approval. Connecting while already
// connected returns the current session and runs no hooks.
func (m *SessionManager) Connect(ctx context.Context) (domain.Session, error) {
	if err := m.guard.Acquire(ctx, 1); err != nil {
		return m.Current(), fmt.Errorf("wait for session guard: %w", err)
	}

	if current := m.Current(); current.Connected() {
		m.guard.Release(1)
		return current, nil
	}

	if !m.provider.Available(ctx) {
		m.setNotice(domain.ErrProviderUnavailable)
		m.guard.Release(1)
		m.logger.Warn("wallet provider not found")
		return m.Current(), domain.ErrProviderUnavailable
	}

	address, err := m.provider.Connect(ctx, ports.ConnectOptions{})
	if err != nil {
		m.guard.Release(1)
		m.logger.Error("wallet connect failed", zap.Error(err))
		return m.Current(), fmt.Errorf("connect wallet: %w", err)
	}

	session, transitioned := m.store(address)
	m.guard.Release(1)

	m.logger.Info("wallet connected", zap.String("address", address.String()))
	if transitioned {
		m.fire(ctx, session)
	}

	return session, nil
}

func (m *SessionManager) Disconnect(ctx context.Context) error {
	if err := m.guard.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for session guard: %w", err)
	}
	defer m.guard.Release(1)

	previous := m.Current()
	if err := m.provider.Disconnect(ctx); err != nil {
		m.logger.Error("wallet disconnect failed", zap.Error(err))
		return fmt.Errorf("disconnect wallet: %w", err)
	}

	m.mu.Lock()
	m.session = domain.Session{}
	m.mu.Unlock()

	m.logger.Info("wallet disconnected", zap.String("address", previous.Address.String()))
	return nil
}

func (m *SessionManager) store(address domain.Address) (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	transitioned := !m.session.Connected()
	m.session = domain.Session{Address: address}
	m.notice = nil
	return m.session, transitioned
}

func (m *SessionManager) setNotice(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = err
}

func (m *SessionManager) fire(ctx context.Context, session domain.Session) {
	m.mu.RLock()
	hooks := append([]ConnectHook(nil), m.hooks...)
	m.mu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, session)
	}
}
