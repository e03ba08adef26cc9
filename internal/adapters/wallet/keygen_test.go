package wallet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/solgifs-cli/internal/adapters/keys"
	tomlrepo "github.com/bnema/solgifs-cli/internal/adapters/repo/toml"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	portmocks "github.com/bnema/solgifs-cli/internal/ports/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func writeWallet(t *testing.T) (string, *keys.Keypair) {
	t.Helper()

	keypair, err := keys.Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, []byte(keypair.MarshalKeygen()), 0o600))
	return path, keypair
}

func newTrust(t *testing.T) *tomlrepo.TrustRepository {
	t.Helper()

	config := viper.New()
	config.Set(tomlrepo.TrustPathKey, filepath.Join(t.TempDir(), "trust.toml"))
	repo, err := tomlrepo.NewTrustRepository(config)
	require.NoError(t, err)
	return repo
}

func approveAll(context.Context, domain.Address) (bool, error) {
	return true, nil
}

func TestKeygenWalletAvailable(t *testing.T) {
	t.Parallel()

	path, _ := writeWallet(t)
	assert.True(t, NewKeygenWallet(path, newTrust(t), nil, nil, nil).Available(context.Background()))
	assert.False(t, NewKeygenWallet(filepath.Join(t.TempDir(), "none.json"), newTrust(t), nil, nil, nil).Available(context.Background()))
}

func TestKeygenWalletSilentConnectRequiresTrust(t *testing.T) {
	t.Parallel()

	path, keypair := writeWallet(t)
	trust := newTrust(t)
	grantedAt := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	wallet := NewKeygenWallet(path, trust, fixedClock{now: grantedAt}, approveAll, nil)

	_, err := wallet.Connect(context.Background(), ports.ConnectOptions{OnlyIfTrusted: true})
	assert.ErrorIs(t, err, domain.ErrNotTrusted)

	address, err := wallet.Connect(context.Background(), ports.ConnectOptions{})
	require.NoError(t, err)
	assert.Equal(t, keypair.Address(), address)

	grant, err := trust.Get(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, path, grant.WalletPath)
	assert.Equal(t, grantedAt, grant.GrantedAt)

	fresh := NewKeygenWallet(path, trust, nil, nil, nil)
	address, err = fresh.Connect(context.Background(), ports.ConnectOptions{OnlyIfTrusted: true})
	require.NoError(t, err)
	assert.Equal(t, keypair.Address(), address)
}

func TestKeygenWalletConnectSkipsPromptWhenTrusted(t *testing.T) {
	t.Parallel()

	path, keypair := writeWallet(t)
	trust := portmocks.NewTrustRepository(t)
	trust.On("Get", mock.Anything, keypair.Address()).Return(domain.TrustGrant{Address: keypair.Address()}, nil).Once()

	wallet := NewKeygenWallet(path, trust, nil, func(context.Context, domain.Address) (bool, error) {
		t.Fatal("approval prompt must not run for a trusted wallet")
		return false, nil
	}, nil)

	_, err := wallet.Connect(context.Background(), ports.ConnectOptions{})
	require.NoError(t, err)
}

func TestKeygenWalletConnectDeclined(t *testing.T) {
	t.Parallel()

	path, _ := writeWallet(t)
	trust := newTrust(t)
	wallet := NewKeygenWallet(path, trust, nil, func(context.Context, domain.Address) (bool, error) {
		return false, nil
	}, nil)

	_, err := wallet.Connect(context.Background(), ports.ConnectOptions{})
	assert.ErrorIs(t, err, domain.ErrConnectionRejected)

	grants, err := trust.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestKeygenWalletConnectPromptFailure(t *testing.T) {
	t.Parallel()

	path, _ := writeWallet(t)
	wallet := NewKeygenWallet(path, newTrust(t), nil, func(context.Context, domain.Address) (bool, error) {
		return false, errors.New("stdin closed")
	}, nil)

	_, err := wallet.Connect(context.Background(), ports.ConnectOptions{})
	assert.ErrorContains(t, err, "ask wallet approval: stdin closed")
}

func TestKeygenWalletMissingFile(t *testing.T) {
	t.Parallel()

	wallet := NewKeygenWallet(filepath.Join(t.TempDir(), "none.json"), newTrust(t), nil, approveAll, nil)
	_, err := wallet.Connect(context.Background(), ports.ConnectOptions{})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestKeygenWalletSignMessage(t *testing.T) {
	t.Parallel()

	path, keypair := writeWallet(t)
	wallet := NewKeygenWallet(path, newTrust(t), nil, approveAll, nil)

	_, err := wallet.SignMessage(context.Background(), keypair.Address(), []byte("m"))
	assert.ErrorIs(t, err, domain.ErrNotConnected)

	_, err = wallet.Connect(context.Background(), ports.ConnectOptions{})
	require.NoError(t, err)

	got, err := wallet.SignMessage(context.Background(), keypair.Address(), []byte("m"))
	require.NoError(t, err)
	want, err := keypair.Sign(context.Background(), []byte("m"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = wallet.SignMessage(context.Background(), "someone-else", []byte("m"))
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestKeygenWalletDisconnectRevokesTrust(t *testing.T) {
	t.Parallel()

	path, keypair := writeWallet(t)
	trust := newTrust(t)
	wallet := NewKeygenWallet(path, trust, nil, approveAll, nil)

	_, err := wallet.Connect(context.Background(), ports.ConnectOptions{})
	require.NoError(t, err)
	require.NoError(t, wallet.Disconnect(context.Background()))

	_, err = trust.Get(context.Background(), keypair.Address())
	assert.ErrorIs(t, err, domain.ErrTrustNotFound)

	_, err = wallet.SignMessage(context.Background(), keypair.Address(), []byte("m"))
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestKeygenWalletDisconnectWithUnreadableFileRevokesByPath(t *testing.T) {
	t.Parallel()

	path, keypair := writeWallet(t)
	trust := newTrust(t)
	_, err := NewKeygenWallet(path, trust, nil, approveAll, nil).Connect(context.Background(), ports.ConnectOptions{})
	require.NoError(t, err)

	other, err := keys.Generate()
	require.NoError(t, err)
	require.NoError(t, trust.Save(context.Background(), domain.TrustGrant{Address: other.Address(), WalletPath: "/elsewhere/id.json"}))

	require.NoError(t, os.Remove(path))
	require.NoError(t, NewKeygenWallet(path, trust, nil, nil, nil).Disconnect(context.Background()))

	_, err = trust.Get(context.Background(), keypair.Address())
	assert.ErrorIs(t, err, domain.ErrTrustNotFound)
	_, err = trust.Get(context.Background(), other.Address())
	assert.NoError(t, err)
}

func TestKeygenWalletDisconnectReportsListFailure(t *testing.T) {
	t.Parallel()

	trust := portmocks.NewTrustRepository(t)
	trust.On("List", mock.Anything).Return(nil, errors.New("trust file locked")).Once()

	err := NewKeygenWallet(filepath.Join(t.TempDir(), "none.json"), trust, nil, nil, nil).Disconnect(context.Background())
	assert.ErrorContains(t, err, "list trust grants: trust file locked")
}
