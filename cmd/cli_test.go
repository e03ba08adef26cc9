package cmd

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/solgifs-cli/internal/adapters/config"
	"github.com/bnema/solgifs-cli/internal/adapters/keys"
	"github.com/bnema/solgifs-cli/internal/adapters/ledger"
	"github.com/bnema/solgifs-cli/internal/domain"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestKeyGenerateThenShow(t *testing.T) {
	home := t.TempDir()
	useFileSecrets(t)

	stdout, _, err := executeCLI(t, home, "key", "generate")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "board: "))
	generated := strings.TrimSpace(strings.TrimPrefix(stdout, "board: "))

	shown, _, err := executeCLI(t, home, "key", "show")
	require.NoError(t, err)
	assert.Equal(t, generated, strings.TrimSpace(shown))
}

func TestKeyGenerateRefusesToReplaceWithoutForce(t *testing.T) {
	home := t.TempDir()
	useFileSecrets(t)

	_, _, err := executeCLI(t, home, "key", "generate")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "key", "generate")
	require.Error(t, err)
	assert.ErrorIs(t, err, keys.ErrKeyExists)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = executeCLI(t, home, "key", "generate", "--force")
	require.NoError(t, err)
}

func TestKeyImportAcceptsKeygenFile(t *testing.T) {
	home := t.TempDir()
	useFileSecrets(t)

	keypair, err := keys.Generate()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(keypair.MarshalKeygen()), 0o600))

	stdout, _, err := executeCLI(t, home, "key", "import", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, keypair.Address().String())
}

func TestStatusRequiresBoardKey(t *testing.T) {
	home := t.TempDir()
	useFileSecrets(t)

	_, _, err := executeCLI(t, home, "status")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoardKeyMissing)
}

func TestStatusWithoutTrustedWalletShowsDisconnected(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	setupBoard(t, home, ledgerServer)

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Connect a wallet to see the board.")
	assert.Contains(t, stdout, "sg connect")
	assert.Zero(t, ledgerServer.calls("getAccountInfo"))
}

func TestStatusWithoutWalletFileShowsNotice(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	setupBoard(t, home, ledgerServer)
	require.NoError(t, os.Remove(walletPath(home)))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No wallet found.")
}

func TestConnectDeclinedReturnsError(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	setupBoard(t, home, ledgerServer)

	_, stderr, err := executeCLIWithInput(t, home, "n\n", "connect")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConnectionRejected)
	assert.Contains(t, stderr, "Allow sg to use wallet")
}

func TestConnectInitSubmitListFlow(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	wallet := setupBoard(t, home, ledgerServer)

	stdout, _, err := executeCLIWithInput(t, home, "y\n", "connect")
	require.NoError(t, err)
	assert.Contains(t, stdout, "The board account does not exist yet.")
	assert.Contains(t, stdout, "sg init")

	_, _, err = executeCLI(t, home, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	stdout, _, err = executeCLI(t, home, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "links: 0 (total submitted: 0)")

	stdout, _, err = executeCLI(t, home, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "board already initialized")

	stdout, _, err = executeCLI(t, home, "submit", "https://media.giphy.com/media/cat.gif")
	require.NoError(t, err)
	assert.Contains(t, stdout, "links: 1 (total submitted: 1)")
	assert.Contains(t, stdout, "https://media.giphy.com/media/cat.gif")

	stdout, _, err = executeCLI(t, home, "list")
	require.NoError(t, err)
	assert.Equal(t, "https://media.giphy.com/media/cat.gif\t"+wallet.Address().String()+"\n", stdout)

	stdout, _, err = executeCLI(t, home, "list", "--json")
	require.NoError(t, err)
	var entries []entryJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, wallet.Address().String(), entries[0].Submitter)
	assert.Equal(t, 2, ledgerServer.calls("sendTransaction"))
}

func TestStatusJSONOutput(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	wallet := setupBoard(t, home, ledgerServer)
	ledgerServer.seed(domain.Board{
		Entries:      []domain.ListEntry{{Link: "https://example.com/a.gif", Submitter: wallet.Address()}},
		TotalEntries: 3,
	})

	_, _, err := executeCLIWithInput(t, home, "y\n", "connect")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)

	var got snapshotJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, string(domain.ViewConnectedReady), got.View)
	assert.Equal(t, string(domain.SyncLoaded), got.Status)
	assert.Equal(t, wallet.Address().String(), got.Wallet)
	assert.EqualValues(t, 3, got.TotalEntries)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "https://example.com/a.gif", got.Entries[0].Link)
}

func TestSubmitWarnsAboutNonURLLink(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	setupBoard(t, home, ledgerServer)
	ledgerServer.seed(domain.Board{})

	_, _, err := executeCLIWithInput(t, home, "y\n", "connect")
	require.NoError(t, err)

	stdout, stderr, err := executeCLI(t, home, "submit", "ipfs://bafy/cat.gif")
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning: invalid link")
	assert.Contains(t, stdout, "ipfs://bafy/cat.gif")
	assert.Equal(t, 1, ledgerServer.calls("sendTransaction"))
}

func TestSubmitRequiresConnection(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	setupBoard(t, home, ledgerServer)

	_, _, err := executeCLI(t, home, "submit", "https://example.com/a.gif")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotConnected)
	assert.Contains(t, err.Error(), "sg connect")
}

func TestDisconnectRevokesTrust(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	setupBoard(t, home, ledgerServer)
	ledgerServer.seed(domain.Board{})

	_, _, err := executeCLIWithInput(t, home, "y\n", "connect")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "disconnect")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wallet disconnected")

	stdout, _, err = executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	var got snapshotJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, string(domain.ViewDisconnected), got.View)
	assert.Empty(t, got.Wallet)
}

func TestDisconnectWithMissingWalletFileStillRevokesTrust(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	wallet := setupBoard(t, home, ledgerServer)
	ledgerServer.seed(domain.Board{})

	_, _, err := executeCLIWithInput(t, home, "y\n", "connect")
	require.NoError(t, err)

	require.NoError(t, os.Remove(walletPath(home)))
	stdout, _, err := executeCLI(t, home, "disconnect")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wallet disconnected")

	require.NoError(t, os.WriteFile(walletPath(home), []byte(wallet.MarshalKeygen()), 0o600))
	stdout, _, err = executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	var got snapshotJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, string(domain.ViewDisconnected), got.View)
}

func TestOnlyUICommandOwnsTerminal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd()

	ui, _, err := root.Find([]string{"ui"})
	require.NoError(t, err)
	assert.True(t, ownsTerminal(ui))

	status, _, err := root.Find([]string{"status"})
	require.NoError(t, err)
	assert.False(t, ownsTerminal(status))
}

func TestStatusReportsUnavailableLedger(t *testing.T) {
	home := t.TempDir()
	ledgerServer := newFakeLedgerServer(t)
	setupBoard(t, home, ledgerServer)

	_, _, err := executeCLIWithInput(t, home, "y\n", "connect")
	require.NoError(t, err)

	ledgerServer.fail("getAccountInfo")
	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Board unavailable")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home string, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func useFileSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("SG_SECRETS_BACKEND", "file")
}

func walletPath(home string) string {
	return filepath.Join(home, ".config", "solana", "id.json")
}

// setupBoard points the CLI at the fake ledger, writes a wallet file and
// stores a board key. It returns the wallet keypair.
func setupBoard(t *testing.T, home string, server *fakeLedgerServer) *keys.Keypair {
	t.Helper()
	useFileSecrets(t)
	t.Setenv("SG_NETWORK_ENDPOINT", server.URL)
	t.Setenv("SG_CONFIRM_POLL_INTERVAL", "1ms")

	wallet, err := keys.Generate()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(walletPath(home)), 0o700))
	require.NoError(t, os.WriteFile(walletPath(home), []byte(wallet.MarshalKeygen()), 0o600))

	_, _, err = executeCLI(t, home, "key", "generate")
	require.NoError(t, err)
	return wallet
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeLedgerServer answers the handful of JSON-RPC methods the client uses
// and applies board instructions to a single in-memory account.
type fakeLedgerServer struct {
	*httptest.Server

	mu      sync.Mutex
	board   *domain.Board
	counts  map[string]int
	failing map[string]bool
}

func newFakeLedgerServer(t *testing.T) *fakeLedgerServer {
	t.Helper()

	f := &fakeLedgerServer{counts: map[string]int{}, failing: map[string]bool{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeLedgerServer) seed(board domain.Board) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.board = &board
}

func (f *fakeLedgerServer) fail(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[method] = true
}

func (f *fakeLedgerServer) calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[method]
}

func (f *fakeLedgerServer) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[req.Method]++

	reply := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if f.failing[req.Method] {
		reply["error"] = map[string]any{"code": -32000, "message": "node is behind"}
	} else {
		result, rpcErr := f.result(req)
		if rpcErr != nil {
			reply["error"] = map[string]any{"code": -32002, "message": rpcErr.Error()}
		} else {
			reply["result"] = result
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}

func (f *fakeLedgerServer) result(req rpcRequest) (any, error) {
	slot := map[string]any{"slot": 1}

	switch req.Method {
	case "getAccountInfo":
		if f.board == nil {
			return map[string]any{"context": slot, "value": nil}, nil
		}
		data, err := ledger.EncodeBoard(*f.board)
		if err != nil {
			return nil, err
		}
		return map[string]any{"context": slot, "value": map[string]any{
			"lamports":   1_000_000,
			"owner":      config.DefaultProgramID,
			"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"rentEpoch":  0,
		}}, nil
	case "getLatestBlockhash":
		return map[string]any{"context": slot, "value": map[string]any{
			"blockhash":            solana.Hash{}.String(),
			"lastValidBlockHeight": 100,
		}}, nil
	case "sendTransaction":
		return f.apply(req.Params)
	case "getSignatureStatuses":
		return map[string]any{"context": slot, "value": []any{map[string]any{
			"slot":               1,
			"confirmations":      nil,
			"err":                nil,
			"confirmationStatus": "processed",
		}}}, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (f *fakeLedgerServer) apply(params []json.RawMessage) (any, error) {
	var encoded string
	if err := json.Unmarshal(params[0], &encoded); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, err
	}

	inst := tx.Message.Instructions[0]
	data := []byte(inst.Data)
	switch {
	case bytes.Equal(data[:8], globalDiscriminator("start_stuff_off")):
		f.board = &domain.Board{}
	case bytes.Equal(data[:8], globalDiscriminator("add_gif")):
		if f.board == nil {
			return nil, io.ErrUnexpectedEOF
		}
		var link string
		if err := bin.NewBorshDecoder(data[8:]).Decode(&link); err != nil {
			return nil, err
		}
		submitter := tx.Message.AccountKeys[inst.Accounts[1]]
		f.board.Entries = append(f.board.Entries, domain.ListEntry{Link: link, Submitter: domain.Address(submitter.String())})
		f.board.TotalEntries++
	}

	return tx.Signatures[0].String(), nil
}

func globalDiscriminator(method string) []byte {
	sum := sha256.Sum256([]byte("global:" + method))
	return sum[:8]
}
