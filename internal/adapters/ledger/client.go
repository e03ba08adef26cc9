package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// rpcAPI is the subset of the JSON-RPC client the board needs.
type rpcAPI interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

var _ rpcAPI = (*rpc.Client)(nil)

type Client struct {
	api        rpcAPI
	programID  solana.PublicKey
	commitment rpc.CommitmentType
	payer      domain.Address
	signer     ports.MessageSigner
	confirm    confirmPolicy
	logger     *zap.Logger
}

var _ ports.LedgerClient = (*Client)(nil)

func (c *Client) FetchList(ctx context.Context, account domain.Address) (domain.Board, error) {
	if err := ctx.Err(); err != nil {
		return domain.Board{}, err
	}

	key, err := solana.PublicKeyFromBase58(account.String())
	if err != nil {
		return domain.Board{}, fmt.Errorf("parse board address %q: %w", account, err)
	}

	result, err := c.api.GetAccountInfoWithOpts(ctx, key, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return domain.Board{}, domain.ErrAccountNotFound
		}
		return domain.Board{}, fmt.Errorf("get board account: %w", err)
	}
	if result == nil || result.Value == nil {
		return domain.Board{}, domain.ErrAccountNotFound
	}
	if !result.Value.Owner.Equals(c.programID) {
		return domain.Board{}, fmt.Errorf("board account owned by %s: %w", result.Value.Owner, errUnexpectedAccount)
	}
	if result.Value.Data == nil {
		return domain.Board{}, fmt.Errorf("board account has no data: %w", errUnexpectedAccount)
	}

	board, err := decodeBoard(result.Value.Data.GetBinary())
	if err != nil {
		return domain.Board{}, fmt.Errorf("decode board account: %w", err)
	}

	c.logger.Debug("board account read", zap.String("board", account.String()), zap.Int("entries", len(board.Entries)))
	return board, nil
}

// Submit builds, signs and sends a single-instruction transaction, then
// waits until the cluster reports it at the configured commitment.
func (c *Client) Submit(ctx context.Context, call ports.Call) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.payer.IsZero() || c.signer == nil {
		return "", domain.ErrNotConnected
	}

	payer, err := solana.PublicKeyFromBase58(c.payer.String())
	if err != nil {
		return "", fmt.Errorf("parse payer address: %w", err)
	}

	instruction, err := c.instruction(call)
	if err != nil {
		return "", err
	}

	latest, err := c.api.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}
	if latest == nil || latest.Value == nil {
		return "", errors.New("get latest blockhash: empty response")
	}

	tx, err := solana.NewTransaction([]solana.Instruction{instruction}, latest.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("build %s transaction: %w", call.Method, err)
	}
	if err := c.sign(ctx, tx, call.Signers); err != nil {
		return "", err
	}

	signature, err := c.api.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{PreflightCommitment: c.commitment})
	if err != nil {
		return "", fmt.Errorf("send %s transaction: %w", call.Method, err)
	}

	logger := c.logger.With(zap.String("method", call.Method), zap.String("signature", signature.String()))
	logger.Debug("transaction sent")

	if err := c.confirm.wait(ctx, c.api, signature, c.commitment); err != nil {
		return "", fmt.Errorf("confirm %s transaction: %w", call.Method, err)
	}

	logger.Debug("transaction confirmed")
	return signature.String(), nil
}

func (c *Client) instruction(call ports.Call) (solana.Instruction, error) {
	data, err := encodeCall(call.Method, call.Args)
	if err != nil {
		return nil, err
	}

	metas := make(solana.AccountMetaSlice, 0, len(call.Accounts))
	for _, ref := range call.Accounts {
		key, err := solana.PublicKeyFromBase58(ref.Address.String())
		if err != nil {
			return nil, fmt.Errorf("parse %s address %q: %w", ref.Name, ref.Address, err)
		}
		metas = append(metas, solana.NewAccountMeta(key, ref.Writable, ref.Signer))
	}

	return solana.NewInstruction(c.programID, metas, data), nil
}

// sign fills every required signature slot, using the session wallet for the
// payer and the call's co-signers for the rest.
func (c *Client) sign(ctx context.Context, tx *solana.Transaction, cosigners []ports.Signer) error {
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode transaction message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		return fmt.Errorf("transaction needs %d signatures but has %d keys", required, len(tx.Message.AccountKeys))
	}

	byAddress := make(map[string]ports.Signer, len(cosigners))
	for _, signer := range cosigners {
		byAddress[signer.Address().String()] = signer
	}

	tx.Signatures = make([]solana.Signature, required)
	for i, key := range tx.Message.AccountKeys[:required] {
		var raw []byte
		address := key.String()
		switch {
		case address == c.payer.String():
			raw, err = c.signer.SignMessage(ctx, c.payer, message)
		case byAddress[address] != nil:
			raw, err = byAddress[address].Sign(ctx, message)
		default:
			return fmt.Errorf("no signer for required account %s", address)
		}
		if err != nil {
			return fmt.Errorf("sign transaction as %s: %w", address, err)
		}
		if len(raw) != len(tx.Signatures[i]) {
			return fmt.Errorf("sign transaction as %s: signature has %d bytes", address, len(raw))
		}
		copy(tx.Signatures[i][:], raw)
	}

	return nil
}

// brokenClient reports a binding error on every call.
type brokenClient struct {
	err error
}

func (b brokenClient) FetchList(context.Context, domain.Address) (domain.Board, error) {
	return domain.Board{}, b.err
}

func (b brokenClient) Submit(context.Context, ports.Call) (string, error) {
	return "", b.err
}

type confirmPolicy struct {
	interval time.Duration
	timeout  time.Duration
}
