package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrConfirmTimeout = errors.New("transaction not confirmed in time")

var commitmentRank = map[rpc.CommitmentType]int{
	rpc.CommitmentProcessed: 1,
	rpc.CommitmentConfirmed: 2,
	rpc.CommitmentFinalized: 3,
}

var statusRank = map[rpc.ConfirmationStatusType]int{
	rpc.ConfirmationStatusProcessed: 1,
	rpc.ConfirmationStatusConfirmed: 2,
	rpc.ConfirmationStatusFinalized: 3,
}

// wait polls the signature status until it reaches commitment, the
// transaction fails, or the timeout expires.
func (p confirmPolicy) wait(ctx context.Context, api rpcAPI, signature solana.Signature, commitment rpc.CommitmentType) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	want := commitmentRank[commitment]
	if want == 0 {
		want = commitmentRank[rpc.CommitmentConfirmed]
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		done, err := checkStatus(ctx, api, signature, want)
		if err != nil || done {
			return err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrConfirmTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func checkStatus(ctx context.Context, api rpcAPI, signature solana.Signature, want int) (bool, error) {
	result, err := api.GetSignatureStatuses(ctx, true, signature)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("get signature status: %w", err)
	}
	if result == nil || len(result.Value) == 0 || result.Value[0] == nil {
		return false, nil
	}

	status := result.Value[0]
	if status.Err != nil {
		return false, fmt.Errorf("transaction failed: %v", status.Err)
	}
	return statusRank[status.ConfirmationStatus] >= want, nil
}
