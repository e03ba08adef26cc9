package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bnema/solgifs-cli/internal/adapters/wallet"
	"github.com/bnema/solgifs-cli/internal/domain"
)

// promptApproval asks on the command's terminal before a wallet is trusted.
func promptApproval(in io.Reader, out io.Writer) wallet.ApproveFunc {
	return func(ctx context.Context, address domain.Address) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		if _, err := fmt.Fprintf(out, "Allow sg to use wallet %s? [y/N]: ", sanitizeForTerminal(address.String())); err != nil {
			return false, err
		}

		reader := bufio.NewReader(in)
		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read approval: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// denyApproval is used by read-only commands, which never prompt.
func denyApproval(context.Context, domain.Address) (bool, error) {
	return false, nil
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
