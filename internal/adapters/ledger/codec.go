package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bnema/solgifs-cli/internal/domain"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	discriminatorLen = 8
	boardAccountName = "BaseAccount"
	// minEntryLen is an empty link plus the submitter key.
	minEntryLen = 4 + solana.PublicKeyLength
)

var errUnexpectedAccount = errors.New("account is not a board account")

// instructionDiscriminator follows the Anchor convention:
// sha256("global:<method>")[:8].
func instructionDiscriminator(method string) []byte {
	sum := sha256.Sum256([]byte("global:" + method))
	return sum[:discriminatorLen]
}

func accountDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:discriminatorLen]
}

// encodeCall serializes a method call as discriminator followed by the
// Borsh-encoded arguments.
func encodeCall(method string, args []any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := bin.NewBorshEncoder(&buf)

	if err := encoder.WriteBytes(instructionDiscriminator(method), false); err != nil {
		return nil, fmt.Errorf("encode %s discriminator: %w", method, err)
	}

	for i, arg := range args {
		switch value := arg.(type) {
		case string:
			if err := encoder.WriteUint32(uint32(len(value)), binary.LittleEndian); err != nil {
				return nil, fmt.Errorf("encode %s arg %d: %w", method, i, err)
			}
			if err := encoder.WriteBytes([]byte(value), false); err != nil {
				return nil, fmt.Errorf("encode %s arg %d: %w", method, i, err)
			}
		case uint64:
			if err := encoder.WriteUint64(value, binary.LittleEndian); err != nil {
				return nil, fmt.Errorf("encode %s arg %d: %w", method, i, err)
			}
		default:
			return nil, fmt.Errorf("encode %s arg %d: unsupported type %T", method, i, arg)
		}
	}

	return buf.Bytes(), nil
}

// decodeBoard reads the board account layout:
// discriminator, u64 total, vec<{string link, pubkey submitter}>.
// Trailing bytes past the vector are preallocated space and are ignored.
func decodeBoard(data []byte) (domain.Board, error) {
	if len(data) < discriminatorLen || !bytes.Equal(data[:discriminatorLen], accountDiscriminator(boardAccountName)) {
		return domain.Board{}, errUnexpectedAccount
	}

	decoder := bin.NewBorshDecoder(data[discriminatorLen:])

	total, err := decoder.ReadUint64(binary.LittleEndian)
	if err != nil {
		return domain.Board{}, fmt.Errorf("decode total entries: %w", err)
	}
	count, err := decoder.ReadUint32(binary.LittleEndian)
	if err != nil {
		return domain.Board{}, fmt.Errorf("decode entry count: %w", err)
	}
	if int(count) > decoder.Remaining()/minEntryLen {
		return domain.Board{}, fmt.Errorf("decode entry count: %d entries exceed account size", count)
	}

	entries := make([]domain.ListEntry, 0, count)
	for i := 0; i < int(count); i++ {
		linkLen, err := decoder.ReadUint32(binary.LittleEndian)
		if err != nil {
			return domain.Board{}, fmt.Errorf("decode entry %d: %w", i, err)
		}
		if int(linkLen) > decoder.Remaining() {
			return domain.Board{}, fmt.Errorf("decode entry %d: link length %d exceeds account size", i, linkLen)
		}
		link, err := decoder.ReadNBytes(int(linkLen))
		if err != nil {
			return domain.Board{}, fmt.Errorf("decode entry %d: %w", i, err)
		}
		submitter, err := decoder.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return domain.Board{}, fmt.Errorf("decode entry %d submitter: %w", i, err)
		}

		entries = append(entries, domain.ListEntry{
			Link:      string(link),
			Submitter: domain.Address(solana.PublicKeyFromBytes(submitter).String()),
		})
	}

	return domain.Board{Entries: entries, TotalEntries: total}, nil
}

// EncodeBoard is the inverse of decodeBoard.
func EncodeBoard(board domain.Board) ([]byte, error) {
	var buf bytes.Buffer
	encoder := bin.NewBorshEncoder(&buf)

	if err := encoder.WriteBytes(accountDiscriminator(boardAccountName), false); err != nil {
		return nil, err
	}
	if err := encoder.WriteUint64(board.TotalEntries, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := encoder.WriteUint32(uint32(len(board.Entries)), binary.LittleEndian); err != nil {
		return nil, err
	}
	for _, entry := range board.Entries {
		submitter, err := solana.PublicKeyFromBase58(entry.Submitter.String())
		if err != nil {
			return nil, fmt.Errorf("encode submitter %q: %w", entry.Submitter, err)
		}
		if err := encoder.WriteUint32(uint32(len(entry.Link)), binary.LittleEndian); err != nil {
			return nil, err
		}
		if err := encoder.WriteBytes([]byte(entry.Link), false); err != nil {
			return nil, err
		}
		if err := encoder.WriteBytes(submitter[:], false); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
