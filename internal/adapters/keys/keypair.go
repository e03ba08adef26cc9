package keys

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	"github.com/gagliardetto/solana-go"
)

const keypairLen = 64

// Keypair is an ed25519 ledger key held in memory.
type Keypair struct {
	key solana.PrivateKey
}

var _ ports.Signer = (*Keypair)(nil)

func NewKeypair(key solana.PrivateKey) (*Keypair, error) {
	if len(key) != keypairLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrInvalidKeyMaterial, keypairLen, len(key))
	}
	return &Keypair{key: key}, nil
}

func Generate() (*Keypair, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{key: key}, nil
}

func (k *Keypair) Address() domain.Address {
	return domain.Address(k.key.PublicKey().String())
}

func (k *Keypair) Sign(ctx context.Context, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signature, err := k.key.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("sign message: %w", err)
	}
	return signature[:], nil
}

// MarshalKeygen renders the key the way solana-keygen writes it: a JSON
// array of the 64 secret bytes.
func (k *Keypair) MarshalKeygen() string {
	values := make([]int, len(k.key))
	for i, b := range k.key {
		values[i] = int(b)
	}
	encoded, _ := json.Marshal(values)
	return string(encoded)
}

// Parse accepts a solana-keygen JSON array, a base58 secret, or the
// serialized web3 keypair object with a "_keypair.secretKey" index map.
func Parse(raw string) (*Keypair, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidKeyMaterial)
	case strings.HasPrefix(trimmed, "["):
		return parseByteArray(trimmed)
	case strings.HasPrefix(trimmed, "{"):
		return parseIndexedObject(trimmed)
	default:
		key, err := solana.PrivateKeyFromBase58(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidKeyMaterial, err)
		}
		return NewKeypair(key)
	}
}

func LoadFile(path string) (*Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	return Parse(string(raw))
}

func parseByteArray(raw string) (*Keypair, error) {
	var values []int
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidKeyMaterial, err)
	}
	return fromInts(values)
}

type indexedKeypair struct {
	Keypair struct {
		SecretKey map[string]int `json:"secretKey"`
	} `json:"_keypair"`
}

func parseIndexedObject(raw string) (*Keypair, error) {
	var decoded indexedKeypair
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidKeyMaterial, err)
	}

	secret := decoded.Keypair.SecretKey
	indexes := make([]int, 0, len(secret))
	for rawIndex := range secret {
		index, err := strconv.Atoi(rawIndex)
		if err != nil {
			return nil, fmt.Errorf("%w: secret key index %q", domain.ErrInvalidKeyMaterial, rawIndex)
		}
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	values := make([]int, 0, len(indexes))
	for _, index := range indexes {
		values = append(values, secret[strconv.Itoa(index)])
	}
	return fromInts(values)
}

func fromInts(values []int) (*Keypair, error) {
	key := make(solana.PrivateKey, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range", domain.ErrInvalidKeyMaterial, i)
		}
		key[i] = byte(v)
	}
	return NewKeypair(key)
}
