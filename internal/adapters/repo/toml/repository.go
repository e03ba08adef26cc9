package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/bnema/solgifs-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	TrustPathKey    = "wallet.trust_path"
	trustFileMode   = 0o600
	trustDirMode    = 0o700
	trustConfigDir  = ".solgifs"
	trustConfigFile = "trust.toml"
	tempFilePattern = ".trust-*.toml.tmp"
)

// TrustRepository persists wallet approvals in a single TOML file.
type TrustRepository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.TrustRepository = (*TrustRepository)(nil)

func NewTrustRepository(cfg *viper.Viper) (*TrustRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(TrustPathKey, filepath.Join(homeDir, trustConfigDir, trustConfigFile))

	path := cfg.GetString(TrustPathKey)
	if path == "" {
		return nil, errors.New("trust path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &TrustRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *TrustRepository) Path() string {
	return r.path
}

func (r *TrustRepository) Get(ctx context.Context, address domain.Address) (domain.TrustGrant, error) {
	if err := ctx.Err(); err != nil {
		return domain.TrustGrant{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.TrustGrant{}, err
	}

	for _, entry := range file.Grants {
		if entry.Address == address.String() {
			return fromSchema(entry), nil
		}
	}

	return domain.TrustGrant{}, domain.ErrTrustNotFound
}

func (r *TrustRepository) List(ctx context.Context) ([]domain.TrustGrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	grants := make([]domain.TrustGrant, 0, len(file.Grants))
	for _, entry := range file.Grants {
		grants = append(grants, fromSchema(entry))
	}

	return grants, nil
}

// Save inserts or replaces the grant for grant.Address.
func (r *TrustRepository) Save(ctx context.Context, grant domain.TrustGrant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if grant.Address.IsZero() {
		return errors.New("trust grant address is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(grant)
	replaced := false
	for i := range file.Grants {
		if file.Grants[i].Address == encoded.Address {
			file.Grants[i] = encoded
			replaced = true
			break
		}
	}
	if !replaced {
		file.Grants = append(file.Grants, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

// Delete revokes a grant. Revoking an unknown address is not an error.
func (r *TrustRepository) Delete(ctx context.Context, address domain.Address) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Grants[:0]
	for _, entry := range file.Grants {
		if entry.Address != address.String() {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(file.Grants) {
		return nil
	}
	file.Grants = kept

	return r.writeSchema(file)
}

func (r *TrustRepository) readSchema() (trustFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := trustFileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return trustFileSchema{}, fmt.Errorf("read trust file: %w", err)
	}

	var file trustFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return trustFileSchema{}, fmt.Errorf("decode trust file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return trustFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *TrustRepository) writeSchema(file trustFileSchema) error {
	file.applyDefaults()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, trustDirMode); err != nil {
		return fmt.Errorf("create trust directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode trust file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp trust file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp trust file: %w", err)
	}
	if err := tempFile.Chmod(trustFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp trust file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp trust file: %w", err)
	}
	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace trust file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve trust path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(grant domain.TrustGrant) grantSchema {
	return grantSchema{
		Address:    grant.Address.String(),
		WalletPath: grant.WalletPath,
		GrantedAt:  grant.GrantedAt.UTC(),
	}
}

func fromSchema(entry grantSchema) domain.TrustGrant {
	return domain.TrustGrant{
		Address:    domain.Address(entry.Address),
		WalletPath: entry.WalletPath,
		GrantedAt:  entry.GrantedAt.UTC(),
	}
}
