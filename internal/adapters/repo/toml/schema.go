package toml

import (
	"fmt"
	"time"
)

const currentSchemaVersion = 1

type trustFileSchema struct {
	Version int           `toml:"version"`
	Grants  []grantSchema `toml:"grants"`
}

func (s *trustFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s trustFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported trust schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type grantSchema struct {
	Address    string    `toml:"address"`
	WalletPath string    `toml:"wallet_path,omitempty"`
	GrantedAt  time.Time `toml:"granted_at"`
}
