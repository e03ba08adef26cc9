package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/solgifs-cli/internal/application"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".solgifs"
	envPrefix  = "SG"

	KeyEndpoint       = "network.endpoint"
	KeyCommitment     = "network.commitment"
	KeyProgramID      = "program.id"
	KeyBoardKeyRef    = "board.key_ref"
	KeyWalletPath     = "wallet.keypair_path"
	KeyTrustPath      = "wallet.trust_path"
	KeySecretsDir     = "secrets.dir"
	KeySecretsBackend = "secrets.backend"
	KeyLogPath        = "log.path"
	KeyLogLevel       = "log.level"
	KeyPollInterval   = "confirm.poll_interval"

	DefaultEndpoint  = "https://api.devnet.solana.com"
	DefaultProgramID = "726Xd1yVMjwokPPAX9qNS6tZAdGnPHCahHLKuddW4DiU"
)

type Settings struct {
	Network        application.Config
	BoardKeyRef    string
	WalletPath     string
	TrustPath      string
	SecretsDir     string
	SecretsBackend string
	LogPath        string
	LogLevel       string
	PollInterval   time.Duration
}

// Load reads ~/.solgifs/config.toml when present and applies SG_* overrides,
// e.g. SG_NETWORK_ENDPOINT for network.endpoint.
func Load(v *viper.Viper) (Settings, error) {
	if v == nil {
		v = viper.New()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("resolve home directory: %w", err)
	}
	base := filepath.Join(home, configDir)

	v.SetDefault(KeyEndpoint, DefaultEndpoint)
	v.SetDefault(KeyCommitment, application.CommitmentProcessed)
	v.SetDefault(KeyProgramID, DefaultProgramID)
	v.SetDefault(KeyBoardKeyRef, "solgifs/board/keypair")
	v.SetDefault(KeyWalletPath, filepath.Join(home, ".config", "solana", "id.json"))
	v.SetDefault(KeyTrustPath, filepath.Join(base, "trust.toml"))
	v.SetDefault(KeySecretsDir, filepath.Join(base, "secrets"))
	v.SetDefault(KeySecretsBackend, "auto")
	v.SetDefault(KeyLogPath, filepath.Join(base, "sg.log"))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPollInterval, 500*time.Millisecond)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(base)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	settings := Settings{
		Network: application.Config{
			Endpoint:   strings.TrimSpace(v.GetString(KeyEndpoint)),
			Commitment: strings.ToLower(strings.TrimSpace(v.GetString(KeyCommitment))),
			ProgramID:  domain.Address(strings.TrimSpace(v.GetString(KeyProgramID))),
		},
		BoardKeyRef:    strings.TrimSpace(v.GetString(KeyBoardKeyRef)),
		WalletPath:     expandHome(v.GetString(KeyWalletPath), home),
		TrustPath:      expandHome(v.GetString(KeyTrustPath), home),
		SecretsDir:     expandHome(v.GetString(KeySecretsDir), home),
		SecretsBackend: strings.TrimSpace(v.GetString(KeySecretsBackend)),
		LogPath:        expandHome(v.GetString(KeyLogPath), home),
		LogLevel:       v.GetString(KeyLogLevel),
		PollInterval:   v.GetDuration(KeyPollInterval),
	}
	// The trust repository reads its path from the same viper instance.
	v.Set(KeyTrustPath, settings.TrustPath)

	if err := settings.Network.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	if settings.BoardKeyRef == "" {
		return Settings{}, errors.New("invalid config: board key reference is empty")
	}

	return settings, nil
}

func expandHome(path string, home string) string {
	path = strings.TrimSpace(path)
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
