package application

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/solgifs-cli/internal/domain"
)

const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// Config is the fixed network binding, read once at startup.
type Config struct {
	Endpoint   string
	Commitment string
	ProgramID  domain.Address
}

func (c Config) Validate() error {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return errors.New("network endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse network endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("network endpoint must use http or https")
	}

	switch c.Commitment {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
	default:
		return fmt.Errorf("unsupported commitment %q", c.Commitment)
	}

	if c.ProgramID.IsZero() {
		return errors.New("program id is required")
	}

	return nil
}
