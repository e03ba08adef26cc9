package application

import "github.com/bnema/solgifs-cli/internal/domain"

type Snapshot struct {
	Session domain.Session
	Board   domain.Address
	Sync    domain.SyncState
	View    domain.ViewState
	Notice  string
}

func (s Snapshot) Commands() []domain.Command {
	return s.View.Commands()
}
