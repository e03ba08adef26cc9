package domain

import "time"

type Session struct {
	Address Address
}

func (s Session) Connected() bool {
	return !s.Address.IsZero()
}

// TrustGrant records that a wallet approved this app once, so later
// non-interactive connects may succeed silently.
type TrustGrant struct {
	Address    Address
	WalletPath string
	GrantedAt  time.Time
}
