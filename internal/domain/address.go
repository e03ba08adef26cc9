package domain

import "strings"

// Address is a base58-encoded ledger public key.
type Address string

func (a Address) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

func (a Address) String() string {
	return string(a)
}

// Short renders the first and last four characters, e.g. "726X…4DiU".
func (a Address) Short() string {
	s := string(a)
	if len(s) <= 10 {
		return s
	}
	return s[:4] + "…" + s[len(s)-4:]
}
