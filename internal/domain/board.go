package domain

import (
	"fmt"
	"net/url"
	"strings"
)

type ListEntry struct {
	Link      string
	Submitter Address
}

// Board is the decoded content of the shared remote account.
type Board struct {
	Entries      []ListEntry
	TotalEntries uint64
}

type SyncStatus string

const (
	SyncNotLoaded     SyncStatus = "not_loaded"
	SyncUninitialized SyncStatus = "uninitialized"
	SyncLoaded        SyncStatus = "loaded"
	SyncUnavailable   SyncStatus = "unavailable"
)

type SyncState struct {
	Status       SyncStatus
	Entries      []ListEntry
	TotalEntries uint64
	// Err is the transient fetch failure behind SyncUnavailable.
	Err error
}

func NotLoadedState() SyncState {
	return SyncState{Status: SyncNotLoaded}
}

func LoadedState(board Board) SyncState {
	entries := make([]ListEntry, len(board.Entries))
	copy(entries, board.Entries)
	return SyncState{Status: SyncLoaded, Entries: entries, TotalEntries: board.TotalEntries}
}

func UninitializedState() SyncState {
	return SyncState{Status: SyncUninitialized}
}

func UnavailableState(cause error) SyncState {
	return SyncState{Status: SyncUnavailable, Err: cause}
}

func (s SyncState) Contains(link string) bool {
	for _, entry := range s.Entries {
		if entry.Link == link {
			return true
		}
	}
	return false
}

// ValidateLink reports whether raw is an absolute http(s) URL. The board
// stores any non-empty text, so callers treat a failure as a warning.
func ValidateLink(raw string) error {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: %q must use http or https", ErrInvalidLink, trimmed)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidLink, trimmed)
	}
	return nil
}
