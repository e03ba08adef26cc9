package board

import (
	"fmt"
	"strings"

	"github.com/bnema/solgifs-cli/internal/application"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// Hints maps each offered command to how the user triggers it, such as
	// "sg connect" or a key binding.
	Hints map[domain.Command]string
	// Limit caps the rendered entries, newest last. Zero renders all.
	Limit int
}

var commandLabels = map[domain.Command]string{
	domain.CommandConnect:    "connect wallet",
	domain.CommandInitialize: "create the board account (one time)",
	domain.CommandSubmit:     "submit a link",
	domain.CommandRefresh:    "refresh",
}

// View renders the snapshot as plain styled text. It has no side effects
// and is shared by the one-shot renderer and the interactive UI.
func View(snapshot application.Snapshot, opts RenderOptions, s Styles) string {
	lines := []string{
		s.Title.Render("GIF Board"),
		s.Header.Render("board: " + snapshot.Board.String()),
	}
	if snapshot.Session.Connected() {
		lines = append(lines, s.Header.Render("wallet: ")+s.Address.Render(snapshot.Session.Address.String()))
	}
	if snapshot.Notice != "" {
		lines = append(lines, s.Warning.Render(noticeText(snapshot.Notice)))
	}

	lines = append(lines, s.Section.Render(body(snapshot, opts, s)))

	if hints := hintLines(snapshot.Commands(), opts, s); len(hints) > 0 {
		lines = append(lines, s.Section.Render(lipgloss.JoinVertical(lipgloss.Left, hints...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func body(snapshot application.Snapshot, opts RenderOptions, s Styles) string {
	switch snapshot.View {
	case domain.ViewDisconnected:
		return s.Empty.Render("Connect a wallet to see the board.")
	case domain.ViewConnectedLoading:
		return s.Empty.Render("Loading board…")
	case domain.ViewConnectedUninitialized:
		return s.Empty.Render("The board account does not exist yet.")
	case domain.ViewConnectedUnavailable:
		reason := "unknown error"
		if snapshot.Sync.Err != nil {
			reason = snapshot.Sync.Err.Error()
		}
		return s.Warning.Render("Board unavailable: " + reason)
	default:
		return entryList(snapshot.Sync, opts, s)
	}
}

func entryList(sync domain.SyncState, opts RenderOptions, s Styles) string {
	header := s.Header.Render(fmt.Sprintf("links: %d (total submitted: %d)", len(sync.Entries), sync.TotalEntries))
	if len(sync.Entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, s.Empty.Render("No links yet. Be the first."))
	}

	start := 0
	if opts.Limit > 0 && len(sync.Entries) > opts.Limit {
		start = len(sync.Entries) - opts.Limit
	}

	width := len(fmt.Sprint(len(sync.Entries)))
	lines := []string{header}
	for i := start; i < len(sync.Entries); i++ {
		entry := sync.Entries[i]
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.Index.Render(fmt.Sprintf("%*d.", width, i+1)),
			" ",
			s.Link.Render(entry.Link),
			" ",
			s.Submitter.Render("by "+entry.Submitter.Short()),
		))
	}
	if start > 0 {
		lines = append(lines, s.Empty.Render(fmt.Sprintf("(%d older links hidden)", start)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func hintLines(commands []domain.Command, opts RenderOptions, s Styles) []string {
	lines := make([]string, 0, len(commands))
	for _, cmd := range commands {
		trigger, ok := opts.Hints[cmd]
		if !ok {
			continue
		}
		lines = append(lines, s.Key.Render(trigger)+" "+s.Hint.Render(commandLabels[cmd]))
	}
	return lines
}

func noticeText(notice string) string {
	if strings.Contains(notice, domain.ErrProviderUnavailable.Error()) {
		return "No wallet found. Create one with `solana-keygen new` or set wallet.keypair_path."
	}
	return notice
}
