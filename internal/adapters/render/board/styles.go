package board

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Address   lipgloss.Style
	Link      lipgloss.Style
	Submitter lipgloss.Style
	Index     lipgloss.Style
	Hint      lipgloss.Style
	Key       lipgloss.Style
	Warning   lipgloss.Style
	Section   lipgloss.Style
	Empty     lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Address:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		Submitter: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Index:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Key:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Section:   lipgloss.NewStyle().MarginTop(1),
		Empty:     lipgloss.NewStyle().Faint(true),
	}
}
