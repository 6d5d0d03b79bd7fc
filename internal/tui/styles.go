package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/evbook/evbook/internal/domain"
)

// ANSI 256 palette
const (
	colorBrand  = lipgloss.Color("35")
	colorAccent = lipgloss.Color("86")
	colorGood   = lipgloss.Color("46")
	colorBad    = lipgloss.Color("196")
	colorWarn   = lipgloss.Color("226")
	colorMuted  = lipgloss.Color("241")
	colorDim    = lipgloss.Color("8")
	colorText   = lipgloss.Color("7")
	colorOnDark = lipgloss.Color("230")
)

// Styles holds the lipgloss styles shared by every screen.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Status      lipgloss.Style
	Muted       lipgloss.Style
	Success     lipgloss.Style
	Highlighted lipgloss.Style
	Help        lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style

	booking map[domain.BookingStatus]lipgloss.Style
}

func DefaultStyles() Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	toast := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	return Styles{
		Title:       fg(colorBrand).Bold(true).MarginBottom(1),
		Subtitle:    fg(colorMuted).MarginBottom(1),
		Status:      fg(colorAccent).Bold(true),
		Muted:       fg(colorMuted),
		Success:     fg(colorGood).Bold(true),
		Highlighted: fg(colorOnDark).Background(colorBrand).Bold(true).Padding(0, 1),
		Help:        fg(colorMuted).MarginTop(1),
		Label:       fg(colorDim),
		Value:       fg(colorText).Bold(true),

		ToastInfo:    toast.BorderForeground(colorAccent),
		ToastSuccess: toast.BorderForeground(colorGood),
		ToastError:   toast.BorderForeground(colorBad),
		ToastWarning: toast.BorderForeground(colorWarn),

		booking: map[domain.BookingStatus]lipgloss.Style{
			domain.BookingPending:   fg(colorWarn),
			domain.BookingApproved:  fg(colorGood),
			domain.BookingRejected:  fg(colorBad),
			domain.BookingCancelled: fg(colorMuted),
		},
	}
}

// BookingCount renders "approved 3" in the status colour.
func (s Styles) BookingCount(status domain.BookingStatus, n int) string {
	text := fmt.Sprintf("%s %d", status, n)
	if st, ok := s.booking[status]; ok {
		return st.Render(text)
	}
	return s.Label.Render(text)
}
