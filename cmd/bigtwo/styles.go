package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/bigtwo/bigtwo"
)

var (
	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().
			Bold(true)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	seatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

func renderCard(c bigtwo.Card) string {
	if c.Suit().IsRed() {
		return redCardStyle.Render(c.Symbol())
	}
	return blackCardStyle.Render(c.Symbol())
}

func renderCards(cards []bigtwo.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c)
	}
	return strings.Join(parts, " ")
}

func renderHand(h bigtwo.Hand) string {
	return kindStyle.Render(h.Kind().String()) + " " + renderCards(h.Cards())
}
