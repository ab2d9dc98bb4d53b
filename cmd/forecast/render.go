// cmd/forecast/render.go
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LilVoxy/service_requests/forecast"
)

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C3AED"}
	successColor = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02D98E"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#FF5F56", Dark: "#FF6B6B"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	headerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	forecastStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// renderStyled выводит отчет с оформлением. В терминале без поддержки цвета
// текст совпадает с forecast.Render.
func renderStyled(w io.Writer, r *forecast.Report) error {
	var b strings.Builder

	b.WriteString(headerStyle.Render(forecast.HistoryHeader) + "\n")
	for _, line := range forecast.HistoryLines(r) {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + headerStyle.Render(forecast.ForecastHeader(r.Target)) + "\n")
	for i, line := range forecast.ForecastLines(r) {
		switch {
		case i == 0:
			line = forecastStyle.Render(line)
		case r.Dropped > 0 && strings.HasPrefix(line, "Пропущено"):
			line = mutedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}
