// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greeterui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// phiComplement is 1 - 1/φ. The form sits with its center at 38.2%
// of the screen height, and its width is 38.2% of the columns; the
// golden-section placement is the one piece of the original visual
// design worth carrying.
const phiComplement = 0.382

const (
	formWidthMin = 28
	formWidthMax = 50
)

// View renders the whole screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		// No size yet; bubbletea delivers WindowSizeMsg before the
		// first meaningful frame.
		return ""
	}

	header := m.renderHeader()
	form := m.renderForm()

	bodyHeight := m.height - lipgloss.Height(header)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	body := lipgloss.Place(
		m.width, bodyHeight,
		lipgloss.Center, lipgloss.Position(phiComplement),
		form,
		lipgloss.WithWhitespaceBackground(m.theme.Background),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderHeader draws the clock on the left and the power-key hints
// on the right, padded to the full width.
func (m Model) renderHeader() string {
	base := lipgloss.NewStyle().Background(m.theme.Background)
	textStyle := base.Foreground(m.theme.Foreground)
	accentStyle := base.Foreground(m.theme.Accent)

	clockTime := textStyle.Bold(true).Render(m.now.Format("15:04"))
	clockDate := textStyle.Render(strings.ToUpper(m.now.Format("Mon 02 Jan")))
	clock := lipgloss.JoinVertical(lipgloss.Left, clockTime, clockDate)

	hints := []string{}
	for _, binding := range []struct {
		key  string
		desc string
	}{
		{m.keys.Poweroff.Help().Key, m.keys.Poweroff.Help().Desc},
		{m.keys.Reboot.Help().Key, m.keys.Reboot.Help().Desc},
		{m.keys.Suspend.Help().Key, m.keys.Suspend.Help().Desc},
	} {
		hints = append(hints,
			accentStyle.Render("["+binding.key+"]")+textStyle.Render(" "+binding.desc))
	}
	hintLine := strings.Join(hints, textStyle.Render("  "))

	margin := base.Render("  ")
	left := lipgloss.JoinHorizontal(lipgloss.Top, margin, clock)
	right := lipgloss.JoinHorizontal(lipgloss.Top, hintLine, margin)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	filler := base.Render(strings.Repeat(" ", gap))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// renderForm draws the centered login box: host line, the two input
// fields, and the status line.
func (m Model) renderForm() string {
	formWidth := m.formWidth()

	base := lipgloss.NewStyle().Background(m.theme.Background)
	labelStyle := base.Foreground(m.theme.Foreground).Faint(true)
	hostStyle := base.Foreground(m.theme.Foreground).Bold(true)

	lines := []string{}

	if m.hostname != "" {
		host := strings.ToUpper(m.hostname)
		if m.kernel != "" {
			host += " · " + m.kernel
		}
		lines = append(lines,
			hostStyle.Width(formWidth).Align(lipgloss.Center).Render(ansi.Truncate(host, formWidth, "…")),
			base.Width(formWidth).Render(""),
		)
	}

	lines = append(lines,
		labelStyle.Render("USERNAME"),
		m.renderField(m.username, m.focus == focusUsername, formWidth),
		base.Width(formWidth).Render(""),
		labelStyle.Render("PASSWORD"),
		m.renderField(m.password, m.focus == focusPassword, formWidth),
		base.Width(formWidth).Render(""),
		m.renderStatus(formWidth),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderField draws one input in a bordered box. Focus shows as an
// accent border, matching the original's focused-input highlight.
func (m Model) renderField(input textinput.Model, focused bool, formWidth int) string {
	// The border eats two columns and the padding two more.
	input.Width = formWidth - 6
	borderColor := m.theme.Foreground
	if focused {
		borderColor = m.theme.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBackground(m.theme.Background).
		Background(m.theme.Background).
		Width(formWidth - 2).
		Padding(0, 1).
		Render(input.View())
}

// renderStatus draws the line under the form: the in-flight notice
// during authentication, the failure reason after one, otherwise
// blank to keep the layout stable.
func (m Model) renderStatus(formWidth int) string {
	base := lipgloss.NewStyle().Background(m.theme.Background).Width(formWidth)
	switch {
	case m.authenticating:
		return base.Foreground(m.theme.Foreground).Render("Authenticating…")
	case m.errorText != "":
		return base.Foreground(m.theme.Error).Render(ansi.Truncate(m.errorText, formWidth, "…"))
	default:
		return base.Render("")
	}
}

// formWidth is the golden-section width, clamped to sane bounds and
// to the screen.
func (m Model) formWidth() int {
	width := int(math.Round(float64(m.width) * phiComplement))
	if width < formWidthMin {
		width = formWidthMin
	}
	if width > formWidthMax {
		width = formWidthMax
	}
	if width > m.width-2 {
		width = m.width - 2
	}
	return width
}
