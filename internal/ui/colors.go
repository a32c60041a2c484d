package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette(Theme{
	Title: "#7D56F4",
	OK:    "#04B575",
	Err:   "#FF0000",
	Warn:  "#FFA500",
	Help:  "#626262",
	Moods: map[string]string{
		"Happy":    "#F9D423",
		"Sad":      "#4A90E2",
		"Angry":    "#E94E3C",
		"Fear":     "#8E44AD",
		"Surprise": "#F39C12",
		"Neutral":  "#95A5A6",
	},
})

// Theme lists hex colors for each role; Moods gives every display emotion an accent.
type Theme struct {
	Title, OK, Err, Warn, Help string
	Moods                      map[string]string
}

// Palette is the stylesheet views render with.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	moods map[string]lipgloss.Style
}

func NewPalette(t Theme) *Palette {
	p := &Palette{
		title: NewBold(t.Title).MarginBottom(1),
		ok:    NewBold(t.OK),
		err:   NewBold(t.Err),
		warn:  NewStyle(t.Warn),
		help:  NewEm(t.Help),
		moods: make(map[string]lipgloss.Style, len(t.Moods)),
	}
	for label, fg := range t.Moods {
		p.moods[label] = NewBold(fg)
	}
	return p
}

// Mood renders label in its accent color, falling back to the title style.
func (p *Palette) Mood(label string) string {
	if s, ok := p.moods[label]; ok {
		return s.Render(label)
	}
	return p.title.Render(label)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
