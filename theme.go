package main

import (
	"image/color"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

type Theme int

const (
	ThemeSketch Theme = iota
	ThemeNeon
)

func (t Theme) String() string {
	if t == ThemeNeon {
		return "neon"
	}
	return "sketch"
}

func themeFromName(name string) Theme {
	if name == "neon" {
		return ThemeNeon
	}
	return ThemeSketch
}

func (t Theme) Next() Theme {
	if t == ThemeSketch {
		return ThemeNeon
	}
	return ThemeSketch
}

var neonAccents = []string{"#39ff14", "#00f0ff", "#ff2079", "#ffe600", "#bc13fe"}

// NewHints rolls the theme-dependent decoration for a freshly created
// object. The sketch theme tilts cards a little; neon picks an accent
// color. Objects rebuilt from a saved record keep their stored hints and
// never pass through here.
func (t Theme) NewHints() StyleHints {
	switch t {
	case ThemeNeon:
		return StyleHints{Accent: neonAccents[rand.Intn(len(neonAccents))]}
	default:
		return StyleHints{Rotation: rand.Float64()*6 - 3}
	}
}

// LineStyle is how connection lines are drawn. It is derived from the
// active theme on every draw and is never persisted with the edge.
type LineStyle struct {
	Color  lipgloss.Color
	Rune   rune
	Dashed bool
	Glow   bool
}

func (t Theme) LineStyle() LineStyle {
	switch t {
	case ThemeNeon:
		return LineStyle{Color: lipgloss.Color("#00f0ff"), Rune: '•', Glow: true}
	default:
		return LineStyle{Color: lipgloss.Color("#8a8a8a"), Rune: '·', Dashed: true}
	}
}

func (t Theme) brushColor() color.Color {
	if t == ThemeNeon {
		return color.RGBA{R: 0x39, G: 0xff, B: 0x14, A: 0xff}
	}
	return color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
}

func (t Theme) borderColor(o *Object, selected bool) lipgloss.Color {
	if t == ThemeNeon {
		if o.Hints.Accent != "" {
			return lipgloss.Color(o.Hints.Accent)
		}
		return lipgloss.Color("#00f0ff")
	}
	if selected {
		return lipgloss.Color("#d7af5f")
	}
	return lipgloss.Color("#b2b2b2")
}

func (t Theme) objectStyle(o *Object, selected, pending bool) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(t.borderColor(o, selected))
	if selected || pending {
		st = st.Bold(true)
	}
	if pending {
		st = st.Reverse(true)
	}
	return st
}

func (t Theme) statusStyle() lipgloss.Style {
	if t == ThemeNeon {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0c0c1e")).
			Background(lipgloss.Color("#39ff14"))
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1c1c1c")).
		Background(lipgloss.Color("#c6c6c6"))
}

func (t Theme) messageStyle() lipgloss.Style {
	if t == ThemeNeon {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ff2079")).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#87875f"))
}
