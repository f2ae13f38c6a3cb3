package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"})
	stylePrompt = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"})
)

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("   ")
}

// Render prints the palette with color swatches followed by the prompt.
func Render(w io.Writer, res Result) {
	fmt.Fprintln(w, styleTitle.Render("Paleta")+" "+styleMuted.Render(string(res.Mode)))
	for _, hex := range res.Palette.Hex() {
		fmt.Fprintf(w, "  %s %s\n", swatch(hex), hex)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Prompt"))
	fmt.Fprintln(w, stylePrompt.Render(res.Prompt))
}

// RenderPlain prints only the prompt, for piping.
func RenderPlain(w io.Writer, res Result) {
	fmt.Fprintln(w, strings.TrimSpace(res.Prompt))
}
