package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for remac.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient (teal to blue)
	s1 := termenv.String(`  _ __ ___ _ __ ___   __ _  ___ `).Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String(` | '__/ _ \ '_ ` + "`" + ` _ \ / _` + "`" + ` |/ __|`).Foreground(p.Color("#38bdf8"))
	s3 := termenv.String(` | | |  __/ | | | | | (_| | (__ `).Foreground(p.Color("#60a5fa"))
	s4 := termenv.String(` |_|  \___|_| |_| |_|\__,_|\___|`).Foreground(p.Color("#818cf8"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Printf("  macro engine %s\n\n", version)
}
