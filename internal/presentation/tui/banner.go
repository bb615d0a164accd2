package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintReviewNotice prints the "waiting for human" banner with the review
// URL highlighted, so it stands out between tool logs.
func PrintReviewNotice(title, url string) {
	p := termenv.ColorProfile()

	label := termenv.String(" REVIEW ").Foreground(p.Color("#000000")).Background(p.Color("#4f9cf9")).Bold()
	name := termenv.String(title).Bold()
	link := termenv.String(url).Foreground(p.Color("#4f9cf9")).Underline()

	fmt.Println()
	fmt.Printf("%s %s\n", label, name)
	fmt.Printf("  Waiting for review at %s\n", link)
	fmt.Println("  Press Ctrl+C to cancel.")
	fmt.Println()
}
