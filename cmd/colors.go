package cmd

import (
	"github.com/fatih/color"
)

var (
	colorCritique   = color.New(color.FgRed, color.Bold).SprintFunc()
	colorSuspect    = color.New(color.FgYellow).SprintFunc()
	colorSurveiller = color.New(color.FgCyan).SprintFunc()
	colorOK         = color.New(color.FgGreen).SprintFunc()
)

// formatLabel colors a risk label for terminal output.
func formatLabel(label string) string {
	switch label {
	case "critique":
		return colorCritique(label)
	case "suspect":
		return colorSuspect(label)
	case "surveiller":
		return colorSurveiller(label)
	case "ok":
		return colorOK(label)
	default:
		return label
	}
}
