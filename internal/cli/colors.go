package cli

import (
	"github.com/fatih/color"
)

// Color functions for consistent styling across commands.
var (
	Keyword = color.New(color.FgCyan, color.Bold).SprintFunc()
	Symbol  = color.New(color.FgYellow).SprintFunc()
	Type    = color.New(color.FgGreen).SprintFunc()
	Path    = color.New(color.FgHiBlack).SprintFunc()
	Success = color.New(color.FgGreen).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Error   = color.New(color.FgRed).SprintFunc()
	Info    = color.New(color.FgBlue).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)
