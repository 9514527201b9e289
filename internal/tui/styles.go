package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary      = lipgloss.Color("#00D7FF") // cyan  — cursor / title
	colorSecondary    = lipgloss.Color("#AF87FF") // purple — server names
	colorSuccess      = lipgloss.Color("#87FF5F") // green — selected
	colorWarning      = lipgloss.Color("#FFD700") // yellow — counts / loading
	colorDanger       = lipgloss.Color("#FF5555") // red — invalid configs
	colorMuted        = lipgloss.Color("#555577") // dim gray — hints
	colorBorder       = lipgloss.Color("#333355") // default border
	colorBorderActive = lipgloss.Color("#00D7FF") // preview border
	colorTitle        = lipgloss.Color("#FFFFFF") // pane titles
)

// Header bar (top)
var headerStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("#0D0D1A")).
	Foreground(colorPrimary).
	Padding(0, 1)

// Config list rows
var (
	cursorStyle      = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	checkedStyle     = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	uncheckedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	nameStyle        = lipgloss.NewStyle().Foreground(colorTitle)
	nameActiveStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	descriptionStyle = lipgloss.NewStyle().Foreground(colorSecondary)
)

// Invalid section
var (
	invalidHeaderStyle = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	invalidNameStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	errorDetailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
)

// Preview pane
var (
	previewPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorderActive).
				Padding(0, 1)

	previewTitleStyle   = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	previewLoadingStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

// Empty state box (no valid configs)
var emptyBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder).
	Padding(0, 2)

var (
	hintStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	countStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
)
