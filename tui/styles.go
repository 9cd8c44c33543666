package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)

	modeActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	modeInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("24")).
			Padding(0, 1)

	tileKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	gridTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	gridStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	gridBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("24"))

	chatBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("24"))

	userBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	aiLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	imageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Underline(true)
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false).BorderForeground(lipgloss.Color("240"))
	onlineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("28")).Padding(0, 1)
	busyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	feedbackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	feedbackErrSty = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	paletteStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
	suggestionStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeSuggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(1, 2)
	overlayTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	detailKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	detailGroupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)
