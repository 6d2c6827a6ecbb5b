// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND CHROME
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SenderUser      lipgloss.Style
	SenderAssistant lipgloss.Style
	Timestamp       lipgloss.Style
	TypingText      lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// HISTORY SIDEBAR
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	HistoryItem         lipgloss.Style
	HistoryItemSelected lipgloss.Style
	HistoryMeta         lipgloss.Style
	EmptyState          lipgloss.Style

	// ==========================================================================
	// QUOTA BADGE
	// ==========================================================================

	QuotaOK      lipgloss.Style
	QuotaWarning lipgloss.Style
	QuotaDanger  lipgloss.Style

	// ==========================================================================
	// TOAST AND STATUS
	// ==========================================================================

	ErrorToast   lipgloss.Style
	InfoToast    lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	Spinner      lipgloss.Style

	// ==========================================================================
	// AUTH FORMS
	// ==========================================================================

	FormBox        lipgloss.Style
	FormTitle      lipgloss.Style
	FormLabel      lipgloss.Style
	FormFocused    lipgloss.Style
	FormBlurred    lipgloss.Style
	FormError      lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style

	// ==========================================================================
	// PANEL TABLES
	// ==========================================================================

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	PanelTitle  lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. forceDark
// overrides background detection when non-nil (the config `ui.theme`
// setting).
func NewTheme(forceDark *bool) *Theme {
	colorProfile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()
	if forceDark != nil {
		isDark = *forceDark
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SenderUser = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.SenderAssistant = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TypingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// History sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.HistoryItem = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.HistoryItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Bold(true)

	t.HistoryMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	// Quota badge
	t.QuotaOK = lipgloss.NewStyle().
		Foreground(Emerald)

	t.QuotaWarning = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.QuotaDanger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Toasts
	t.ErrorToast = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.InfoToast = lipgloss.NewStyle().
		Foreground(Blue).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Blue).
		Padding(0, 1)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Teal)

	// Auth forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormFocused = lipgloss.NewStyle().
		Foreground(Teal)

	t.FormBlurred = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose)

	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Bold(true).
		Padding(0, 3)

	t.ButtonInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 3)

	// Panel tables
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Underline(true)
}

// SetSize records the current terminal dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// RiskStyle returns the style for a risk band.
func (t *Theme) RiskStyle(level model.RiskLevel) lipgloss.Style {
	switch level {
	case model.RiskCritico:
		return lipgloss.NewStyle().Foreground(RiskCriticalColor).Bold(true)
	case model.RiskAlto:
		return lipgloss.NewStyle().Foreground(RiskHighColor).Bold(true)
	case model.RiskMedio:
		return lipgloss.NewStyle().Foreground(RiskMediumColor)
	case model.RiskBajo:
		return lipgloss.NewStyle().Foreground(RiskLowColor)
	default:
		return lipgloss.NewStyle().Foreground(RiskMinimalColor)
	}
}

// QuotaStyle grades the remaining-messages badge.
func (t *Theme) QuotaStyle(remaining int) lipgloss.Style {
	switch {
	case remaining <= 1:
		return t.QuotaDanger
	case remaining <= 2:
		return t.QuotaWarning
	default:
		return t.QuotaOK
	}
}
