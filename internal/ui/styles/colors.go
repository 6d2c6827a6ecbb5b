// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the camila TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Teal - Brand color, headers, the assistant's accents
var Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

// TealDeep - Darker teal for backgrounds
var TealDeep = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#134E4A"}

// Blue - User highlights, links, selections
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// BlueDeep - Darker blue for backgrounds
var BlueDeep = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#1E3A8A"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, critical risk, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, quota running low, high risk
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Emerald - Success states, minimal risk, connected
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Blue tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1D4ED8"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

// Assistant message bubble - Soft teal tones
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F0FDFA", Dark: "#1F3D3A"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#115E59", Dark: "#CCFBF1"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#5EEAD4", Dark: "#2DD4BF"}

// =============================================================================
// RISK BAND COLORS
// =============================================================================

var RiskMinimalColor = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
var RiskLowColor = lipgloss.AdaptiveColor{Light: "#65A30D", Dark: "#A3E635"}
var RiskMediumColor = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
var RiskHighColor = lipgloss.AdaptiveColor{Light: "#EA580C", Dark: "#FB923C"}
var RiskCriticalColor = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
