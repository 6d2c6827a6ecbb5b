// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/garcessebastian/camila-tui/internal/store"
	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

// =============================================================================
// QUOTA BADGE
// =============================================================================

// QuotaBadge renders the anonymous message allowance. Signed-in users
// are unmetered, so the badge disappears for them.
func QuotaBadge(theme *styles.Theme, remaining int, authenticated bool) string {
	if authenticated {
		return ""
	}
	label := fmt.Sprintf("%d/%d mensajes", remaining, store.AnonymousLimit)
	if remaining == 0 {
		label = "Sin mensajes: inicia sesión"
	}
	return theme.QuotaStyle(remaining).Render(label)
}
