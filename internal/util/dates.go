// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"time"
)

// RelativeDate renders a timestamp as Spanish relative text for list views:
// "Ahora" under a minute, then "Hace N min", "Hace Nh", "Hace Nd" up to a
// week, and an absolute date beyond that. A zero time renders as an empty
// string.
func RelativeDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Ahora"
	case diff < time.Hour:
		return fmt.Sprintf("Hace %d min", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("Hace %dh", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("Hace %dd", int(diff.Hours()/24))
	default:
		return t.Format("02/01/2006")
	}
}
