// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// camila is a terminal client for the Camila emotional-support
// platform: anonymous chat with a message allowance, account-backed
// history, and role-scoped staff panels.
package main

import (
	"os"

	"github.com/garcessebastian/camila-tui/internal/cli"
)

func main() {
	cmd, args := cli.Parse()
	os.Exit(cli.Run(cmd, args))
}
