// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command assembles the CLI: the resolve, vars and check
// subcommands, their flags, and the session threading the workspace root
// through to the resolution engine.
package command
