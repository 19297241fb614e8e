// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

// Session carries per-invocation context from InitApp into command actions
// via cli.Command.Metadata.
type Session struct {
	Args        []string
	RootDir     string
	StartingDir string
}
