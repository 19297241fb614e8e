// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/tflens/tflens/internal/fsaccess"
	"github.com/tflens/tflens/internal/output"
	"github.com/tflens/tflens/internal/resolver"
	"github.com/tflens/tflens/internal/state"
	"github.com/tflens/tflens/internal/workspace"
)

// GetSession returns the Session stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetSession(cmd *cli.Command) Session {
	if cmd == nil || cmd.Metadata == nil {
		return Session{}
	}
	if s, ok := cmd.Metadata["session"].(Session); ok {
		return s
	}
	return Session{}
}

// NewEngine builds the resolution engine for a command invocation. --no-state
// disables dependency-output lookups entirely; the engine then fast-rejects
// that expression shape.
func NewEngine(session Session, cmd *cli.Command) *resolver.Engine {
	ws := workspace.New(fsaccess.New(session.RootDir))

	var st state.OutputLookup
	if !cmd.Bool("no-state") {
		st = state.Local{}
	}
	return resolver.New(ws, st)
}

// TargetFile normalizes a positional file argument against the workspace
// root.
func TargetFile(session Session, arg string) string {
	if filepath.IsAbs(arg) || fsaccess.ToPath(arg) != arg {
		return arg
	}
	return filepath.Join(session.RootDir, arg)
}

// EmitStats appends cache statistics to the output when --stats is set.
func EmitStats(e *resolver.Engine, cmd *cli.Command) {
	if cmd.Bool("stats") {
		output.Spit(e.CacheStats(), cmd, os.Stdout)
	}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr tflens <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "tflens", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}
