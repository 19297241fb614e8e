// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tflens/tflens/internal/output"
)

// resolveCommandAction is the action handler for the "resolve" subcommand.
// It resolves one symbolic expression in the context of one file and emits
// the graded result.
func resolveCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "resolve") {
		return nil
	}

	session := GetSession(cmd)

	// Positionals arrive as [RootDir] <file> <expression>; the root was
	// already consumed by InitApp.
	args := cmd.Args().Slice()
	if len(args) > 0 && args[0] == session.RootDir {
		args = args[1:]
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	engine := NewEngine(session, cmd)
	res := engine.Resolve(TargetFile(session, args[0]), args[1])

	output.Spit(res, cmd, os.Stdout)
	EmitStats(engine, cmd)
	return nil
}

// resolveCommandBuilder constructs the cli.Command for "resolve", wiring
// metadata, flags, and action handlers.
func resolveCommandBuilder(session Session) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "resolve a symbolic expression",
		UsageText: "tflens resolve [RootDir] <file> <expression> [options]",
		Flags: append(NewCommonFlags(),
			chainFlag,
			noStateFlag,
			statsFlag,
		),
		Metadata: map[string]any{
			"session": session,
		},
		Action: resolveCommandAction,
	}
}
