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

// varsCommandAction is the action handler for the "vars" subcommand. It
// enumerates one category of symbols in a file and resolves each one.
func varsCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "vars") {
		return nil
	}

	session := GetSession(cmd)

	args := cmd.Args().Slice()
	if len(args) > 0 && args[0] == session.RootDir {
		args = args[1:]
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	engine := NewEngine(session, cmd)
	vars := engine.ListVariables(cmd.String("category"), TargetFile(session, args[0]))
	output.SortVariables(vars, cmd.String("sort"))

	output.Spit(vars, cmd, os.Stdout)
	EmitStats(engine, cmd)
	return nil
}

// varsCommandBuilder constructs the cli.Command for "vars", wiring metadata,
// flags, and action handlers.
func varsCommandBuilder(session Session) *cli.Command {
	return &cli.Command{
		Name:      "vars",
		Usage:     "list and resolve a file's variables",
		UsageText: "tflens vars [RootDir] <file> [options]",
		Flags: append(NewCommonFlags(),
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"k"},
				Usage:   "variable category to list",
				Value:   "locals",
				Validator: func(value string) error {
					return FlagValidators(value, CategoryValidator)
				},
			},
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "comma-separated list of fields to sort the results by",
				Value:   "name",
			},
			noStateFlag,
			statsFlag,
		),
		Metadata: map[string]any{
			"session": session,
		},
		Action: varsCommandAction,
	}
}
