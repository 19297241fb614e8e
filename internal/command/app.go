// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/fsaccess"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// Save the CWD at startup and then defer restoring it so we're tidy.
	sd, _ := os.Getwd()
	defer func() {
		if err := os.Chdir(sd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to restore directory: %v\n", err)
		}
	}()

	// The arg[1] immediately following the binary (arg[0]) is the tflens
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		config.Config.Namespace = args[1]
	}

	session := Session{
		Args:        args,
		StartingDir: sd,
		RootDir:     sd,
	}

	// See if the arg immediately following the command might be a directory.
	// If it begins with - it's a flag and the CWD is the workspace root.
	// Special-case 'completion', which takes a plain positional argument.
	ns := config.Config.Namespace
	if ns != "completion" && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		wd, err := fsaccess.ResolveRoot(args[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse rootDir (%s): %w", args[2], err)
		}
		session.RootDir = wd
	}

	app := &cli.Command{
		Name:  "tflens",
		Usage: "Terragrunt configuration lens",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "tflens version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		resolveCommandBuilder(session),
		varsCommandBuilder(session),
		checkCommandBuilder(session),
		completionCommandBuilder(session),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
