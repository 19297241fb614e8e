// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	"github.com/urfave/cli/v3"
)

var (
	chainFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "chain",
		Aliases:     []string{"c"},
		Usage:       "show the resolution chain with text output",
		HideDefault: true,
	}

	noStateFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "no-state",
		Usage:       "never read Terraform state for dependency outputs",
		HideDefault: true,
	}

	statsFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "stats",
		Usage:       "show resolution cache statistics",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewCommonFlags returns the flags every query-style subcommand carries.
func NewCommonFlags() (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TFLENS_OUTPUT"),
			),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
		tldrFlag,
	}

	return
}

// pathHas checks if the given binary exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
