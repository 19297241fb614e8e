// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tflens/tflens/internal/diag"
	"github.com/tflens/tflens/internal/log"
	"github.com/tflens/tflens/internal/output"
)

// skipDirs are directory names never worth validating.
var skipDirs = map[string]bool{
	".git":              true,
	".terraform":        true,
	".terragrunt-cache": true,
}

// checkCommandAction is the action handler for the "check" subcommand. It
// validates the named files, or every .hcl file under the workspace root
// when none are named, and fails when any file has an error.
func checkCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "check") {
		return nil
	}

	session := GetSession(cmd)

	args := cmd.Args().Slice()
	if len(args) > 0 && args[0] == session.RootDir {
		args = args[1:]
	}

	files := args
	if len(files) == 0 {
		var err error
		files, err = findConfigFiles(session.RootDir)
		if err != nil {
			return err
		}
	}

	var all []diag.Diagnostic
	errorCount := 0
	for _, f := range files {
		path := TargetFile(session, f)
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		diags := diag.Validate(path, string(text))
		for _, d := range diags {
			if d.Severity == diag.SeverityError {
				errorCount++
			}
		}
		all = append(all, diags...)
	}

	output.Spit(all, cmd, os.Stdout)
	log.Debugf("check complete: files=%d, findings=%d, errors=%d", len(files), len(all), errorCount)

	if errorCount > 0 {
		return fmt.Errorf("%d error(s) in %d file(s)", errorCount, len(files))
	}
	return nil
}

// findConfigFiles walks the workspace root collecting .hcl files, skipping
// VCS and terraform work directories.
func findConfigFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// checkCommandBuilder constructs the cli.Command for "check", wiring
// metadata, flags, and action handlers.
func checkCommandBuilder(session Session) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "validate configuration files",
		UsageText: "tflens check [RootDir] [file ...] [options]",
		Flags:     NewCommonFlags(),
		Metadata: map[string]any{
			"session": session,
		},
		Action: checkCommandAction,
	}
}
