// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tflens/tflens/internal/command"
	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/fsaccess"
	"github.com/tflens/tflens/internal/log"
	"github.com/tflens/tflens/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		// Expand @set first so its flags take part in deduplication.
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)

		args = processRootDirArg(args)
		return deduplicateFlags(args)
	}
}

// processRootDirArg makes sure the argument immediately following the
// subcommand is the workspace root, inserting the CWD when the invocation
// left it out.
func processRootDirArg(args []string) []string {
	rootDir, _ := os.Getwd()
	if len(args) > 2 {
		if wd, err := fsaccess.ResolveRoot(args[2]); err == nil {
			rootDir = wd
		}
	}
	if len(args) == 2 {
		args = append(args, rootDir)
	} else if args[2] != rootDir {
		args = append(args[:2], append([]string{rootDir}, args[2:]...)...)
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly handles the @set logic for all commands, expanding set
// arguments at the @set position.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	set := "defaults"
	removeIdx := -1
	for i, a := range args[min(idx, len(args)):] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx != -1 {
		// Remove the @set argument.
		args = append(args[:removeIdx], args[removeIdx+1:]...)
		// Expand the set arguments at the removeIdx position.
		setArgs, _ := config.GetStringSlice(args[1] + "." + set)
		for _, arg := range setArgs {
			parts := strings.Fields(arg)
			args = append(args[:removeIdx], append(parts, args[removeIdx:]...)...)
			removeIdx += len(parts)
		}
	}
	return args
}

// deduplicateFlags keeps only the last occurrence of a repeated flag so a
// @set default can be overridden on the command line. Positional arguments
// are preserved in place.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		flag  string
		start int
		end   int
	}

	var tokens []token
	for i := 2; i < len(args); {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			tokens = append(tokens, token{start: i, end: i + 1})
			i++
			continue
		}

		name := a
		end := i + 1
		if eq := strings.Index(a, "="); eq != -1 {
			name = a[:eq]
		} else if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			// A flag followed by a non-flag token consumes it as its value.
			end = i + 2
		}
		tokens = append(tokens, token{flag: name, start: i, end: end})
		i = end
	}

	// Last occurrence of each flag wins.
	last := map[string]int{}
	for idx, tok := range tokens {
		if tok.flag != "" {
			last[tok.flag] = idx
		}
	}

	out := args[:2:2]
	for idx, tok := range tokens {
		if tok.flag != "" && last[tok.flag] != idx {
			continue
		}
		out = append(out, args[tok.start:tok.end]...)
	}
	return out
}
