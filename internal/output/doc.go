// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders resolution results, variable listings and
// diagnostics as text, JSON or YAML per the --output flag.
package output
