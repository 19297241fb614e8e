// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package state supplies dependency-output values to the resolver. The only
// real implementation reads a module's local state file; remote backends are
// deliberately out of scope, and hosts may substitute their own lookup.
package state
