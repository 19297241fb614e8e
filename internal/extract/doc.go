// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package extract flattens one file's structural tree into a value snapshot
// (locals, inputs, variables, free attributes). Same-file local indirection
// is folded by a bounded fixed-point pass; anything cross-file stays marked
// Unresolved for the resolver chain to chase.
package extract
