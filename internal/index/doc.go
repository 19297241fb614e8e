// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package index maintains the workspace-wide view of parsed documents: the
// last tree per file and a reverse symbol table (kind:name -> definitions).
// Re-indexing a file replaces its prior contribution wholesale so stale
// symbols cannot linger.
package index
