// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package fsaccess is the file-system capability consumed by the resolution
// engine: read by identity, existence checks, and bounded parent-directory
// search that stops at the declared workspace root.
package fsaccess
