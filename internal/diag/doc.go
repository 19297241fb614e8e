// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package diag validates documents with a real HCL parse, complementing the
// permissive structural scanner with syntax errors and reference lints.
package diag
