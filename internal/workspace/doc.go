// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package workspace drives the document-change pipeline over the shared
// stores: parse, index, include/config-read pre-load, then diagnostics.
package workspace
