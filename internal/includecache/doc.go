// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package includecache owns the cross-file value snapshots a consuming file
// obtained through its include blocks and config-read bindings, tagged with
// the provenance of how each origin path was computed.
package includecache
