// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package resolver turns symbolic terragrunt expressions into values with
// provenance. A prioritized chain of resolvers (locals, include, inputs,
// environment, dependency outputs, functions) runs behind a TTL result cache
// and per-call cycle detection; failures are graded results, never errors.
package resolver
