// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package hclscan is a permissive structural scanner for Terraform and
// Terragrunt configuration text. It recognizes the narrow grammar subset the
// resolver needs (blocks, attributes, literals, dotted references, function
// calls) and degrades anything else to best-effort literal nodes instead of
// failing. It is not an HCL parser; use internal/diag for real syntax
// validation.
package hclscan
