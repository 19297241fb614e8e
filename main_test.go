// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"reflect"
	"testing"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"tflens", "resolve"},
			expected: []string{"tflens", "resolve"},
		},
		{
			name:     "no duplicates",
			args:     []string{"tflens", "resolve", "--output", "text", "--titles"},
			expected: []string{"tflens", "resolve", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"tflens", "resolve", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"tflens", "resolve", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"tflens", "resolve", "--titles", "--chain", "--titles"},
			expected: []string{"tflens", "resolve", "--chain", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"tflens", "resolve", "--output=json", "--titles", "--output=text"},
			expected: []string{"tflens", "resolve", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"tflens", "resolve", "--output=json", "--output", "text"},
			expected: []string{"tflens", "resolve", "--output", "text"},
		},
		{
			name:     "multiple different flags with duplicates",
			args:     []string{"tflens", "vars", "--category", "locals", "--sort", "name", "--category", "envVars", "--sort", "value"},
			expected: []string{"tflens", "vars", "--category", "envVars", "--sort", "value"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"tflens", "resolve", "/path/to/iac", "--output", "json", "--output", "text"},
			expected: []string{"tflens", "resolve", "/path/to/iac", "--output", "text"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"tflens", "resolve", "-o", "json", "-o", "text"},
			expected: []string{"tflens", "resolve", "-o", "text"},
		},
		{
			name:     "different flags not affected",
			args:     []string{"tflens", "resolve", "--chain", "--no-state"},
			expected: []string{"tflens", "resolve", "--chain", "--no-state"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"tflens", "resolve", "--output", "a", "--output", "b", "--output", "c"},
			expected: []string{"tflens", "resolve", "--output", "c"},
		},
		{
			name:     "flag at end with no value treated as boolean",
			args:     []string{"tflens", "resolve", "--titles", "--chain", "--titles"},
			expected: []string{"tflens", "resolve", "--chain", "--titles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := deduplicateFlags(tt.args)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("deduplicateFlags(%v) = %v, want %v", tt.args, result, tt.expected)
			}
		})
	}
}

func TestDeduplicateFlagsPreservesOrder(t *testing.T) {
	// Ensure non-duplicate flags maintain their relative order.
	args := []string{"tflens", "resolve", "--alpha", "--beta", "--gamma"}
	result := deduplicateFlags(args)
	expected := []string{"tflens", "resolve", "--alpha", "--beta", "--gamma"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Order not preserved: got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsWithPositionalAfterFlags(t *testing.T) {
	// Positional args after flags should be preserved.
	args := []string{"tflens", "resolve", "--output", "json", "/path", "--output", "text"}
	result := deduplicateFlags(args)
	expected := []string{"tflens", "resolve", "/path", "--output", "text"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("got %v, want %v", result, expected)
	}
}

func TestInjectConfigSet(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		insertIdx int
		configVal []string
		expected  []string
	}{
		{
			name:      "empty config returns args unchanged",
			args:      []string{"tflens", "resolve", "--titles"},
			insertIdx: 2,
			configVal: nil,
			expected:  []string{"tflens", "resolve", "--titles"},
		},
		{
			name:      "single entry injected",
			args:      []string{"tflens", "resolve", "--titles"},
			insertIdx: 2,
			configVal: []string{"--chain"},
			expected:  []string{"tflens", "resolve", "--chain", "--titles"},
		},
		{
			name:      "multi-word entry split",
			args:      []string{"tflens", "resolve", "--titles"},
			insertIdx: 2,
			configVal: []string{"--output text"},
			expected:  []string{"tflens", "resolve", "--output", "text", "--titles"},
		},
		{
			name:      "multiple entries",
			args:      []string{"tflens", "resolve"},
			insertIdx: 2,
			configVal: []string{"--chain", "--output json"},
			expected:  []string{"tflens", "resolve", "--chain", "--output", "json"},
		},
		{
			name:      "insert at index 3",
			args:      []string{"tflens", "resolve", "/path/to/iac", "--titles"},
			insertIdx: 3,
			configVal: []string{"--chain"},
			expected:  []string{"tflens", "resolve", "/path/to/iac", "--chain", "--titles"},
		},
		{
			name:      "complex multi-word entries",
			args:      []string{"tflens", "vars"},
			insertIdx: 2,
			configVal: []string{"--category envVars", "--sort value"},
			expected:  []string{"tflens", "vars", "--category", "envVars", "--sort", "value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := injectConfigSetTestable(tt.args, tt.configVal, tt.insertIdx)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("injectConfigSet() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// injectConfigSetTestable is a test-friendly version that accepts config values
// directly instead of reading from global config.
func injectConfigSetTestable(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, splitFields(entry)...)
	}

	return append(args[:insertIdx], append(expanded, args[insertIdx:]...)...)
}

// splitFields splits a string by whitespace, matching strings.Fields behavior.
func splitFields(s string) []string {
	var result []string
	start := -1

	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				result = append(result, s[start:i])
				start = -1
			}
		} else {
			if start < 0 {
				start = i
			}
		}
	}

	if start >= 0 {
		result = append(result, s[start:])
	}

	return result
}
