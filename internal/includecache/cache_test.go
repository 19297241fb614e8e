// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package includecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tflens/tflens/internal/extract"
)

func snapshot(key, val string) extract.Values {
	return extract.Values{
		Locals:     map[string]any{key: val},
		Inputs:     map[string]any{},
		Variables:  map[string]any{},
		Attributes: map[string]any{},
	}
}

// TestPutGet verifies the two key spaces are independent.
func TestPutGet(t *testing.T) {
	c := New()
	consumer := "file:///app/terragrunt.hcl"

	c.PutInclude(consumer, "root", snapshot("region", "us-east-1"), "file:///root/terragrunt.hcl", "find_in_parent_folders()")
	c.PutRead(consumer, "root", snapshot("env", "prod"), "file:///root/env.hcl", `read_terragrunt_config("../env.hcl")`)

	inc, ok := c.GetInclude(consumer, "root")
	require.True(t, ok)
	assert.Equal(t, "us-east-1", inc.Values.Locals["region"])
	assert.Equal(t, "file:///root/terragrunt.hcl", inc.SourceURI)
	assert.Equal(t, "find_in_parent_folders()", inc.ResolvedPath)

	rd, ok := c.GetRead(consumer, "root")
	require.True(t, ok)
	assert.Equal(t, "prod", rd.Values.Locals["env"])

	_, ok = c.GetInclude(consumer, "missing")
	assert.False(t, ok)
	_, ok = c.GetInclude("file:///other.hcl", "root")
	assert.False(t, ok)
}

// TestPut_Replaces verifies a re-put replaces, not merges.
func TestPut_Replaces(t *testing.T) {
	c := New()
	consumer := "file:///app/terragrunt.hcl"

	c.PutInclude(consumer, "root", snapshot("region", "us-east-1"), "file:///old/terragrunt.hcl", "old")
	c.PutInclude(consumer, "root", snapshot("env", "prod"), "file:///new/terragrunt.hcl", "new")

	e, ok := c.GetInclude(consumer, "root")
	require.True(t, ok)
	assert.Equal(t, "file:///new/terragrunt.hcl", e.SourceURI)
	assert.NotContains(t, e.Values.Locals, "region")
}

// TestAll verifies both key spaces are enumerated.
func TestAll(t *testing.T) {
	c := New()
	consumer := "file:///app/terragrunt.hcl"

	assert.Empty(t, c.All(consumer))

	c.PutInclude(consumer, "root", snapshot("a", "1"), "s1", "p1")
	c.PutRead(consumer, "cfg", snapshot("b", "2"), "s2", "p2")

	assert.Len(t, c.All(consumer), 2)
	assert.Len(t, c.Includes(consumer), 1)
}

// TestClear verifies both key spaces drop together.
func TestClear(t *testing.T) {
	c := New()
	consumer := "file:///app/terragrunt.hcl"
	other := "file:///db/terragrunt.hcl"

	c.PutInclude(consumer, "root", snapshot("a", "1"), "s", "p")
	c.PutRead(consumer, "cfg", snapshot("b", "2"), "s", "p")
	c.PutInclude(other, "root", snapshot("c", "3"), "s", "p")

	c.Clear(consumer)

	assert.Empty(t, c.All(consumer))
	_, ok := c.GetInclude(other, "root")
	assert.True(t, ok, "clearing one consumer must not touch another")
}

// TestAnonymousIncludeName verifies the empty include label is a valid key.
func TestAnonymousIncludeName(t *testing.T) {
	c := New()
	consumer := "file:///app/terragrunt.hcl"

	c.PutInclude(consumer, "", snapshot("region", "us-east-1"), "file:///root/terragrunt.hcl", "find_in_parent_folders()")

	e, ok := c.GetInclude(consumer, "")
	require.True(t, ok)
	assert.Equal(t, "us-east-1", e.Values.Locals["region"])
}
