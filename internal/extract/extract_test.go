// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tflens/tflens/internal/hclscan"
)

func parse(t *testing.T, text string) []*hclscan.Node {
	t.Helper()
	return hclscan.Parse("file:///test.hcl", text)
}

// TestExtractAll_Classification verifies locals/inputs/variables/attributes
// land in their respective maps.
func TestExtractAll_Classification(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  region = "us-east-1"
}

inputs = {
  name = "web"
}

variable "env" {
  default = "prod"
}

terraform {
  source = "git::repo"
}`))

	assert.Equal(t, "us-east-1", v.Locals["region"])
	assert.Equal(t, "web", v.Inputs["name"])
	assert.Equal(t, "prod", v.Variables["env"])

	tf, ok := v.Attributes["terraform"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "git::repo", tf["source"])
}

// TestExtractAll_SameFileIndirection verifies local-to-local chains resolve
// regardless of declaration order.
func TestExtractAll_SameFileIndirection(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  a = local.b
  b = local.c
  c = "bottom"
}`))

	assert.Equal(t, "bottom", v.Locals["a"])
	assert.Equal(t, "bottom", v.Locals["b"])
	assert.Equal(t, "bottom", v.Locals["c"])
}

// TestExtractAll_NestedNavigation verifies dotted continuation into a nested
// local map.
func TestExtractAll_NestedNavigation(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  common = {
    region = "eu-west-1"
  }
  region = local.common.region
}`))

	assert.Equal(t, "eu-west-1", v.Locals["region"])
}

// TestExtractAll_CircularSentinel verifies mutual references terminate and
// render the circular sentinel, not an internal marker.
func TestExtractAll_CircularSentinel(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  a = local.b
  b = local.a
}`))

	assert.True(t, IsCircular(v.Locals["a"]), "a should be sentinel, got %v", v.Locals["a"])
	assert.True(t, IsCircular(v.Locals["b"]))
	assert.Equal(t, CircularSentinel("local.b"), v.Locals["a"])
}

// TestExtractAll_SelfReference verifies a direct self-loop also terminates.
func TestExtractAll_SelfReference(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  a = local.a
}`))

	assert.True(t, IsCircular(v.Locals["a"]))
}

// TestExtractAll_CrossFileStaysDeferred verifies references to locals not
// defined in this file keep their Unresolved markers.
func TestExtractAll_CrossFileStaysDeferred(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  region = local.elsewhere
}

inputs = {
  vpc_id = dependency.vpc.outputs.id
}`))

	u, ok := v.Locals["region"].(Unresolved)
	require.True(t, ok)
	assert.Equal(t, "local.elsewhere", u.Expr)

	u, ok = v.Inputs["vpc_id"].(Unresolved)
	require.True(t, ok)
	assert.Equal(t, "dependency.vpc.outputs.id", u.Expr)
}

// TestExtractAll_AnonymousBlockMerge verifies unnamed nested blocks merge
// into the parent mapping.
func TestExtractAll_AnonymousBlockMerge(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  tags = {
    team = "infra"
    cost = "shared"
  }
}`))

	tags, ok := v.Locals["tags"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "infra", tags["team"])
	assert.Equal(t, "shared", tags["cost"])
}

// TestExtractAll_CallsDeferred verifies function-call values stay symbolic
// for the resolver chain.
func TestExtractAll_CallsDeferred(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  cfg = read_terragrunt_config(find_in_parent_folders("region.hcl"))
}`))

	u, ok := v.Locals["cfg"].(Unresolved)
	require.True(t, ok)
	assert.Equal(t, `read_terragrunt_config(find_in_parent_folders("region.hcl"))`, u.Expr)
}

// TestNavigate covers dotted-path traversal over maps and arrays.
func TestNavigate(t *testing.T) {
	tree := map[string]any{
		"outputs": map[string]any{
			"ids": []any{"a", "b"},
		},
	}

	tests := []struct {
		name  string
		path  []string
		want  any
		found bool
	}{
		{"map hit", []string{"outputs"}, tree["outputs"], true},
		{"array index", []string{"outputs", "ids", "1"}, "b", true},
		{"missing key", []string{"outputs", "nope"}, nil, false},
		{"bad index", []string{"outputs", "ids", "9"}, nil, false},
		{"into scalar", []string{"outputs", "ids", "0", "x"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Navigate(tree, tt.path)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// TestExtractAll_SubstitutionIntoAllMaps verifies resolved locals flow into
// inputs, variables, and attributes too.
func TestExtractAll_SubstitutionIntoAllMaps(t *testing.T) {
	v := ExtractAll(parse(t, `locals {
  region = "us-east-1"
}

inputs = {
  region = local.region
}

variable "region" {
  default = local.region
}

extra = local.region`))

	assert.Equal(t, "us-east-1", v.Inputs["region"])
	assert.Equal(t, "us-east-1", v.Variables["region"])
	assert.Equal(t, "us-east-1", v.Attributes["extra"])
}
