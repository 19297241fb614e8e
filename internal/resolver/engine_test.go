// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tflens/tflens/internal/fsaccess"
	"github.com/tflens/tflens/internal/state"
	"github.com/tflens/tflens/internal/workspace"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newTestEngine(t *testing.T, root string, st state.OutputLookup) *Engine {
	t.Helper()
	return New(workspace.New(fsaccess.New(root)), st)
}

func TestResolve_SameFileLocal(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `locals {
  region = "us-east-1"
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.region")

	assert.Equal(t, "us-east-1", res.Value)
	assert.Equal(t, ConfidenceExact, res.Confidence)
	assert.Equal(t, fsaccess.ToURI(child), res.Source)
	require.NotEmpty(t, res.Chain)
}

// TestResolve_IncludeChain follows a reference through an include block to a
// parent config: the value and the source must both come from the parent.
func TestResolve_IncludeChain(t *testing.T) {
	root := t.TempDir()
	parent := filepath.Join(root, "terragrunt.hcl")
	write(t, parent, `locals {
  region = "us-east-1"
}`)
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `include "root" {
  path = find_in_parent_folders()
}

locals {
  region = include.root.locals.region
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.region")

	assert.Equal(t, "us-east-1", res.Value)
	assert.Equal(t, ConfidenceExact, res.Confidence)
	assert.Equal(t, fsaccess.ToURI(parent), res.Source)

	direct := e.Resolve(child, "include.root.locals.region")
	assert.Equal(t, "us-east-1", direct.Value)
	assert.Equal(t, fsaccess.ToURI(parent), direct.Source)
}

func TestResolve_UpwardSearch(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "locals.hcl"), `locals {
  env = "prod"
}`)
	child := filepath.Join(root, "app", "svc", "terragrunt.hcl")
	write(t, child, `locals {
  name = "svc"
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.env")

	assert.Equal(t, "prod", res.Value)
	assert.Equal(t, ConfidenceExact, res.Confidence)
	assert.Equal(t, fsaccess.ToURI(filepath.Join(root, "locals.hcl")), res.Source)
}

// TestResolve_CacheIdempotence resolves the same expression twice: identical
// results, and the second answer comes from the cache.
func TestResolve_CacheIdempotence(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `locals { region = "us-east-1" }`)
	e := newTestEngine(t, root, nil)

	first := e.Resolve(child, "local.region")
	hitsBefore := e.CacheStats().Hits
	second := e.Resolve(child, "local.region")

	assert.Equal(t, first, second)
	assert.Greater(t, e.CacheStats().Hits, hitsBefore)
	assert.Positive(t, e.CacheStats().Entries)
}

func TestInvalidateFile_DropsEntries(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `locals { region = "us-east-1" }`)
	e := newTestEngine(t, root, nil)

	e.Resolve(child, "local.region")
	require.Positive(t, e.CacheStats().Entries)

	e.InvalidateFile(child)
	assert.Zero(t, e.CacheStats().Entries)
}

// TestResolve_CircularAcrossFiles builds two configs that read each other's
// locals and verifies resolution terminates with a circular verdict instead
// of recursing forever.
func TestResolve_CircularAcrossFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a", "terragrunt.hcl")
	b := filepath.Join(root, "b", "terragrunt.hcl")
	write(t, a, `locals {
  other = read_terragrunt_config("../b/terragrunt.hcl")
  x     = local.other.locals.y
}`)
	write(t, b, `locals {
  other = read_terragrunt_config("../a/terragrunt.hcl")
  y     = local.other.locals.x
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(a, "local.x")

	assert.True(t, res.Circular)
	assert.Equal(t, ConfidenceUnknown, res.Confidence)
	assert.Equal(t, "circular-dependency", res.Source)
}

// TestResolve_CircularInsideComposite puts the cycle one level down, inside
// a map-valued local: the sentinel must surface as a circular verdict, never
// inside an exact value.
func TestResolve_CircularInsideComposite(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `locals {
  a = { x = local.b }
  b = local.a
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.a")

	assert.True(t, res.Circular)
	assert.Equal(t, ConfidenceUnknown, res.Confidence)
	assert.Nil(t, res.Value)
}

// TestResolve_CompositeResolvesEmbeddedReference verifies a reference nested
// inside a map-valued local resolves to its leaf value, matching what
// drilling to the leaf directly would answer.
func TestResolve_CompositeResolvesEmbeddedReference(t *testing.T) {
	root := t.TempDir()
	parent := filepath.Join(root, "terragrunt.hcl")
	write(t, parent, `locals {
  region = "us-east-1"
}`)
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `include "root" {
  path = find_in_parent_folders()
}

locals {
  m = { r = include.root.locals.region }
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.m")

	require.Equal(t, ConfidenceExact, res.Confidence)
	m, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "us-east-1", m["r"])

	leaf := e.Resolve(child, "local.m.r")
	assert.Equal(t, m["r"], leaf.Value)
}

// TestResolve_CompositeWithUnresolvableMember verifies a member that no
// resolver can answer keeps its expression text and costs the composite its
// exact grade.
func TestResolve_CompositeWithUnresolvableMember(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `locals {
  m = { r = local.nowhere, ok = "yes" }
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.m")

	assert.Equal(t, ConfidenceInferred, res.Confidence)
	m, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "local.nowhere", m["r"])
	assert.Equal(t, "yes", m["ok"])
}

func TestResolve_DependencyFastReject(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `dependency "vpc" {
  config_path = "../vpc"
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "dependency.vpc.outputs.vpc_id")

	assert.Equal(t, ConfidenceUnknown, res.Confidence)
	require.NotEmpty(t, res.Chain)
	assert.Contains(t, res.Chain[0].Description, "unsupported")
}

func TestResolve_DependencyFromState(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `dependency "vpc" {
  config_path = "../vpc"
}`)
	st := state.Static{Outputs: map[string]map[string]any{
		filepath.Join(root, "vpc"): {"vpc_id": "vpc-0abc"},
	}}
	e := newTestEngine(t, root, st)

	res := e.Resolve(child, "dependency.vpc.outputs.vpc_id")

	assert.Equal(t, "vpc-0abc", res.Value)
	assert.Equal(t, ConfidenceExact, res.Confidence)
}

// TestResolve_DependencyDefinitionFallback verifies that without state the
// output's definition in the module source answers, downgraded to inferred.
func TestResolve_DependencyDefinitionFallback(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "vpc", "outputs.tf"), `output "vpc_id" {
  value = "vpc-hardcoded"
}`)
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `dependency "vpc" {
  config_path = "../vpc"
}`)
	e := newTestEngine(t, root, state.Local{})

	res := e.Resolve(child, "dependency.vpc.outputs.vpc_id")

	assert.Equal(t, "vpc-hardcoded", res.Value)
	assert.Equal(t, ConfidenceInferred, res.Confidence)
}

func TestResolve_EnvVars(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `locals { name = "app" }`)
	write(t, filepath.Join(root, "app", ".env"), "BUCKET=logs-bucket\n")
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.env_vars.BUCKET")
	assert.Equal(t, "logs-bucket", res.Value)
	assert.Equal(t, ConfidenceExact, res.Confidence)

	t.Setenv("TFLENS_TEST_ONLY_PROC", "yes")
	res = e.Resolve(child, "local.env_vars.TFLENS_TEST_ONLY_PROC")
	assert.Equal(t, "yes", res.Value)
	assert.Equal(t, ConfidenceInferred, res.Confidence,
		"process environment is weaker evidence than an env file")
}

func TestResolve_FindInParentFolders(t *testing.T) {
	root := t.TempDir()
	parent := filepath.Join(root, "terragrunt.hcl")
	write(t, parent, `locals { region = "us-east-1" }`)
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `locals { name = "app" }`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "find_in_parent_folders()")

	assert.Equal(t, parent, res.Value)
	assert.Equal(t, parent, res.ResolvedPath)
	assert.Equal(t, ConfidenceExact, res.Confidence)
}

func TestResolve_ReadTerragruntConfig(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "region.hcl"), `locals { aws_region = "eu-west-1" }`)
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `locals { name = "app" }`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, `read_terragrunt_config(find_in_parent_folders("region.hcl"))`)

	require.Equal(t, ConfidenceExact, res.Confidence)
	assert.Equal(t, filepath.Join(root, "region.hcl"), res.ResolvedPath)
	m, ok := res.Value.(map[string]any)
	require.True(t, ok)
	locals, ok := m["locals"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "eu-west-1", locals["aws_region"])
}

// TestResolve_ConfigReadContinuation drills through a local bound by
// read_terragrunt_config: local.cfg.locals.aws_region.
func TestResolve_ConfigReadContinuation(t *testing.T) {
	root := t.TempDir()
	region := filepath.Join(root, "region.hcl")
	write(t, region, `locals { aws_region = "eu-west-1" }`)
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `locals {
  cfg = read_terragrunt_config(find_in_parent_folders("region.hcl"))
}`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "local.cfg.locals.aws_region")

	assert.Equal(t, "eu-west-1", res.Value)
	assert.Equal(t, ConfidenceExact, res.Confidence)
	assert.Equal(t, fsaccess.ToURI(region), res.Source)
}

func TestResolve_NoResolverMatches(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `locals { name = "app" }`)
	e := newTestEngine(t, root, nil)

	res := e.Resolve(child, "widget.foo.bar")

	assert.Equal(t, ConfidenceUnknown, res.Confidence)
	assert.Equal(t, "not-found", res.Source)
	require.NotEmpty(t, res.Chain)
}

func TestListVariables_Locals(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "terragrunt.hcl")
	write(t, child, `locals {
  region = "us-east-1"
  env    = "prod"
}`)
	e := newTestEngine(t, root, nil)

	vars := e.ListVariables("locals", child)

	require.Len(t, vars, 2)
	assert.Equal(t, "env", vars[0].Name)
	assert.Equal(t, "prod", vars[0].Value)
	assert.Equal(t, "region", vars[1].Name)
	assert.Equal(t, ConfidenceExact, vars[1].Confidence)
}

func TestListVariables_Includes(t *testing.T) {
	root := t.TempDir()
	parent := filepath.Join(root, "terragrunt.hcl")
	write(t, parent, `locals { region = "us-east-1" }`)
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `include "root" {
  path = find_in_parent_folders()
}`)
	e := newTestEngine(t, root, nil)

	vars := e.ListVariables("includes", child)

	require.Len(t, vars, 1)
	assert.Equal(t, "root", vars[0].Name)
	assert.Equal(t, fsaccess.ToURI(parent), vars[0].Source)
}

func TestListVariables_EnvVars(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "app", "terragrunt.hcl")
	write(t, child, `locals { name = "app" }`)
	write(t, filepath.Join(root, "app", ".env"), "A=1\nB=2\n")
	e := newTestEngine(t, root, nil)

	vars := e.ListVariables("envVars", child)

	require.Len(t, vars, 2)
	assert.Equal(t, "A", vars[0].Name)
	assert.Equal(t, "B", vars[1].Name)
}
