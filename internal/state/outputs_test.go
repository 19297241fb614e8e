// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateDoc = `{
  "version": 4,
  "outputs": {
    "vpc_id": {"value": "vpc-0123", "type": "string"},
    "subnet_ids": {"value": ["s-1", "s-2"], "type": ["list", "string"]}
  }
}`

// TestLocal_Output verifies drilling outputs out of terraform.tfstate.
func TestLocal_Output(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terraform.tfstate"), []byte(stateDoc), 0o600))

	v, ok := Local{}.Output(dir, "vpc_id")
	require.True(t, ok)
	assert.Equal(t, "vpc-0123", v)

	v, ok = Local{}.Output(dir, "subnet_ids")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"s-1", "s-2"}, v)

	_, ok = Local{}.Output(dir, "missing")
	assert.False(t, ok)
}

// TestLocal_DotTerraformFallback verifies the .terraform location is
// consulted when the module root has no state file.
func TestLocal_DotTerraformFallback(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, ".terraform")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "terraform.tfstate"), []byte(stateDoc), 0o600))

	v, ok := Local{}.Output(dir, "vpc_id")
	require.True(t, ok)
	assert.Equal(t, "vpc-0123", v)
}

// TestLocal_NoState verifies a module without state is a clean miss.
func TestLocal_NoState(t *testing.T) {
	dir := t.TempDir()

	_, ok := Local{}.Output(dir, "vpc_id")
	assert.False(t, ok)
	assert.Contains(t, Local{}.Describe(dir), "no local state")
}

// TestLocal_Describe verifies the chain-step description names the file.
func TestLocal_Describe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terraform.tfstate"), []byte(stateDoc), 0o600))

	desc := Local{}.Describe(dir)
	assert.Contains(t, desc, "terraform.tfstate")
	assert.Contains(t, desc, "written")
}

// TestStatic verifies the fixed stub lookup.
func TestStatic(t *testing.T) {
	s := Static{Outputs: map[string]map[string]any{
		"/mod/vpc": {"id": "vpc-9"},
	}}

	v, ok := s.Output("/mod/vpc", "id")
	require.True(t, ok)
	assert.Equal(t, "vpc-9", v)

	_, ok = s.Output("/mod/vpc", "cidr")
	assert.False(t, ok)
	_, ok = s.Output("/mod/db", "id")
	assert.False(t, ok)
}
