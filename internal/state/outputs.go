// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"

	"github.com/tflens/tflens/internal/log"
)

// OutputLookup is the externally supplied state-output capability consumed by
// the dependency resolver. Implementations never fail hard: a missing module
// or output is simply not found.
type OutputLookup interface {
	// Output returns the value of a named output for the module at dir.
	Output(moduleDir, name string) (any, bool)
	// Describe returns a human-readable description of the backing source,
	// used verbatim in resolution chain steps.
	Describe(moduleDir string) string
}

// Local reads Terraform state from the module's own directory:
// terraform.tfstate first, then .terraform/terraform.tfstate. No remote
// backends, no decryption; outside those files it reports not-found.
type Local struct{}

// stateCandidates lists the on-disk state locations, in preference order.
func stateCandidates(moduleDir string) []string {
	return []string{
		filepath.Join(moduleDir, "terraform.tfstate"),
		filepath.Join(moduleDir, ".terraform", "terraform.tfstate"),
	}
}

// Output drills outputs.<name>.value out of the first readable state file.
func (Local) Output(moduleDir, name string) (any, bool) {
	for _, p := range stateCandidates(moduleDir) {
		doc, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		res := gjson.GetBytes(doc, "outputs."+name+".value")
		if !res.Exists() {
			log.Tracef("output missing: file=%s, name=%s", p, name)
			continue
		}
		log.Debugf("state output: file=%s, name=%s", p, name)
		return res.Value(), true
	}
	return nil, false
}

// Describe reports which state file would serve the module and how stale it
// is.
func (Local) Describe(moduleDir string) string {
	for _, p := range stateCandidates(moduleDir) {
		if info, err := os.Stat(p); err == nil {
			return "local state " + p + " (written " + humanize.Time(info.ModTime().Local()) + ")"
		}
	}
	return "no local state under " + moduleDir
}

// Static is a fixed in-memory output set keyed by module directory. It backs
// tests and hosts that supply their own state snapshot.
type Static struct {
	Outputs map[string]map[string]any
}

// Output looks the value up in the fixed set.
func (s Static) Output(moduleDir, name string) (any, bool) {
	v, ok := s.Outputs[moduleDir][name]
	return v, ok
}

// Describe names the stub.
func (s Static) Describe(moduleDir string) string {
	return "static state outputs"
}
