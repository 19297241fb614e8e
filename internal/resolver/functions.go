// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/extract"
	"github.com/tflens/tflens/internal/fsaccess"
	"github.com/tflens/tflens/internal/hclscan"
)

// functionResolver evaluates the small set of path-producing terragrunt
// functions well enough to show what they point at: find_in_parent_folders,
// read_terragrunt_config and get_env. The full function surface is out of
// reach without running terragrunt; anything else stays unknown.
type functionResolver struct {
	e *Engine
}

func (r *functionResolver) Name() string { return "functions" }

func (r *functionResolver) CanResolve(expr string) bool {
	for _, fn := range []string{"find_in_parent_folders(", "read_terragrunt_config(", "get_env("} {
		if strings.HasPrefix(expr, fn) {
			return true
		}
	}
	return false
}

func (r *functionResolver) Resolve(expr string, ctx *Context) Result {
	call := parseCall(expr)
	if call == nil {
		return unknown("cannot parse call " + expr)
	}
	uri := ctx.CurrentURI

	switch call.Name {
	case "find_in_parent_folders":
		found, ok := r.findInParents(uri, call)
		if !ok {
			return unknown(expr + " found nothing above " + uri)
		}
		path := fsaccess.ToPath(found)
		return Result{
			Value:        path,
			Source:       found,
			Confidence:   ConfidenceExact,
			ResolvedPath: path,
			Chain: []Step{{
				Description: expr + " resolves to " + path,
				SourceURI:   found,
			}},
		}

	case "read_terragrunt_config":
		if len(call.Children) == 0 {
			return unknown("read_terragrunt_config needs a path argument")
		}
		srcURI, ok := r.targetOf(uri, call.Children[0])
		if !ok {
			return unknown(expr + " target does not exist")
		}
		text, ok := r.e.ws.FS.ReadFile(srcURI)
		if !ok {
			return unknown(expr + " target is unreadable")
		}
		vals := extract.ExtractAll(hclscan.Parse(srcURI, text))
		path := fsaccess.ToPath(srcURI)
		chain := []Step{{
			Description: expr + " reads " + path,
			SourceURI:   srcURI,
		}}
		value, conf, circular := r.e.resolveEmbedded(map[string]any{
			"locals": vals.Locals,
			"inputs": vals.Inputs,
		}, ctx, srcURI)
		if circular {
			return Result{
				Confidence: ConfidenceUnknown,
				Source:     "circular-dependency",
				Circular:   true,
				Chain: append(chain, Step{
					Description: "read configuration contains a circular reference",
					SourceURI:   srcURI,
				}),
			}
		}
		return Result{
			Value:        value,
			Source:       srcURI,
			Confidence:   conf,
			ResolvedPath: path,
			Chain:        chain,
		}

	case "get_env":
		if len(call.Children) == 0 {
			return unknown("get_env needs a name argument")
		}
		key, _ := call.Children[0].Lit.(string)
		if val, ok := os.LookupEnv(key); ok {
			return Result{
				Value:      val,
				Source:     "process-environment",
				Confidence: ConfidenceInferred,
				Chain: []Step{{
					Description: key + " taken from the process environment",
				}},
			}
		}
		if len(call.Children) > 1 {
			return Result{
				Value:      call.Children[1].Lit,
				Source:     uri,
				Confidence: ConfidenceInferred,
				Chain: []Step{{
					Description: key + " unset; using the call's default",
					SourceURI:   uri,
				}},
			}
		}
		return unknown("environment variable " + key + " not set")
	}

	return unknown("unsupported function " + call.Name)
}

// parseCall reparses a call expression into a node by wrapping it in a
// throwaway attribute.
func parseCall(expr string) *hclscan.Node {
	tree := hclscan.Parse("inline", "x = "+expr)
	if len(tree) == 0 || tree[0].Value == nil || tree[0].Value.Kind != hclscan.KindCall {
		return nil
	}
	return tree[0].Value
}

func (r *functionResolver) findInParents(uri string, call *hclscan.Node) (string, bool) {
	fileName := config.ConfigFile()
	if len(call.Children) > 0 {
		if s, ok := call.Children[0].Lit.(string); ok && s != "" {
			fileName = s
		}
	}
	return r.e.ws.FS.FindUpwardExcluding(uri, fileName)
}

// targetOf resolves read_terragrunt_config's path argument: a literal
// relative path or a nested find_in_parent_folders call.
func (r *functionResolver) targetOf(uri string, arg *hclscan.Node) (string, bool) {
	switch arg.Kind {
	case hclscan.KindLiteral:
		rel, ok := arg.Lit.(string)
		if !ok || rel == "" {
			return "", false
		}
		p := rel
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(fsaccess.ToPath(uri)), rel)
		}
		if !r.e.ws.FS.Exists(p) {
			return "", false
		}
		return fsaccess.ToURI(p), true

	case hclscan.KindCall:
		if arg.Name != "find_in_parent_folders" {
			return "", false
		}
		return r.findInParents(uri, arg)

	default:
		return "", false
	}
}
