// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/fsaccess"
)

// envResolver answers local.env_vars.<key> references. A key found in an env
// file near the consumer is exact; a key that only exists in this process's
// environment is inferred, since the tool's environment need not match the
// one terragrunt will run under.
type envResolver struct {
	e *Engine
}

func (r *envResolver) Name() string { return "env" }

func (r *envResolver) CanResolve(expr string) bool {
	return strings.HasPrefix(expr, "local.env_vars.") && len(splitExpr(expr)) >= 3
}

func (r *envResolver) Resolve(expr string, ctx *Context) Result {
	key := strings.Join(splitExpr(expr)[2:], ".")
	uri := ctx.CurrentURI

	if envURI, ok := r.e.ws.FS.FindUpward(uri, config.EnvFile()); ok {
		vars, err := godotenv.Read(fsaccess.ToPath(envURI))
		if err == nil {
			if val, found := vars[key]; found {
				return Result{
					Value:      val,
					Source:     envURI,
					Confidence: ConfidenceExact,
					Chain: []Step{{
						Description: "found " + key + " in " + config.EnvFile(),
						SourceURI:   envURI,
					}},
				}
			}
		}
	}

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

	return unknown("environment variable " + key + " not set")
}
