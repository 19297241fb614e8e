// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tflens/tflens/internal/diag"
	"github.com/tflens/tflens/internal/resolver"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Keep whole numbers free of a pointless ".000000" suffix.
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Spit renders v to w honoring the command's --output flag. Output defaults
// to stdout.
func Spit(v any, cmd *cli.Command, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	switch cmd.String("output") {
	case "json":
		jsonOutput, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			log.Errorf("Spit json marshal: %v", err)
			return
		}
		fmt.Fprintln(w, string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(v)
		if err != nil {
			log.Errorf("Spit yaml marshal: %v", err)
			return
		}
		fmt.Fprint(w, string(yamlOutput))
	default:
		spitText(v, cmd, w)
	}
}

// spitText is the human-facing renderer. Types it does not know fall back to
// their JSON form rather than Go syntax.
func spitText(v any, cmd *cli.Command, w io.Writer) {
	switch t := v.(type) {
	case resolver.Result:
		writeResult(t, cmd, w)
	case []resolver.VariableInfo:
		writeVariables(t, cmd, w)
	case []diag.Diagnostic:
		writeDiagnostics(t, w)
	case resolver.Stats:
		fmt.Fprintf(w, "cache: %d entries, %d hits, %d misses, %d evictions\n",
			t.Entries, t.Hits, t.Misses, t.Evictions)
	default:
		fmt.Fprintln(w, InterfaceToString(v, "-"))
	}
}

func writeResult(r resolver.Result, cmd *cli.Command, w io.Writer) {
	fmt.Fprintf(w, "value       %s\n", InterfaceToString(r.Value, "-"))
	fmt.Fprintf(w, "confidence  %s\n", r.Confidence)
	fmt.Fprintf(w, "source      %s\n", InterfaceToString(r.Source, "-"))
	if r.ResolvedPath != "" {
		fmt.Fprintf(w, "path        %s\n", r.ResolvedPath)
	}
	if r.Circular {
		fmt.Fprintln(w, "circular    true")
	}

	if len(r.Chain) == 0 || !cmd.Bool("chain") {
		return
	}
	fmt.Fprintln(w, "chain")
	for i, step := range r.Chain {
		loc := ""
		if step.SourceURI != "" {
			loc = "  (" + step.SourceURI
			if step.Line > 0 {
				loc += ":" + strconv.Itoa(step.Line)
			}
			loc += ")"
		}
		fmt.Fprintf(w, "  %d. %s%s\n", i+1, step.Description, loc)
	}
}

func writeVariables(vars []resolver.VariableInfo, cmd *cli.Command, w io.Writer) {
	if len(vars) == 0 {
		return
	}

	nameWidth, valueWidth := len("NAME"), len("VALUE")
	for _, v := range vars {
		nameWidth = max(nameWidth, len(v.Name))
		valueWidth = max(valueWidth, len(InterfaceToString(v.Value, "-")))
	}

	if cmd.Bool("titles") {
		fmt.Fprintf(w, "%-*s  %-*s  %-10s  %s\n",
			nameWidth, "NAME", valueWidth, "VALUE", "CONFIDENCE", "SOURCE")
	}
	for _, v := range vars {
		fmt.Fprintf(w, "%-*s  %-*s  %-10s  %s\n",
			nameWidth, v.Name,
			valueWidth, InterfaceToString(v.Value, "-"),
			v.Confidence,
			InterfaceToString(v.Source, "-"))
	}
}

func writeDiagnostics(diags []diag.Diagnostic, w io.Writer) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
			strings.TrimPrefix(d.File, "file://"), d.Line, d.Column, d.Severity, d.Summary)
	}
}
