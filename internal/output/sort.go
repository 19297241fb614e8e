// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"

	"github.com/tflens/tflens/internal/resolver"
)

// SortVariables orders a variable listing by a comma-separated field spec.
// A leading - on a field sorts it descending. Unknown fields are ignored.
func SortVariables(vars []resolver.VariableInfo, spec string) {
	if spec == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(vars, func(one, two int) bool {
		for _, field := range fields {
			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			oneStr := fieldOf(vars[one], field)
			twoStr := fieldOf(vars[two], field)

			if oneStr != twoStr {
				if ascending {
					return oneStr < twoStr
				}
				return oneStr > twoStr
			}
		}
		return false
	})
}

func fieldOf(v resolver.VariableInfo, field string) string {
	switch field {
	case "name":
		return v.Name
	case "value":
		return InterfaceToString(v.Value)
	case "source":
		return v.Source
	case "confidence":
		return string(v.Confidence)
	default:
		return ""
	}
}
