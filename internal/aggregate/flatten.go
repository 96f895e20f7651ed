// SPDX-License-Identifier: MPL-2.0

package aggregate

import "github.com/atest-go/atest/pkg/testinfo"

// Flatten merges module descriptors that share a module name into one
// descriptor per module, placed where the module first appeared. Integration
// descriptors pass through unchanged and keep their position.
//
// The merged descriptor takes the last observed config path. Its filters are
// the union of the group's filters, unless any member runs the whole module,
// in which case the merged descriptor runs the whole module too.
func Flatten(tests []testinfo.Descriptor) []testinfo.Descriptor {
	type group struct {
		relConfig string
		filters   []string
		wholeRun  bool
	}

	var (
		out    []testinfo.Descriptor
		slots  = make(map[string]int)
		groups = make(map[string]*group)
	)

	for _, t := range tests {
		name := t.ModuleName()
		if name == "" {
			out = append(out, t)
			continue
		}

		g, ok := groups[name]
		if !ok {
			g = &group{}
			groups[name] = g
			slots[name] = len(out)
			out = append(out, testinfo.Descriptor{})
		}
		g.relConfig = t.RelConfig()
		if !t.HasFilters() {
			g.wholeRun = true
		} else {
			g.filters = append(g.filters, t.Filters()...)
		}
	}

	for name, g := range groups {
		if g.wholeRun {
			out[slots[name]] = testinfo.ForModule(g.relConfig, name)
		} else {
			out[slots[name]] = testinfo.ForModule(g.relConfig, name, g.filters...)
		}
	}
	return out
}
