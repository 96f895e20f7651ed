// SPDX-License-Identifier: MPL-2.0

package aggregate_test

import (
	"testing"

	"github.com/atest-go/atest/internal/aggregate"
	"github.com/atest-go/atest/internal/testutil/repotest"
	"github.com/atest-go/atest/pkg/testinfo"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	fooCfg := "foo/AndroidTest.xml"
	barCfg := "bar/AndroidTest.xml"
	integ := testinfo.ForIntegration("tf/res/config/native.xml", "native")

	tests := []struct {
		name string
		in   []testinfo.Descriptor
		want []testinfo.Descriptor
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "filters union",
			in: []testinfo.Descriptor{
				testinfo.ForModule(fooCfg, "Foo", "A"),
				testinfo.ForModule(fooCfg, "Foo", "B"),
			},
			want: []testinfo.Descriptor{testinfo.ForModule(fooCfg, "Foo", "A", "B")},
		},
		{
			name: "unrestricted member wins",
			in: []testinfo.Descriptor{
				testinfo.ForModule(fooCfg, "Foo", "A"),
				testinfo.ForModule(fooCfg, "Foo"),
				testinfo.ForModule(fooCfg, "Foo", "B"),
			},
			want: []testinfo.Descriptor{testinfo.ForModule(fooCfg, "Foo")},
		},
		{
			name: "first appearance order with integrations in place",
			in: []testinfo.Descriptor{
				testinfo.ForModule(barCfg, "Bar"),
				integ,
				testinfo.ForModule(fooCfg, "Foo", "X"),
				testinfo.ForModule(barCfg, "Bar", "Y"),
				integ,
			},
			want: []testinfo.Descriptor{
				testinfo.ForModule(barCfg, "Bar"),
				integ,
				testinfo.ForModule(fooCfg, "Foo", "X"),
				integ,
			},
		},
		{
			name: "last config path is kept",
			in: []testinfo.Descriptor{
				testinfo.ForModule("old/AndroidTest.xml", "Foo", "A"),
				testinfo.ForModule(fooCfg, "Foo", "A"),
			},
			want: []testinfo.Descriptor{testinfo.ForModule(fooCfg, "Foo", "A")},
		},
		{
			name: "duplicate filters collapse",
			in: []testinfo.Descriptor{
				testinfo.ForModule(fooCfg, "Foo", "A"),
				testinfo.ForModule(fooCfg, "Foo", "A"),
			},
			want: []testinfo.Descriptor{testinfo.ForModule(fooCfg, "Foo", "A")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := aggregate.Flatten(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Flatten() returned %d descriptors, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if !repotest.SameDescriptor(got[i], tt.want[i]) {
					t.Errorf("Flatten()[%d] = %s %v, want %s %v", i, got[i], got[i].Filters(), tt.want[i], tt.want[i].Filters())
				}
			}
		})
	}
}

func TestFlatten_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []testinfo.Descriptor{
		testinfo.ForModule("foo/AndroidTest.xml", "Foo", "A"),
		testinfo.ForModule("foo/AndroidTest.xml", "Foo", "B"),
	}
	_ = aggregate.Flatten(in)

	if f := in[0].Filters(); len(f) != 1 || f[0] != "A" {
		t.Errorf("input[0] filters = %v after Flatten", f)
	}
}
