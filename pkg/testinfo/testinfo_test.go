// SPDX-License-Identifier: MPL-2.0

package testinfo_test

import (
	"slices"
	"testing"

	"github.com/atest-go/atest/pkg/testinfo"
)

func TestDescriptor_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		desc testinfo.Descriptor
		want string
	}{
		{
			name: "module without filters",
			desc: testinfo.ForModule("foo/AndroidTest.xml", "FooTests"),
			want: "FooTests",
		},
		{
			name: "module with one filter",
			desc: testinfo.ForModule("foo/AndroidTest.xml", "FooTests", "a.b.C"),
			want: "FooTests:a.b.C",
		},
		{
			name: "module filters render sorted",
			desc: testinfo.ForModule("foo/AndroidTest.xml", "FooTests", "a.b.Z", "a.b.C"),
			want: "FooTests:a.b.C,a.b.Z",
		},
		{
			name: "integration",
			desc: testinfo.ForIntegration("tools/tradefed/res/config/native-benchmark.xml", "native-benchmark"),
			want: "native-benchmark",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.desc.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForModule_NormalizesFilters(t *testing.T) {
	t.Parallel()

	d := testinfo.ForModule("x/AndroidTest.xml", "X", "b", "a", "b", " ", "")
	if got, want := d.Filters(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Filters() = %v, want %v", got, want)
	}

	empty := testinfo.ForModule("x/AndroidTest.xml", "X")
	if empty.HasFilters() {
		t.Error("HasFilters() = true for descriptor without filters")
	}
	if empty.Filters() != nil {
		t.Errorf("Filters() = %v, want nil", empty.Filters())
	}
}

func TestDescriptor_FiltersReturnsCopy(t *testing.T) {
	t.Parallel()

	d := testinfo.ForModule("x/AndroidTest.xml", "X", "a.B")
	got := d.Filters()
	got[0] = "mutated"
	if d.Filters()[0] != "a.B" {
		t.Error("mutating Filters() result changed the descriptor")
	}
}

func TestDescriptor_Kind(t *testing.T) {
	t.Parallel()

	mod := testinfo.ForModule("x/AndroidTest.xml", "X")
	if mod.Kind() != testinfo.KindModule || mod.IsIntegration() {
		t.Errorf("module descriptor Kind() = %s", mod.Kind())
	}
	if mod.IntegrationName() != "" {
		t.Errorf("IntegrationName() = %q, want empty", mod.IntegrationName())
	}

	integ := testinfo.ForIntegration("tf/res/config/a.xml", "a")
	if integ.Kind() != testinfo.KindIntegration || !integ.IsIntegration() {
		t.Errorf("integration descriptor Kind() = %s", integ.Kind())
	}
	if integ.ModuleName() != "" || integ.HasFilters() {
		t.Error("integration descriptor carries module fields")
	}
}

func TestDescriptor_FiltersNormalized(t *testing.T) {
	t.Parallel()

	a := testinfo.ForModule("x/AndroidTest.xml", "X", "b", "a", "b")
	if got, want := a.Filters(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Filters() = %v, want %v", got, want)
	}
	if got, want := a.Render(), "X:a,b"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
