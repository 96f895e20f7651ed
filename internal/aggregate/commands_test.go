// SPDX-License-Identifier: MPL-2.0

package aggregate_test

import (
	"testing"

	"github.com/atest-go/atest/internal/aggregate"
	"github.com/atest-go/atest/pkg/testinfo"
)

func TestRunCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    []testinfo.Descriptor
		level aggregate.LogLevel
		want  string
	}{
		{
			name:  "single class filter",
			in:    []testinfo.Descriptor{testinfo.ForModule("x/AndroidTest.xml", "ExampleTests", "com.example.FooTest")},
			level: aggregate.LogLevelWarn,
			want:  "atest_tradefed.sh run commandAndExit template/local_min --template:map test=atest --log-level WARN --test-info ExampleTests:com.example.FooTest",
		},
		{
			name: "order is preserved",
			in: []testinfo.Descriptor{
				testinfo.ForIntegration("tf/res/config/native.xml", "native"),
				testinfo.ForModule("x/AndroidTest.xml", "X"),
			},
			level: aggregate.LogLevelVerbose,
			want:  "atest_tradefed.sh run commandAndExit template/local_min --template:map test=atest --log-level VERBOSE --test-info native --test-info X",
		},
		{
			name:  "no tests",
			level: aggregate.LogLevelWarn,
			want:  "atest_tradefed.sh run commandAndExit template/local_min --template:map test=atest --log-level WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := aggregate.RunCommands(tt.in, tt.level)
			if len(got) != 1 {
				t.Fatalf("RunCommands() returned %d commands, want 1", len(got))
			}
			if got[0] != tt.want {
				t.Errorf("RunCommands() = %q\nwant %q", got[0], tt.want)
			}
		})
	}
}

func TestLogLevelFor(t *testing.T) {
	t.Parallel()

	if got := aggregate.LogLevelFor(true); got != aggregate.LogLevelVerbose {
		t.Errorf("LogLevelFor(true) = %s", got)
	}
	if got := aggregate.LogLevelFor(false); got != aggregate.LogLevelWarn {
		t.Errorf("LogLevelFor(false) = %s", got)
	}
}
