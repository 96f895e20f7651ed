// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"fmt"
	"strings"

	"github.com/atest-go/atest/pkg/testinfo"
)

// RunCommandFormat is the harness invocation; its one verb receives the argument list.
const RunCommandFormat = "atest_tradefed.sh run commandAndExit template/local_min --template:map test=atest %s"

const (
	// LogLevelWarn is the harness log level for normal runs.
	LogLevelWarn LogLevel = "WARN"
	// LogLevelVerbose is the harness log level for debug runs.
	LogLevelVerbose LogLevel = "VERBOSE"
)

// LogLevel is the value passed to the harness --log-level flag.
type LogLevel string

// LogLevelFor maps a verbose flag to a harness log level.
func LogLevelFor(verbose bool) LogLevel {
	if verbose {
		return LogLevelVerbose
	}
	return LogLevelWarn
}

// RunCommands renders the harness command for tests, in order. It always
// returns exactly one command.
func RunCommands(tests []testinfo.Descriptor, level LogLevel) []string {
	args := []string{"--log-level", string(level)}
	for _, t := range tests {
		args = append(args, "--test-info", t.Render())
	}
	return []string{fmt.Sprintf(RunCommandFormat, strings.Join(args, " "))}
}
