// SPDX-License-Identifier: MPL-2.0

// Package cli contains CLI integration tests using testscript.
//
// Each script under testdata runs the atest binary against a fixture tree
// carrying its own module-info.json and an isolated config directory.
package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	cmd "github.com/atest-go/atest/cmd/atest"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"atest": cmd.Execute,
	})
}

// TestCLI runs all testscript tests in the testdata directory.
func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			src := filepath.Join(env.WorkDir, "src")
			env.Setenv("ANDROID_BUILD_TOP", src)
			env.Setenv("OUT", filepath.Join(src, "out", "target", "product", "generic"))
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("HOME", env.WorkDir)
			env.Setenv("NO_COLOR", "1")
			env.Cd = src
			return os.MkdirAll(src, 0o755)
		},
		// Continue running all tests even if one fails
		ContinueOnError: true,
	})
}
