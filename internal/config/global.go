// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride lets tests redirect ConfigDir away from the real home directory.
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
