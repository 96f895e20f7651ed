// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/atest-go/atest/cmd/atest"

func main() {
	cmd.Execute()
}
