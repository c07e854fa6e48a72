// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/rw1nkler/doxycheck/cmd/doxycheck"

func main() {
	cmd.Execute()
}
