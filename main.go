// SPDX-License-Identifier: MPL-2.0

package main

import cmd "droidforge/cmd/droidforge"

func main() {
	cmd.Execute()
}
