// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/nmapw/nmapw/cmd/nmapw"

func main() {
	cmd.Execute()
}
