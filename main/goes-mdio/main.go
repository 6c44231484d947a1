// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is a goes machine to read, write, and initialize the PHYs of a board
// through mdio-tools.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/goes-mdio/internal/miim"
)

func main() {
	if err := miim.LoadEnv(miim.EnvFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := mkgoes().Main(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
