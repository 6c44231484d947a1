// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package main

import (
	goes "github.com/platinasystems/goes-mdio"
	"github.com/platinasystems/goes-mdio/cmd/board"
	"github.com/platinasystems/goes-mdio/cmd/mdio"
	"github.com/platinasystems/goes-mdio/lang"
)

func mkgoes() *goes.Goes {
	g := goes.New("goes-mdio",
		board.Command{},
		mdio.Command{},
	)
	g.APROPOS = lang.Alt{
		lang.EnUS: "PHY register access through mdio-tools",
	}
	g.MAN = lang.Alt{
		lang.EnUS: `
DESCRIPTION
	goes-mdio reads and writes the PHY registers of boards whose MDIO bus
	is only reachable through the mdio-tools command, and initializes
	the board from its redis configuration.

	Defaults of the mdio-tools command, bus, and timeout are taken from
	$GOES_MDIO_TOOL, $GOES_MDIO_BUS, and $GOES_MDIO_TIMEOUT, which may
	be set in /etc/default/goes-mdio.`,
	}
	return g
}
