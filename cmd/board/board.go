// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package board provides a command to bring up the configured PHY board.
package board

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/goes-mdio/cmd/mdio"
	"github.com/platinasystems/goes-mdio/internal/board"
	"github.com/platinasystems/goes-mdio/internal/conf"
	"github.com/platinasystems/goes-mdio/internal/miim"
	"github.com/platinasystems/goes-mdio/lang"
	"github.com/platinasystems/parms"
)

type Command struct {
	// Stdout defaults to os.Stdout
	Stdout io.Writer
	// Store, if set, replaces the redis store.
	Store conf.Store
}

func (Command) String() string { return "board" }

func (Command) Usage() string {
	return `board [OPTION]... [-warm] [-wait DURATION] [-seq FILE] [-hash HASH] [KEY=VALUE]...
board -list`
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "initialize the PHY board",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Identify the board from its configuration, verify that the MDIO bus
	is reachable through mdio-tools, and write the board's register
	initialization sequence. Prints the registered board instance.

	The configuration is read from the redis HASH (default "platina")
	unless given as KEY=VALUE arguments. Keys:

	board	VSC7514_PCB123, OCELOT_PCB123, OCELOT_PCB123_LAN8814,
		or VIPER_EVAL
	type	board, if there's no board key
	target, mux_mode, pcb, pcb_var
		recorded in the instance

	-warm	warm start; skip the bus check and init sequence
	-wait DURATION
		retry the bus check for up to DURATION
	-seq FILE
		YAML init sequence to use instead of the board's, e.g.
		- {port: 0, address: 31, value: 0x0001}
	-list	print the known boards and their init sequences

	The mdio command OPTIONs -bus, -tool, -timeout, -x, and -debug
	also apply.`,
	}
}

func (c Command) Main(args ...string) error {
	cfg, args, err := mdio.Configure(args)
	if err != nil {
		return err
	}
	flag, args := flags.New(args, "-warm", "-list")
	parm, args := parms.New(args, "-wait", "-seq", "-hash")

	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	if flag.ByName["-list"] {
		if len(args) > 0 {
			return fmt.Errorf("%v: %w", args, mdio.ErrUnexpected)
		}
		return list(w)
	}

	o := board.Options{WarmStart: flag.ByName["-warm"]}
	if s := parm.ByName["-wait"]; len(s) > 0 {
		if o.Wait, err = time.ParseDuration(s); err != nil {
			return fmt.Errorf("-wait: %w", err)
		}
	}
	if fn := parm.ByName["-seq"]; len(fn) > 0 {
		if o.Sequence, err = board.ReadSequence(fn); err != nil {
			return err
		}
		if o.Sequence == nil {
			o.Sequence = board.Sequence{}
		}
	}

	store := c.Store
	if len(args) > 0 {
		if store, err = conf.ParseMap(args...); err != nil {
			return err
		}
	} else if store == nil {
		store = &conf.Redis{Hash: parm.ByName["-hash"]}
	}

	inst, err := board.Initialize(context.Background(), store,
		miim.New(cfg), o)
	if err != nil {
		return err
	}
	_, err = inst.WriteTo(w)
	return err
}

func list(w io.Writer) error {
	for _, v := range board.Variants() {
		b, err := board.New(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s, %d ports\n", v, b, b.PortCount())
		for _, step := range board.DefaultSequence(v) {
			fmt.Fprintf(w, "\t%v\n", step)
		}
	}
	return nil
}
