// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mdio provides a command to read and write PHY registers through
// mdio-tools.
package mdio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/goes-mdio/internal/miim"
	"github.com/platinasystems/goes-mdio/internal/phy"
	"github.com/platinasystems/goes-mdio/lang"
	"github.com/platinasystems/parms"
)

var (
	ErrMissing    = errors.New("missing")
	ErrUnexpected = errors.New("unexpected")
)

type Command struct {
	// Stdout defaults to os.Stdout
	Stdout io.Writer
}

func (Command) String() string { return "mdio" }

func (Command) Usage() string {
	return `mdio [OPTION]... [-w] [-mmd DEVAD] PORT ADDRESS [-D DATA]
mdio [OPTION]... {-discover | -dump PORT | -status PORT}`
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "read/write PHY registers",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Read or write the Clause 22 register ADDRESS of the PHY at PORT of
	an MDIO bus through the mdio-tools command.

	-w	write DATA instead of read
	-D DATA
		16-bit register value, decimal or 0x prefaced hex
	-mmd DEVAD
		access Clause 45 register ADDRESS of MMD device DEVAD
	-discover
		list the PHYs of the bus
	-dump PORT
		print registers 0 through 31 of the PHY at PORT
	-status PORT
		decode the identifier, control, and status registers

OPTIONS
	-bus BUS
		mdio-netlink bus, default gpio-0 or $GOES_MDIO_BUS
	-tool TOOL
		tool command, default "mdio" or $GOES_MDIO_TOOL,
		e.g. -tool "sudo mdio"
	-timeout DURATION
		of each tool run, default 5s or $GOES_MDIO_TIMEOUT
	-x	print each tool command line to stderr
	-debug	log each tool command line and output

EXAMPLES
	mdio 0 2
	mdio -w 3 31 -D 1
	mdio -mmd 1 0 0x0800
	mdio -bus mdio-mux-1 -dump 3`,
	}
}

// Configure parses the tool options common to mdio and board.
func Configure(args []string) (miim.Config, []string, error) {
	flag, args := flags.New(args, "-x", "-debug")
	parm, args := parms.New(args, "-bus", "-tool", "-timeout")
	c, err := miim.ConfigFromEnv()
	if err != nil {
		return c, args, err
	}
	if s := parm.ByName["-bus"]; len(s) > 0 {
		c.Bus = s
	}
	if s := parm.ByName["-tool"]; len(s) > 0 {
		if c.Tool, err = miim.SplitTool(s); err != nil {
			return c, args, err
		}
	}
	if s := parm.ByName["-timeout"]; len(s) > 0 {
		if c.Timeout, err = miim.ParseTimeout(s); err != nil {
			return c, args, fmt.Errorf("-timeout: %w", err)
		}
	}
	if flag.ByName["-x"] {
		c.Trace = os.Stderr
	}
	miim.Debug = flag.ByName["-debug"]
	return c, args, nil
}

func (c Command) Main(args ...string) error {
	cfg, args, err := Configure(args)
	if err != nil {
		return err
	}
	flag, args := flags.New(args, "-w", "-discover")
	parm, args := parms.New(args, "-D", "-mmd", "-dump", "-status")

	bus := miim.NewBus(miim.New(cfg))
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}

	switch {
	case flag.ByName["-discover"]:
		if err = noMore(args); err != nil {
			return err
		}
		return discover(w, bus)
	case len(parm.ByName["-dump"]) > 0:
		if err = noMore(args); err != nil {
			return err
		}
		port, err := miim.ParsePort(parm.ByName["-dump"])
		if err != nil {
			return err
		}
		return dump(w, phy.Device{Transport: bus, Port: port})
	case len(parm.ByName["-status"]) > 0:
		if err = noMore(args); err != nil {
			return err
		}
		port, err := miim.ParsePort(parm.ByName["-status"])
		if err != nil {
			return err
		}
		return status(w, phy.Device{Transport: bus, Port: port})
	}

	switch len(args) {
	case 0:
		return fmt.Errorf("PORT: %w", ErrMissing)
	case 1:
		return fmt.Errorf("ADDRESS: %w", ErrMissing)
	case 2:
	default:
		return noMore(args[2:])
	}
	port, err := miim.ParsePort(args[0])
	if err != nil {
		return err
	}
	write := flag.ByName["-w"]
	data := parm.ByName["-D"]
	if write && len(data) == 0 {
		return fmt.Errorf("DATA: %w", ErrMissing)
	} else if !write && len(data) > 0 {
		return fmt.Errorf("-D %s: %w without -w", data, ErrUnexpected)
	}
	var value uint16
	if write {
		if value, err = miim.ParseValue(data); err != nil {
			return err
		}
	}

	if s := parm.ByName["-mmd"]; len(s) > 0 {
		devad, err := miim.ParseAddress(s)
		if err != nil {
			return err
		}
		reg, err := miim.ParseValue(args[1])
		if err != nil {
			return err
		}
		if write {
			return bus.WriteMMD(port, devad, reg, value)
		}
		v, err := bus.ReadMMD(port, devad, reg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%#04x\n", v)
		return err
	}

	address, err := miim.ParseAddress(args[1])
	if err != nil {
		return err
	}
	if write {
		return bus.Write(port, address, value)
	}
	v, err := bus.Read(port, address)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%#04x\n", v)
	return err
}

func noMore(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%v: %w", args, ErrUnexpected)
	}
	return nil
}

func discover(w io.Writer, d miim.Discoverer) error {
	phys, err := d.Discover()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "PORT  PHY-ID      LINK")
	for _, p := range phys {
		fmt.Fprintf(w, "%4d  %#08x  %s\n", p.Addr, p.ID, p.Link)
	}
	return nil
}

// dump prints a hexdump style table to terminals and otherwise a line per
// register for scripts.
func dump(w io.Writer, d phy.Device) error {
	regs, err := d.Dump()
	if err != nil {
		return err
	}
	if !isTerminal(w) {
		for address, v := range regs {
			fmt.Fprintf(w, "%#02x %#04x\n", address, v)
		}
		return nil
	}
	for address, v := range regs {
		if address%8 == 0 {
			fmt.Fprintf(w, "%02x:", address)
		}
		fmt.Fprintf(w, " %04x", v)
		if address%8 == 7 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func status(w io.Writer, d phy.Device) error {
	s, err := d.Status()
	if err != nil {
		return err
	}
	link := "down"
	if s.LinkUp {
		link = "up"
	}
	fmt.Fprintln(w, "port:", d.Port)
	fmt.Fprintln(w, "id:", s.ID)
	fmt.Fprintln(w, "control:", s.Control)
	fmt.Fprintln(w, "status:", s.Status)
	fmt.Fprintln(w, "link:", link)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
