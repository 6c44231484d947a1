// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches the named command of a busybox style program.
package goes

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/platinasystems/goes-mdio/cmd"
	"github.com/platinasystems/goes-mdio/lang"
)

var ErrNotFound = errors.New("command not found")

type Goes struct {
	NAME    string
	USAGE   string
	APROPOS lang.Alt
	MAN     lang.Alt

	ByName map[string]cmd.Cmd

	// Stdout is where helpers print; nil is os.Stdout.
	Stdout io.Writer
}

// New returns a Goes with the given commands plotted by name.
func New(name string, cmds ...cmd.Cmd) *Goes {
	g := &Goes{
		NAME:   name,
		ByName: make(map[string]cmd.Cmd),
	}
	g.Plot(cmds...)
	return g
}

func (g *Goes) Plot(cmds ...cmd.Cmd) {
	if g.ByName == nil {
		g.ByName = make(map[string]cmd.Cmd)
	}
	for _, v := range cmds {
		g.ByName[v.String()] = v
	}
}

func (g *Goes) String() string { return g.NAME }

// Names returns the sorted names of the interactive commands.
func (g *Goes) Names() []string {
	names := make([]string, 0, len(g.ByName))
	for k, v := range g.ByName {
		if cmd.WhatKind(v).IsInteractive() {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Main runs the args[0] command. If args[0] isn't a command, it's taken as
// the program name and skipped. Without args, this uses os.Args.
//
// The helpers may preface or follow the command, e.g.
//
//	goes-mdio man mdio
//	goes-mdio mdio -man
func (g *Goes) Main(args ...string) error {
	if len(args) == 0 {
		args = os.Args
	}
	if len(args) > 0 {
		if _, found := g.ByName[args[0]]; !found {
			if _, found = cmd.Helpers[args[0]]; !found {
				if base := filepath.Base(args[0]); base == g.NAME ||
					len(args) > 1 {
					args = args[1:]
				}
			}
		}
	}
	if len(args) == 0 {
		return g.usage()
	}
	cmd.Swap(args)
	name := args[0]
	args = args[1:]
	switch name {
	case "apropos":
		return g.apropos(args...)
	case "help":
		return g.help(args...)
	case "man":
		return g.man(args...)
	case "usage":
		return g.usage(args...)
	}
	v, found := g.ByName[name]
	if !found {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err := v.Main(args...); err != nil && err != io.EOF {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (g *Goes) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}
