// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mdiostub emulates the mdio-tools command for tests.
//
// Register values persist as files in $MDIOSTUB_DIR so that a value written
// by one invocation is read by the next. Every write is also appended to
// the "journal" file. $MDIOSTUB_MODE injects faults.
package mdiostub

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDir  = "MDIOSTUB_DIR"
	EnvMode = "MDIOSTUB_MODE"

	Header = " DEV      PHY-ID  LINK"
)

// Modes
const (
	// Garbage reads print a value that isn't 4 hex digits.
	Garbage = "garbage"
	// Chatty writes print a newline.
	Chatty = "chatty"
	// Fail exits 1 with an error message on stderr.
	Fail = "fail"
	// Silent exits 1 without any output.
	Silent = "silent"
	// Hang never finishes.
	Hang = "hang"
	// NoBus prints a bus listing without the header.
	NoBus = "nobus"
)

const journal = "journal"

var ErrUsage = errors.New("usage: mdio BUS [{phy PORT|mmd PORT:DEVAD} raw REG [VALUE]]")

var Stdout io.Writer = os.Stdout

// Main emulates:
//
//	mdio BUS
//	mdio BUS phy PORT raw REG [VALUE]
//	mdio BUS mmd PORT:DEVAD raw REG [VALUE]
func Main(args ...string) error {
	dir := os.Getenv(EnvDir)
	if len(dir) == 0 {
		return fmt.Errorf("%s: missing", EnvDir)
	}
	switch os.Getenv(EnvMode) {
	case Fail:
		return errors.New("mdio: bus busy")
	case Silent:
		os.Exit(1)
	case Hang:
		time.Sleep(time.Minute)
	}
	switch len(args) {
	case 1:
		return list(dir)
	case 5, 6:
	default:
		return ErrUsage
	}
	if args[3] != "raw" {
		return ErrUsage
	}
	var key string
	switch args[1] {
	case "phy":
		port, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		key = fmt.Sprint("phy.", port)
	case "mmd":
		prtad := strings.SplitN(args[2], ":", 2)
		if len(prtad) != 2 {
			return ErrUsage
		}
		key = fmt.Sprint("mmd.", prtad[0], ".", prtad[1])
	default:
		return ErrUsage
	}
	reg, err := strconv.ParseUint(args[4], 0, 16)
	if err != nil {
		return err
	}
	key = fmt.Sprint(key, ".", reg)
	if len(args) == 5 {
		if os.Getenv(EnvMode) == Garbage {
			fmt.Fprintln(Stdout, "0xfffff")
			return nil
		}
		v, err := get(dir, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(Stdout, "0x%04x\n", v)
		return nil
	}
	v, err := strconv.ParseUint(args[5], 0, 16)
	if err != nil {
		return err
	}
	if err = write(dir, key, uint16(v)); err != nil {
		return err
	}
	if os.Getenv(EnvMode) == Chatty {
		fmt.Fprintln(Stdout)
	}
	return nil
}

// Key of a Clause 22 register as stored by Set.
func Key(port int, reg uint8) string {
	return fmt.Sprint("phy.", port, ".", reg)
}

// Set presets a register value; unlike a tool write, it isn't journaled.
func Set(dir, key string, v uint16) error {
	fn := filepath.Join(dir, key)
	return os.WriteFile(fn, []byte(strconv.Itoa(int(v))), 0644)
}

func write(dir, key string, v uint16) error {
	if err := Set(dir, key, v); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, journal),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s=%d\n", key, v)
	return err
}

// Journal returns the "KEY=VALUE" writes in order.
func Journal(dir string) ([]string, error) {
	b, err := os.ReadFile(filepath.Join(dir, journal))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(b)), nil
}

// get returns 0xffff, like an empty bus, for unwritten registers.
func get(dir, key string) (uint16, error) {
	b, err := os.ReadFile(filepath.Join(dir, key))
	if errors.Is(err, os.ErrNotExist) {
		return 0xffff, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(string(b), 10, 16)
	return uint16(v), err
}

// list prints a row for each port with PHY ID registers.
func list(dir string) error {
	if os.Getenv(EnvMode) != NoBus {
		fmt.Fprintln(Stdout, Header)
	}
	ports := make(map[int]struct{})
	matches, err := filepath.Glob(filepath.Join(dir, "phy.*.2"))
	if err != nil {
		return err
	}
	for _, fn := range matches {
		var port int
		_, err := fmt.Sscanf(filepath.Base(fn), "phy.%d.2", &port)
		if err == nil {
			ports[port] = struct{}{}
		}
	}
	sorted := make([]int, 0, len(ports))
	for port := range ports {
		sorted = append(sorted, port)
	}
	sort.Ints(sorted)
	for _, port := range sorted {
		id1, err := get(dir, Key(port, 2))
		if err != nil {
			return err
		}
		id2, err := get(dir, Key(port, 3))
		if err != nil {
			return err
		}
		link := "down"
		if bmsr, err := get(dir, Key(port, 1)); err == nil &&
			bmsr != 0xffff && bmsr&(1<<2) != 0 {
			link = "up"
		}
		fmt.Fprintf(Stdout, "0x%02x  0x%04x%04x  %s\n", port, id1, id2,
			link)
	}
	return nil
}
