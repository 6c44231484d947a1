// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package miim reads and writes PHY registers through the mdio-tools
// command line utility.
//
// Each transaction spawns the tool, waits for it to exit and parses its
// standard output; nothing is kept open between calls. The MDIO bus behind
// the tool is shared, so concurrent callers should go through a Bus.
package miim

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/platinasystems/log"
)

var (
	ErrSpawn            = errors.New("can't start mdio tool")
	ErrParse            = errors.New("malformed register value")
	ErrUnexpectedOutput = errors.New("unexpected output")
	ErrDiscovery        = errors.New("mdio subsystem unavailable")
	ErrExitStatus       = errors.New("non-zero exit status")
	ErrTimeout          = errors.New("timeout")
	ErrRange            = errors.New("out of range")
	ErrUnsupported      = errors.New("unsupported")
)

// MaxPort is the highest Clause 22 PHY address.
const MaxPort = 31

// Debug enables logging of every transaction at debug priority.
var Debug bool

// Transport is a Clause 22 register access method.
type Transport interface {
	Read(port int, address uint8) (uint16, error)
	Write(port int, address uint8, value uint16) error
}

// MMD is the Clause 45 extension of a Transport.
type MMD interface {
	ReadMMD(port int, devad uint8, reg uint16) (uint16, error)
	WriteMMD(port int, devad uint8, reg, value uint16) error
}

type Discoverer interface {
	Discover() ([]PHY, error)
}

// ContextTransport is a Transport whose transactions are abandoned when
// ctx is done.
type ContextTransport interface {
	Transport
	ReadContext(ctx context.Context, port int, address uint8) (uint16, error)
	WriteContext(ctx context.Context, port int, address uint8, value uint16) error
}

type ContextMMD interface {
	MMD
	ReadMMDContext(ctx context.Context, port int, devad uint8, reg uint16) (uint16, error)
	WriteMMDContext(ctx context.Context, port int, devad uint8, reg, value uint16) error
}

type ContextDiscoverer interface {
	Discoverer
	DiscoverContext(ctx context.Context) ([]PHY, error)
}

// PHY is a row of the tool's bus listing.
type PHY struct {
	Addr int
	ID   uint32
	Link string
}

// Parse a register value of exactly four hex digits with an optional 0x
// prefix, e.g. "0x1A2B" or "00ff".
func Parse(s string) (uint16, error) {
	hex := strings.TrimPrefix(s, "0x")
	if len(hex) != 4 {
		return 0, parseError(s)
	}
	hi, err := strconv.ParseUint(hex[:2], 16, 8)
	if err != nil {
		return 0, parseError(s)
	}
	lo, err := strconv.ParseUint(hex[2:], 16, 8)
	if err != nil {
		return 0, parseError(s)
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ParseValue converts a decimal or 0x prefaced register value argument.
func ParseValue(s string) (uint16, error) {
	u, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, rangeError("value", s, err)
	}
	return uint16(u), nil
}

// ParseAddress converts a decimal or 0x prefaced Clause 22 register address.
func ParseAddress(s string) (uint8, error) {
	u, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, rangeError("address", s, err)
	}
	return uint8(u), nil
}

// ParsePort converts a PHY address argument in the range 0..MaxPort.
func ParsePort(s string) (int, error) {
	u, err := strconv.ParseUint(s, 0, 8)
	if err == nil && u > MaxPort {
		err = strconv.ErrRange
	}
	if err != nil {
		return 0, rangeError("port", s, err)
	}
	return int(u), nil
}

func checkPort(port int) error {
	if port < 0 || port > MaxPort {
		return rangeError("port", strconv.Itoa(port), nil)
	}
	return nil
}

func parseError(s string) error {
	return fmt.Errorf("%q: %w", s, ErrParse)
}

func rangeError(what, s string, err error) error {
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrSyntax {
		return fmt.Errorf("%s %q: %w", what, s, strconv.ErrSyntax)
	}
	return fmt.Errorf("%s %q: %w", what, s, ErrRange)
}

func debugf(format string, args ...interface{}) {
	if Debug {
		log.Printf(append([]interface{}{"debug", format}, args...)...)
	}
}
