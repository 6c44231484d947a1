// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package board brings up a PHY board reached through mdio-tools.
//
// The board is named by the "board" (or "type") configuration key. Its
// variant decides the port layout, the capabilities reported to the host,
// and the register sequence written once the bus is found.
package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownBoard = errors.New("unknown board")
	ErrPort         = errors.New("no such port")
	ErrResetPoint   = errors.New("unsupported reset point")
)

type Variant int

const (
	VSC7514PCB123 Variant = iota
	OcelotPCB123
	OcelotPCB123LAN8814
	ViperEval
	nVariants
)

var variantNames = [nVariants]string{
	VSC7514PCB123:       "VSC7514_PCB123",
	OcelotPCB123:        "OCELOT_PCB123",
	OcelotPCB123LAN8814: "OCELOT_PCB123_LAN8814",
	ViperEval:           "VIPER_EVAL",
}

var variantByName = func() map[string]Variant {
	m := make(map[string]Variant, nVariants)
	for v, s := range variantNames {
		m[strings.ToLower(s)] = Variant(v)
	}
	return m
}()

// Lookup a variant by its case insensitive configuration name.
func Lookup(name string) (Variant, error) {
	v, found := variantByName[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return -1, fmt.Errorf("%q: %w", name, ErrUnknownBoard)
	}
	return v, nil
}

// Variants lists every known board.
func Variants() []Variant {
	vs := make([]Variant, nVariants)
	for i := range vs {
		vs[i] = Variant(i)
	}
	return vs
}

func (v Variant) String() string {
	if v < 0 || v >= nVariants {
		return fmt.Sprint("Variant(", int(v), ")")
	}
	return variantNames[v]
}

type Target string

const (
	Target7514  Target = "VSC7514"
	TargetCuPHY Target = "CU_PHY"
)

type Interface int

const (
	Internal Interface = iota
	SGMII
	QSGMII
)

func (i Interface) String() string {
	switch i {
	case Internal:
		return "internal"
	case SGMII:
		return "sgmii"
	case QSGMII:
		return "qsgmii"
	}
	return fmt.Sprint("Interface(", int(i), ")")
}

// Cap names a board capability queried by the host.
type Cap int

const (
	CapPortCount Cap = iota
	CapPHYCount
	// CapSFPPorts is a mask of dual media ports with an SFP cage.
	CapSFPPorts
	CapTempSensors
	nCaps
)

var capNames = [nCaps]string{
	CapPortCount:   "port_count",
	CapPHYCount:    "phy_count",
	CapSFPPorts:    "sfp_ports",
	CapTempSensors: "temp_sensors",
}

func (c Cap) String() string {
	if c < 0 || c >= nCaps {
		return fmt.Sprint("Cap(", int(c), ")")
	}
	return capNames[c]
}

type ResetPoint int

const (
	PreReset ResetPoint = iota
	PostReset
	PostPortReset
)

func (p ResetPoint) String() string {
	switch p {
	case PreReset:
		return "pre-reset"
	case PostReset:
		return "post-reset"
	case PostPortReset:
		return "post-port-reset"
	}
	return fmt.Sprint("ResetPoint(", int(p), ")")
}

// PortCap bits
type PortCap uint32

const (
	PortCapCopper PortCap = 1 << iota
	PortCapFiber
	PortCap1G
)

func (c PortCap) String() string {
	var s []string
	for _, x := range []struct {
		bit  PortCap
		name string
	}{
		{PortCapCopper, "copper"},
		{PortCapFiber, "fiber"},
		{PortCap1G, "1g"},
	} {
		if c&x.bit != 0 {
			s = append(s, x.name)
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ",")
}

// PortEntry maps a front panel port to the chip and its PHY.
type PortEntry struct {
	ChipPort  int
	MIIMAddr  int
	Interface Interface
	Cap       PortCap
}

// Board is the capability set a host dispatches through.
type Board interface {
	String() string
	Variant() Variant
	Target() Target
	PortCount() int
	PortInterface(port int) (Interface, error)
	// Capability returns 0 for unknown capabilities.
	Capability(c Cap) uint32
	Reset(p ResetPoint) error
	PortEntry(port int) (PortEntry, error)
}
