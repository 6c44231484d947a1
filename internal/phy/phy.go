// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package phy decodes the IEEE 802.3 Clause 22 registers of a PHY.
package phy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/platinasystems/goes-mdio/internal/miim"
)

// Clause 22 register addresses
const (
	AddrBMCR   uint8 = 0x00
	AddrBMSR   uint8 = 0x01
	AddrID1    uint8 = 0x02
	AddrID2    uint8 = 0x03
	AddrANAR   uint8 = 0x04
	AddrANLPAR uint8 = 0x05
	AddrANER   uint8 = 0x06
	AddrGBCR   uint8 = 0x09
	AddrGBSR   uint8 = 0x0a
	AddrESTAT  uint8 = 0x0f
	// AddrPage selects the vendor extended register page.
	AddrPage uint8 = 0x1f

	NRegs = 32
)

var ErrNoPHY = errors.New("no PHY")

// BMCR is the Basic Mode Control Register.
type BMCR uint16

const (
	BMCRSpeed1000  BMCR = 0x0040
	BMCRCollision  BMCR = 0x0080
	BMCRFullDuplex BMCR = 0x0100
	BMCRANRestart  BMCR = 0x0200
	BMCRIsolate    BMCR = 0x0400
	BMCRPowerDown  BMCR = 0x0800
	BMCRANEnable   BMCR = 0x1000
	BMCRSpeed100   BMCR = 0x2000
	BMCRLoopback   BMCR = 0x4000
	BMCRReset      BMCR = 0x8000
)

// Speed selected by BMCR when auto-negotiation is off.
func (c BMCR) Speed() int {
	switch {
	case c&BMCRSpeed1000 != 0 && c&BMCRSpeed100 == 0:
		return 1000
	case c&BMCRSpeed100 != 0 && c&BMCRSpeed1000 == 0:
		return 100
	case c&(BMCRSpeed100|BMCRSpeed1000) == 0:
		return 10
	}
	return 0
}

func (c BMCR) String() string {
	var s []string
	if c&BMCRReset != 0 {
		s = append(s, "reset")
	}
	if c&BMCRLoopback != 0 {
		s = append(s, "loopback")
	}
	if c&BMCRANEnable != 0 {
		s = append(s, "autoneg")
	} else {
		s = append(s, fmt.Sprint(c.Speed(), "M"))
		if c&BMCRFullDuplex != 0 {
			s = append(s, "full")
		} else {
			s = append(s, "half")
		}
	}
	if c&BMCRPowerDown != 0 {
		s = append(s, "power-down")
	}
	if c&BMCRIsolate != 0 {
		s = append(s, "isolate")
	}
	return strings.Join(s, ",")
}

// BMSR is the Basic Mode Status Register.
type BMSR uint16

const (
	BMSRExtCap      BMSR = 0x0001
	BMSRJabber      BMSR = 0x0002
	BMSRLinkStatus  BMSR = 0x0004
	BMSRANCap       BMSR = 0x0008
	BMSRRemoteFault BMSR = 0x0010
	BMSRANComplete  BMSR = 0x0020
	BMSRExtStatus   BMSR = 0x0100
	BMSR10Half      BMSR = 0x0800
	BMSR10Full      BMSR = 0x1000
	BMSR100Half     BMSR = 0x2000
	BMSR100Full     BMSR = 0x4000
	BMSR100Base4    BMSR = 0x8000
)

func (s BMSR) String() string {
	var v []string
	if s&BMSRLinkStatus != 0 {
		v = append(v, "link")
	} else {
		v = append(v, "no-link")
	}
	if s&BMSRANComplete != 0 {
		v = append(v, "autoneg-complete")
	}
	if s&BMSRRemoteFault != 0 {
		v = append(v, "remote-fault")
	}
	if s&BMSRJabber != 0 {
		v = append(v, "jabber")
	}
	return strings.Join(v, ",")
}

// ID is the PHY identifier of registers 2 and 3.
type ID struct {
	OUI      uint32
	Model    uint8
	Revision uint8
}

// ParseID of register 2 (OUI bits 3..18) and register 3 (OUI bits 19..24,
// model, and revision).
func ParseID(id1, id2 uint16) ID {
	return ID{
		OUI:      uint32(id1)<<6 | uint32(id2>>10),
		Model:    uint8(id2>>4) & 0x3f,
		Revision: uint8(id2) & 0xf,
	}
}

func (id ID) String() string {
	return fmt.Sprintf("oui %06x model %#02x rev %d", id.OUI, id.Model,
		id.Revision)
}

// Device is the PHY at Port of the Transport's bus.
type Device struct {
	Transport miim.Transport
	Port      int
}

func (d Device) read(address uint8) (uint16, error) {
	return d.Transport.Read(d.Port, address)
}

func (d Device) BasicControl() (BMCR, error) {
	v, err := d.read(AddrBMCR)
	return BMCR(v), err
}

func (d Device) BasicStatus() (BMSR, error) {
	v, err := d.read(AddrBMSR)
	return BMSR(v), err
}

// ID returns ErrNoPHY if both identifier registers read as all ones, as
// they do for an address without a PHY.
func (d Device) ID() (ID, error) {
	id1, err := d.read(AddrID1)
	if err != nil {
		return ID{}, err
	}
	id2, err := d.read(AddrID2)
	if err != nil {
		return ID{}, err
	}
	if id1 == 0xffff && id2 == 0xffff {
		return ID{}, fmt.Errorf("port %d: %w", d.Port, ErrNoPHY)
	}
	return ParseID(id1, id2), nil
}

// LinkUp reads BMSR twice since its link status is latched low.
func (d Device) LinkUp() (bool, error) {
	if _, err := d.BasicStatus(); err != nil {
		return false, err
	}
	s, err := d.BasicStatus()
	if err != nil {
		return false, err
	}
	return s&BMSRLinkStatus != 0, nil
}

// Dump reads registers 0 through 31 of the current page.
func (d Device) Dump() ([NRegs]uint16, error) {
	var regs [NRegs]uint16
	for address := range regs {
		v, err := d.read(uint8(address))
		if err != nil {
			return regs, err
		}
		regs[address] = v
	}
	return regs, nil
}

// Status is a decoded snapshot of the basic registers.
type Status struct {
	ID      ID
	Control BMCR
	Status  BMSR
	LinkUp  bool
}

func (d Device) Status() (Status, error) {
	var s Status
	var err error
	if s.ID, err = d.ID(); err != nil {
		return s, err
	}
	if s.Control, err = d.BasicControl(); err != nil {
		return s, err
	}
	if s.LinkUp, err = d.LinkUp(); err != nil {
		return s, err
	}
	s.Status, err = d.BasicStatus()
	return s, err
}
