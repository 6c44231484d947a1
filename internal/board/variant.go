// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import "fmt"

const portsMax = 4

type info struct {
	descr  string
	target Target
	ports  int
	iface  Interface
	// mask of dual media ports
	sfp uint32
	seq Sequence
}

var infos = [nVariants]info{
	VSC7514PCB123: {
		descr:  "My Own VSC7514",
		target: Target7514,
		ports:  portsMax,
		iface:  Internal,
	},
	OcelotPCB123: {
		descr:  "Ocelot PCB123",
		target: Target7514,
		ports:  portsMax,
		iface:  Internal,
	},
	OcelotPCB123LAN8814: {
		descr:  "Ocelot PCB123 with LAN8814",
		target: Target7514,
		ports:  portsMax,
		iface:  QSGMII,
	},
	ViperEval: {
		descr:  "Viper_Eval",
		target: TargetCuPHY,
		ports:  portsMax,
		iface:  SGMII,
		sfp:    1<<0 | 1<<3,
		seq: Sequence{
			// SFP signal detect polarity, extended page 1 register 19
			{Port: 0, Address: 31, Value: 1},
			{Port: 0, Address: 19, Value: 1},
			{Port: 0, Address: 31, Value: 0},
			{Port: 3, Address: 31, Value: 1},
			{Port: 3, Address: 19, Value: 1},
			{Port: 3, Address: 31, Value: 0},
		},
	},
}

// DefaultSequence returns a copy of the variant's register initialization.
func DefaultSequence(v Variant) Sequence {
	if v < 0 || v >= nVariants {
		return nil
	}
	return append(Sequence(nil), infos[v].seq...)
}

var _ Board = (*Std)(nil)

// Std is a board described by its variant's table entry.
type Std struct {
	variant Variant
	info
}

// New returns the board of the given variant.
func New(v Variant) (*Std, error) {
	if v < 0 || v >= nVariants {
		return nil, fmt.Errorf("%v: %w", v, ErrUnknownBoard)
	}
	return &Std{variant: v, info: infos[v]}, nil
}

func (b *Std) String() string   { return b.descr }
func (b *Std) Variant() Variant { return b.variant }
func (b *Std) Target() Target   { return b.target }
func (b *Std) PortCount() int   { return b.ports }

func (b *Std) PortInterface(port int) (Interface, error) {
	if err := b.checkPort(port); err != nil {
		return 0, err
	}
	return b.iface, nil
}

func (b *Std) Capability(c Cap) uint32 {
	switch c {
	case CapPortCount, CapPHYCount:
		return uint32(b.ports)
	case CapSFPPorts:
		return b.sfp
	}
	return 0
}

// Reset points are left to the host's PHY API; the board has nothing of
// its own to do at any of them.
func (b *Std) Reset(p ResetPoint) error {
	switch p {
	case PreReset, PostReset, PostPortReset:
		return nil
	}
	return fmt.Errorf("%v: %w", p, ErrResetPoint)
}

func (b *Std) PortEntry(port int) (PortEntry, error) {
	if err := b.checkPort(port); err != nil {
		return PortEntry{}, err
	}
	e := PortEntry{
		ChipPort:  port,
		MIIMAddr:  port,
		Interface: b.iface,
		Cap:       PortCapCopper | PortCap1G,
	}
	if b.sfp&(1<<uint(port)) != 0 {
		e.Cap |= PortCapFiber
	}
	return e, nil
}

func (b *Std) checkPort(port int) error {
	if port < 0 || port >= b.ports {
		return fmt.Errorf("%s port %d: %w", b.variant, port, ErrPort)
	}
	return nil
}
