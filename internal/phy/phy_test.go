// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package phy

import (
	"fmt"
	"testing"

	"github.com/platinasystems/goes-mdio/internal/miim"
	"github.com/platinasystems/goes-mdio/internal/test"
)

// regs is a single PHY bus; unset registers read as all ones.
type regs struct {
	port  int
	v     map[uint8]uint16
	reads []uint8
	// latched BMSR link status, cleared on first read
	latched bool
}

func (r *regs) Read(port int, address uint8) (uint16, error) {
	if port != r.port {
		return 0xffff, nil
	}
	r.reads = append(r.reads, address)
	v, found := r.v[address]
	if !found {
		return 0xffff, nil
	}
	if address == AddrBMSR && r.latched {
		r.latched = false
		return v &^ uint16(BMSRLinkStatus), nil
	}
	return v, nil
}

func (r *regs) Write(port int, address uint8, value uint16) error {
	return miim.ErrUnsupported
}

func viper() *regs {
	return &regs{
		port: 1,
		v: map[uint8]uint16{
			AddrBMCR: 0x1140,
			AddrBMSR: 0x796d,
			AddrID1:  0x0007,
			AddrID2:  0x0540,
		},
	}
}

func TestID(t *testing.T) {
	assert := test.Assert{TB: t}
	id, err := Device{viper(), 1}.ID()
	assert.Nil(err)
	assert.True(id.OUI == 0x0001c1)
	assert.True(id.Model == 0x14)
	assert.True(id.Revision == 0)

	_, err = Device{viper(), 2}.ID()
	assert.Error(err, ErrNoPHY)
}

func TestLinkUpLatched(t *testing.T) {
	r := viper()
	r.latched = true
	up, err := Device{r, 1}.LinkUp()
	test.Assert{TB: t}.Nil(err)
	if !up {
		t.Error("latched link status wasn't re-read")
	}
}

func TestDump(t *testing.T) {
	r := viper()
	regs, err := Device{r, 1}.Dump()
	test.Assert{TB: t}.Nil(err)
	if len(r.reads) != NRegs {
		t.Fatal(len(r.reads), "reads")
	}
	for i, address := range r.reads {
		if int(address) != i {
			t.Fatal("out of order:", r.reads)
		}
	}
	if regs[AddrBMCR] != 0x1140 || regs[AddrPage] != 0xffff {
		t.Error(regs)
	}
}

func TestBMCRSpeed(t *testing.T) {
	for c, speed := range map[BMCR]int{
		0:                              10,
		BMCRSpeed100:                   100,
		BMCRSpeed1000:                  1000,
		BMCRSpeed100 | BMCRSpeed1000:   0,
		BMCRSpeed1000 | BMCRFullDuplex: 1000,
	} {
		if got := c.Speed(); got != speed {
			t.Errorf("%#04x: %d != %d", uint16(c), got, speed)
		}
	}
}

func ExampleDevice_Status() {
	s, err := Device{viper(), 1}.Status()
	if err != nil {
		panic(err)
	}
	fmt.Println(s.ID)
	fmt.Println(s.Control)
	fmt.Println(s.Status)
	fmt.Println(BMCR(BMCRSpeed100 | BMCRFullDuplex))
	// Output:
	// oui 0001c1 model 0x14 rev 0
	// autoneg
	// link,autoneg-complete
	// 100M,full
}
