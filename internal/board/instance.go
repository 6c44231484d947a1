// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/platinasystems/goes-mdio/internal/conf"
	"github.com/platinasystems/goes-mdio/internal/miim"
	"github.com/platinasystems/log"
)

type Options struct {
	// WarmStart skips discovery and the init sequence; the board is
	// assumed to be running already.
	WarmStart bool
	// Wait, if non-zero, retries discovery for up to this long.
	Wait time.Duration
	// Sequence, if non-nil, replaces the variant's init sequence.
	Sequence Sequence
}

// Instance is what the host learns of a board at registration.
type Instance struct {
	Descr     string
	Variant   Variant
	Target    Target
	PortCount int
	Caps      map[Cap]uint32
	Ports     []PortEntry
	// Props has the optional configuration keys that were found.
	Props map[string]string
	// PHYs found by discovery.
	PHYs []miim.PHY
	// Failed init sequence writes.
	Failed []error

	Board Board
	Bus   *miim.Bus
}

var propKeys = []string{
	conf.Target,
	conf.Type,
	conf.MuxMode,
	conf.PCB,
	conf.PCBVar,
}

// Register a board by querying it through the Board interface.
func Register(b Board, bus *miim.Bus) (*Instance, error) {
	inst := &Instance{
		Descr:     b.String(),
		Variant:   b.Variant(),
		Target:    b.Target(),
		PortCount: b.PortCount(),
		Caps:      make(map[Cap]uint32, nCaps),
		Props:     make(map[string]string),
		Board:     b,
		Bus:       bus,
	}
	for c := Cap(0); c < nCaps; c++ {
		inst.Caps[c] = b.Capability(c)
	}
	inst.Ports = make([]PortEntry, inst.PortCount)
	for port := range inst.Ports {
		e, err := b.PortEntry(port)
		if err != nil {
			return nil, err
		}
		inst.Ports[port] = e
	}
	return inst, nil
}

// Initialize the board named by the store on the given transport.
//
// Unless WarmStart, the bus must pass discovery before anything is written;
// a discovery failure is returned wrapping miim.ErrDiscovery and nothing
// further is run. Failed writes of the init sequence don't stop
// initialization; they're logged and kept in Instance.Failed. If ctx is
// done before the sequence completes, Initialize stops and returns
// ctx.Err().
func Initialize(ctx context.Context, store conf.Store, t miim.Transport, o Options) (*Instance, error) {
	name, err := conf.Lookup(store, conf.Board, conf.Type)
	if err != nil {
		return nil, err
	}
	v, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	bus := miim.NewBus(t)
	b, err := New(v)
	if err != nil {
		return nil, err
	}
	inst, err := Register(b, bus)
	if err != nil {
		return nil, err
	}
	for _, k := range propKeys {
		s, err := store.Get(k)
		if err == nil {
			inst.Props[k] = s
		} else if !errors.Is(err, conf.ErrNotFound) {
			return nil, err
		}
	}
	log.Print("info", "board ", v, ": ", inst.Descr)
	if o.WarmStart {
		return inst, nil
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if o.Wait > 0 {
		inst.PHYs, err = WaitForBus(ctx, bus, o.Wait)
	} else {
		inst.PHYs, err = bus.DiscoverContext(ctx)
	}
	if err != nil {
		if !errors.Is(err, miim.ErrDiscovery) {
			err = fmt.Errorf("%w: %w", miim.ErrDiscovery, err)
		}
		log.Print("err", err)
		return nil, err
	}
	seq := o.Sequence
	if seq == nil {
		seq = DefaultSequence(v)
	}
	inst.Failed, err = seq.Apply(ctx, bus)
	if err != nil {
		log.Print("err", "board ", v, ": ", err)
		return nil, err
	}
	return inst, nil
}

// WriteTo prints the instance description.
func (inst *Instance) WriteTo(w io.Writer) (int64, error) {
	var buf strings.Builder
	fmt.Fprintln(&buf, "board:", inst.Variant)
	fmt.Fprintln(&buf, "descr:", inst.Descr)
	fmt.Fprintln(&buf, "target:", inst.Target)
	fmt.Fprintln(&buf, "ports:", inst.PortCount)
	for c := Cap(0); c < nCaps; c++ {
		fmt.Fprintf(&buf, "cap.%s: %#x\n", c, inst.Caps[c])
	}
	for port, e := range inst.Ports {
		fmt.Fprintf(&buf, "port.%d: chip %d, miim %d, %s, %s\n",
			port, e.ChipPort, e.MIIMAddr, e.Interface, e.Cap)
	}
	for _, k := range propKeys {
		if s, found := inst.Props[k]; found {
			fmt.Fprintf(&buf, "%s: %s\n", k, s)
		}
	}
	for _, phy := range inst.PHYs {
		fmt.Fprintf(&buf, "phy.%d: %#08x %s\n", phy.Addr, phy.ID,
			phy.Link)
	}
	for _, err := range inst.Failed {
		fmt.Fprintln(&buf, "failed:", err)
	}
	n, err := io.WriteString(w, buf.String())
	return int64(n), err
}
