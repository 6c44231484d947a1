// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/platinasystems/goes-mdio/internal/conf"
	"github.com/platinasystems/goes-mdio/internal/miim"
	"github.com/platinasystems/goes-mdio/internal/test"
	"github.com/platinasystems/goes-mdio/internal/test/mdiostub"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if test.Goes {
		test.Exec(mdiostub.Main)
	}
	os.Exit(m.Run())
}

func TestLookup(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, v := range Variants() {
		got, err := Lookup(v.String())
		assert.Nil(err)
		assert.True(got == v)
	}
	for _, s := range []string{"viper_eval", " Viper_Eval\n", "VIPER_EVAL"} {
		v, err := Lookup(s)
		assert.Nil(err)
		assert.True(v == ViperEval)
	}
	for _, s := range []string{"", "VIPER", "VSC7514_PCB999", "viper-eval"} {
		_, err := Lookup(s)
		assert.Error(err, ErrUnknownBoard)
	}
}

func TestStd(t *testing.T) {
	assert := test.Assert{TB: t}
	b, err := New(ViperEval)
	assert.Nil(err)
	assert.Equal(b.String(), "Viper_Eval")
	assert.True(b.Target() == TargetCuPHY)
	assert.True(b.PortCount() == 4)
	assert.True(b.Capability(CapSFPPorts) == 0x9)
	assert.True(b.Capability(CapPortCount) == 4)
	assert.True(b.Capability(Cap(99)) == 0)

	i, err := b.PortInterface(1)
	assert.Nil(err)
	assert.True(i == SGMII)
	_, err = b.PortInterface(4)
	assert.Error(err, ErrPort)

	e, err := b.PortEntry(3)
	assert.Nil(err)
	assert.Equal(e.Cap.String(), "copper,fiber,1g")
	e, err = b.PortEntry(2)
	assert.Nil(err)
	assert.Equal(e.Cap.String(), "copper,1g")
	_, err = b.PortEntry(-1)
	assert.Error(err, ErrPort)

	for _, p := range []ResetPoint{PreReset, PostReset, PostPortReset} {
		assert.Nil(b.Reset(p))
	}
	assert.Error(b.Reset(ResetPoint(7)), ErrResetPoint)

	_, err = New(Variant(nVariants))
	assert.Error(err, ErrUnknownBoard)
}

func TestDefaultSequence(t *testing.T) {
	seq := DefaultSequence(ViperEval)
	if len(seq) != 6 {
		t.Fatal(seq)
	}
	seq[0].Value = 0xdead
	if DefaultSequence(ViperEval)[0].Value != 1 {
		t.Fatal("DefaultSequence returned the table")
	}
	if len(DefaultSequence(OcelotPCB123)) != 0 {
		t.Fatal("unexpected ocelot sequence")
	}
}

func stub(t *testing.T, mode string) (*miim.Tool, string) {
	dir := t.TempDir()
	t.Setenv(mdiostub.EnvDir, dir)
	t.Setenv(mdiostub.EnvMode, mode)
	return miim.New(miim.Config{Tool: test.Self()}), dir
}

func journal(t *testing.T, dir string) string {
	t.Helper()
	writes, err := mdiostub.Journal(dir)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Join(writes, " ")
}

func TestInitialize(t *testing.T) {
	assert := test.Assert{TB: t}
	tool, dir := stub(t, "")
	assert.Nil(mdiostub.Set(dir, mdiostub.Key(0, 2), 0x0007))
	assert.Nil(mdiostub.Set(dir, mdiostub.Key(0, 3), 0x0540))

	inst, err := Initialize(context.Background(), conf.Map{
		conf.Board: "viper_eval",
		conf.PCB:   "135",
	}, tool, Options{})
	assert.Nil(err)
	assert.True(inst.Variant == ViperEval)
	assert.True(len(inst.Failed) == 0)
	assert.True(len(inst.PHYs) == 1)
	assert.Equal(inst.Props[conf.PCB], "135")
	assert.Equal(journal(t, dir), "phy.0.31=1 phy.0.19=1 phy.0.31=0 "+
		"phy.3.31=1 phy.3.19=1 phy.3.31=0")

	v, err := inst.Bus.Read(3, 19)
	assert.Nil(err)
	assert.True(v == 1)
}

func TestInitializeDiscoveryFailure(t *testing.T) {
	assert := test.Assert{TB: t}
	tool, dir := stub(t, mdiostub.NoBus)
	_, err := Initialize(context.Background(),
		conf.Map{conf.Board: "VIPER_EVAL"}, tool, Options{})
	assert.Error(err, miim.ErrDiscovery)
	assert.Equal(journal(t, dir), "")

	inst, err := Initialize(context.Background(),
		conf.Map{conf.Board: "VIPER_EVAL"}, tool,
		Options{WarmStart: true})
	assert.Nil(err)
	assert.True(inst.PortCount == 4)
	assert.Equal(journal(t, dir), "")
}

func TestInitializeCanceled(t *testing.T) {
	assert := test.Assert{TB: t}
	tool, dir := stub(t, "")
	assert.Nil(mdiostub.Set(dir, mdiostub.Key(0, 2), 0x0007))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Initialize(ctx, conf.Map{conf.Board: "VIPER_EVAL"}, tool,
		Options{})
	assert.Error(err, context.Canceled)
	assert.Equal(journal(t, dir), "")

	_, err = Initialize(ctx, conf.Map{conf.Board: "VIPER_EVAL"}, tool,
		Options{Wait: time.Second})
	assert.Error(err, context.Canceled)
	assert.Equal(journal(t, dir), "")
}

// canceler cancels its context at the nth write.
type canceler struct {
	n      int
	writes int
	cancel context.CancelFunc
}

func (p *canceler) Read(port int, address uint8) (uint16, error) {
	return 0xffff, nil
}

func (p *canceler) Write(port int, address uint8, value uint16) error {
	if p.writes++; p.writes == p.n {
		p.cancel()
	}
	return nil
}

func (p *canceler) Discover() ([]miim.PHY, error) {
	return nil, nil
}

func TestApplyStopsWhenDone(t *testing.T) {
	assert := test.Assert{TB: t}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &canceler{n: 2, cancel: cancel}
	failed, err := DefaultSequence(ViperEval).Apply(ctx, p)
	assert.Error(err, context.Canceled)
	assert.True(len(failed) == 0)
	assert.True(p.writes == 2)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	p = &canceler{n: 3, cancel: cancel}
	_, err = Initialize(ctx, conf.Map{conf.Board: "VIPER_EVAL"}, p,
		Options{})
	assert.Error(err, context.Canceled)
	assert.True(p.writes == 3)
}

func TestInitializeSequenceOverride(t *testing.T) {
	assert := test.Assert{TB: t}
	tool, dir := stub(t, "")
	seq, err := ParseSequence(strings.NewReader(`
- {port: 1, address: 0, value: 0x1140}
- port: 2
  address: 22
  value: 3
`))
	assert.Nil(err)
	_, err = Initialize(context.Background(),
		conf.Map{conf.Type: "ocelot_pcb123"}, tool,
		Options{Sequence: seq})
	assert.Nil(err)
	assert.Equal(journal(t, dir), "phy.1.0=4416 phy.2.22=3")
}

func TestInitializeConf(t *testing.T) {
	assert := test.Assert{TB: t}
	p := &fake{}
	_, err := Initialize(context.Background(), conf.Map{}, p, Options{})
	assert.Error(err, conf.ErrNotFound)
	_, err = Initialize(context.Background(),
		conf.Map{conf.Board: "LAN9668"}, p, Options{})
	assert.Error(err, ErrUnknownBoard)
	assert.True(p.discovers == 0)
	assert.True(len(p.writes) == 0)
}

// fake is a bus that fails writes and, after fails discoveries, finds a PHY.
type fake struct {
	fails     int
	discovers int
	writes    []string
}

func (p *fake) Read(port int, address uint8) (uint16, error) {
	return 0xffff, nil
}

func (p *fake) Write(port int, address uint8, value uint16) error {
	p.writes = append(p.writes, fmt.Sprint(port, ".", address))
	return fmt.Errorf("write: %w", miim.ErrExitStatus)
}

func (p *fake) Discover() ([]miim.PHY, error) {
	p.discovers++
	if p.discovers <= p.fails {
		return nil, fmt.Errorf("%w: try %d", miim.ErrDiscovery,
			p.discovers)
	}
	return []miim.PHY{{Addr: 0, ID: 0x00070540, Link: "up"}}, nil
}

func TestInitializeWriteFailuresAreSkipped(t *testing.T) {
	assert := test.Assert{TB: t}
	p := &fake{}
	inst, err := Initialize(context.Background(),
		conf.Map{conf.Board: "VIPER_EVAL"}, p, Options{})
	assert.Nil(err)
	assert.True(len(p.writes) == 6)
	assert.True(len(inst.Failed) == 6)
	assert.Error(inst.Failed[0], miim.ErrExitStatus)
}

func TestWaitForBus(t *testing.T) {
	assert := test.Assert{TB: t}
	p := &fake{fails: 2}
	phys, err := WaitForBus(context.Background(), p, 10*time.Second)
	assert.Nil(err)
	assert.True(len(phys) == 1)
	assert.True(p.discovers == 3)

	p = &fake{fails: 1000}
	_, err = WaitForBus(context.Background(), p, 300*time.Millisecond)
	assert.Error(err, miim.ErrDiscovery)
	assert.True(p.discovers < 1000)

	p = &fake{fails: 1}
	inst, err := Initialize(context.Background(),
		conf.Map{conf.Board: "VIPER_EVAL"}, p,
		Options{Wait: 10 * time.Second, Sequence: Sequence{}})
	assert.Nil(err)
	assert.True(len(inst.PHYs) == 1)
	assert.True(len(p.writes) == 0)
}

func TestWaitForBusDeadline(t *testing.T) {
	assert := test.Assert{TB: t}
	tool, _ := stub(t, mdiostub.Hang)
	start := time.Now()
	_, err := WaitForBus(context.Background(), tool,
		200*time.Millisecond)
	assert.Error(err, miim.ErrDiscovery)
	assert.Error(err, context.DeadlineExceeded)
	if d := time.Since(start); d >= tool.Timeout {
		t.Error("took", d)
	}
}

func TestParseSequenceErrors(t *testing.T) {
	for _, s := range []string{
		"- {port: 40, address: 0, value: 0}",
		"- {port: 0, address: 300, value: 0}",
		"- {port: 0, address: 0, value: 0x10000}",
		"- {port: 0, reg: 0, value: 0}",
		"port: 0",
	} {
		if seq, err := ParseSequence(strings.NewReader(s)); err == nil {
			t.Errorf("%q: %v", s, seq)
		}
	}
	seq, err := ParseSequence(strings.NewReader(""))
	if err != nil || len(seq) != 0 {
		t.Error("empty:", seq, err)
	}
}

func TestReadSequence(t *testing.T) {
	_, err := ReadSequence("/nonexistent/seq.yaml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Error(err)
	}
}

func ExampleInstance_WriteTo() {
	inst, err := Initialize(context.Background(), conf.Map{
		conf.Board:   "VIPER_EVAL",
		conf.MuxMode: "1",
	}, &fake{}, Options{Sequence: Sequence{}})
	if err != nil {
		panic(err)
	}
	inst.WriteTo(os.Stdout)
	// Output:
	// board: VIPER_EVAL
	// descr: Viper_Eval
	// target: CU_PHY
	// ports: 4
	// cap.port_count: 0x4
	// cap.phy_count: 0x4
	// cap.sfp_ports: 0x9
	// cap.temp_sensors: 0x0
	// port.0: chip 0, miim 0, sgmii, copper,fiber,1g
	// port.1: chip 1, miim 1, sgmii, copper,1g
	// port.2: chip 2, miim 2, sgmii, copper,1g
	// port.3: chip 3, miim 3, sgmii, copper,fiber,1g
	// mux_mode: 1
	// phy.0: 0x00070540 up
}

func ExampleWrite_String() {
	for _, w := range DefaultSequence(ViperEval)[:3] {
		fmt.Println(w)
	}
	// Output:
	// port 0 register 31 = 0x0001
	// port 0 register 19 = 0x0001
	// port 0 register 31 = 0x0000
}
