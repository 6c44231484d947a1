// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package miim

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
)

var (
	_ ContextTransport  = (*Tool)(nil)
	_ ContextMMD        = (*Tool)(nil)
	_ ContextDiscoverer = (*Tool)(nil)
)

// Tool runs mdio-tools for each transaction:
//
//	TOOL BUS phy PORT raw ADDRESS [VALUE]
//	TOOL BUS mmd PORT:DEVAD raw REG [VALUE]
//	TOOL BUS
type Tool struct {
	Config
	// Run replaces Exec if set.
	Run RunFunc
}

func New(c Config) *Tool {
	return &Tool{Config: c.withDefaults()}
}

func (t *Tool) Read(port int, address uint8) (uint16, error) {
	return t.ReadContext(context.Background(), port, address)
}

// ReadContext expects the tool to print a single 4 hex digit value.
func (t *Tool) ReadContext(ctx context.Context, port int, address uint8) (uint16, error) {
	if err := checkPort(port); err != nil {
		return 0, err
	}
	return t.read(ctx, "phy", strconv.Itoa(port), "raw",
		strconv.Itoa(int(address)))
}

func (t *Tool) Write(port int, address uint8, value uint16) error {
	return t.WriteContext(context.Background(), port, address, value)
}

// WriteContext expects the tool to print nothing and exit 0.
func (t *Tool) WriteContext(ctx context.Context, port int, address uint8, value uint16) error {
	if err := checkPort(port); err != nil {
		return err
	}
	return t.write(ctx, "phy", strconv.Itoa(port), "raw",
		strconv.Itoa(int(address)), strconv.Itoa(int(value)))
}

func (t *Tool) ReadMMD(port int, devad uint8, reg uint16) (uint16, error) {
	return t.ReadMMDContext(context.Background(), port, devad, reg)
}

func (t *Tool) ReadMMDContext(ctx context.Context, port int, devad uint8, reg uint16) (uint16, error) {
	prtad, err := mmdAddr(port, devad)
	if err != nil {
		return 0, err
	}
	return t.read(ctx, "mmd", prtad, "raw", strconv.Itoa(int(reg)))
}

func (t *Tool) WriteMMD(port int, devad uint8, reg, value uint16) error {
	return t.WriteMMDContext(context.Background(), port, devad, reg, value)
}

func (t *Tool) WriteMMDContext(ctx context.Context, port int, devad uint8, reg, value uint16) error {
	prtad, err := mmdAddr(port, devad)
	if err != nil {
		return err
	}
	return t.write(ctx, "mmd", prtad, "raw", strconv.Itoa(int(reg)),
		strconv.Itoa(int(value)))
}

func (t *Tool) Discover() ([]PHY, error) {
	return t.DiscoverContext(context.Background())
}

// DiscoverContext lists the bus and verifies that it begins with the
// configured column header. Every failure wraps ErrDiscovery.
func (t *Tool) DiscoverContext(ctx context.Context) ([]PHY, error) {
	cmdline, r, err := t.do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}
	scan := bufio.NewScanner(bytes.NewReader(r.Stdout))
	if !scan.Scan() ||
		!strings.HasPrefix(strings.TrimLeft(scan.Text(), " \t"),
			t.header()) {
		return nil, fmt.Errorf("%s: %w: missing %q header", cmdline,
			ErrDiscovery, t.header())
	}
	var phys []PHY
	for scan.Scan() {
		if phy, ok := parsePHY(scan.Text()); ok {
			phys = append(phys, phy)
		}
	}
	return phys, nil
}

func (t *Tool) read(ctx context.Context, args ...string) (uint16, error) {
	cmdline, r, err := t.do(ctx, args...)
	if err != nil {
		return 0, err
	}
	v, err := Parse(strings.TrimSpace(string(r.Stdout)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cmdline, err)
	}
	return v, nil
}

func (t *Tool) write(ctx context.Context, args ...string) error {
	cmdline, r, err := t.do(ctx, args...)
	if err != nil {
		return err
	}
	if len(r.Stdout) > 0 {
		return fmt.Errorf("%s: %w: %q", cmdline, ErrUnexpectedOutput,
			r.Stdout)
	}
	return nil
}

// do runs TOOL BUS ARGS... and fails on a non-zero exit status no matter
// what was printed.
func (t *Tool) do(ctx context.Context, args ...string) (string, *Result, error) {
	c := t.Config.withDefaults()
	argv := make([]string, 0, len(c.Tool)+1+len(args))
	argv = append(argv, c.Tool...)
	argv = append(argv, c.Bus)
	argv = append(argv, args...)
	cmdline := strings.Join(argv, " ")

	if c.Trace != nil {
		fmt.Fprintln(c.Trace, "+", cmdline)
	}
	debugf("%s", cmdline)

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	run := t.Run
	if run == nil {
		run = Exec
	}
	r, err := run(ctx, argv)
	if err != nil {
		debugf("%s: %v", cmdline, err)
		return cmdline, r, fmt.Errorf("%s: %w", cmdline, err)
	}
	debugf("%s: %q", cmdline, r.Stdout)
	if r.ExitCode != 0 {
		err = fmt.Errorf("%s: %w %d", cmdline, ErrExitStatus, r.ExitCode)
		if stderr := strings.TrimSpace(string(r.Stderr)); len(stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, stderr)
		}
		return cmdline, r, err
	}
	return cmdline, r, nil
}

func (t *Tool) header() string {
	if len(t.Header) == 0 {
		return DefaultHeader
	}
	return t.Header
}

func mmdAddr(port int, devad uint8) (string, error) {
	if err := checkPort(port); err != nil {
		return "", err
	}
	if devad > MaxPort {
		return "", rangeError("devad", strconv.Itoa(int(devad)), nil)
	}
	return fmt.Sprintf("%d:%d", port, devad), nil
}

// parsePHY parses a bus listing row, e.g. "0x02  0x01410dd1  up".
func parsePHY(line string) (PHY, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return PHY{}, false
	}
	addr, err := strconv.ParseUint(fields[0], 0, 8)
	if err != nil || addr > MaxPort {
		return PHY{}, false
	}
	id, err := strconv.ParseUint(fields[1], 0, 32)
	if err != nil {
		return PHY{}, false
	}
	phy := PHY{Addr: int(addr), ID: uint32(id)}
	if len(fields) > 2 {
		phy.Link = fields[2]
	}
	return phy, true
}
