// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/goes-mdio/internal/miim"
	"github.com/platinasystems/log"
	"gopkg.in/yaml.v3"
)

// Write is one step of a register initialization sequence.
type Write struct {
	Port    int    `yaml:"port"`
	Address uint8  `yaml:"address"`
	Value   uint16 `yaml:"value"`
}

func (w Write) String() string {
	return fmt.Sprintf("port %d register %d = %#04x", w.Port, w.Address,
		w.Value)
}

// Sequence of register writes in order, e.g.
//
//	- {port: 0, address: 31, value: 0x0001}
//	- {port: 0, address: 19, value: 0x0001}
//	- {port: 0, address: 31, value: 0x0000}
type Sequence []Write

// ParseSequence decodes a YAML sequence.
func ParseSequence(r io.Reader) (Sequence, error) {
	var seq Sequence
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seq); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for i, w := range seq {
		if w.Port < 0 || w.Port > miim.MaxPort {
			return nil, fmt.Errorf("step %d: port %d: %w", i, w.Port,
				miim.ErrRange)
		}
	}
	return seq, nil
}

// ReadSequence from the named YAML file.
func ReadSequence(fn string) (Sequence, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	seq, err := ParseSequence(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return seq, nil
}

// Apply writes each step in order. A failed step is logged and skipped;
// Apply returns the errors of all such steps. Once ctx is done, the
// remaining steps aren't run and err is ctx.Err().
func (seq Sequence) Apply(ctx context.Context, t miim.Transport) (failed []error, err error) {
	for _, w := range seq {
		if err = ctx.Err(); err != nil {
			return failed, err
		}
		if werr := miim.WriteContext(ctx, t, w.Port, w.Address,
			w.Value); werr != nil {
			log.Print("err", w, ": ", werr)
			failed = append(failed, fmt.Errorf("%v: %w", w, werr))
		}
	}
	return failed, ctx.Err()
}
