// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package miim

import (
	"context"
	"fmt"
	"sync"
)

var (
	_ ContextTransport  = (*Bus)(nil)
	_ ContextMMD        = (*Bus)(nil)
	_ ContextDiscoverer = (*Bus)(nil)
)

// Bus is the single owner of an MDIO bus; it serializes transactions of
// concurrent callers. A caller whose ctx is done by the time it holds the
// bus doesn't run its transaction.
type Bus struct {
	mutex sync.Mutex
	t     Transport
}

func NewBus(t Transport) *Bus {
	if b, ok := t.(*Bus); ok {
		return b
	}
	return &Bus{t: t}
}

// Transport returns the wrapped transport.
func (b *Bus) Transport() Transport { return b.t }

func (b *Bus) Read(port int, address uint8) (uint16, error) {
	return b.ReadContext(context.Background(), port, address)
}

func (b *Bus) ReadContext(ctx context.Context, port int, address uint8) (uint16, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return ReadContext(ctx, b.t, port, address)
}

func (b *Bus) Write(port int, address uint8, value uint16) error {
	return b.WriteContext(context.Background(), port, address, value)
}

func (b *Bus) WriteContext(ctx context.Context, port int, address uint8, value uint16) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return WriteContext(ctx, b.t, port, address, value)
}

func (b *Bus) ReadMMD(port int, devad uint8, reg uint16) (uint16, error) {
	return b.ReadMMDContext(context.Background(), port, devad, reg)
}

func (b *Bus) ReadMMDContext(ctx context.Context, port int, devad uint8, reg uint16) (uint16, error) {
	m, ok := b.t.(MMD)
	if !ok {
		return 0, fmt.Errorf("clause 45: %w", ErrUnsupported)
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if c, ok := m.(ContextMMD); ok {
		return c.ReadMMDContext(ctx, port, devad, reg)
	}
	return m.ReadMMD(port, devad, reg)
}

func (b *Bus) WriteMMD(port int, devad uint8, reg, value uint16) error {
	return b.WriteMMDContext(context.Background(), port, devad, reg, value)
}

func (b *Bus) WriteMMDContext(ctx context.Context, port int, devad uint8, reg, value uint16) error {
	m, ok := b.t.(MMD)
	if !ok {
		return fmt.Errorf("clause 45: %w", ErrUnsupported)
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if c, ok := m.(ContextMMD); ok {
		return c.WriteMMDContext(ctx, port, devad, reg, value)
	}
	return m.WriteMMD(port, devad, reg, value)
}

func (b *Bus) Discover() ([]PHY, error) {
	return b.DiscoverContext(context.Background())
}

func (b *Bus) DiscoverContext(ctx context.Context) ([]PHY, error) {
	d, ok := b.t.(Discoverer)
	if !ok {
		return nil, fmt.Errorf("discover: %w", ErrUnsupported)
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return DiscoverContext(ctx, d)
}

// ReadContext reads through t with ctx if t takes one. It returns
// ctx.Err() without a transaction if ctx is already done.
func ReadContext(ctx context.Context, t Transport, port int, address uint8) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if c, ok := t.(ContextTransport); ok {
		return c.ReadContext(ctx, port, address)
	}
	return t.Read(port, address)
}

// WriteContext is the write counterpart of ReadContext.
func WriteContext(ctx context.Context, t Transport, port int, address uint8, value uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c, ok := t.(ContextTransport); ok {
		return c.WriteContext(ctx, port, address, value)
	}
	return t.Write(port, address, value)
}

func DiscoverContext(ctx context.Context, d Discoverer) ([]PHY, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c, ok := d.(ContextDiscoverer); ok {
		return c.DiscoverContext(ctx)
	}
	return d.Discover()
}
