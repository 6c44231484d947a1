// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/goes-mdio/internal/miim"
)

// WaitForBus repeats discovery with exponential backoff until it succeeds,
// ctx is done, or max has elapsed. Discovery in progress at that time is
// abandoned. The returned error wraps the last discovery failure.
func WaitForBus(ctx context.Context, d miim.Discoverer, max time.Duration) ([]miim.PHY, error) {
	ctx, cancel := context.WithTimeout(ctx, max)
	defer cancel()

	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}
	for tries := 1; ; tries++ {
		phys, err := miim.DiscoverContext(ctx, d)
		if err == nil {
			return phys, nil
		}
		t := time.NewTimer(b.Duration())
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("after %d tries: %w", tries, err)
		case <-t.C:
		}
	}
}
