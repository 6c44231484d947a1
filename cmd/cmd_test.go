// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

import (
	"reflect"
	"testing"
)

func TestSwap(t *testing.T) {
	for _, x := range []struct {
		args, expect []string
	}{
		{[]string{"mdio", "-man"}, []string{"man", "mdio"}},
		{[]string{"mdio", "--usage", "x"}, []string{"usage", "mdio", "x"}},
		{[]string{"-apropos"}, []string{"apropos"}},
		{[]string{"mdio", "-w", "0", "1"}, []string{"mdio", "-w", "0", "1"}},
		{[]string{}, []string{}},
	} {
		args := append([]string{}, x.args...)
		Swap(args)
		if !reflect.DeepEqual(args, x.expect) {
			t.Errorf("Swap(%v): %v != %v", x.args, args, x.expect)
		}
	}
}

func TestKind(t *testing.T) {
	for k, s := range map[Kind]string{
		0:      "default",
		Hidden: "hidden",
		2:      "unknown",
	} {
		if k.String() != s {
			t.Errorf("%d: %q != %q", k, k.String(), s)
		}
	}
	if !Kind(0).IsInteractive() || Hidden.IsInteractive() {
		t.Error("IsInteractive")
	}
}
