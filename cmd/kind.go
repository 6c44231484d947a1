// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

// Hidden commands are left out of Goes.Names.
const Hidden Kind = 1

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

type kinder interface {
	Kind() Kind
}

type Kind uint16

func (k Kind) IsInteractive() bool { return (k & Hidden) == 0 }

func (k Kind) String() string {
	s := "unknown"
	switch k {
	case 0:
		s = "default"
	case Hidden:
		s = "hidden"
	}
	return s
}
