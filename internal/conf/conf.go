// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package conf looks up board configuration by key.
package conf

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Configuration keys
const (
	Board   = "board"
	Target  = "target"
	Type    = "type"
	MuxMode = "mux_mode"
	PCB     = "pcb"
	PCBVar  = "pcb_var"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	// Get returns ErrNotFound if there is no such key.
	Get(key string) (string, error)
}

// Map is a static Store.
type Map map[string]string

func (m Map) Get(key string) (string, error) {
	if s, found := m[key]; found {
		return s, nil
	}
	return "", fmt.Errorf("%s: %w", key, ErrNotFound)
}

func (m Map) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf strings.Builder
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s=%s", k, m[k])
	}
	return buf.String()
}

// ParseMap builds a Map from KEY=VALUE arguments.
func ParseMap(args ...string) (Map, error) {
	m := make(Map)
	for _, arg := range args {
		eq := strings.IndexByte(arg, '=')
		if eq < 1 {
			return nil, fmt.Errorf("%q: not KEY=VALUE", arg)
		}
		m[arg[:eq]] = arg[eq+1:]
	}
	return m, nil
}

// Lookup returns the value of the first key present in the store.
func Lookup(store Store, keys ...string) (string, error) {
	for _, key := range keys {
		s, err := store.Get(key)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: %w", strings.Join(keys, ", "), ErrNotFound)
}
