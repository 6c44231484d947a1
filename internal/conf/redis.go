// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package conf

import (
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/platinasystems/atsock"
)

const (
	DefaultHash = "platina"
	// DefaultSocket is the abstract socket of goes redisd.
	DefaultSocket = "redisd"

	rdtimeout = 10 * time.Second
	wrtimeout = 500 * time.Millisecond
)

// Redis is a Store of hash fields on the local goes redisd.
type Redis struct {
	// Hash defaults to DefaultHash.
	Hash string
	// Dial defaults to Connect.
	Dial func() (redis.Conn, error)
}

// Connect to the redisd abstract socket.
func Connect() (redis.Conn, error) {
	conn, err := atsock.Dial(DefaultSocket)
	if err != nil {
		return nil, err
	}
	return redis.NewConn(conn, rdtimeout, wrtimeout), nil
}

// Get returns HGET HASH KEY.
func (r *Redis) Get(key string) (string, error) {
	hash := r.Hash
	if len(hash) == 0 {
		hash = DefaultHash
	}
	dial := r.Dial
	if dial == nil {
		dial = Connect
	}
	conn, err := dial()
	if err != nil {
		return "", fmt.Errorf("%s: %w", DefaultSocket, err)
	}
	defer conn.Close()
	v, err := conn.Do("HGET", hash, key)
	if err != nil {
		return "", fmt.Errorf("hget %s %s: %w", hash, key, err)
	}
	if v == nil {
		return "", fmt.Errorf("%s.%s: %w", hash, key, ErrNotFound)
	}
	return vstring(v), nil
}

func vstring(v interface{}) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
