// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package miim

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/flynn/go-shlex"
	"github.com/joho/godotenv"
)

const (
	DefaultTool    = "mdio"
	DefaultBus     = "gpio-0"
	DefaultTimeout = 5 * time.Second
	// DefaultHeader begins the tool's bus listing, " DEV      PHY-ID  LINK"
	DefaultHeader = "DEV"

	EnvFile    = "/etc/default/goes-mdio"
	EnvTool    = "GOES_MDIO_TOOL"
	EnvBus     = "GOES_MDIO_BUS"
	EnvTimeout = "GOES_MDIO_TIMEOUT"
)

type Config struct {
	// Tool is the argv prefix of every command, e.g. {"sudo", "mdio"}.
	Tool []string
	// Bus names the mdio-netlink bus, e.g. "gpio-0".
	Bus     string
	Timeout time.Duration
	Header  string

	// Trace, if set, gets each command line before it's run.
	Trace io.Writer
}

func (c Config) withDefaults() Config {
	if len(c.Tool) == 0 {
		c.Tool = []string{DefaultTool}
	}
	if len(c.Bus) == 0 {
		c.Bus = DefaultBus
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if len(c.Header) == 0 {
		c.Header = DefaultHeader
	}
	return c
}

// ConfigFromEnv returns the default configuration as amended by
// $GOES_MDIO_TOOL, $GOES_MDIO_BUS, and $GOES_MDIO_TIMEOUT.
// The timeout is either a duration, like "500ms", or integer seconds.
func ConfigFromEnv() (Config, error) {
	c := Config{}.withDefaults()
	if s, found := os.LookupEnv(EnvTool); found && len(s) > 0 {
		tool, err := SplitTool(s)
		if err != nil {
			return c, err
		}
		c.Tool = tool
	}
	if s, found := os.LookupEnv(EnvBus); found && len(s) > 0 {
		c.Bus = s
	}
	if s, found := os.LookupEnv(EnvTimeout); found && len(s) > 0 {
		d, err := ParseTimeout(s)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return c, nil
}

// LoadEnv sets unset variables from the given file, if it exists.
func LoadEnv(fn string) error {
	err := godotenv.Load(fn)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SplitTool splits a shell quoted tool command, e.g. "sudo mdio".
func SplitTool(s string) ([]string, error) {
	tool, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s, err)
	}
	if len(tool) == 0 {
		return nil, fmt.Errorf("%q: empty tool", s)
	}
	return tool, nil
}

func ParseTimeout(s string) (time.Duration, error) {
	if sec, err := strconv.Atoi(s); err == nil {
		if sec <= 0 {
			return 0, fmt.Errorf("%q: %w", s, ErrRange)
		}
		return time.Duration(sec) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%q: %w", s, ErrRange)
	}
	return d, nil
}
