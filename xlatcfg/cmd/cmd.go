// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd holds implementations of the xlatcfg commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"gvisor.dev/xlat/pkg/log"
	"gvisor.dev/xlat/xlatcfg/profile"
)

// Output is where commands write their results.
var Output io.Writer = os.Stdout

// Fatalf logs the message and exits with status 128.
func Fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "xlatcfg: "+format+"\n", args...)
	log.Warningf(format, args...)
	os.Exit(128)
}

// Errorf reports a command error and returns the failure status.
func Errorf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "xlatcfg: "+format+"\n", args...)
	log.Warningf(format, args...)
	return subcommands.ExitFailure
}

// profileArg extracts the profile passed to subcommands.Execute.
func profileArg(args []any) *profile.Profile {
	if len(args) > 0 {
		if p, ok := args[0].(*profile.Profile); ok {
			return p
		}
	}
	return profile.Default()
}

// hexFlag is a uint64 flag accepting any base prefix, printed in hex.
type hexFlag uint64

// String implements flag.Value.
func (h *hexFlag) String() string {
	return fmt.Sprintf("%#x", uint64(*h))
}

// Get implements flag.Getter.
func (h *hexFlag) Get() any {
	return uint64(*h)
}

// Set implements flag.Value.
func (h *hexFlag) Set(s string) error {
	v, err := parseUint(s)
	if err != nil {
		return err
	}
	*h = hexFlag(v)
	return nil
}

// parseUint parses a number with an optional 0x/0o/0b prefix and "_"
// separators.
func parseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}

// parseAddrs parses every argument as an address.
func parseAddrs(args []string) ([]uintptr, error) {
	addrs := make([]uintptr, 0, len(args))
	for _, a := range args {
		v, err := parseUint(a)
		if err != nil {
			return nil, err
		}
		if uint64(uintptr(v)) != v {
			return nil, fmt.Errorf("address %#x does not fit in a pointer", v)
		}
		addrs = append(addrs, uintptr(v))
	}
	return addrs, nil
}
