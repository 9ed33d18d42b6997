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

// Package cli is the main entrypoint for xlatcfg.
package cli

import (
	"context"
	"flag"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/google/subcommands"
	"gvisor.dev/xlat/pkg/log"
	"gvisor.dev/xlat/xlatcfg/cmd"
	"gvisor.dev/xlat/xlatcfg/profile"
)

var (
	profilePath = flag.String("profile", "", "platform profile (TOML, or YAML for .yaml/.yml files); an ARMv8.0 target is assumed if unset.")
	debug       = flag.Bool("debug", false, "enable debug logging.")
	debugLog    = flag.String("debug-log", "", "additional location for logs. %COMMAND% is replaced with the subcommand name.")
	logFormat   = flag.String("log-format", "text", "log format: text or json.")
)

// Main is the main entrypoint.
func Main() {
	// Register all commands.
	forEachCmd(subcommands.Register)

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	subcommand := flag.CommandLine.Arg(0)
	if *debug {
		log.SetLevel(log.Debug)
	}

	emitters := log.MultiEmitter{newEmitter(*logFormat, subcommand, os.Stderr)}
	if *debugLog != "" {
		f, err := log.OpenFile(*debugLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, commandPattern(subcommand))
		if err != nil {
			cmd.Fatalf("error opening debug log %q: %v", *debugLog, err)
		}
		emitters = append(emitters, newEmitter(*logFormat, subcommand, f))
	}
	if len(emitters) == 1 {
		log.SetTarget(emitters[0])
	} else {
		log.SetTarget(&emitters)
	}

	log.Debugf("xlatcfg %s, %s, %s, args: %v", runtime.Version(), runtime.GOOS, runtime.GOARCH, os.Args)

	p := profile.Default()
	if *profilePath != "" {
		var err error
		if p, err = profile.Load(*profilePath); err != nil {
			cmd.Fatalf("%v", err)
		}
	}
	if log.IsLogging(log.Debug) {
		p.Log()
	}

	os.Exit(int(subcommands.Execute(context.Background(), p)))
}

// forEachCmd invokes the passed callback for each command supported by
// xlatcfg.
func forEachCmd(cb func(cmd subcommands.Command, group string)) {
	// Help and flags commands are generated automatically.
	cb(subcommands.HelpCommand(), "")
	cb(subcommands.FlagsCommand(), "")

	cb(new(cmd.Build), "")
	cb(new(cmd.Granule), "")

	const debugGroup = "debug"
	cb(new(cmd.Decode), debugGroup)
	cb(new(cmd.TLBI), debugGroup)
}

func newEmitter(format, subcommand string, logFile io.Writer) log.Emitter {
	switch format {
	case "text":
		return log.GoogleEmitter{Emitter: &log.Writer{Next: logFile}}
	case "json":
		return log.JSONEmitter{Writer: &log.Writer{Next: logFile}, Component: subcommand}
	}
	cmd.Fatalf("invalid log format %q, must be 'text' or 'json'", format)
	panic("unreachable")
}

// commandPattern substitutes the subcommand name into log file patterns.
type commandPattern string

// Build implements log.FileOpts.Build.
func (c commandPattern) Build(logPattern string) string {
	return strings.ReplaceAll(logPattern, "%COMMAND%", string(c))
}
