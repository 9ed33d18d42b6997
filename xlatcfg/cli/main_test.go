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

package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"gvisor.dev/xlat/pkg/log"
)

func TestCommandPattern(t *testing.T) {
	got := commandPattern("build").Build("/tmp/xlatcfg/%COMMAND%.log")
	if want := "/tmp/xlatcfg/build.log"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestNewEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := newEmitter("json", "build", &buf)
	e.Emit(0, log.Info, time.Unix(0, 0).UTC(), "T0SZ=%d", 2)
	if !strings.Contains(buf.String(), `"level":"info"`) || !strings.Contains(buf.String(), "T0SZ=2") || !strings.Contains(buf.String(), `"component":"build"`) {
		t.Errorf("unexpected JSON log line %q", buf.String())
	}
}

func TestForEachCmd(t *testing.T) {
	names := map[string]string{}
	forEachCmd(func(c subcommands.Command, group string) {
		names[c.Name()] = group
	})
	for name, group := range map[string]string{
		"build":   "",
		"granule": "",
		"decode":  "debug",
		"tlbi":    "debug",
	} {
		if got, ok := names[name]; !ok || got != group {
			t.Errorf("command %q registered in group %q (present %t), want %q", name, got, ok, group)
		}
	}
}
