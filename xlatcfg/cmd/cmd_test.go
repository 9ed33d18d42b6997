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

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
	"gvisor.dev/xlat/pkg/xlat"
	"gvisor.dev/xlat/xlatcfg/profile"
)

// capture redirects Output for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := Output
	Output = &buf
	t.Cleanup(func() { Output = old })
	return &buf
}

func TestBuildImage(t *testing.T) {
	p := &profile.Profile{Revision: "8.2", TableNonCacheable: true}
	c, err := buildImage(p, buildRequest{
		base:   0x80000000,
		maxPA:  0xffffffff,
		maxVA:  0x3fffffff,
		regime: xlat.RegimeEL1EL0,
	})
	if err != nil {
		t.Fatalf("buildImage() failed: %v", err)
	}
	want := xlat.MMUConfig{MAIR: 0x4404ff, TTBCR: 0x80800002, TTBR0: 0x80000001}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("buildImage() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildImageRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		p    *profile.Profile
		req  buildRequest
		want string
	}{
		{"bad profile", &profile.Profile{Revision: "7"}, buildRequest{maxVA: 0xffffffff}, "large page addressing"},
		{"odd space", profile.Default(), buildRequest{maxVA: 0x2fffffff}, "power of two"},
		{"wide VA", profile.Default(), buildRequest{maxVA: 1<<40 - 1}, "exceeds 32 bits"},
		{"wide PA", profile.Default(), buildRequest{maxPA: 1 << 40, maxVA: 0xffffffff}, "exceeds 40 bits"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.regime = xlat.RegimeEL1EL0
			_, err := buildImage(tc.p, tc.req)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("buildImage() = %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestBuildCommand(t *testing.T) {
	out := capture(t)
	b := &Build{}
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	b.SetFlags(fs)
	if err := fs.Parse([]string{"-base=0x80000000", "-max-va=0x3fffffff", "-format=json"}); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if got := b.Execute(context.Background(), fs, profile.Default()); got != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, output %q", got, out.String())
	}

	var img jsonImage
	if err := json.Unmarshal(out.Bytes(), &img); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	want := jsonImage{
		MAIR:          "0x4404ff",
		TTBCR:         "0x80803502",
		TTBR0:         "0x80000000",
		T0SZ:          2,
		WalkCacheable: true,
	}
	if diff := cmp.Diff(want, img); diff != "" {
		t.Errorf("JSON image mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteImageText(t *testing.T) {
	var buf bytes.Buffer
	c := xlat.MMUConfig{MAIR: 0x4404ff, TTBCR: 0x80803500, TTBR0: 0x80000000}
	if err := writeImage(&buf, "text", c, 0); err != nil {
		t.Fatalf("writeImage() failed: %v", err)
	}
	for _, want := range []string{"mair\t0x00000000004404ff", "ttbcr\t0x80803500", "ttbr0\t0x0000000080000000"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output %q missing %q", buf.String(), want)
		}
	}
	if err := writeImage(&buf, "yaml", c, 0); err == nil {
		t.Errorf("writeImage() accepted an unknown format")
	}
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	decodeImage(&buf, xlat.MMUConfig{MAIR: 0x4404ff, TTBCR: 0x80800002, TTBR0: 0x80000001})
	out := buf.String()
	for _, want := range []string{
		"attr0 WriteBack    0xff ok",
		"attr1 Device       0x04 ok",
		"attr2 NonCacheable 0x44 ok",
		"T0SZ=2 SH0=NSH ORGN0=NC IRGN0=NC",
		"TTBR0 space: 0x40000000 bytes",
		"base=0x80000000 CnP=true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("decode output missing %q:\n%s", want, out)
		}
	}
}

func TestTraceInvalidation(t *testing.T) {
	got := traceInvalidation([]uintptr{0x80000fff}, xlat.RegimeEL1EL0)
	want := "dsb ishst\ntlbimvaais 0x80000000\nbpiallis\ndsb ish\nisb\n"
	if got != want {
		t.Errorf("traceInvalidation() = %q, want %q", got, want)
	}
}

func TestParseAddrs(t *testing.T) {
	got, err := parseAddrs([]string{"0x1000", "4096", "0b1", "0x8000_0000"})
	if err != nil {
		t.Fatalf("parseAddrs() failed: %v", err)
	}
	if diff := cmp.Diff([]uintptr{0x1000, 4096, 1, 0x80000000}, got); diff != "" {
		t.Errorf("parseAddrs() mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseAddrs([]string{"page"}); err == nil {
		t.Errorf("parseAddrs() accepted a non-number")
	}
}
