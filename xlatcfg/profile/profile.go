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

// Package profile describes the target platform of a register image.
//
// A profile is a small TOML file:
//
//	revision = "8.2"
//	large_page_addressing = true
//	common_tables = "default"
//	table_non_cacheable = false
//	disable_dcache = false
//
// Files ending in .yaml or .yml are read as YAML with the same keys.
package profile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v2"
	"gvisor.dev/xlat/pkg/log"
	"gvisor.dev/xlat/pkg/xlat"
)

// Profile is the platform description consumed by xlatcfg.
type Profile struct {
	// Revision is the ARM architecture revision, e.g. "7", "8.0" or
	// "armv8.2".
	Revision string `toml:"revision" yaml:"revision"`

	// LargePageAddressing reports LPAE support on ARMv7 targets.
	LargePageAddressing bool `toml:"large_page_addressing" yaml:"large_page_addressing"`

	// CommonTables is the CnP policy: "default", "always" or "never".
	CommonTables string `toml:"common_tables" yaml:"common_tables"`

	// TableNonCacheable makes table walks non-cacheable.
	TableNonCacheable bool `toml:"table_non_cacheable" yaml:"table_non_cacheable"`

	// DisableDCache is passed through to the enabling routine.
	DisableDCache bool `toml:"disable_dcache" yaml:"disable_dcache"`
}

// Default returns the profile used when no file is given: an ARMv8.0 target
// with the source default CnP policy.
func Default() *Profile {
	return &Profile{
		Revision:     "8.0",
		CommonTables: xlat.CommonTablesDefault.String(),
	}
}

// Load reads a profile from path. Keys missing from the file keep their
// Default values.
func Load(path string) (*Profile, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening profile: %w", err)
		}
		defer f.Close()
		p, err := decodeYAML(f)
		if err != nil {
			return nil, fmt.Errorf("decoding profile %q: %w", path, err)
		}
		return p, nil
	}
	p := Default()
	md, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("profile %q: %w", path, err)
	}
	return p, nil
}

// Decode parses a profile from TOML text.
func Decode(data string) (*Profile, error) {
	p := Default()
	md, err := toml.Decode(data, p)
	if err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeYAML parses a profile from YAML text. Unknown keys are rejected.
func DecodeYAML(data string) (*Profile, error) {
	p, err := decodeYAML(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

func decodeYAML(r io.Reader) (*Profile, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	// An empty document leaves the defaults in place.
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return p, nil
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
	}
	return nil
}

// BuilderOpts validates the profile and converts it to xlat.BuilderOpts.
// Combinations xlat.NewBuilder would reject are reported as errors.
func (p *Profile) BuilderOpts() (xlat.BuilderOpts, error) {
	rev, err := ParseRevision(p.Revision)
	if err != nil {
		return xlat.BuilderOpts{}, err
	}
	ct, err := ParseCommonTables(p.CommonTables)
	if err != nil {
		return xlat.BuilderOpts{}, err
	}
	if rev.Major == 7 && !p.LargePageAddressing {
		return xlat.BuilderOpts{}, fmt.Errorf("%v target does not support large page addressing", rev)
	}
	if ct == xlat.CommonTablesAlways && !rev.AtLeast(8, 2) {
		return xlat.BuilderOpts{}, fmt.Errorf("common_tables = %q requires ARMv8.2, target is %v", p.CommonTables, rev)
	}
	return xlat.BuilderOpts{
		Revision:            rev,
		LargePageAddressing: p.LargePageAddressing || rev.Major > 7,
		CommonTables:        ct,
	}, nil
}

// Flags returns the xlat.Flags selected by the profile.
func (p *Profile) Flags() xlat.Flags {
	var f xlat.Flags
	if p.TableNonCacheable {
		f |= xlat.TableNonCacheable
	}
	if p.DisableDCache {
		f |= xlat.DisableDCache
	}
	return f
}

// Log logs the profile.
func (p *Profile) Log() {
	log.Infof("Profile: revision=%q large_page_addressing=%t common_tables=%q table_non_cacheable=%t disable_dcache=%t",
		p.Revision, p.LargePageAddressing, p.CommonTables, p.TableNonCacheable, p.DisableDCache)
}

// ParseRevision parses "7", "8.2", "v8.2" or "ARMv8.2".
func ParseRevision(s string) (xlat.Revision, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "arm")
	v = strings.TrimPrefix(v, "v")
	majStr, minStr, hasMinor := strings.Cut(v, ".")
	major, err := strconv.ParseUint(majStr, 10, 8)
	if err != nil {
		return xlat.Revision{}, fmt.Errorf("invalid revision %q: %w", s, err)
	}
	var minor uint64
	if hasMinor {
		if minor, err = strconv.ParseUint(minStr, 10, 8); err != nil {
			return xlat.Revision{}, fmt.Errorf("invalid revision %q: %w", s, err)
		}
	}
	if major < 7 {
		return xlat.Revision{}, fmt.Errorf("invalid revision %q: long-descriptor tables need ARMv7 or later", s)
	}
	return xlat.Revision{Major: uint8(major), Minor: uint8(minor)}, nil
}

// ParseCommonTables parses a CnP policy name. The empty string is the
// default policy.
func ParseCommonTables(s string) (xlat.CommonTables, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return xlat.CommonTablesDefault, nil
	case "always":
		return xlat.CommonTablesAlways, nil
	case "never":
		return xlat.CommonTablesNever, nil
	default:
		return 0, fmt.Errorf("invalid common_tables %q, must be 'default', 'always' or 'never'", s)
	}
}

// ParseRegime parses a regime name as printed by xlat.Regime.String.
func ParseRegime(s string) (xlat.Regime, error) {
	switch strings.ToLower(s) {
	case "el1&0", "el1", "pl1":
		return xlat.RegimeEL1EL0, nil
	case "el2", "hyp":
		return xlat.RegimeEL2, nil
	case "el3":
		return xlat.RegimeEL3, nil
	default:
		return 0, fmt.Errorf("invalid regime %q", s)
	}
}
