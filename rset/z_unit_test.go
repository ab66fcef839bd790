// Copyright 2025 the ctjot-web-generator authors
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

package rset

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGameFlagsJSONRoundTrip(t *testing.T) {
	f := GFFixGlitch | GFChronosanity | GFFastTabs
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got GameFlags
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != f {
		t.Fatalf("round trip mismatch: got %v want %v", got.Names(), f.Names())
	}
}

func TestGameFlagsRejectsUnknownName(t *testing.T) {
	var f GameFlags
	if err := json.Unmarshal([]byte(`["GameFlags.NOT_A_FLAG"]`), &f); err == nil {
		t.Fatalf("expected error for unknown flag name")
	}
}

func TestGameFlagNamesOrderStable(t *testing.T) {
	f := GFFastTabs | GFFixGlitch
	want := []string{"GameFlags.FIX_GLITCH", "GameFlags.FAST_TABS"}
	if diff := cmp.Diff(want, f.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumsMapInversion(t *testing.T) {
	inv := InvEnumsMap()

	// 只有 dict 型項目會被反轉
	if _, ok := inv["game_mode"]; ok {
		t.Fatalf("list-valued entry should not be inverted")
	}

	flags, ok := inv["gameflags"]
	if !ok {
		t.Fatalf("gameflags missing from inverted map")
	}
	if got := flags["GameFlags.FIX_GLITCH"]; got != "disable_glitches" {
		t.Fatalf("unexpected inverted value: %q", got)
	}

	// 反轉後再反轉應回到原映射
	orig := EnumsMap()["gameflags"].(map[string]string)
	if len(orig) != len(flags) {
		t.Fatalf("inversion lost entries: %d != %d", len(orig), len(flags))
	}
	for k, v := range orig {
		if flags[v] != k {
			t.Fatalf("inversion broken for %s", k)
		}
	}
}

func TestSettingsInitFillsDefaults(t *testing.T) {
	s := &Settings{}
	if err := s.init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.GameMode != ModeStandard {
		t.Fatalf("unexpected mode: %s", s.GameMode)
	}
	if s.CharSettings.Names[0] != "Crono" || s.CharSettings.Names[7] != "Epoch" {
		t.Fatalf("default names not filled: %v", s.CharSettings.Names)
	}
}

func TestSettingsRejectsEasyEnemies(t *testing.T) {
	s := Default()
	s.EnemyDifficulty = DifficultyEasy
	if err := s.valid(); err == nil {
		t.Fatalf("expected error for easy enemy difficulty")
	}
}

func TestWebDefaultsForceQoLFlags(t *testing.T) {
	s := WebDefaults()
	if !s.GameFlags.Has(GFFixGlitch) || !s.GameFlags.Has(GFFastTabs) {
		t.Fatalf("web defaults must enable fix_glitch and fast_tabs: %v", s.GameFlags.Names())
	}
}

func TestPresetJSONStrict(t *testing.T) {
	data := []byte(`{"metadata":{"name":"Race"},"settings":{"seed":"","game_mode":"GameMode.STANDARD"},"bogus":1}`)
	if _, err := GetPresetByJSON(data); err == nil {
		t.Fatalf("expected error for unknown preset field")
	}
}

func TestPresetYAMLDecode(t *testing.T) {
	data := []byte(`
metadata:
  name: New Player
  desc: easy settings
settings:
  seed: ""
  game_mode: GameMode.STANDARD
  item_difficulty: Difficulty.EASY
  gameflags: [GameFlags.FIX_GLITCH, GameFlags.FAST_TABS, GameFlags.UNLOCKED_MAGIC]
`)
	p, err := GetPresetByYAML(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Metadata.Name != "New Player" {
		t.Fatalf("unexpected metadata: %+v", p.Metadata)
	}
	if !p.Settings.GameFlags.Has(GFUnlockedMagic) {
		t.Fatalf("flags not decoded: %v", p.Settings.GameFlags.Names())
	}
	if p.Settings.TechOrder != TechOrderFullRandom {
		t.Fatalf("defaults not applied: %s", p.Settings.TechOrder)
	}
}

func TestSettingsCloneIsDeep(t *testing.T) {
	s := Default()
	s.BucketSettings.Hints = []string{"quest_gated"}
	s.Mystery = &MysterySettings{FlagProb: map[string]float64{"GameFlags.TAB_TREASURES": 0.5}}

	c := s.Clone()
	c.BucketSettings.Hints[0] = "boss_nogo"
	c.Mystery.FlagProb["GameFlags.TAB_TREASURES"] = 1.0

	if s.BucketSettings.Hints[0] != "quest_gated" {
		t.Fatalf("clone shares hints slice")
	}
	if s.Mystery.FlagProb["GameFlags.TAB_TREASURES"] != 0.5 {
		t.Fatalf("clone shares mystery map")
	}
}

func TestFlagString(t *testing.T) {
	s := Default()
	s.GameFlags = GFFixGlitch | GFZealEnd
	if got := s.FlagString(); got != "st_gz" {
		t.Fatalf("unexpected flag string: %q", got)
	}
	s.GameMode = ModeLostWorlds
	s.GameFlags = 0
	if got := s.FlagString(); got != "lw" {
		t.Fatalf("unexpected flag string: %q", got)
	}
}

func TestMysteryResolveExtremes(t *testing.T) {
	m := &MysterySettings{
		GameModeFreqs: map[GameMode]int{ModeIceAge: 1},
		FlagProb: map[string]float64{
			"GameFlags.TAB_TREASURES": 1.0,
			"GameFlags.BOSS_RANDO":    0.0,
		},
	}
	base := Default()
	base.GameFlags |= GFBossRando // 機率 0 必須把它關掉

	r := rand.New(rand.NewPCG(1, 2))
	got := m.Resolve(base, r)

	if got.GameMode != ModeIceAge {
		t.Fatalf("weighted pick failed: %s", got.GameMode)
	}
	if !got.GameFlags.Has(GFTabTreasures) {
		t.Fatalf("probability 1.0 flag not set")
	}
	if got.GameFlags.Has(GFBossRando) {
		t.Fatalf("probability 0.0 flag not cleared")
	}
	if !got.GameFlags.Has(GFMystery) {
		t.Fatalf("resolved settings must keep mystery flag")
	}
	// base 不可被動到
	if base.GameMode != ModeStandard {
		t.Fatalf("resolve mutated base settings")
	}
}

func TestMysteryResolveDeterministic(t *testing.T) {
	m := &MysterySettings{
		GameModeFreqs: map[GameMode]int{ModeStandard: 3, ModeLostWorlds: 1},
		FlagProb: map[string]float64{
			"GameFlags.CHRONOSANITY":  0.5,
			"GameFlags.TAB_TREASURES": 0.5,
		},
	}
	base := Default()

	a := m.Resolve(base, rand.New(rand.NewPCG(7, 7)))
	b := m.Resolve(base, rand.New(rand.NewPCG(7, 7)))
	if a.GameMode != b.GameMode || a.GameFlags != b.GameFlags {
		t.Fatalf("same rng seed should resolve identically")
	}
}

func TestMysteryValidRejectsBadProb(t *testing.T) {
	m := &MysterySettings{FlagProb: map[string]float64{"GameFlags.FIX_GLITCH": 1.5}}
	if err := m.valid(); err == nil {
		t.Fatalf("expected error for probability > 1")
	}
	m = &MysterySettings{FlagProb: map[string]float64{"nope": 0.5}}
	if err := m.valid(); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}
