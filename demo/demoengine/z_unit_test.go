package demoengine

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/coffeemancy/ctjot-web-generator/rando"
	"github.com/coffeemancy/ctjot-web-generator/rset"
	"github.com/google/go-cmp/cmp"
)

func testSettings() *rset.Settings {
	s := rset.WebDefaults()
	s.Seed = "AYLACRONO"
	return s
}

func TestRollDeterministic(t *testing.T) {
	e := New()
	ctx := context.Background()

	c1, err := e.Roll(ctx, testSettings())
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	c2, err := e.Roll(ctx, testSettings())
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	if diff := cmp.Diff(c1, c2); diff != "" {
		t.Fatalf("same seed rolled different configs (-c1 +c2):\n%s", diff)
	}

	s3 := testSettings()
	s3.Seed = "MAGUSFROG"
	c3, err := e.Roll(ctx, s3)
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	if cmp.Diff(c1.KeyItems, c3.KeyItems) == "" {
		t.Error("different seeds rolled identical key item placement")
	}
}

func TestRollFlagsChangeOutcome(t *testing.T) {
	e := New()
	ctx := context.Background()

	s := testSettings()
	s.GameFlags |= rset.GFBossRando
	c1, err := e.Roll(ctx, s)
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	c2, err := e.Roll(ctx, testSettings())
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	if cmp.Diff(c1.BossAssign, c2.BossAssign) == "" {
		t.Error("boss rando flag did not change boss assignment")
	}
}

func TestRollRequiresSeed(t *testing.T) {
	e := New()
	s := rset.Default()
	if _, err := e.Roll(context.Background(), s); err == nil {
		t.Fatal("expected error for empty seed")
	}
}

func TestRollConfigShape(t *testing.T) {
	e := New()
	c, err := e.Roll(context.Background(), testSettings())
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}

	if len(c.RecruitSpots) == 0 || len(c.BossSpots) == 0 || len(c.KeyItems) == 0 {
		t.Fatalf("config incomplete: %+v", c)
	}
	for _, spot := range c.RecruitSpots {
		if _, ok := c.CharAssign[spot]; !ok {
			t.Errorf("recruit spot %q has no assignment", spot)
		}
	}
	for _, spot := range c.BossSpots {
		if _, ok := c.BossAssign[spot]; !ok {
			t.Errorf("boss spot %q has no assignment", spot)
		}
	}
	// TwinBoss 實體必須可解析出顯示名
	parts := c.BossData["TwinBoss"].Parts
	if len(parts) != 2 || parts[0] != parts[1] {
		t.Errorf("twin parts = %v", parts)
	}
	if _, ok := c.EnemyNames[parts[0]]; !ok {
		t.Errorf("twin enemy %d has no name", parts[0])
	}
}

func TestRollMystery(t *testing.T) {
	e := New()
	s := testSettings()
	s.GameFlags |= rset.GFMystery
	s.Mystery = &rset.MysterySettings{
		GameModeFreqs: map[rset.GameMode]int{rset.ModeIceAge: 1},
		FlagProb:      map[string]float64{"GameFlags.BOSS_RANDO": 1},
	}

	c1, err := e.Roll(context.Background(), s)
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	c2, err := e.Roll(context.Background(), s)
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	if diff := cmp.Diff(c1, c2); diff != "" {
		t.Fatalf("mystery roll not reproducible (-c1 +c2):\n%s", diff)
	}
	// base settings 不可被 roll 動到
	if s.GameMode != rset.ModeStandard {
		t.Errorf("base settings mutated: mode=%s", s.GameMode)
	}
}

func TestPatch(t *testing.T) {
	e := New()
	ctx := context.Background()
	s := testSettings()
	c, err := e.Roll(ctx, s)
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}

	rom := make([]byte, 0x80000)
	out, hash, err := e.Patch(ctx, rom, s, c)
	if err != nil {
		t.Fatalf("patch err: %v", err)
	}
	if len(hash) != 8 {
		t.Errorf("hash len = %d", len(hash))
	}
	if !bytes.Contains(out[romStampOffset:romStampOffset+21], []byte("CTJOT")) {
		t.Error("rom not stamped")
	}
	// 原 ROM 不可被改動
	if !bytes.Equal(rom, make([]byte, 0x80000)) {
		t.Error("input rom mutated")
	}

	// 同輸入同 hash
	_, hash2, err := e.Patch(ctx, rom, s, c)
	if err != nil {
		t.Fatalf("patch err: %v", err)
	}
	if !bytes.Equal(hash, hash2) {
		t.Error("hash not deterministic")
	}

	if _, _, err := e.Patch(ctx, make([]byte, 16), s, c); err == nil {
		t.Error("expected error for undersized rom")
	}

	// 不同 config 必須產出不同 ROM 與 hash（seed/flags 相同也一樣）
	c2 := *c
	c2.KeyItems = append([]rando.KeyItemPlacement(nil), c.KeyItems...)
	c2.KeyItems[0].KeyItem, c2.KeyItems[1].KeyItem = c2.KeyItems[1].KeyItem, c2.KeyItems[0].KeyItem
	out3, hash3, err := e.Patch(ctx, rom, s, &c2)
	if err != nil {
		t.Fatalf("patch err: %v", err)
	}
	if bytes.Equal(out, out3) {
		t.Error("rom bytes ignore config")
	}
	if bytes.Equal(hash, hash3) {
		t.Error("hash ignores config")
	}
}

func TestProofString(t *testing.T) {
	e := New()
	s := testSettings()
	c, err := e.Roll(context.Background(), s)
	if err != nil {
		t.Fatalf("roll err: %v", err)
	}
	proof, err := e.ProofString(s, c)
	if err != nil {
		t.Fatalf("proof err: %v", err)
	}
	if !strings.HasSuffix(proof, "GO: Defeat Lavos\n") {
		t.Errorf("proof = %q", proof)
	}
	if !strings.HasPrefix(proof, "1: ") {
		t.Errorf("proof should start at sphere 1: %q", proof)
	}
}

func TestSettingsSpoilers(t *testing.T) {
	e := New()
	var sb strings.Builder
	if err := e.SettingsSpoilers(&sb, testSettings()); err != nil {
		t.Fatalf("spoilers err: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "Game Mode: GameMode.STANDARD") {
		t.Errorf("missing mode line: %q", out)
	}
	if !strings.Contains(out, "GameFlags.FIX_GLITCH") {
		t.Errorf("missing flag line: %q", out)
	}
}
