package ctjot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/coffeemancy/ctjot-web-generator/demo/demo_presets"
	"github.com/coffeemancy/ctjot-web-generator/demo/demoengine"
	"github.com/coffeemancy/ctjot-web-generator/dto"
	"github.com/coffeemancy/ctjot-web-generator/rando"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// testConfigStub 給不需要真 roll 的測試用的最小 config
var testConfigStub = rando.Config{
	RecruitSpots: []string{"Starter"},
	CharAssign:   map[string]rando.CharAssignment{"Starter": {HeldChar: "Crono", Reassign: "Crono"}},
	BossSpots:    []string{"Zenan Bridge"},
	BossAssign:   map[string]rando.BossID{"Zenan Bridge": "Nizbel"},
}

func testRomFS() fs.FS {
	return fstest.MapFS{
		BaseRomName: {Data: make([]byte, 0x80000)},
	}
}

func newTestLab(t *testing.T) *Lab {
	t.Helper()
	lab, err := NewAuto(demoengine.New(), testRomFS(), Presets(demo_presets.FS))
	if err != nil {
		t.Fatalf("NewAuto() err: %v", err)
	}
	return lab
}

func TestNewAuto(t *testing.T) {
	lab := newTestLab(t)
	if !lab.Presets().IsFrozen() {
		t.Error("presets should be frozen")
	}
	if _, ok := lab.Presets().ByID("new_player"); !ok {
		t.Errorf("preset ids = %v", lab.Presets().IDs())
	}

	if _, err := NewAuto(demoengine.New(), fstest.MapFS{}, Presets(demo_presets.FS)); err == nil {
		t.Error("expected error when base rom missing")
	}
	if _, err := New(nil, testRomFS(), Presets(demo_presets.FS)); err == nil {
		t.Error("expected error for nil engine")
	}
}

func TestRandomSeed(t *testing.T) {
	lab := newTestLab(t)
	seed, err := lab.RandomSeed()
	if err != nil {
		t.Fatalf("RandomSeed() err: %v", err)
	}
	if seed == "" {
		t.Fatal("empty seed")
	}
	// 兩個名字串接，長度必大於單一名字
	names := lab.Engine().Names()
	shortest := len(names[0])
	for _, n := range names {
		if len(n) < shortest {
			shortest = len(n)
		}
	}
	if len(seed) < 2*shortest {
		t.Errorf("seed %q too short for two names", seed)
	}
}

func generateReq(seed string, spoilerLog bool) *dto.GenerateRequest {
	p := rset.Preset{
		Metadata: rset.PresetMetadata{Name: "t"},
		Settings: *rset.WebDefaults(),
	}
	raw, _ := json.Marshal(p)
	return &dto.GenerateRequest{Preset: raw, Seed: seed, SpoilerLog: spoilerLog}
}

func TestConfigureFromForm(t *testing.T) {
	lab := newTestLab(t)
	ctx := context.Background()

	g := lab.NewGenerator()
	nonce, err := g.ConfigureFromForm(ctx, generateReq("AYLAROBO", true))
	if err != nil {
		t.Fatalf("configure err: %v", err)
	}
	if nonce != "" {
		t.Errorf("non-race seed got nonce %q", nonce)
	}
	if g.Settings().Seed != "AYLAROBO" || g.Config() == nil {
		t.Fatalf("settings=%+v config=%v", g.Settings(), g.Config())
	}
}

func TestConfigureFromFormRaceNonce(t *testing.T) {
	lab := newTestLab(t)
	ctx := context.Background()

	g := lab.NewGenerator()
	nonce, err := g.ConfigureFromForm(ctx, generateReq("AYLAROBO", false))
	if err != nil {
		t.Fatalf("configure err: %v", err)
	}
	if nonce == "" {
		t.Error("race seed must return a nonce")
	}
	// roll 完 seed 要復原，但 roll 本身要吃加了 nonce 的 seed
	if g.Settings().Seed != "AYLAROBO" {
		t.Errorf("seed not restored: %q", g.Settings().Seed)
	}
}

func TestConfigureFromFormRandomSeed(t *testing.T) {
	lab := newTestLab(t)
	g := lab.NewGenerator()
	if _, err := g.ConfigureFromForm(context.Background(), generateReq("", true)); err != nil {
		t.Fatalf("configure err: %v", err)
	}
	if g.Settings().Seed == "" {
		t.Error("empty form seed should be replaced with a random one")
	}
}

func TestConfigureFromSettingsClone(t *testing.T) {
	lab := newTestLab(t)
	s := rset.WebDefaults()
	s.Seed = "MARLEFROG"

	g := lab.NewGenerator()
	if _, err := g.ConfigureFromSettings(context.Background(), s, false); err != nil {
		t.Fatalf("configure err: %v", err)
	}
	if s.Seed == "MARLEFROG" {
		t.Error("clone must reroll to a different seed")
	}
}

func TestConfigureFromSettingsRejectsMystery(t *testing.T) {
	lab := newTestLab(t)
	s := rset.WebDefaults()
	s.Seed = "MARLEFROG"
	s.GameFlags |= rset.GFMystery

	g := lab.NewGenerator()
	_, err := g.ConfigureFromSettings(context.Background(), s, false)
	if !errors.Is(err, ErrMysteryClone) {
		t.Fatalf("err = %v, want ErrMysteryClone", err)
	}
}

func TestGenerateROMAndSeedHash(t *testing.T) {
	lab := newTestLab(t)
	ctx := context.Background()

	g := lab.NewGenerator()
	if _, err := g.ConfigureFromForm(ctx, generateReq("AYLAROBO", true)); err != nil {
		t.Fatalf("configure err: %v", err)
	}

	// hash 是 lazy 的：會先 patch 一次
	hash, err := g.SeedHash(ctx)
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	if len(hash) != 8 {
		t.Errorf("hash len = %d", len(hash))
	}

	rom, err := g.GenerateROM(ctx)
	if err != nil {
		t.Fatalf("rom err: %v", err)
	}
	if len(rom) != 0x80000 {
		t.Errorf("rom len = %d", len(rom))
	}
}

func TestRaceRomDiffersFromOpenRom(t *testing.T) {
	lab := newTestLab(t)
	ctx := context.Background()

	open := lab.NewGenerator()
	if _, err := open.ConfigureFromForm(ctx, generateReq("AYLA", true)); err != nil {
		t.Fatalf("open configure err: %v", err)
	}
	race := lab.NewGenerator()
	nonce, err := race.ConfigureFromForm(ctx, generateReq("AYLA", false))
	if err != nil {
		t.Fatalf("race configure err: %v", err)
	}
	if nonce == "" {
		t.Fatal("race seed must return a nonce")
	}

	// seed 欄位一樣，但 race roll 吃了 nonce：放置結果、ROM、hash 都必須不同
	openRom, err := open.GenerateROM(ctx)
	if err != nil {
		t.Fatalf("open rom err: %v", err)
	}
	raceRom, err := race.GenerateROM(ctx)
	if err != nil {
		t.Fatalf("race rom err: %v", err)
	}
	if bytes.Equal(openRom, raceRom) {
		t.Error("race ROM identical to open ROM for the same seed value")
	}

	openHash, err := open.SeedHash(ctx)
	if err != nil {
		t.Fatalf("open hash err: %v", err)
	}
	raceHash, err := race.SeedHash(ctx)
	if err != nil {
		t.Fatalf("race hash err: %v", err)
	}
	if bytes.Equal(openHash, raceHash) {
		t.Errorf("race hash %x equals open hash %x", raceHash, openHash)
	}
}

func TestSetSeedHash(t *testing.T) {
	lab := newTestLab(t)
	g, err := lab.NewGeneratorFromState(rset.WebDefaults(), &testConfigStub)
	if err != nil {
		t.Fatalf("from state err: %v", err)
	}
	g.SetSeedHash([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	hash, err := g.SeedHash(context.Background())
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	if hash[0] != 1 {
		t.Errorf("hash = %v", hash)
	}
}

func TestRomName(t *testing.T) {
	lab := newTestLab(t)
	s := rset.WebDefaults()
	s.Seed = "AYLAROBO"
	g, err := lab.NewGeneratorFromState(s, &testConfigStub)
	if err != nil {
		t.Fatalf("from state err: %v", err)
	}

	name := g.RomName("a1b2c3")
	if !strings.HasPrefix(name, "ctjot_st_") || !strings.HasSuffix(name, "_a1b2c3.sfc") {
		t.Errorf("rom name = %q", name)
	}

	s.GameFlags |= rset.GFMystery
	if got := g.RomName("a1b2c3"); got != "ctjot_mystery_a1b2c3.sfc" {
		t.Errorf("mystery rom name = %q", got)
	}
}

func TestApplyCosmetics(t *testing.T) {
	lab := newTestLab(t)
	s := rset.WebDefaults()
	g, err := lab.NewGeneratorFromState(s, &testConfigStub)
	if err != nil {
		t.Fatalf("from state err: %v", err)
	}

	speed := 10
	gauge := 5
	stereo := false
	g.ApplyCosmetics(&dto.RomRequest{
		QuietMode:        true,
		CronoName:        "Cro",
		MarleName:        "WayTooLong",
		LuccaName:        "Lu cc",
		BattleSpeed:      &speed,
		BattleGaugeStyle: &gauge,
		StereoAudio:      &stereo,
	})

	if !s.CosmeticFlags.Has(rset.CosQuietMode) {
		t.Error("quiet mode not applied")
	}
	if s.CharSettings.Names[0] != "Cro" {
		t.Errorf("crono name = %q", s.CharSettings.Names[0])
	}
	// 超長/含空白的名字回落預設
	if s.CharSettings.Names[1] != "Marle" || s.CharSettings.Names[2] != "Lucca" {
		t.Errorf("names = %v", s.CharSettings.Names)
	}
	// 表單值 10 → 內部值 9 → clamp 到 7
	if s.CTOptions.BattleSpeed != 7 {
		t.Errorf("battle speed = %d", s.CTOptions.BattleSpeed)
	}
	if s.CTOptions.BattleGaugeStyle != 2 {
		t.Errorf("gauge style = %d", s.CTOptions.BattleGaugeStyle)
	}
	if s.CTOptions.StereoAudio {
		t.Error("stereo audio should be off")
	}
}

func TestShareDetails(t *testing.T) {
	lab := newTestLab(t)
	ctx := context.Background()

	g := lab.NewGenerator()
	if _, err := g.ConfigureFromForm(ctx, generateReq("AYLAROBO", true)); err != nil {
		t.Fatalf("configure err: %v", err)
	}
	var sb strings.Builder
	if err := g.ShareDetails(&sb); err != nil {
		t.Fatalf("details err: %v", err)
	}
	if !strings.HasPrefix(sb.String(), "Seed: AYLAROBO\n") {
		t.Errorf("details = %q", sb.String())
	}

	g.Settings().GameFlags |= rset.GFMystery
	sb.Reset()
	if err := g.ShareDetails(&sb); err != nil {
		t.Fatalf("details err: %v", err)
	}
	if sb.String() != "Mystery seed!\n" {
		t.Errorf("mystery details = %q", sb.String())
	}
}

func TestWebSpoilerLog(t *testing.T) {
	lab := newTestLab(t)
	ctx := context.Background()

	g := lab.NewGenerator()
	if _, err := g.ConfigureFromForm(ctx, generateReq("AYLAROBO", true)); err != nil {
		t.Fatalf("configure err: %v", err)
	}
	log, err := g.WebSpoilerLog()
	if err != nil {
		t.Fatalf("spoiler err: %v", err)
	}
	if len(log.Characters) == 0 || len(log.Bosses) == 0 || len(log.Spheres) == 0 {
		t.Errorf("spoiler incomplete: %+v", log)
	}
	last := log.Spheres[len(log.Spheres)-1]
	if last.Sphere != "GO" {
		t.Errorf("last sphere = %+v", last)
	}
}

func TestCharacterName(t *testing.T) {
	cases := []struct{ name, def, want string }{
		{"Cro", "Crono", "Cro"},
		{"", "Crono", "Crono"},
		{"Toolong", "Crono", "Crono"},
		{"Cr on", "Crono", "Crono"},
		{"Cr-no", "Crono", "Crono"},
		{"R66Y", "Robo", "R66Y"},
		// 非 ASCII 字母一律退回預設名（遊戲字型表沒有這些字元）
		{"café", "Crono", "Crono"},
		{"Ayla寿", "Ayla", "Ayla"},
	}
	for _, c := range cases {
		if got := CharacterName(c.name, c.def); got != c.want {
			t.Errorf("CharacterName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(9, 0, 7) != 7 || Clamp(-1, 0, 7) != 0 || Clamp(3, 0, 7) != 3 {
		t.Error("clamp bounds broken")
	}
}
