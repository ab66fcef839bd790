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

package ctjot

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/coffeemancy/ctjot-web-generator/dto"
	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/rando"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// ErrMysteryClone mystery seed 不允許 clone：
// 實際設定是 roll 時由權重決定的，settings 裡只有權重，clone 沒有意義。
var ErrMysteryClone = errs.NewWarn("mystery seeds cannot be cloned")

// Generator 是一個 seed 的完整生命週期：
// 表單/庫存設定 -> roll config -> patch ROM -> spoiler / 下載。
//
// 一個 Generator 只服務一個 seed，不可重用；併發安全由上層保證
// （HTTP handler 每請求各自建一個）。
type Generator struct {
	lab *Lab
	eng rando.Engine

	settings *rset.Settings
	config   *rando.Config

	rom  []byte // patch 後的 ROM（lazy）
	hash []byte // seed hash（lazy，或由庫存直接 set）
}

// ConfigureFromForm 把產 seed 表單轉成 settings 並 roll 出 config。
//
// seed 欄位留空時抽隨機 seed。race seed（不出 spoiler log）會在 roll 前
// 對 seed 附加 nonce，確保同 seed 的 race 與非 race ROM 不相同；
// roll 完後 settings 恢復原 seed，nonce 回傳給呼叫端留存。
func (g *Generator) ConfigureFromForm(ctx context.Context, req *dto.GenerateRequest) (string, error) {
	if req == nil {
		return "", errs.NewWarn("nil generate request")
	}
	s, err := req.ParseSettings()
	if err != nil {
		return "", err
	}
	if s.Seed == "" {
		seed, err := g.lab.RandomSeed()
		if err != nil {
			return "", err
		}
		s.Seed = seed
	}
	g.settings = s
	if req.Cosmetics != nil {
		g.ApplyCosmetics(req.Cosmetics)
	}
	return g.roll(ctx, !req.SpoilerLog)
}

// ConfigureFromSettings 用既有 settings 開新局（clone seed）。
//
// 會換一個與原值不同的隨機 seed 再 roll。mystery seed 直接拒絕
// （回 ErrMysteryClone）。
func (g *Generator) ConfigureFromSettings(ctx context.Context, s *rset.Settings, isRaceSeed bool) (string, error) {
	if s == nil {
		return "", errs.NewWarn("nil settings")
	}
	if s.IsMystery() {
		return "", ErrMysteryClone
	}

	g.settings = s
	old := s.Seed
	newSeed := old
	for newSeed == old {
		var err error
		newSeed, err = g.lab.RandomSeed()
		if err != nil {
			return "", err
		}
	}
	s.Seed = newSeed
	return g.roll(ctx, isRaceSeed)
}

// roll 執行引擎 roll。race seed 的 seed 混入 nonce 後 roll、完事復原。
func (g *Generator) roll(ctx context.Context, isRaceSeed bool) (string, error) {
	nonce := ""
	seed := g.settings.Seed
	if isRaceSeed {
		// 以當下時間戳的微秒數作為 nonce
		nonce = strconv.Itoa(time.Now().Nanosecond() / 1000)
		g.settings.Seed = seed + nonce
	}
	c, err := g.eng.Roll(ctx, g.settings)
	g.settings.Seed = seed
	if err != nil {
		return "", err
	}
	g.config = c
	return nonce, nil
}

// GenerateROM 用先前 roll 出的 settings/config patch 原版 ROM。
func (g *Generator) GenerateROM(ctx context.Context) ([]byte, error) {
	if g.settings == nil || g.config == nil {
		return nil, errs.NewWarn("generator is not configured")
	}
	if g.rom != nil {
		return g.rom, nil
	}
	base, err := g.lab.BaseRom()
	if err != nil {
		return nil, err
	}
	rom, hash, err := g.eng.Patch(ctx, base, g.settings, g.config)
	if err != nil {
		return nil, err
	}
	g.rom = rom
	g.hash = hash
	return rom, nil
}

// SeedHash 回傳 seed hash；尚未產 ROM 時會先 patch 一次。
func (g *Generator) SeedHash(ctx context.Context) ([]byte, error) {
	if g.hash != nil {
		return g.hash, nil
	}
	if _, err := g.GenerateROM(ctx); err != nil {
		return nil, err
	}
	return g.hash, nil
}

// SetSeedHash 設定已知的 seed hash（從庫存載入時用）。
// 已經 patch 過的 Generator 以 patch 結果為準，不覆寫。
func (g *Generator) SetSeedHash(hash []byte) {
	if g.rom == nil {
		g.hash = hash
	}
}

func (g *Generator) Settings() *rset.Settings {
	return g.settings
}

func (g *Generator) Config() *rando.Config {
	return g.config
}

// RomName 回傳這個 seed 的 ROM 檔名。
// mystery seed 不洩漏 flag string，檔名固定為 mystery。
func (g *Generator) RomName(shareID string) string {
	if g.settings.IsMystery() {
		return "ctjot_mystery_" + shareID + ".sfc"
	}
	return "ctjot_" + g.settings.FlagString() + "_" + shareID + ".sfc"
}

// ApplyCosmetics 把 ROM 下載表單的外觀設定套到 settings 上。
//
// 規則沿用 web 表單合約：
//   - 角色名經 CharacterName 驗證，不合法就回落預設名。
//   - battle_speed / menu_background / battle_msg_speed 為表單 1-based 值，
//     僅在非零時套用，轉內部值（-1）後 clamp 到 0..7。
//   - battle_gauge_style 僅在有提供時套用，clamp 到 0..2。
//   - 五個布林為 tri-state：未提供就沿用 seed 原設定。
func (g *Generator) ApplyCosmetics(form *dto.RomRequest) {
	if form == nil || g.settings == nil {
		return
	}
	s := g.settings

	s.CosmeticFlags = form.CosmeticFlags()

	for i, name := range form.CharNames() {
		s.CharSettings.Names[i] = CharacterName(name, rset.DefaultCharNames[i])
	}

	o := &s.CTOptions
	if form.BattleSpeed != nil && *form.BattleSpeed != 0 {
		o.BattleSpeed = Clamp(*form.BattleSpeed-1, 0, 7)
	}
	if form.MenuBackground != nil && *form.MenuBackground != 0 {
		o.MenuBackground = Clamp(*form.MenuBackground-1, 0, 7)
	}
	if form.BattleMsgSpeed != nil && *form.BattleMsgSpeed != 0 {
		o.BattleMsgSpeed = Clamp(*form.BattleMsgSpeed-1, 0, 7)
	}
	if form.BattleGaugeStyle != nil {
		o.BattleGaugeStyle = Clamp(*form.BattleGaugeStyle, 0, 2)
	}

	if form.StereoAudio != nil {
		o.StereoAudio = *form.StereoAudio
	}
	if form.SaveMenuCursor != nil {
		o.SaveMenuCursor = *form.SaveMenuCursor
	}
	if form.SaveBattleCursor != nil {
		o.SaveBattleCursor = *form.SaveBattleCursor
	}
	if form.SkillItemInfo != nil {
		o.SkillItemInfo = *form.SkillItemInfo
	}
	if form.ConsistentPaging != nil {
		o.ConsistentPaging = *form.ConsistentPaging
	}
}

// WebSpoilerLog 把 roll 結果重組成前端 spoiler 結構。
func (g *Generator) WebSpoilerLog() (dto.SpoilerLog, error) {
	if g.settings == nil || g.config == nil {
		return dto.SpoilerLog{}, errs.NewWarn("generator is not configured")
	}
	proof, err := g.eng.ProofString(g.settings, g.config)
	if err != nil {
		return dto.SpoilerLog{}, err
	}
	return dto.NewSpoilerLog(g.settings, g.config, proof)
}

// ShareDetails 分享頁的文字摘要。
// mystery seed 只顯示 "Mystery seed!"，不洩漏 roll 出的實際設定。
func (g *Generator) ShareDetails(w io.Writer) error {
	if g.settings == nil {
		return errs.NewWarn("generator is not configured")
	}
	if g.settings.IsMystery() {
		_, err := io.WriteString(w, "Mystery seed!\n")
		return err
	}
	if _, err := io.WriteString(w, "Seed: "+g.settings.Seed+"\n"); err != nil {
		return err
	}
	return g.eng.SettingsSpoilers(w, g.settings)
}

// CharacterName 驗證使用者取的角色名：至多五個英數字元，
// 不合法（含空字串）就回傳預設名。
//
// 英數只認 ASCII：遊戲字型表沒有 ASCII 以外的字元，
// "café" 這類名字收下來也只會在 ROM 裡變成亂碼。
func CharacterName(name, defaultName string) string {
	if name == "" || len(name) > 5 {
		return defaultName
	}
	for _, r := range name {
		if !isAlnum(r) {
			return defaultName
		}
	}
	return name
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Clamp 把 value 限制在 [minVal, maxVal] 內
func Clamp(value, minVal, maxVal int) int {
	return max(minVal, min(value, maxVal))
}
