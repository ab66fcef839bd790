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

// Package rset 定義 randomizer 的設定模型（settings / enums / flags）。
//
// 這個包是 web generator 與 randomizer engine 之間的共通語言：
//   - 瀏覽器表單（options.js）以 preset JSON 送出設定，這裡負責解析與檢查。
//   - engine 以 *Settings 作為一次 roll 的完整輸入。
//   - enums map / forced flags / obhint aliases 等前端需要的映射也由本包提供。
//
// 設計重點：
//   - 所有枚舉與旗標的 wire 格式都是 canonical name 字串（"Type.NAME"），
//     preset 檔、前端 JSON、DB 內的 settings blob 三者共用同一格式。
//   - Settings 是純資料；不含任何放置邏輯。邏輯永遠屬於 engine。
package rset

import (
	"encoding/json"

	"github.com/coffeemancy/ctjot-web-generator/errs"
)

// DefaultCharNames 八個可命名對象的預設名（第八個是 Epoch 飛船）
var DefaultCharNames = [8]string{"Crono", "Marle", "Lucca", "Robo", "Frog", "Ayla", "Magus", "Epoch"}

// CharSettings 角色命名設定
type CharSettings struct {
	Names [8]string `yaml:"names" json:"names"`
}

// CTOptions 寫進 ROM 的遊戲內選單設定。
// 數值欄位皆為內部值（已經過 clamp），布林欄位用指標表達「未提供」。
type CTOptions struct {
	BattleSpeed      int `yaml:"battle_speed"       json:"battle_speed"`       // 0..7
	MenuBackground   int `yaml:"menu_background"    json:"menu_background"`    // 0..7
	BattleMsgSpeed   int `yaml:"battle_msg_speed"   json:"battle_msg_speed"`   // 0..7
	BattleGaugeStyle int `yaml:"battle_gauge_style" json:"battle_gauge_style"` // 0..2

	StereoAudio      bool `yaml:"stereo_audio"       json:"stereo_audio"`
	SaveMenuCursor   bool `yaml:"save_menu_cursor"   json:"save_menu_cursor"`
	SaveBattleCursor bool `yaml:"save_battle_cursor" json:"save_battle_cursor"`
	SkillItemInfo    bool `yaml:"skill_item_info"    json:"skill_item_info"`
	ConsistentPaging bool `yaml:"consistent_paging"  json:"consistent_paging"`
}

// BucketSettings bucket list（objectives）設定
type BucketSettings struct {
	NumObjectives       int      `yaml:"num_objectives"        json:"num_objectives"`
	NumObjectivesNeeded int      `yaml:"num_objectives_needed" json:"num_objectives_needed"`
	Hints               []string `yaml:"hints"                 json:"hints"`
	DisableOtherGoModes bool     `yaml:"disable_other_go_modes" json:"disable_other_go_modes"`
	ObjectivesWin       bool     `yaml:"objectives_win"        json:"objectives_win"`
}

// Settings 是一次 randomizer roll 的完整輸入。
type Settings struct {
	Seed string `yaml:"seed" json:"seed"`

	GameMode        GameMode   `yaml:"game_mode"        json:"game_mode"`
	ItemDifficulty  Difficulty `yaml:"item_difficulty"  json:"item_difficulty"`
	EnemyDifficulty Difficulty `yaml:"enemy_difficulty" json:"enemy_difficulty"`
	ShopPrices      ShopPrices `yaml:"shop_prices"      json:"shop_prices"`
	TechOrder       TechOrder  `yaml:"tech_order"       json:"tech_order"`

	GameFlags     GameFlags     `yaml:"gameflags"      json:"gameflags"`
	ROFlags       ROFlags       `yaml:"ro_flags"       json:"ro_flags"`
	CosmeticFlags CosmeticFlags `yaml:"cosmetic_flags" json:"cosmetic_flags"`

	CharSettings   CharSettings     `yaml:"char_settings"   json:"char_settings"`
	CTOptions      CTOptions        `yaml:"ctoptions"       json:"ctoptions"`
	BucketSettings BucketSettings   `yaml:"bucket_settings" json:"bucket_settings"`
	Mystery        *MysterySettings `yaml:"mystery_settings,omitempty" json:"mystery_settings,omitempty"`
}

// Default 回傳 library 預設值。
// 注意：web UI 的「預設」另外會把 FIX_GLITCH / FAST_TABS 打開，見 WebDefaults。
func Default() *Settings {
	return &Settings{
		GameMode:        ModeStandard,
		ItemDifficulty:  DifficultyNormal,
		EnemyDifficulty: DifficultyNormal,
		ShopPrices:      ShopNormal,
		TechOrder:       TechOrderFullRandom,
		CharSettings:    CharSettings{Names: DefaultCharNames},
		CTOptions: CTOptions{
			BattleSpeed:    4,
			BattleMsgSpeed: 4,
		},
	}
}

// WebDefaults 是 web UI 用的預設設定。
// 對新玩家而言 FIX_GLITCH 與 FAST_TABS 幾乎一定要開，
// 因此即使不是 library 預設，也在這裡強制打開。
func WebDefaults() *Settings {
	s := Default()
	s.GameFlags |= GFFixGlitch | GFFastTabs
	return s
}

// init 初始化與回填：空枚舉補預設值、空角色名補預設名，最後跑 valid。
func (s *Settings) init() error {
	d := Default()
	if s.GameMode == "" {
		s.GameMode = d.GameMode
	}
	if s.ItemDifficulty == "" {
		s.ItemDifficulty = d.ItemDifficulty
	}
	if s.EnemyDifficulty == "" {
		s.EnemyDifficulty = d.EnemyDifficulty
	}
	if s.ShopPrices == "" {
		s.ShopPrices = d.ShopPrices
	}
	if s.TechOrder == "" {
		s.TechOrder = d.TechOrder
	}
	for i := range s.CharSettings.Names {
		if s.CharSettings.Names[i] == "" {
			s.CharSettings.Names[i] = DefaultCharNames[i]
		}
	}
	return s.valid()
}

// valid 最基本的設定檢查，如需更多驗證可在此擴充。
func (s *Settings) valid() error {
	if err := s.GameMode.Valid(); err != nil {
		return err
	}
	if err := s.ItemDifficulty.Valid(); err != nil {
		return err
	}
	if err := s.EnemyDifficulty.Valid(); err != nil {
		return err
	}
	// 敵人難度不開放 EASY
	if s.EnemyDifficulty == DifficultyEasy {
		return errs.NewWarn("enemy difficulty can not be easy")
	}
	if err := s.ShopPrices.Valid(); err != nil {
		return err
	}
	if err := s.TechOrder.Valid(); err != nil {
		return err
	}
	if o := &s.CTOptions; o.BattleSpeed < 0 || o.BattleSpeed > 7 ||
		o.MenuBackground < 0 || o.MenuBackground > 7 ||
		o.BattleMsgSpeed < 0 || o.BattleMsgSpeed > 7 ||
		o.BattleGaugeStyle < 0 || o.BattleGaugeStyle > 2 {
		return errs.NewWarn("ctoptions value out of range")
	}
	if b := &s.BucketSettings; b.NumObjectives < 0 || b.NumObjectives > 8 {
		return errs.NewWarn("num_objectives must be between 0 and 8")
	}
	if s.BucketSettings.NumObjectivesNeeded > s.BucketSettings.NumObjectives {
		return errs.NewWarn("num_objectives_needed can not exceed num_objectives")
	}
	if s.Mystery != nil {
		if err := s.Mystery.valid(); err != nil {
			return err
		}
	}
	return nil
}

// IsMystery 是否為 mystery seed（實際 settings 由權重在 roll 時決定）
func (s *Settings) IsMystery() bool {
	return s.GameFlags.Has(GFMystery)
}

// FlagString 產生 ROM 檔名用的 flag 字串。
// 形式：<mode 短碼>_<flag 短碼串>；mystery seed 不走這裡（檔名固定為 mystery）。
func (s *Settings) FlagString() string {
	mode := "st"
	switch s.GameMode {
	case ModeLostWorlds:
		mode = "lw"
	case ModeIceAge:
		mode = "ia"
	case ModeLegacyOfCyrus:
		mode = "loc"
	case ModeVanillaRando:
		mode = "van"
	}
	code := s.GameFlags.ShortCode()
	if code == "" {
		return mode
	}
	return mode + "_" + code
}

// Clone 回傳 deep copy。
// Settings 會被存進 DB 再拿出來 re-roll（clone seed 功能），
// 這裡保證新舊兩份互不影響。
func (s *Settings) Clone() *Settings {
	out := *s
	if s.BucketSettings.Hints != nil {
		out.BucketSettings.Hints = append([]string(nil), s.BucketSettings.Hints...)
	}
	if s.Mystery != nil {
		m := s.Mystery.clone()
		out.Mystery = m
	}
	return &out
}

// EncodeCompact 輸出 compact JSON（無縮排、無多餘空白）。
// 前端以 JSON script 形式嵌入頁面，這裡統一走 compact 形式。
func (s *Settings) EncodeCompact() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errs.Wrap(err, "settings encode failed")
	}
	return data, nil
}
