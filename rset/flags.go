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
	"strings"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"gopkg.in/yaml.v3"
)

// GameFlags 是randomizer設定的主旗標集。
//
// JSON wire 格式為「canonical name 的字串列表」，canonical name 沿用
// "GameFlags.NAME" 形式（與前端 options.js 及 preset 檔一致）。
// 位元值只在程式內使用，不進 wire；順序即為宣告順序，不可重排。
type GameFlags uint64

const (
	// Main
	GFFixGlitch GameFlags = 1 << iota
	GFBossRando
	GFBossScale
	GFZealEnd
	GFFastPendant
	GFLockedChars
	GFUnlockedMagic
	GFTabTreasures
	GFChronosanity
	GFCharRando
	GFHealingItemRando
	GFGearRando
	GFMystery
	GFEpochFail
	GFDuplicateChars
	GFDuplicateTechs
	// Extra
	GFUnlockedSkygates
	GFAddSunkeepSpot
	GFAddBekklerSpot
	GFAddCyrusSpot
	GFRestoreTools
	GFAddOzzieSpot
	GFRestoreJohnnyRace
	GFAddRacelogSpot
	GFRemoveBlackOmenSpot
	GFSplitArrisDome
	GFVanillaRoboRibbon
	GFVanillaDesert
	GFUseAntilife
	GFTackleEffectsOn
	GFStartersSufficient
	GFBucketList
	GFRocksanity
	GFTechDamageRando
	// QoL
	GFVisibleHealth
	GFBossSightscope
	GFFastTabs
	GFFreeMenuGlitch
)

// gameFlagName 宣告順序即輸出順序
var gameFlagName = []struct {
	flag GameFlags
	name string
	code string // FlagString 用的短碼
}{
	{GFFixGlitch, "GameFlags.FIX_GLITCH", "g"},
	{GFBossRando, "GameFlags.BOSS_RANDO", "ro"},
	{GFBossScale, "GameFlags.BOSS_SCALE", "b"},
	{GFZealEnd, "GameFlags.ZEAL_END", "z"},
	{GFFastPendant, "GameFlags.FAST_PENDANT", "p"},
	{GFLockedChars, "GameFlags.LOCKED_CHARS", "c"},
	{GFUnlockedMagic, "GameFlags.UNLOCKED_MAGIC", "m"},
	{GFTabTreasures, "GameFlags.TAB_TREASURES", "tb"},
	{GFChronosanity, "GameFlags.CHRONOSANITY", "cr"},
	{GFCharRando, "GameFlags.CHAR_RANDO", "rc"},
	{GFHealingItemRando, "GameFlags.HEALING_ITEM_RANDO", "h"},
	{GFGearRando, "GameFlags.GEAR_RANDO", "q"},
	{GFMystery, "GameFlags.MYSTERY", "mys"},
	{GFEpochFail, "GameFlags.EPOCH_FAIL", "ef"},
	{GFDuplicateChars, "GameFlags.DUPLICATE_CHARS", "dc"},
	{GFDuplicateTechs, "GameFlags.DUPLICATE_TECHS", "dt"},
	{GFUnlockedSkygates, "GameFlags.UNLOCKED_SKYGATES", "sg"},
	{GFAddSunkeepSpot, "GameFlags.ADD_SUNKEEP_SPOT", "sk"},
	{GFAddBekklerSpot, "GameFlags.ADD_BEKKLER_SPOT", "bk"},
	{GFAddCyrusSpot, "GameFlags.ADD_CYRUS_SPOT", "cy"},
	{GFRestoreTools, "GameFlags.RESTORE_TOOLS", "tl"},
	{GFAddOzzieSpot, "GameFlags.ADD_OZZIE_SPOT", "oz"},
	{GFRestoreJohnnyRace, "GameFlags.RESTORE_JOHNNY_RACE", "jr"},
	{GFAddRacelogSpot, "GameFlags.ADD_RACELOG_SPOT", "rl"},
	{GFRemoveBlackOmenSpot, "GameFlags.REMOVE_BLACK_OMEN_SPOT", "bo"},
	{GFSplitArrisDome, "GameFlags.SPLIT_ARRIS_DOME", "ad"},
	{GFVanillaRoboRibbon, "GameFlags.VANILLA_ROBO_RIBBON", "rr"},
	{GFVanillaDesert, "GameFlags.VANILLA_DESERT", "vd"},
	{GFUseAntilife, "GameFlags.USE_ANTILIFE", "al"},
	{GFTackleEffectsOn, "GameFlags.TACKLE_EFFECTS_ON", "tk"},
	{GFStartersSufficient, "GameFlags.STARTERS_SUFFICIENT", "ss"},
	{GFBucketList, "GameFlags.BUCKET_LIST", "k"},
	{GFRocksanity, "GameFlags.ROCKSANITY", "rs"},
	{GFTechDamageRando, "GameFlags.TECH_DAMAGE_RANDO", "td"},
	{GFVisibleHealth, "GameFlags.VISIBLE_HEALTH", "vh"},
	{GFBossSightscope, "GameFlags.BOSS_SIGHTSCOPE", "bs"},
	{GFFastTabs, "GameFlags.FAST_TABS", "ft"},
	{GFFreeMenuGlitch, "GameFlags.FREE_MENU_GLITCH", "fm"},
}

var gameFlagByName = func() map[string]GameFlags {
	m := make(map[string]GameFlags, len(gameFlagName))
	for _, e := range gameFlagName {
		m[e.name] = e.flag
	}
	return m
}()

// Has 檢查單一旗標是否被設定
func (f GameFlags) Has(flag GameFlags) bool { return f&flag != 0 }

// Names 回傳已設定旗標的 canonical name（宣告順序）
func (f GameFlags) Names() []string {
	names := make([]string, 0, 8)
	for _, e := range gameFlagName {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return names
}

// ShortCode 回傳已設定旗標短碼的串接（宣告順序），作為 ROM 檔名中的 flag string
func (f GameFlags) ShortCode() string {
	var sb strings.Builder
	for _, e := range gameFlagName {
		if f.Has(e.flag) {
			sb.WriteString(e.code)
		}
	}
	return sb.String()
}

func (f GameFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

func (f *GameFlags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return errs.Wrap(err, "gameflags must be a list of flag names")
	}
	flags, err := ParseGameFlags(names)
	if err != nil {
		return err
	}
	*f = flags
	return nil
}

// MarshalYAML / UnmarshalYAML 讓 YAML preset 與 JSON 共用同一種 wire 格式
func (f GameFlags) MarshalYAML() (any, error) {
	return f.Names(), nil
}

func (f *GameFlags) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return errs.Wrap(err, "gameflags must be a list of flag names")
	}
	flags, err := ParseGameFlags(names)
	if err != nil {
		return err
	}
	*f = flags
	return nil
}

// ParseGameFlags 由 canonical name 列表組出 GameFlags。
// 未知名稱直接回報錯誤，不靜默丟棄。
func ParseGameFlags(names []string) (GameFlags, error) {
	var f GameFlags
	for _, n := range names {
		flag, ok := gameFlagByName[n]
		if !ok {
			return 0, errs.Warnf("unknown game flag: %s", n)
		}
		f |= flag
	}
	return f, nil
}

// AllGameFlagNames 依宣告順序回傳全部 canonical name（enums map 用）
func AllGameFlagNames() []string {
	names := make([]string, 0, len(gameFlagName))
	for _, e := range gameFlagName {
		names = append(names, e.name)
	}
	return names
}

// GameFlagNameSet 回傳 name -> flag 映射的 copy（外部不可改到內部表）
func GameFlagNameSet() map[string]GameFlags {
	m := make(map[string]GameFlags, len(gameFlagByName))
	for k, v := range gameFlagByName {
		m[k] = v
	}
	return m
}

// -----------------------------------------------------------------------------
//  ROFlags / CosmeticFlags
// -----------------------------------------------------------------------------

// ROFlags boss rando 專屬旗標
type ROFlags uint8

const (
	ROBossSpotHP ROFlags = 1 << iota
	ROPreserveParts
)

var roFlagName = []struct {
	flag ROFlags
	name string
}{
	{ROBossSpotHP, "ROFlags.BOSS_SPOT_HP"},
	{ROPreserveParts, "ROFlags.PRESERVE_PARTS"},
}

func (f ROFlags) Has(flag ROFlags) bool { return f&flag != 0 }

func (f ROFlags) Names() []string {
	names := make([]string, 0, 2)
	for _, e := range roFlagName {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return names
}

func (f ROFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

func (f *ROFlags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return errs.Wrap(err, "ro_flags must be a list of flag names")
	}
	out, err := parseROFlags(names)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

func (f ROFlags) MarshalYAML() (any, error) {
	return f.Names(), nil
}

func (f *ROFlags) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return errs.Wrap(err, "ro_flags must be a list of flag names")
	}
	out, err := parseROFlags(names)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

func parseROFlags(names []string) (ROFlags, error) {
	var out ROFlags
	for _, n := range names {
		found := false
		for _, e := range roFlagName {
			if e.name == n {
				out |= e.flag
				found = true
				break
			}
		}
		if !found {
			return 0, errs.Warnf("unknown ro flag: %s", n)
		}
	}
	return out, nil
}

// CosmeticFlags 只影響表現、不影響 seed 內容的旗標
type CosmeticFlags uint8

const (
	CosReduceFlash CosmeticFlags = 1 << iota
	CosZenanAltMusic
	CosDeathPeakAltMusic
	CosQuietMode
	CosAutorun
)

var cosmeticFlagName = []struct {
	flag CosmeticFlags
	name string
}{
	{CosReduceFlash, "CosmeticFlags.REDUCE_FLASH"},
	{CosZenanAltMusic, "CosmeticFlags.ZENAN_ALT_MUSIC"},
	{CosDeathPeakAltMusic, "CosmeticFlags.DEATH_PEAK_ALT_MUSIC"},
	{CosQuietMode, "CosmeticFlags.QUIET_MODE"},
	{CosAutorun, "CosmeticFlags.AUTORUN"},
}

func (f CosmeticFlags) Has(flag CosmeticFlags) bool { return f&flag != 0 }

func (f CosmeticFlags) Names() []string {
	names := make([]string, 0, 5)
	for _, e := range cosmeticFlagName {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return names
}

func (f CosmeticFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

func (f *CosmeticFlags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return errs.Wrap(err, "cosmetic_flags must be a list of flag names")
	}
	out, err := parseCosmeticFlags(names)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

func (f CosmeticFlags) MarshalYAML() (any, error) {
	return f.Names(), nil
}

func (f *CosmeticFlags) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return errs.Wrap(err, "cosmetic_flags must be a list of flag names")
	}
	out, err := parseCosmeticFlags(names)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

func parseCosmeticFlags(names []string) (CosmeticFlags, error) {
	var out CosmeticFlags
	for _, n := range names {
		found := false
		for _, e := range cosmeticFlagName {
			if e.name == n {
				out |= e.flag
				found = true
				break
			}
		}
		if !found {
			return 0, errs.Warnf("unknown cosmetic flag: %s", n)
		}
	}
	return out, nil
}
