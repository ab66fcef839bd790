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

// EnumsMap 回傳前端 options.js 使用的「表單值 <-> enum canonical name」映射。
//
// options.js 以這份映射在表單值與 preset JSON 之間互轉：
//   - list 值（game_mode 等）：下拉選單的可選項，直接就是 canonical name。
//   - dict 值（gameflags / roflags）：表單欄位 id -> canonical name。
//
// 每次呼叫都回傳新的 copy，呼叫端改動不會影響到內部表。
func EnumsMap() map[string]any {
	gameModes := make([]string, 0, len(AllGameModes()))
	for _, m := range AllGameModes() {
		gameModes = append(gameModes, string(m))
	}
	shopPrices := make([]string, 0, len(AllShopPrices()))
	for _, s := range AllShopPrices() {
		shopPrices = append(shopPrices, string(s))
	}
	itemDiffs := make([]string, 0, len(AllDifficulties()))
	for _, d := range AllDifficulties() {
		itemDiffs = append(itemDiffs, string(d))
	}
	enemyDiffs := make([]string, 0, len(EnemyDifficulties()))
	for _, d := range EnemyDifficulties() {
		enemyDiffs = append(enemyDiffs, string(d))
	}
	techOrders := make([]string, 0, len(AllTechOrders()))
	for _, t := range AllTechOrders() {
		techOrders = append(techOrders, string(t))
	}

	return map[string]any{
		"game_mode":        gameModes,
		"shopprices":       shopPrices,
		"item_difficulty":  itemDiffs,
		"enemy_difficulty": enemyDiffs,
		"techorder":        techOrders,
		"gameflags":        gameFlagFormMap(),
		"roflags": map[string]string{
			"boss_spot_hp":          "ROFlags.BOSS_SPOT_HP",
			"legacy_boss_placement": "ROFlags.PRESERVE_PARTS",
		},
	}
}

// gameFlagFormMap 表單欄位 id -> GameFlags canonical name
func gameFlagFormMap() map[string]string {
	return map[string]string{
		// Main
		"disable_glitches":     "GameFlags.FIX_GLITCH",
		"boss_rando":           "GameFlags.BOSS_RANDO",
		"boss_scaling":         "GameFlags.BOSS_SCALE",
		"zeal":                 "GameFlags.ZEAL_END",
		"early_pendant":        "GameFlags.FAST_PENDANT",
		"locked_chars":         "GameFlags.LOCKED_CHARS",
		"unlocked_magic":       "GameFlags.UNLOCKED_MAGIC",
		"tab_treasures":        "GameFlags.TAB_TREASURES",
		"chronosanity":         "GameFlags.CHRONOSANITY",
		"char_rando":           "GameFlags.CHAR_RANDO",
		"healing_item_rando":   "GameFlags.HEALING_ITEM_RANDO",
		"gear_rando":           "GameFlags.GEAR_RANDO",
		"mystery_seed":         "GameFlags.MYSTERY",
		"epoch_fail":           "GameFlags.EPOCH_FAIL",
		"duplicate_characters": "GameFlags.DUPLICATE_CHARS",
		"duplicate_duals":      "GameFlags.DUPLICATE_TECHS",
		// Extra
		"unlocked_skyways":       "GameFlags.UNLOCKED_SKYGATES",
		"add_sunkeep_spot":       "GameFlags.ADD_SUNKEEP_SPOT",
		"add_bekkler_spot":       "GameFlags.ADD_BEKKLER_SPOT",
		"add_cyrus_spot":         "GameFlags.ADD_CYRUS_SPOT",
		"restore_tools":          "GameFlags.RESTORE_TOOLS",
		"add_ozzie_spot":         "GameFlags.ADD_OZZIE_SPOT",
		"restore_johnny_race":    "GameFlags.RESTORE_JOHNNY_RACE",
		"add_racelog_spot":       "GameFlags.ADD_RACELOG_SPOT",
		"remove_black_omen_spot": "GameFlags.REMOVE_BLACK_OMEN_SPOT",
		"split_arris_dome":       "GameFlags.SPLIT_ARRIS_DOME",
		"vanilla_robo_ribbon":    "GameFlags.VANILLA_ROBO_RIBBON",
		"vanilla_desert":         "GameFlags.VANILLA_DESERT",
		"use_antilife":           "GameFlags.USE_ANTILIFE",
		"tackle_effects":         "GameFlags.TACKLE_EFFECTS_ON",
		"starters_sufficient":    "GameFlags.STARTERS_SUFFICIENT",
		"bucket_list":            "GameFlags.BUCKET_LIST",
		"rocksanity":             "GameFlags.ROCKSANITY",
		"tech_damage_rando":      "GameFlags.TECH_DAMAGE_RANDO",
		// QoL
		"sightscope_always_on": "GameFlags.VISIBLE_HEALTH",
		"boss_sightscope":      "GameFlags.BOSS_SIGHTSCOPE",
		"fast_tabs":            "GameFlags.FAST_TABS",
		"free_menu_glitch":     "GameFlags.FREE_MENU_GLITCH",
	}
}

// InvEnumsMap 回傳反向映射：canonical name -> 表單欄位 id。
// 只反轉 dict 型的項目（gameflags / roflags）；list 型項目在前端用不到反查。
func InvEnumsMap() map[string]map[string]string {
	out := map[string]map[string]string{}
	for key, mapping := range EnumsMap() {
		dict, ok := mapping.(map[string]string)
		if !ok {
			continue
		}
		inv := make(map[string]string, len(dict))
		for k, v := range dict {
			inv[v] = k
		}
		out[key] = inv
	}
	return out
}
