package rset

// ObjectiveHint 一組 objective hint：顯示用的別名 + 實際的 hint 字串
type ObjectiveHint struct {
	Alias string `json:"alias"`
	Hint  string `json:"hint"`
}

// ObjectiveHintAliases 回傳 objective hint 的別名表（固定順序，前端下拉選單用）。
// Hint 字串的語法由 engine 的 objective 解析器定義，這裡只負責映射。
func ObjectiveHintAliases() []ObjectiveHint {
	return []ObjectiveHint{
		{"Random", "65:quest_gated, 30:boss_nogo, 15:recruit_gated"},
		{"Random Gated Quest", "quest_gated"},
		{"Random Hard Quest", "quest_late"},
		{"Random Go Mode Quest", "quest_go"},
		{"Random Boss (Includes Go Mode Dungeons)", "boss_any"},
		{"Random Boss from Go Mode Dungeon", "boss_go"},
		{"Random Boss (No Go Mode Dungeons)", "boss_nogo"},
		{"Recruit Gated Character", "recruit_gated"},
		{"Recruit 3 Characters (Total 5)", "recruit_3"},
		{"Recruit 4 Characters (Total 6)", "recruit_4"},
		{"Recruit 5 Characters (Total 7)", "recruit_5"},
		{"Collect 10 of 20 Fragments", "collect_fragments_10_10"},
		{"Collect 10 Rocks", "collect_rocks_10"},
		{"Forge the Masamune", "quest_forge"},
		{"Charge the Moonstone", "quest_moonstone"},
		{"Give the Jerky Away", "quest_jerky"},
		{"Defeat the Black Tyrano", "boss_blacktyrano"},
	}
}
