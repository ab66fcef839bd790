package rset

// ForcedEntry 描述某個 mode 或 flag 被勾起時，哪些 gameflags 必須強制開/關。
//
// web GUI 用這份表直接鎖住對應的 toggle（forced_off 的旗標會被關掉並 disable），
// 而不是像 CLI 那樣事後靠 fix_flag_conflicts 默默修正。
type ForcedEntry struct {
	ForcedOn  []string `json:"forced_on,omitempty"`
	ForcedOff []string `json:"forced_off,omitempty"`
}

// ForcedFlags key 為表單值（mode canonical name 或 flag 表單 id）。
//
// 內容對應 randomizer 的模式限制：
//   - Lost Worlds 沒有 pendant / omen / epoch 相關路線。
//   - Ice Age / Legacy of Cyrus 固定結局，不能配 Zeal end 類旗標。
//   - Vanilla rando 保留原版機制，排除部分改寫旗標。
//   - rocksanity 需要天空之門解鎖；chronosanity 與 boss scaling 衝突。
var ForcedFlags = map[string]ForcedEntry{
	string(ModeLostWorlds): {
		ForcedOff: []string{
			"GameFlags.ZEAL_END",
			"GameFlags.FAST_PENDANT",
			"GameFlags.EPOCH_FAIL",
			"GameFlags.ADD_BEKKLER_SPOT",
			"GameFlags.RESTORE_JOHNNY_RACE",
			"GameFlags.ADD_RACELOG_SPOT",
			"GameFlags.SPLIT_ARRIS_DOME",
			"GameFlags.BUCKET_LIST",
		},
	},
	string(ModeIceAge): {
		ForcedOff: []string{
			"GameFlags.ZEAL_END",
			"GameFlags.BUCKET_LIST",
			"GameFlags.REMOVE_BLACK_OMEN_SPOT",
		},
	},
	string(ModeLegacyOfCyrus): {
		ForcedOff: []string{
			"GameFlags.ZEAL_END",
			"GameFlags.BUCKET_LIST",
			"GameFlags.ROCKSANITY",
			"GameFlags.REMOVE_BLACK_OMEN_SPOT",
		},
	},
	string(ModeVanillaRando): {
		ForcedOff: []string{
			"GameFlags.UNLOCKED_MAGIC",
			"GameFlags.TECH_DAMAGE_RANDO",
		},
	},
	"rocksanity": {
		ForcedOn: []string{"GameFlags.UNLOCKED_SKYGATES"},
	},
	"chronosanity": {
		ForcedOff: []string{"GameFlags.BOSS_SCALE"},
	},
	"duplicate_duals": {
		ForcedOn: []string{"GameFlags.DUPLICATE_CHARS"},
	},
}
