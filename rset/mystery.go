package rset

import (
	"math/rand/v2"

	"github.com/coffeemancy/ctjot-web-generator/errs"
)

// MysterySettings 描述 mystery seed 的抽選權重。
//
// mystery seed 的實際設定在 roll 當下才由權重決定：
//   - 各枚舉欄位用「相對頻率」抽選（整數權重，不需正規化）。
//   - 各旗標用獨立機率（0..1）決定開關。
//
// 權重表的 key 都是 canonical name，與 preset JSON 同格式。
type MysterySettings struct {
	GameModeFreqs        map[GameMode]int   `yaml:"game_mode_freqs"        json:"game_mode_freqs"`
	ItemDifficultyFreqs  map[Difficulty]int `yaml:"item_difficulty_freqs"  json:"item_difficulty_freqs"`
	EnemyDifficultyFreqs map[Difficulty]int `yaml:"enemy_difficulty_freqs" json:"enemy_difficulty_freqs"`
	TechOrderFreqs       map[TechOrder]int  `yaml:"tech_order_freqs"       json:"tech_order_freqs"`
	ShopPriceFreqs       map[ShopPrices]int `yaml:"shop_price_freqs"       json:"shop_price_freqs"`

	FlagProb map[string]float64 `yaml:"flag_prob" json:"flag_prob"`
}

func (m *MysterySettings) valid() error {
	if err := validFreqs("game_mode_freqs", m.GameModeFreqs); err != nil {
		return err
	}
	if err := validFreqs("item_difficulty_freqs", m.ItemDifficultyFreqs); err != nil {
		return err
	}
	if err := validFreqs("enemy_difficulty_freqs", m.EnemyDifficultyFreqs); err != nil {
		return err
	}
	if err := validFreqs("tech_order_freqs", m.TechOrderFreqs); err != nil {
		return err
	}
	if err := validFreqs("shop_price_freqs", m.ShopPriceFreqs); err != nil {
		return err
	}
	for name, p := range m.FlagProb {
		if _, ok := gameFlagByName[name]; !ok {
			return errs.Warnf("unknown game flag in flag_prob: %s", name)
		}
		if p < 0 || p > 1 {
			return errs.Warnf("flag_prob out of range: %s=%v", name, p)
		}
	}
	return nil
}

func validFreqs[K ~string](field string, freqs map[K]int) error {
	total := 0
	for k, w := range freqs {
		if w < 0 {
			return errs.Warnf("%s: negative weight for %s", field, string(k))
		}
		total += w
	}
	if len(freqs) > 0 && total == 0 {
		return errs.Warnf("%s: all weights are zero", field)
	}
	return nil
}

func (m *MysterySettings) clone() *MysterySettings {
	out := &MysterySettings{
		GameModeFreqs:        cloneMap(m.GameModeFreqs),
		ItemDifficultyFreqs:  cloneMap(m.ItemDifficultyFreqs),
		EnemyDifficultyFreqs: cloneMap(m.EnemyDifficultyFreqs),
		TechOrderFreqs:       cloneMap(m.TechOrderFreqs),
		ShopPriceFreqs:       cloneMap(m.ShopPriceFreqs),
	}
	if m.FlagProb != nil {
		out.FlagProb = make(map[string]float64, len(m.FlagProb))
		for k, v := range m.FlagProb {
			out.FlagProb[k] = v
		}
	}
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Resolve 依照權重把 mystery settings 抽成一份具體的 Settings。
//
// 特性：
//   - 以呼叫端提供的 *rand.Rand 抽選，同一個 rng 狀態抽出同一份結果（可重現）。
//   - 權重缺省的欄位沿用 base 的現值。
//   - 回傳值是新的 copy；base 不會被動到。MYSTERY 旗標在結果中保留，
//     讓後續流程（spoiler 遮蔽、ROM 檔名）仍能辨識這是 mystery seed。
func (m *MysterySettings) Resolve(base *Settings, r *rand.Rand) *Settings {
	out := base.Clone()

	if v, ok := pickWeighted(m.GameModeFreqs, r); ok {
		out.GameMode = v
	}
	if v, ok := pickWeighted(m.ItemDifficultyFreqs, r); ok {
		out.ItemDifficulty = v
	}
	if v, ok := pickWeighted(m.EnemyDifficultyFreqs, r); ok {
		out.EnemyDifficulty = v
	}
	if v, ok := pickWeighted(m.TechOrderFreqs, r); ok {
		out.TechOrder = v
	}
	if v, ok := pickWeighted(m.ShopPriceFreqs, r); ok {
		out.ShopPrices = v
	}

	// 旗標逐一擲骰；遍歷宣告順序而不是 map 順序，確保 rng 消耗順序固定
	for _, e := range gameFlagName {
		p, ok := m.FlagProb[e.name]
		if !ok {
			continue
		}
		if r.Float64() < p {
			out.GameFlags |= e.flag
		} else {
			out.GameFlags &^= e.flag
		}
	}
	out.GameFlags |= GFMystery
	return out
}

// pickWeighted 相對頻率抽選。
// 為了讓 rng 消耗順序與 map 遍歷順序無關，先依宣告順序展開再抽。
func pickWeighted[K ~string](freqs map[K]int, r *rand.Rand) (K, bool) {
	var zero K
	if len(freqs) == 0 {
		return zero, false
	}
	keys := orderedKeys(freqs)
	total := 0
	for _, k := range keys {
		total += freqs[k]
	}
	if total <= 0 {
		return zero, false
	}
	n := r.IntN(total)
	for _, k := range keys {
		n -= freqs[k]
		if n < 0 {
			return k, true
		}
	}
	return keys[len(keys)-1], true
}

// orderedKeys 依枚舉宣告順序回傳權重表的 key
func orderedKeys[K ~string](freqs map[K]int) []K {
	order := map[string]int{}
	idx := 0
	for _, v := range AllGameModes() {
		order[string(v)] = idx
		idx++
	}
	for _, v := range AllDifficulties() {
		order[string(v)] = idx
		idx++
	}
	for _, v := range AllTechOrders() {
		order[string(v)] = idx
		idx++
	}
	for _, v := range AllShopPrices() {
		order[string(v)] = idx
		idx++
	}

	keys := make([]K, 0, len(freqs))
	for k := range freqs {
		keys = append(keys, k)
	}
	// 插入排序就夠了（鍵數 <= 5）
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && order[string(keys[j-1])] > order[string(keys[j])]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
