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

// Package demoengine 是開發/測試用的 Engine 實作。
//
// 它對 seed 做決定性的「單純洗牌分配」：角色、關鍵道具、boss 都是
// 靜態表的隨機排列，不做任何邏輯圖求解（真正的可通關性保證屬於
// 正式引擎）。用途：
//   - 本機起 server 跑完整流程（不需要正式引擎 binary）。
//   - 單元測試：同 settings + 同 seed 必產生一致的 config。
package demoengine

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/rando"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// 靜態分配表。內容只求長得像遊戲資料，不追求與正式引擎一致。
var (
	recruitSpots = []string{
		"Starter", "Cathedral", "Castle", "Proto Dome", "Dactyl Nest", "Frog's Burrow", "North Cape",
	}

	characters = []string{"Crono", "Marle", "Lucca", "Robo", "Frog", "Ayla", "Magus"}

	keyItems = []string{
		"Pendant", "Gate Key", "Dreamstone", "Ruby Knife", "Masamune",
		"Hero Medal", "Bent Sword", "Bent Hilt", "Moon Stone", "Clone",
		"C. Trigger", "Tools", "Jerky", "Grand Leon", "Prism Shard",
	}

	keyItemSpots = []string{
		"Denadoro Mts", "Reptite Lair", "Giant's Claw", "Mt. Woe",
		"Arris Dome", "Sun Palace", "Geno Dome", "Fiona's Shrine",
		"Melchior's Hut", "Guardia Treasury", "Snail Stop", "Zenan Bridge",
		"Cathedral Chest", "Heckran's Cave", "King's Trial",
	}

	bossSpots = []string{
		"Zenan Bridge", "Denadoro Mts", "Reptite Lair", "Magus' Castle",
		"Heckran's Cave", "King's Trial", "Giant's Claw", "Tyrano Lair",
		"Zeal Palace", "Death Peak", "Black Omen", "Ocean Palace",
	}

	bosses = []rando.BossID{
		"Nizbel", "Masa Mune", "Retinite", "Yakra", "Heckran", "Zombor",
		"Golem", "Rust Tyrano", "Dalton Plus", "Giga Gaia", "Son of Sun",
		rando.TwinBoss,
	}

	twinCandidates = map[rando.EnemyID]string{
		1: "Golem", 2: "Nizbel", 3: "Rust Tyrano", 4: "Mega Mutant",
	}

	objectivePool = []string{
		"Defeat the boss of Denadoro Mts", "Recruit 4 characters",
		"Collect 3 rocks", "Charge the Moonstone", "Give Jerky to the porter",
		"Defeat Magus", "Defeat the Black Tyrano", "Forge the Masamune",
		"Reach the end of Death Peak", "Defeat a side boss",
	}

	seedNames = []string{
		"Crono", "Marle", "Lucca", "Robo", "Frog", "Ayla", "Magus",
		"Epoch", "Lavos", "Dalton", "Cyrus", "Glenn", "Schala", "Janus",
		"Melchior", "Gaspar", "Belthasar", "Ozzie", "Flea", "Slash",
	}
)

// romStampOffset patch 時蓋 seed 資訊的位置（SNES 內部 header 的 ROM name 區）
const romStampOffset = 0x7FC0

type Engine struct{}

var _ rando.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{}
}

// rng 由 seed 字串加 flag string 導出決定性 rng。
// flag string 也要參與：同 seed 不同旗標要產生不同盤面。
func (e *Engine) rng(s *rset.Settings) *rand.Rand {
	sum := sha256.Sum256([]byte(s.Seed + "|" + s.FlagString()))
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(sum[0:8]),
		binary.LittleEndian.Uint64(sum[8:16]),
	))
}

// Roll 產生一份 config。mystery seed 先用權重抽出具體 settings 再分配。
func (e *Engine) Roll(ctx context.Context, s *rset.Settings) (*rando.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errs.NewWarn("nil settings")
	}
	if s.Seed == "" {
		return nil, errs.NewWarn("seed required")
	}

	r := e.rng(s)
	if s.IsMystery() && s.Mystery != nil {
		s = s.Mystery.Resolve(s, r)
	}

	c := &rando.Config{
		RecruitSpots: append([]string(nil), recruitSpots...),
		CharAssign:   make(map[string]rando.CharAssignment, len(recruitSpots)),
		BossSpots:    append([]string(nil), bossSpots...),
		BossAssign:   make(map[string]rando.BossID, len(bossSpots)),
		BossData:     map[rando.BossID]rando.BossParts{},
		EnemyNames:   map[rando.EnemyID]string{},
	}

	// 角色：洗牌後依招募點順序分配
	chars := shuffled(r, characters)
	for i, spot := range recruitSpots {
		held := chars[i%len(chars)]
		reassign := held
		if s.GameFlags.Has(rset.GFCharRando) {
			reassign = characters[r.IntN(len(characters))]
		}
		c.CharAssign[spot] = rando.CharAssignment{HeldChar: held, Reassign: reassign}
	}

	// 關鍵道具：道具與地點各自洗牌後配對
	items := shuffled(r, keyItems)
	spots := shuffled(r, keyItemSpots)
	n := min(len(items), len(spots))
	c.KeyItems = make([]rando.KeyItemPlacement, 0, n)
	for i := 0; i < n; i++ {
		c.KeyItems = append(c.KeyItems, rando.KeyItemPlacement{
			Location: spots[i],
			KeyItem:  items[i],
		})
	}

	// boss：boss rando 開啟時洗牌，否則依表序固定分配
	pool := append([]rando.BossID(nil), bosses...)
	if s.GameFlags.Has(rset.GFBossRando) {
		r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}
	for i, spot := range bossSpots {
		c.BossAssign[spot] = pool[i%len(pool)]
	}

	// TwinBoss 實體：抽一種敵人當雙子
	ids := make([]rando.EnemyID, 0, len(twinCandidates))
	for id := range twinCandidates {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	twin := ids[r.IntN(len(ids))]
	c.BossData[rando.TwinBoss] = rando.BossParts{Parts: []rando.EnemyID{twin, twin}}
	for id, name := range twinCandidates {
		c.EnemyNames[id] = name
	}

	// objectives：bucket list 開啟時抽指定數量
	if s.GameFlags.Has(rset.GFBucketList) {
		objs := shuffled(r, objectivePool)
		numObjs := min(s.BucketSettings.NumObjectives, len(objs))
		c.Objectives = make([]rando.Objective, 0, numObjs)
		for i := 0; i < numObjs; i++ {
			c.Objectives = append(c.Objectives, rando.Objective{Desc: objs[i]})
		}
	}

	return c, nil
}

// Patch 把 seed 資訊蓋進 ROM copy 的 header 區，hash 取 patch 後全檔 sha256 前 8 bytes。
//
// stamp 之後緊接 8 bytes 的 config digest：ROM bytes 必須反映實際放置結果，
// 同一個 seed 值配上不同 config（例如 race roll）要產出不同的 ROM 與 hash。
func (e *Engine) Patch(ctx context.Context, rom []byte, s *rset.Settings, c *rando.Config) ([]byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if s == nil || c == nil {
		return nil, nil, errs.NewWarn("settings and config are required")
	}
	if len(rom) < romStampOffset+29 {
		return nil, nil, errs.NewWarn("rom too small: " + strconv.Itoa(len(rom)))
	}

	cfgJSON, err := json.Marshal(c)
	if err != nil {
		return nil, nil, errs.Wrap(err, "marshal config for patch")
	}
	cfgSum := sha256.Sum256(cfgJSON)

	out := append([]byte(nil), rom...)
	stamp := []byte("CTJOT " + s.Seed + " " + s.FlagString())
	if len(stamp) > 21 {
		stamp = stamp[:21]
	}
	copy(out[romStampOffset:romStampOffset+21], stamp)
	copy(out[romStampOffset+21:romStampOffset+29], cfgSum[:8])

	sum := sha256.Sum256(out)
	return out, sum[:8], nil
}

// SettingsSpoilers 輸出 settings 的文字摘要（分享頁用）
func (e *Engine) SettingsSpoilers(w io.Writer, s *rset.Settings) error {
	if s == nil {
		return errs.NewWarn("nil settings")
	}
	lines := []string{
		"Game Mode: " + string(s.GameMode),
		"Item Difficulty: " + string(s.ItemDifficulty),
		"Enemy Difficulty: " + string(s.EnemyDifficulty),
		"Shop Prices: " + string(s.ShopPrices),
		"Tech Order: " + string(s.TechOrder),
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "Flags:\n"); err != nil {
		return err
	}
	for _, name := range s.GameFlags.Names() {
		if _, err := io.WriteString(w, "  "+name+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ProofString 產生逐步可達性證明文字。
// demoengine 沒有真正的邏輯圖，用 key item 分配順序模擬 sphere 分層。
func (e *Engine) ProofString(s *rset.Settings, c *rando.Config) (string, error) {
	if s == nil || c == nil {
		return "", errs.NewWarn("settings and config are required")
	}
	const perSphere = 3
	out := ""
	for i, ki := range c.KeyItems {
		sphere := i/perSphere + 1
		out += fmt.Sprintf("%d: %s from %s\n", sphere, ki.KeyItem, ki.Location)
	}
	out += "GO: Defeat Lavos\n"
	return out, nil
}

// Names seed 字串用的名單
func (e *Engine) Names() []string {
	return append([]string(nil), seedNames...)
}

func shuffled(r *rand.Rand, in []string) []string {
	out := append([]string(nil), in...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
