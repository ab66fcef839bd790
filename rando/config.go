package rando

import "github.com/coffeemancy/ctjot-web-generator/errs"

// BossID engine 內的 boss 識別字串
type BossID string

// TwinBoss 是特殊 boss spot：實體由兩隻相同敵人組成，
// spoiler 顯示時要解析成 "Twin <敵人名>"。
const TwinBoss BossID = "TwinBoss"

// EnemyID engine 內的敵人識別碼
type EnemyID int16

// CharAssignment 一個招募點的角色配置
type CharAssignment struct {
	HeldChar string `json:"held_char"` // 在這個招募點拿到的角色
	Reassign string `json:"reassign"`  // char rando 下實際對應的角色模型
}

// KeyItemPlacement 一個關鍵道具的放置結果（順序即 engine 的輸出順序）
type KeyItemPlacement struct {
	Location string `json:"location"`
	KeyItem  string `json:"key_item"`
}

// BossParts boss 的組成部位（TwinBoss 解析用）
type BossParts struct {
	Parts []EnemyID `json:"parts"`
}

// Objective bucket list 的單一目標
type Objective struct {
	Desc string `json:"desc"`
}

// Config 是一次 roll 的完整結果資料。
//
// 這是純資料模型：欄位由 engine 填好，web 層只讀取並重組成 JSON。
// RecruitSpots / BossSpots 保存固定順序，map 只做查詢，
// 確保 spoiler 輸出順序與 engine 一致。
type Config struct {
	RecruitSpots []string                  `json:"recruit_spots"`
	CharAssign   map[string]CharAssignment `json:"char_assign"`

	KeyItems []KeyItemPlacement `json:"key_items"`

	BossSpots  []string             `json:"boss_spots"`
	BossAssign map[string]BossID    `json:"boss_assign"`
	BossData   map[BossID]BossParts `json:"boss_data"`
	EnemyNames map[EnemyID]string   `json:"enemy_names"`

	Objectives []Objective `json:"objectives"`
}

// BossDisplayName 解析 boss spot 的顯示名稱。
// TwinBoss 依第一個部位的敵人名組成 "Twin <name>"；其餘直接用 BossID。
func (c *Config) BossDisplayName(spot string) (string, error) {
	id, ok := c.BossAssign[spot]
	if !ok {
		return "", errs.Warnf("unknown boss spot: %s", spot)
	}
	if id != TwinBoss {
		return string(id), nil
	}
	data, ok := c.BossData[TwinBoss]
	if !ok || len(data.Parts) == 0 {
		return "", errs.NewFatal("twin boss has no part data")
	}
	name, ok := c.EnemyNames[data.Parts[0]]
	if !ok {
		return "", errs.Fatalf("no enemy name for id %d", data.Parts[0])
	}
	return "Twin " + name, nil
}
