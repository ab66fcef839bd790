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

package dto

import (
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/preset"
	"github.com/coffeemancy/ctjot-web-generator/rando"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// SeedResponse 產 seed / clone 成功後回給前端的內容
type SeedResponse struct {
	ShareID    string `json:"share_id"`              // 分享連結用 id
	Seed       string `json:"seed"`                  // 使用者可見的 seed 值（race seed 不含 nonce）
	FlagString string `json:"flag_string,omitempty"` // mystery seed 留空
	Hash       string `json:"hash"`                  // seed hash（hex）
	Race       bool   `json:"race"`                  // true = spoiler 未解禁
}

func NewSeedResponse(shareID string, s *rset.Settings, hash []byte, race bool) SeedResponse {
	resp := SeedResponse{
		ShareID: shareID,
		Seed:    s.Seed,
		Hash:    hex.EncodeToString(hash),
		Race:    race,
	}
	if !s.IsMystery() {
		resp.FlagString = s.FlagString()
	}
	return resp
}

// OptionsPayload options.js 初始化頁面需要的所有靜態映射
type OptionsPayload struct {
	EnumsMap        map[string]any               `json:"enums_map"`
	InvEnumsMap     map[string]map[string]string `json:"inv_enums_map"`
	ForcedFlags     map[string]rset.ForcedEntry  `json:"forced_flags"`
	DefaultSettings json.RawMessage              `json:"default_settings"` // compact JSON
	ObhintAliases   []rset.ObjectiveHint         `json:"obhint_aliases"`
	Presets         map[string]preset.Info       `json:"presets"`
}

func NewOptionsPayload(presets map[string]preset.Info) (OptionsPayload, error) {
	def, err := rset.WebDefaults().EncodeCompact()
	if err != nil {
		return OptionsPayload{}, err
	}
	return OptionsPayload{
		EnumsMap:        rset.EnumsMap(),
		InvEnumsMap:     rset.InvEnumsMap(),
		ForcedFlags:     rset.ForcedFlags,
		DefaultSettings: def,
		ObhintAliases:   rset.ObjectiveHintAliases(),
		Presets:         presets,
	}, nil
}

// ShareDetails 分享頁顯示的 seed 摘要
type ShareDetails struct {
	ShareID string `json:"share_id"`
	Details string `json:"details"` // 文字摘要（mystery seed 只顯示 "Mystery seed!"）
	Race    bool   `json:"race"`
	Mystery bool   `json:"mystery"`
}

// SpoilerLog 是前端 spoiler 頁用的重組結果。
// 欄位順序與內容合約固定：characters / key_items / bosses / objectives / spheres。
type SpoilerLog struct {
	Characters []CharacterSpoiler `json:"characters"`
	KeyItems   []KeyItemSpoiler   `json:"key_items"`
	Bosses     []BossSpoiler      `json:"bosses"`
	Objectives []ObjectiveSpoiler `json:"objectives"`
	Spheres    []SphereSpoiler    `json:"spheres"`
}

type CharacterSpoiler struct {
	Location  string `json:"location"`
	Character string `json:"character"`
	Reassign  string `json:"reassign"`
}

type KeyItemSpoiler struct {
	Location string `json:"location"`
	Key      string `json:"key"`
}

type BossSpoiler struct {
	Location string `json:"location"`
	Boss     string `json:"boss"`
}

type ObjectiveSpoiler struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// SphereSpoiler proof string 單行的解析結果。
// Sphere 可能是 "GO"、數字、或空字串（行首沒有 sphere 前綴時）。
type SphereSpoiler struct {
	Sphere string `json:"sphere"`
	Desc   string `json:"desc"`
}

// sphereRgx 對 proof string 的每一行抓 sphere 編號與描述。
// 前綴形式："GO: ..."、"2: ..."；沒有前綴時整行都算 desc。
var sphereRgx = regexp.MustCompile(`((?P<sphere>GO|(\d?)):\s*)?(?P<desc>.+)`)

// NewSpoilerLog 把 engine 的 roll 結果重組成前端 spoiler 結構。
//
// 重組規則：
//   - objectives：只在 BUCKET_LIST 開啟時輸出，取前 NumObjectives 個，
//     名稱固定為 "Objective N"。
//   - characters：依招募點順序輸出 {location, character, reassign}。
//   - bosses：TwinBoss 解析成 "Twin <敵人名>"。
//   - spheres：proof string 逐行套 sphereRgx。
func NewSpoilerLog(s *rset.Settings, c *rando.Config, proof string) (SpoilerLog, error) {
	if s == nil || c == nil {
		return SpoilerLog{}, errs.NewWarn("settings and config are required")
	}

	log := SpoilerLog{
		Characters: []CharacterSpoiler{},
		KeyItems:   []KeyItemSpoiler{},
		Bosses:     []BossSpoiler{},
		Objectives: []ObjectiveSpoiler{},
		Spheres:    []SphereSpoiler{},
	}

	if s.GameFlags.Has(rset.GFBucketList) {
		numObjs := s.BucketSettings.NumObjectives
		for i, obj := range c.Objectives {
			if i >= numObjs {
				break
			}
			log.Objectives = append(log.Objectives, ObjectiveSpoiler{
				Name: "Objective " + strconv.Itoa(i+1),
				Desc: obj.Desc,
			})
		}
	}

	for _, spot := range c.RecruitSpots {
		assign, ok := c.CharAssign[spot]
		if !ok {
			return SpoilerLog{}, errs.Fatalf("recruit spot without assignment: %s", spot)
		}
		log.Characters = append(log.Characters, CharacterSpoiler{
			Location:  spot,
			Character: assign.HeldChar,
			Reassign:  assign.Reassign,
		})
	}

	for _, ki := range c.KeyItems {
		log.KeyItems = append(log.KeyItems, KeyItemSpoiler{
			Location: ki.Location,
			Key:      ki.KeyItem,
		})
	}

	for _, spot := range c.BossSpots {
		name, err := c.BossDisplayName(spot)
		if err != nil {
			return SpoilerLog{}, err
		}
		log.Bosses = append(log.Bosses, BossSpoiler{Location: spot, Boss: name})
	}

	log.Spheres = ParseSpheres(proof)
	return log, nil
}

// ParseSpheres 把 proof string 逐行解析成 {sphere, desc}。
// 空行與完全不匹配的行直接略過。
func ParseSpheres(proof string) []SphereSpoiler {
	out := []SphereSpoiler{}
	start := 0
	for i := 0; i <= len(proof); i++ {
		if i != len(proof) && proof[i] != '\n' {
			continue
		}
		line := proof[start:i]
		start = i + 1
		m := sphereRgx.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var sp SphereSpoiler
		for gi, name := range sphereRgx.SubexpNames() {
			switch name {
			case "sphere":
				sp.Sphere = m[gi]
			case "desc":
				sp.Desc = m[gi]
			}
		}
		out = append(out, sp)
	}
	return out
}
