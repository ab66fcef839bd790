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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// GenerateRequest 產 seed 表單。
//
// Preset 欄位是前端 hidden field 帶回的完整 preset JSON
// （options.js 依使用者勾選即時改寫），這裡不拆欄位、原樣轉交。
type GenerateRequest struct {
	Preset     json.RawMessage `json:"preset"`              // 完整 preset JSON
	Seed       string          `json:"seed,omitempty"`      // 可選：留空由伺服端產生
	SpoilerLog bool            `json:"spoiler_log"`         // false = race seed（seed 會加 nonce）
	Cosmetics  *RomRequest     `json:"cosmetics,omitempty"` // 可選：產 seed 時順帶套用的外觀設定
}

// DecodeGenerateRequest 會把 HTTP 請求解碼成 GenerateRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（preset/seed/spoiler_log）。
//     注意：GET 僅適合簡單測試；cosmetics 巢狀欄位請用 POST。
//   - POST：從 JSON body 反序列化。
//
// 注意：
//   - 這裡只負責「解碼（decode）」與基本型別轉換，不做任何設定合法性校驗；
//     合法性（preset 是否可解析、seed 是否可用）由上層（Generator）決定。
//   - 為避免過大 body 影響服務，POST 會對 body 做大小限制（預設 1MiB）。
//   - POST 會開啟 DisallowUnknownFields()，對未知欄位採用嚴格拒絕，以避免靜默丟資料。
func DecodeGenerateRequest(r *http.Request) (*GenerateRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(GenerateRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		if s := q.Get("preset"); s != "" {
			req.Preset = json.RawMessage(s)
		}
		req.Seed = q.Get("seed")

		if s := q.Get("spoiler_log"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.NewWarn("invalid spoiler_log value " + err.Error())
			}
			req.SpoilerLog = v
		}
		return req, nil

	case http.MethodPost:
		if err := decodeJSONBody(r, req); err != nil {
			return nil, err
		}
		return req, nil

	default:
		return nil, fmt.Errorf("method not allowed")
	}
}

// ParseSettings 把 preset JSON 轉成 Settings 並套用 seed 覆寫。
// 只做型別轉換與 preset 自帶的基本檢查；seed 產生等邏輯在上層。
func (gr *GenerateRequest) ParseSettings() (*rset.Settings, error) {
	if len(gr.Preset) == 0 {
		return nil, errs.NewWarn("preset is required")
	}
	p, err := rset.GetPresetByJSON(gr.Preset)
	if err != nil {
		return nil, err
	}
	s := &p.Settings
	if gr.Seed != "" {
		s.Seed = gr.Seed
	}
	return s, nil
}

// RomRequest 下載 ROM 時的外觀設定表單。
//
// 數值欄位沿用表單的 1-based 值（battle_speed 1..8），套用時才轉內部值並 clamp；
// 布林欄位用指標表達 tri-state：nil = 表單未提供，沿用 seed 原設定。
type RomRequest struct {
	ReduceFlashes       bool `json:"reduce_flashes"`
	ZenanAltBattleMusic bool `json:"zenan_alt_battle_music"`
	DeathPeakAltMusic   bool `json:"death_peak_alt_music"`
	QuietMode           bool `json:"quiet_mode"`
	AutoRun             bool `json:"auto_run"`

	CronoName string `json:"crono_name,omitempty"`
	MarleName string `json:"marle_name,omitempty"`
	LuccaName string `json:"lucca_name,omitempty"`
	RoboName  string `json:"robo_name,omitempty"`
	FrogName  string `json:"frog_name,omitempty"`
	AylaName  string `json:"ayla_name,omitempty"`
	MagusName string `json:"magus_name,omitempty"`
	EpochName string `json:"epoch_name,omitempty"`

	BattleSpeed      *int `json:"battle_speed,omitempty"`       // 表單值 1..8
	MenuBackground   *int `json:"menu_background,omitempty"`    // 表單值 1..8
	BattleMsgSpeed   *int `json:"battle_msg_speed,omitempty"`   // 表單值 1..8
	BattleGaugeStyle *int `json:"battle_gauge_style,omitempty"` // 0..2

	StereoAudio      *bool `json:"stereo_audio,omitempty"`
	SaveMenuCursor   *bool `json:"save_menu_cursor,omitempty"`
	SaveBattleCursor *bool `json:"save_battle_cursor,omitempty"`
	SkillItemInfo    *bool `json:"skill_item_info,omitempty"`
	ConsistentPaging *bool `json:"consistent_paging,omitempty"`
}

// DecodeRomRequest 會把 HTTP 請求解碼成 RomRequest。
//
// 支援：
//   - GET：從 query string 讀取參數；tri-state 欄位以「是否出現在 query」判定有無提供。
//   - POST：從 JSON body 反序列化（限制同 DecodeGenerateRequest）。
func DecodeRomRequest(r *http.Request) (*RomRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(RomRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()

		var err error
		if req.ReduceFlashes, err = queryBool(q.Get("reduce_flashes")); err != nil {
			return nil, errs.NewWarn("invalid reduce_flashes value " + err.Error())
		}
		if req.ZenanAltBattleMusic, err = queryBool(q.Get("zenan_alt_battle_music")); err != nil {
			return nil, errs.NewWarn("invalid zenan_alt_battle_music value " + err.Error())
		}
		if req.DeathPeakAltMusic, err = queryBool(q.Get("death_peak_alt_music")); err != nil {
			return nil, errs.NewWarn("invalid death_peak_alt_music value " + err.Error())
		}
		if req.QuietMode, err = queryBool(q.Get("quiet_mode")); err != nil {
			return nil, errs.NewWarn("invalid quiet_mode value " + err.Error())
		}
		if req.AutoRun, err = queryBool(q.Get("auto_run")); err != nil {
			return nil, errs.NewWarn("invalid auto_run value " + err.Error())
		}

		req.CronoName = q.Get("crono_name")
		req.MarleName = q.Get("marle_name")
		req.LuccaName = q.Get("lucca_name")
		req.RoboName = q.Get("robo_name")
		req.FrogName = q.Get("frog_name")
		req.AylaName = q.Get("ayla_name")
		req.MagusName = q.Get("magus_name")
		req.EpochName = q.Get("epoch_name")

		for _, f := range []struct {
			key string
			dst **int
		}{
			{"battle_speed", &req.BattleSpeed},
			{"menu_background", &req.MenuBackground},
			{"battle_msg_speed", &req.BattleMsgSpeed},
			{"battle_gauge_style", &req.BattleGaugeStyle},
		} {
			if s := q.Get(f.key); s != "" {
				v, err := strconv.Atoi(s)
				if err != nil {
					return nil, errs.NewWarn(fmt.Sprintf("invalid %s: %v", f.key, err))
				}
				*f.dst = &v
			}
		}

		for _, f := range []struct {
			key string
			dst **bool
		}{
			{"stereo_audio", &req.StereoAudio},
			{"save_menu_cursor", &req.SaveMenuCursor},
			{"save_battle_cursor", &req.SaveBattleCursor},
			{"skill_item_info", &req.SkillItemInfo},
			{"consistent_paging", &req.ConsistentPaging},
		} {
			if q.Has(f.key) {
				v, err := queryBool(q.Get(f.key))
				if err != nil {
					return nil, errs.NewWarn(fmt.Sprintf("invalid %s: %v", f.key, err))
				}
				*f.dst = &v
			}
		}
		return req, nil

	case http.MethodPost:
		if err := decodeJSONBody(r, req); err != nil {
			return nil, err
		}
		return req, nil

	default:
		return nil, fmt.Errorf("method not allowed")
	}
}

// CharNames 依固定順序回傳表單的八個命名欄位（空字串 = 未提供）
func (rr *RomRequest) CharNames() [8]string {
	return [8]string{
		rr.CronoName, rr.MarleName, rr.LuccaName, rr.RoboName,
		rr.FrogName, rr.AylaName, rr.MagusName, rr.EpochName,
	}
}

// CosmeticFlags 把表單的布林欄位組回 bitset
func (rr *RomRequest) CosmeticFlags() rset.CosmeticFlags {
	var f rset.CosmeticFlags
	if rr.ReduceFlashes {
		f |= rset.CosReduceFlash
	}
	if rr.ZenanAltBattleMusic {
		f |= rset.CosZenanAltMusic
	}
	if rr.DeathPeakAltMusic {
		f |= rset.CosDeathPeakAltMusic
	}
	if rr.QuietMode {
		f |= rset.CosQuietMode
	}
	if rr.AutoRun {
		f |= rset.CosAutorun
	}
	return f
}

func queryBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// decodeJSONBody POST body 共通解碼：1MiB 上限 + 未知欄位嚴格拒絕
func decodeJSONBody(r *http.Request, dst any) error {
	const maxBody = 1 << 20
	body := io.LimitReader(r.Body, maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
