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

// Package ctjot 提供 web generator 的「組裝入口（assembler）」。
//
// 你可以把 Lab 視為一個「可被 HTTP 層使用的 runtime」，它把三個必需的地基組裝在一起，
// 並提供建立 Generator（單次產 seed 會話）的入口：
//  1. Preset Registry：preset 目錄（Single Source of Truth），定義前端可選的設定組合。
//  2. Engine：外部 randomizer 引擎邊界，負責 settings -> config 的實際運算與 ROM patch。
//  3. Base ROM 來源：未修改的原版 ROM（ct.sfc），一律以 fs.FS 注入。
//
// 設計重點：
//   - Lab 本身不綁定任何「檔案路徑」概念：preset 與 base ROM 來源一律以 fs.FS 注入。
//   - Generator 是對外提供產 seed 的最小單位；一個 Generator 對應一個 seed 的生命週期
//     （roll -> patch -> spoiler / ROM 下載）。
//   - 放置邏輯永遠屬於 Engine；本包只做表單轉換、會話管理與結果重組。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Lab 建立 Generator，處理一次產 seed 請求。
//   - 抽樣分析（mroll）：對 mystery 權重大量 roll 統計旗標分布。
package ctjot

import (
	"crypto/rand"
	"io/fs"
	"math/big"
	"strings"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/preset"
	"github.com/coffeemancy/ctjot-web-generator/rando"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// BaseRomName base ROM 在注入的 fs.FS 內的固定檔名（無檔頭的原版 ROM）
const BaseRomName = "ct.sfc"

// Presets 用來把一或多個 preset 來源（fs.FS）打包成 New() 需要的參數。
//
// 為什麼是 fs.FS：
//   - 你可以用 go:embed 把 preset 直接編進 binary（部署最穩定，不依賴工作目錄）。
//   - 也可以用 os.DirFS 在本機開發時讀取目錄。
func Presets(src ...fs.FS) []fs.FS {
	return src
}

// Lab 是「組裝器（assembler）」：
//
// 使用流程通常分成兩階段：
//   - 組裝階段：載入 preset 目錄、檢查重複與缺漏，然後 Freeze。
//   - 執行階段：依請求建立 Generator，在 Generator 上 roll / patch。
//
// 重要設計原則：
//   - runtime 一旦開始（已對外服務），不再變更 preset registry。
//   - Lab 不持有任何單一 seed 的狀態；seed 狀態都在 Generator 內。
type Lab struct {
	presets *preset.Registry
	eng     rando.Engine
	romFS   fs.FS
}

// New 建立一個 Lab instance。
//
// 參數要求（是合約的一部分）：
//   - eng 不能為 nil：沒有引擎就無法 roll config。
//   - romFS 不能為 nil：產 ROM 需要原版 ct.sfc。
//   - presetFS 至少一個：沒有 preset 來源，前端沒有可選設定。
func New(eng rando.Engine, romFS fs.FS, presetFS []fs.FS) (*Lab, error) {
	if eng == nil {
		return nil, errs.NewFatal("engine required")
	}
	if romFS == nil {
		return nil, errs.NewFatal("base rom fs required")
	}
	reg, err := preset.New(presetFS...)
	if err != nil {
		return nil, err
	}
	return &Lab{
		presets: reg,
		eng:     eng,
		romFS:   romFS,
	}, nil
}

// NewAuto 建立一個直接進入執行階段的 Lab instance：
// 載入全部 preset、檢查 base ROM 可讀，然後 Freeze。
func NewAuto(eng rando.Engine, romFS fs.FS, presetFS []fs.FS) (*Lab, error) {
	lab, err := New(eng, romFS, presetFS)
	if err != nil {
		return nil, err
	}
	if err := lab.presets.LoadAll(); err != nil {
		return nil, err
	}
	if _, err := lab.BaseRom(); err != nil {
		return nil, err
	}
	lab.presets.Freeze()
	return lab, nil
}

func (l *Lab) Presets() *preset.Registry {
	return l.presets
}

func (l *Lab) Engine() rando.Engine {
	return l.eng
}

// BaseRom 讀入原版 ROM。
// 這份資料只拿來 roll config 與伺服端 patch；使用者自己的 ROM 不經過伺服器。
func (l *Lab) BaseRom() ([]byte, error) {
	data, err := fs.ReadFile(l.romFS, BaseRomName)
	if err != nil {
		return nil, errs.Wrap(err, "can not read base rom "+BaseRomName)
	}
	return data, nil
}

// RandomSeed 產生隨機 seed 字串：從引擎附帶的名單中抽兩個名字串接。
func (l *Lab) RandomSeed() (string, error) {
	names := l.eng.Names()
	if len(names) == 0 {
		return "", errs.NewFatal("engine name list is empty")
	}
	var sb strings.Builder
	for i := 0; i < 2; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(names))))
		if err != nil {
			return "", errs.Wrap(err, "random seed failed")
		}
		sb.WriteString(names[n.Int64()])
	}
	return sb.String(), nil
}

// NewGenerator 建立一個新的產 seed 會話（尚未 roll）。
func (l *Lab) NewGenerator() *Generator {
	return &Generator{lab: l, eng: l.eng}
}

// NewGeneratorFromState 用庫存的 settings/config 重建會話
// （分享連結：spoiler 顯示 / ROM 下載走這裡）。
func (l *Lab) NewGeneratorFromState(s *rset.Settings, c *rando.Config) (*Generator, error) {
	if s == nil || c == nil {
		return nil, errs.NewWarn("settings and config are required")
	}
	return &Generator{lab: l, eng: l.eng, settings: s, config: c}, nil
}
