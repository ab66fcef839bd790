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

// Package rando 定義 web generator 與 randomizer engine 之間的邊界。
//
// 真正的 randomizer（邏輯圖求解、物品放置、ROM patch、spoiler 文字產生）
// 是外部元件；本包只定義它對 web 層暴露的合約（Engine）與結果資料模型（Config）。
// web 層永遠只透過 Engine 介面呼叫 engine，不碰其內部。
//
// demo/demoengine 提供一個開發用實作：足以讓 server 與測試跑起來，
// 但不做任何邏輯約束求解。
package rando

import (
	"context"
	"io"

	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// Engine 是 randomizer engine 的最小合約。
//
// 合約要點：
//   - Roll 是純函數語意：同一份 settings（含 seed）必須產出同一份 Config。
//   - Patch 不可修改傳入的 rom slice；回傳新的 ROM bytes 與 seed hash。
//   - 所有阻塞操作都吃 context，呼叫端負責 timeout。
type Engine interface {
	// Roll 依 settings 產出完整的 Config（所有放置結果）。
	Roll(ctx context.Context, s *rset.Settings) (*Config, error)

	// Patch 把 config 套進 vanilla ROM，回傳 patch 後的 ROM bytes 與 seed hash。
	Patch(ctx context.Context, rom []byte, s *rset.Settings, c *Config) (patched []byte, hash []byte, err error)

	// SettingsSpoilers 把 settings 的人類可讀摘要寫進 w（share 頁用）。
	SettingsSpoilers(w io.Writer, s *rset.Settings) error

	// ProofString 回傳 sphere/reachability 證明文字。
	// 每行形如 "1: Key Item @ Location"、"GO: ..."，或無前綴的說明行。
	ProofString(s *rset.Settings, c *Config) (string, error)

	// Names 回傳 engine 內建的 seed 名稱字表（隨機 seed 字串由此組成）。
	Names() []string
}
