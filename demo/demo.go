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

// Package demo 提供開箱即用的組裝：demoengine + 內建 preset。
// base ROM（ct.sfc）有版權，不隨專案發佈，必須由呼叫端指定目錄。
package demo

import (
	"os"
	"time"

	"github.com/coffeemancy/ctjot-web-generator"
	"github.com/coffeemancy/ctjot-web-generator/demo/demo_presets"
	"github.com/coffeemancy/ctjot-web-generator/demo/demoengine"
	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/server/logger"
	"github.com/coffeemancy/ctjot-web-generator/server/svrcfg"
	"github.com/coffeemancy/ctjot-web-generator/store"
)

// NewLab 用 demoengine 與內建 preset 組一個 Lab。
// romDir 是含 ct.sfc 的目錄。
func NewLab(romDir string) (*ctjot.Lab, error) {
	return ctjot.NewAuto(
		demoengine.New(),
		os.DirFS(romDir),
		ctjot.Presets(demo_presets.FS),
	)
}

// NewServerConfig 組一份可直接交給 server.Run 的設定。
// 回傳的 store.Store 由呼叫端負責在服務結束後 Close。
func NewServerConfig(romDir, dbPath string) (*svrcfg.SvrCfg, error) {
	lab, err := NewLab(romDir)
	if err != nil {
		return nil, errs.NewFatal("new lab failed:" + err.Error())
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	scfg := &svrcfg.SvrCfg{
		Log:        logger.NewDefaultAsyncLogger(logger.ModeDev),
		GenTimeout: 10 * time.Second,
		Lab:        lab,
		Store:      st,
	}
	return scfg, nil
}
