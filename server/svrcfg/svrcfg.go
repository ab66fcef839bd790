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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/coffeemancy/ctjot-web-generator"
	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/server/logger"
	"github.com/coffeemancy/ctjot-web-generator/store"
)

type SvrCfg struct {
	Log *slog.Logger

	// GenTimeout 是單一 generate/patch 請求允許的最長時間
	GenTimeout time.Duration

	Lab   *ctjot.Lab
	Store *store.Store
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// 1s <= sc.GenTimeout <= 60s
	// 避免把 engine 掛死的請求留在 handler 裡
	sc.GenTimeout = max(time.Second, sc.GenTimeout)
	sc.GenTimeout = min(60*time.Second, sc.GenTimeout)

	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	if sc.Store == nil {
		return errs.NewFatal("store is required")
	}
	return nil
}
