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

// Package mystats 對 mystery 權重做蒙地卡羅抽樣，回報實際抽出的
// 設定分布。調 preset 權重的人用它確認「寫下的權重」和「玩家抽到的
// 東西」一致，而不是只靠直覺。
package mystats

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// EnumStat 單一枚舉值的抽中統計
type EnumStat struct {
	Name  string    `json:"Name"`
	Count int       `json:"Count"`
	Rate  PointStat `json:"Rate"`
}

// FlagStat 單一旗標的開啟統計，Prob 是權重表寫的目標機率
type FlagStat struct {
	Name  string    `json:"Name"`
	Prob  float64   `json:"Prob"`
	Count int       `json:"Count"`
	Rate  PointStat `json:"Rate"`
}

// SampleReport mystery 權重抽樣報告
type SampleReport struct {
	Samples int `json:"Samples"`

	GameModes         []EnumStat `json:"GameModes"`
	ItemDifficulties  []EnumStat `json:"ItemDifficulties"`
	EnemyDifficulties []EnumStat `json:"EnemyDifficulties"`
	TechOrders        []EnumStat `json:"TechOrders"`
	ShopPrices        []EnumStat `json:"ShopPrices"`

	Flags []FlagStat `json:"Flags"`
}

// ============================================================
// ** 對外 : 抽樣 **
// ============================================================

// Sample 以 base 為底抽 n 次 mystery 設定並統計結果。
//
// 特性：
//   - 同一個 seed 抽出同一份報告（可重現，方便回歸比對）。
//   - onSample 每抽完一次呼叫一次（可掛進度條），可為 nil。
//   - 每個比例都附 Clopper–Pearson 95% CI；n 太小時區間自然會很寬，
//     報告不會給出騙人的精確度。
func Sample(m *rset.MysterySettings, base *rset.Settings, n int, seed uint64, onSample func()) (*SampleReport, error) {
	if m == nil {
		return nil, errs.NewWarn("mystery settings required")
	}
	if base == nil {
		base = rset.Default()
	}
	if n <= 0 {
		return nil, errs.NewWarn("sample count must be positive")
	}

	r := rand.New(rand.NewPCG(seed, 0))
	flagByName := rset.GameFlagNameSet()

	modeCnt := map[string]int{}
	itemCnt := map[string]int{}
	enemyCnt := map[string]int{}
	techCnt := map[string]int{}
	shopCnt := map[string]int{}
	flagCnt := map[string]int{}

	for i := 0; i < n; i++ {
		s := m.Resolve(base, r)
		modeCnt[string(s.GameMode)]++
		itemCnt[string(s.ItemDifficulty)]++
		enemyCnt[string(s.EnemyDifficulty)]++
		techCnt[string(s.TechOrder)]++
		shopCnt[string(s.ShopPrices)]++
		for name := range m.FlagProb {
			if s.GameFlags.Has(flagByName[name]) {
				flagCnt[name]++
			}
		}
		if onSample != nil {
			onSample()
		}
	}

	out := &SampleReport{
		Samples:           n,
		GameModes:         enumStats(modeCnt, n),
		ItemDifficulties:  enumStats(itemCnt, n),
		EnemyDifficulties: enumStats(enemyCnt, n),
		TechOrders:        enumStats(techCnt, n),
		ShopPrices:        enumStats(shopCnt, n),
	}

	// 旗標依宣告順序輸出，報告逐次比對時 diff 才穩定
	for _, name := range rset.AllGameFlagNames() {
		p, ok := m.FlagProb[name]
		if !ok {
			continue
		}
		k := flagCnt[name]
		hat, ci := proportionCICP(k, n, 0.95)
		out.Flags = append(out.Flags, FlagStat{
			Name:  name,
			Prob:  p,
			Count: k,
			Rate:  PointStat{Hat: hat, CI: ci},
		})
	}

	return out, nil
}

func enumStats(cnt map[string]int, n int) []EnumStat {
	names := make([]string, 0, len(cnt))
	for name := range cnt {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]EnumStat, 0, len(names))
	for _, name := range names {
		hat, ci := proportionCICP(cnt[name], n, 0.95)
		out = append(out, EnumStat{
			Name:  name,
			Count: cnt[name],
			Rate:  PointStat{Hat: hat, CI: ci},
		})
	}
	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}
