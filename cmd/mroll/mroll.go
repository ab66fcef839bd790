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

// mroll 對一份 mystery preset 做大量抽樣，回報實際抽出的設定分布。
// 調權重的人用它驗證 preset 寫的機率和玩家抽到的結果一致。
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/coffeemancy/ctjot-web-generator/demo/demo_presets"
	"github.com/coffeemancy/ctjot-web-generator/mystats"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

var cfg *config = new(config)

type config struct {
	preset  string
	samples int
	seed    int64
	out     string
	showpb  bool
}

func bindVar() {
	flag.StringVar(&cfg.preset, "preset", "", "mystery preset file (.json/.yaml); empty = builtin demo preset")
	flag.IntVar(&cfg.samples, "n", 100000, "number of samples")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.out, "o", "table", "output: table|json|yaml")
	flag.BoolVar(&cfg.showpb, "pb", true, "show progress bar")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
	if cfg.samples < 1 {
		log.Fatal("value err : samples must > 0")
	}
}

func main() {
	bindVar()

	settings, err := loadSettings(cfg.preset)
	if err != nil {
		log.Fatal(err)
	}
	if settings.Mystery == nil {
		log.Fatal("preset has no mystery weights")
	}

	bar := pb.StartNew(cfg.samples)
	if !cfg.showpb {
		bar.SetWriter(io.Discard)
	}
	rep, err := mystats.Sample(settings.Mystery, settings, cfg.samples, uint64(cfg.seed), func() {
		bar.Increment()
	})
	if err != nil {
		log.Fatal(err)
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	switch cfg.out {
	case "json":
		if err := (&mystats.JsonSampleReportRender{}).Write(os.Stdout, rep); err != nil {
			log.Fatal(err)
		}
	case "yaml":
		if err := (&mystats.YAMLSampleReportRender{}).Write(os.Stdout, rep); err != nil {
			log.Fatal(err)
		}
	default:
		rep.StdOut(used)
	}
}

// loadSettings 讀 preset 檔並取出 settings；path 留空用內建 demo preset。
func loadSettings(path string) (*rset.Settings, error) {
	if path == "" {
		data, err := fs.ReadFile(demo_presets.FS, "mystery.preset.yaml")
		if err != nil {
			return nil, err
		}
		p, err := rset.GetPresetByYAML(data)
		if err != nil {
			return nil, err
		}
		return &p.Settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p *rset.Preset
	switch filepath.Ext(path) {
	case ".json":
		p, err = rset.GetPresetByJSON(data)
	case ".yaml", ".yml":
		p, err = rset.GetPresetByYAML(data)
	default:
		return nil, fmt.Errorf("unsupported preset extension: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return &p.Settings, nil
}
