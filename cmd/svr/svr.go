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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/coffeemancy/ctjot-web-generator/demo"
	"github.com/coffeemancy/ctjot-web-generator/server"
	"github.com/coffeemancy/ctjot-web-generator/server/logger"
	"github.com/coffeemancy/ctjot-web-generator/server/netsvr"
	"github.com/coffeemancy/ctjot-web-generator/server/svrcfg"
	"github.com/coffeemancy/ctjot-web-generator/store"
)

type config struct {
	Addr    string
	RomDir  string
	DBPath  string
	LogMode string
	Timeout int
}

func main() {
	cfg := loadConfig()

	log, ah := logger.NewAsync(4096, cfg.norm())
	defer ah.Close()

	lab, err := demo.NewLab(cfg.RomDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer st.Close()

	sCfg := &svrcfg.SvrCfg{
		Log:        log,
		GenTimeout: time.Duration(cfg.Timeout) * time.Second,
		Lab:        lab,
		Store:      st,
	}
	server.RunWithSvr(sCfg, netsvr.NewChiServer(cfg.Addr))
}

// loadConfig 讀取設定：flag > .env/環境變數 > 預設值。
// .env 不存在就當沒事，容器佈署多半只給環境變數。
func loadConfig() *config {
	_ = godotenv.Load()

	cfg := new(config)
	flag.StringVar(&cfg.Addr, "addr", envOr("CTJOT_ADDR", ":8086"), "listen address")
	flag.StringVar(&cfg.RomDir, "rom-dir", envOr("CTJOT_ROM_DIR", "."), "directory containing ct.sfc")
	flag.StringVar(&cfg.DBPath, "db", envOr("CTJOT_DB", "ctjot.db"), "sqlite database path")
	flag.StringVar(&cfg.LogMode, "log-mode", envOr("CTJOT_LOG_MODE", "ModeDev"), "log mode: ModeDev|ModeProd|ModeSilence")
	flag.IntVar(&cfg.Timeout, "timeout", 10, "seconds allowed per generate/patch request")

	flag.Parse()
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
