package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coffeemancy/ctjot-web-generator"
	"github.com/coffeemancy/ctjot-web-generator/dto"
	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/rando"
	"github.com/coffeemancy/ctjot-web-generator/rset"
	"github.com/coffeemancy/ctjot-web-generator/server/httperr"
	"github.com/coffeemancy/ctjot-web-generator/server/svrcfg"
	"github.com/coffeemancy/ctjot-web-generator/store"
)

// Generate 產 seed：表單 -> settings -> roll -> 入庫 -> 回分享資訊。
func (h *SeedHandler) Generate(w http.ResponseWriter, q *http.Request) {
	// 請求方法、結構體校驗
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := dto.DecodeGenerateRequest(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// 請求解析完成，設置超時 context
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	g := h.lab.NewGenerator()
	nonce, err := g.ConfigureFromForm(ctx, req)
	if err != nil {
		httperr.Log(h.log, "generate failed", err)
		httperr.Errs(w, err)
		return
	}
	race := !req.SpoilerLog
	if race {
		h.log.Debug("race seed rolled", slog.String("nonce", nonce))
	}

	hash, err := g.SeedHash(ctx)
	if err != nil {
		httperr.Log(h.log, "patch failed", err)
		httperr.Errs(w, err)
		return
	}

	shareID, err := h.persist(ctx, g, hash, race)
	if err != nil {
		httperr.Log(h.log, "persist failed", err)
		httperr.Errs(w, err)
		return
	}

	writeJSON(w, dto.NewSeedResponse(shareID, g.Settings(), hash, race))
}

// Clone 以既有 seed 的 settings 重 roll 一個新 seed。
// mystery seed 會被 Generator 以 Warn 等級拒絕（HTTP 400）。
func (h *SeedHandler) Clone(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	stored, err := h.st.GetSeed(ctx, chi.URLParam(q, "shareID"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	s, err := rset.GetSettingsByJSON(stored.Settings)
	if err != nil {
		httperr.Log(h.log, "stored settings unreadable", err)
		httperr.Errs(w, err)
		return
	}

	g := h.lab.NewGenerator()
	if _, err := g.ConfigureFromSettings(ctx, s, stored.Race); err != nil {
		httperr.Errs(w, err)
		return
	}
	hash, err := g.SeedHash(ctx)
	if err != nil {
		httperr.Log(h.log, "patch failed", err)
		httperr.Errs(w, err)
		return
	}
	shareID, err := h.persist(ctx, g, hash, stored.Race)
	if err != nil {
		httperr.Log(h.log, "persist failed", err)
		httperr.Errs(w, err)
		return
	}

	writeJSON(w, dto.NewSeedResponse(shareID, g.Settings(), hash, stored.Race))
}

// Share 分享頁資訊。mystery seed 只說 "Mystery seed!"。
func (h *SeedHandler) Share(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	shareID := chi.URLParam(q, "shareID")
	stored, g, err := h.restore(ctx, shareID)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	var details bytes.Buffer
	if err := g.ShareDetails(&details); err != nil {
		httperr.Log(h.log, "share details failed", err)
		httperr.Errs(w, err)
		return
	}

	writeJSON(w, dto.ShareDetails{
		ShareID: shareID,
		Details: details.String(),
		Race:    stored.Race,
		Mystery: g.Settings().IsMystery(),
	})
}

// Spoiler web spoiler log。race seed 在 clone 前不開放。
func (h *SeedHandler) Spoiler(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	stored, g, err := h.restore(ctx, chi.URLParam(q, "shareID"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if stored.Race {
		httperr.Errs(w, errs.NewWarn("spoiler log is locked for race seeds"))
		return
	}

	spoiler, err := g.WebSpoilerLog()
	if err != nil {
		httperr.Log(h.log, "spoiler build failed", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, spoiler)
}

// Rom 套用外觀表單、patch 原版 ROM 並串流 .sfc。
func (h *SeedHandler) Rom(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	form, err := dto.DecodeRomRequest(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	shareID := chi.URLParam(q, "shareID")
	stored, g, err := h.restore(ctx, shareID)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	g.ApplyCosmetics(form)

	rom, err := g.GenerateROM(ctx)
	if err != nil {
		httperr.Log(h.log, "patch failed", err)
		httperr.Errs(w, err)
		return
	}

	// 第一次下載順手把 hash 補回庫存，分享頁就不用再 patch 一次
	if len(stored.Hash) == 0 {
		if hash, err := g.SeedHash(ctx); err == nil {
			if err := h.st.SetHash(ctx, shareID, hash); err != nil {
				h.log.Warn("hash backfill failed", slog.Any("err", err))
			}
		}
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+g.RomName(shareID)+`"`)
	_, _ = w.Write(rom)
}

// ============================================================
// ** SeedHandler **
// ============================================================

type SeedHandler struct {
	lab     *ctjot.Lab
	st      *store.Store
	log     *slog.Logger
	timeout time.Duration
}

func NewSeedHandler(sCfg *svrcfg.SvrCfg) (*SeedHandler, error) {
	if sCfg == nil || sCfg.Lab == nil || sCfg.Store == nil {
		return nil, errs.NewFatal("build seed handler error: lab and store are required")
	}
	return &SeedHandler{
		lab:     sCfg.Lab,
		st:      sCfg.Store,
		log:     sCfg.Log,
		timeout: sCfg.GenTimeout,
	}, nil
}

// persist 把 roll 完的 Generator 狀態寫入庫存，回傳新 share id。
func (h *SeedHandler) persist(ctx context.Context, g *ctjot.Generator, hash []byte, race bool) (string, error) {
	settingsJSON, err := g.Settings().EncodeCompact()
	if err != nil {
		return "", err
	}
	configJSON, err := json.Marshal(g.Config())
	if err != nil {
		return "", errs.Wrap(err, "encode config error")
	}
	return h.st.SaveSeed(ctx, &store.Seed{
		Settings: settingsJSON,
		Config:   configJSON,
		Hash:     hash,
		Race:     race,
	})
}

// restore 從庫存還原一個已 roll 的 Generator（不重 roll）。
func (h *SeedHandler) restore(ctx context.Context, shareID string) (*store.Seed, *ctjot.Generator, error) {
	stored, err := h.st.GetSeed(ctx, shareID)
	if err != nil {
		return nil, nil, err
	}
	s, err := rset.GetSettingsByJSON(stored.Settings)
	if err != nil {
		return nil, nil, errs.Wrap(err, "stored settings unreadable")
	}
	var c rando.Config
	if err := json.Unmarshal(stored.Config, &c); err != nil {
		return nil, nil, errs.Wrap(err, "stored config unreadable")
	}
	g, err := h.lab.NewGeneratorFromState(s, &c)
	if err != nil {
		return nil, nil, err
	}
	g.SetSeedHash(stored.Hash)
	return stored, g, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httperr.Errs(w, err)
	}
}
