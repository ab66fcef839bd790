package v1

import (
	"net/http"

	"github.com/coffeemancy/ctjot-web-generator/dto"
	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/preset"
	"github.com/coffeemancy/ctjot-web-generator/server/svrcfg"
)

// Options 回傳前端表單需要的全部靜態資料：
// enum 對照表、反查表、forced flags、預設 settings、obhint 別名、presets。
func (h *OptionsHandler) Options(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.payload)
}

// Presets 只回 preset 目錄（表單重新載入用，省掉整包 options）。
func (h *OptionsHandler) Presets(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.presets)
}

// ============================================================
// ** OptionsHandler **
// ============================================================

// OptionsHandler 的 payload 在建構時算好一次：
// preset 目錄啟動後 Freeze，enum 表是編譯期常量，沒有每請求重算的理由。
type OptionsHandler struct {
	payload dto.OptionsPayload
	presets map[string]preset.Info
}

func NewOptionsHandler(sCfg *svrcfg.SvrCfg) (*OptionsHandler, error) {
	if sCfg == nil || sCfg.Lab == nil {
		return nil, errs.NewFatal("build options handler error: lab is required")
	}
	presets := sCfg.Lab.Presets().Map()
	payload, err := dto.NewOptionsPayload(presets)
	if err != nil {
		return nil, errs.Wrap(err, "build options handler error")
	}
	return &OptionsHandler{payload: payload, presets: presets}, nil
}
