package index

import (
	"net/http"
)

// 首頁不走前端框架，只回一份純文字的路由總表；
// 真正的表單頁由獨立的前端站台提供。
const banner = `ctjot web generator

  GET  /v1/options                enum maps, forced flags, presets
  GET  /v1/presets                preset catalog
  POST /v1/generate               roll a new seed
  GET  /v1/seed/{shareID}         share details
  POST /v1/seed/{shareID}/clone   reroll with a fresh seed
  GET  /v1/seed/{shareID}/spoiler web spoiler log
  POST /v1/seed/{shareID}/rom     patch and download the ROM
`

func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(banner))
}
