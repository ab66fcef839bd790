package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coffeemancy/ctjot-web-generator"
	"github.com/coffeemancy/ctjot-web-generator/demo/demo_presets"
	"github.com/coffeemancy/ctjot-web-generator/demo/demoengine"
	"github.com/coffeemancy/ctjot-web-generator/dto"
	"github.com/coffeemancy/ctjot-web-generator/server/logger"
	"github.com/coffeemancy/ctjot-web-generator/server/svrcfg"
	"github.com/coffeemancy/ctjot-web-generator/store"
)

func newTestCfg(t *testing.T) *svrcfg.SvrCfg {
	t.Helper()
	romFS := fstest.MapFS{
		ctjot.BaseRomName: &fstest.MapFile{Data: make([]byte, 0x80000)},
	}
	lab, err := ctjot.NewAuto(demoengine.New(), romFS, ctjot.Presets(demo_presets.FS))
	if err != nil {
		t.Fatalf("new lab err: %v", err)
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "seeds.db"))
	if err != nil {
		t.Fatalf("open store err: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return &svrcfg.SvrCfg{
		Log:        logger.NewDefaultLogger(logger.ModeSilence),
		GenTimeout: 10 * time.Second,
		Lab:        lab,
		Store:      st,
	}
}

func newTestRouter(t *testing.T, sCfg *svrcfg.SvrCfg) http.Handler {
	t.Helper()
	o, err := NewOptionsHandler(sCfg)
	if err != nil {
		t.Fatalf("new options handler err: %v", err)
	}
	s, err := NewSeedHandler(sCfg)
	if err != nil {
		t.Fatalf("new seed handler err: %v", err)
	}
	r := chi.NewRouter()
	r.Get("/v1/options", o.Options)
	r.Get("/v1/presets", o.Presets)
	r.Post("/v1/generate", s.Generate)
	r.Post("/v1/seed/{shareID}/clone", s.Clone)
	r.Get("/v1/seed/{shareID}", s.Share)
	r.Get("/v1/seed/{shareID}/spoiler", s.Spoiler)
	r.Post("/v1/seed/{shareID}/rom", s.Rom)
	return r
}

func generateSeed(t *testing.T, r http.Handler, body string) dto.SeedResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/generate", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp dto.SeedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response err: %v", err)
	}
	return resp
}

func TestGenerateCreatesShareableSeed(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	resp := generateSeed(t, r, `{"preset":{"metadata":{"name":"t"},"settings":{}},"seed":"LARA","spoiler_log":true}`)
	if len(resp.ShareID) != 10 {
		t.Errorf("share id = %q", resp.ShareID)
	}
	if resp.Seed != "LARA" || resp.Race || resp.FlagString == "" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Hash) != 16 {
		t.Errorf("hash = %q", resp.Hash)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/seed/"+resp.ShareID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("share status = %d", rec.Code)
	}
	var details dto.ShareDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatalf("decode details err: %v", err)
	}
	if details.ShareID != resp.ShareID || details.Race || details.Mystery {
		t.Errorf("details = %+v", details)
	}
	if !strings.Contains(details.Details, "Seed: LARA") {
		t.Errorf("details text = %q", details.Details)
	}
}

func TestGenerateFillsEmptySeed(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	resp := generateSeed(t, r, `{"preset":{"metadata":{"name":"t"},"settings":{}},"spoiler_log":true}`)
	if resp.Seed == "" {
		t.Error("empty seed should be replaced with a random one")
	}
}

func TestRaceSeedSpoilerLocked(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	resp := generateSeed(t, r, `{"preset":{"metadata":{"name":"t"},"settings":{}},"seed":"AYLA","spoiler_log":false}`)
	if !resp.Race {
		t.Fatalf("resp = %+v", resp)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/seed/"+resp.ShareID+"/spoiler", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("race spoiler status = %d", rec.Code)
	}
}

func TestSpoilerForOpenSeed(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	resp := generateSeed(t, r, `{"preset":{"metadata":{"name":"t"},"settings":{}},"seed":"FROG","spoiler_log":true}`)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/seed/"+resp.ShareID+"/spoiler", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("spoiler status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var log dto.SpoilerLog
	if err := json.Unmarshal(rec.Body.Bytes(), &log); err != nil {
		t.Fatalf("decode spoiler err: %v", err)
	}
	if len(log.Characters) == 0 || len(log.KeyItems) == 0 || len(log.Spheres) == 0 {
		t.Errorf("spoiler = %+v", log)
	}
}

func TestCloneRerollsSeed(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	resp := generateSeed(t, r, `{"preset":{"metadata":{"name":"t"},"settings":{}},"seed":"MAGUS","spoiler_log":true}`)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/seed/"+resp.ShareID+"/clone", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clone status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var cloned dto.SeedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cloned); err != nil {
		t.Fatalf("decode clone err: %v", err)
	}
	if cloned.Seed == "MAGUS" {
		t.Error("clone must reroll under a different seed")
	}
	if cloned.ShareID == resp.ShareID {
		t.Error("clone must create a new share id")
	}
}

func TestCloneMysteryRejected(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	resp := generateSeed(t, r, `{"preset":{"metadata":{"name":"m"},"settings":{"gameflags":["GameFlags.MYSTERY"]}},"seed":"ROBO","spoiler_log":true}`)
	if resp.FlagString != "" {
		t.Errorf("mystery seed flag string = %q", resp.FlagString)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/seed/"+resp.ShareID+"/clone", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("mystery clone status = %d", rec.Code)
	}
}

func TestRomDownload(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	resp := generateSeed(t, r, `{"preset":{"metadata":{"name":"t"},"settings":{}},"seed":"EPOCH","spoiler_log":true}`)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/seed/"+resp.ShareID+"/rom", strings.NewReader(`{"crono_name":"Cro"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("rom status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.Len(); got != 0x80000 {
		t.Errorf("rom size = %#x", got)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "ctjot_") || !strings.Contains(cd, resp.ShareID) {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestShareUnknownID(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/seed/nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown share status = %d", rec.Code)
	}
}

func TestOptionsIncludesPresets(t *testing.T) {
	r := newTestRouter(t, newTestCfg(t))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/options", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("options status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"enums_map"`) || !strings.Contains(body, "new_player") {
		t.Errorf("options body = %s", body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/presets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("presets status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "new_player") {
		t.Errorf("presets body = %s", rec.Body.String())
	}
}
