package preset

import (
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/coffeemancy/ctjot-web-generator/rset"
	"github.com/google/go-cmp/cmp"
)

const presetJSON = `{
  "metadata": {"name": "New Player", "desc": "起手建議設定"},
  "settings": {
    "game_mode": "GameMode.STANDARD",
    "gameflags": ["GameFlags.FIX_GLITCH", "GameFlags.FAST_TABS"]
  }
}`

const presetYAML = `metadata:
  name: Race Standard
  desc: race 常用設定
settings:
  game_mode: GameMode.STANDARD
  item_difficulty: Difficulty.NORMAL
  gameflags:
    - GameFlags.FIX_GLITCH
    - GameFlags.ZEAL_END
`

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"new_player.preset.json":    {Data: []byte(presetJSON)},
		"race/standard.preset.yaml": {Data: []byte(presetYAML)},
		"README.md":                 {Data: []byte("not a preset")},
	}
}

func mustLoad(t *testing.T, src fstest.MapFS) *Registry {
	t.Helper()
	r, err := New(src)
	if err != nil {
		t.Fatalf("New() err: %v", err)
	}
	if err := r.LoadAll(); err != nil {
		t.Fatalf("LoadAll() err: %v", err)
	}
	return r
}

func TestRegistryLoadAll(t *testing.T) {
	r := mustLoad(t, newTestFS())

	want := []string{"new_player", "race_standard"}
	if diff := cmp.Diff(want, r.IDs()); diff != "" {
		t.Fatalf("IDs() mismatch (-want +got):\n%s", diff)
	}

	e, ok := r.ByID("race_standard")
	if !ok {
		t.Fatal("race_standard not found")
	}
	if e.Metadata.Desc != "race 常用設定" {
		t.Errorf("metadata desc = %q", e.Metadata.Desc)
	}
	if strings.Contains(e.Contents, "\n") {
		t.Errorf("contents not compacted: %q", e.Contents)
	}
}

func TestRegistrySettingsByID(t *testing.T) {
	r := mustLoad(t, newTestFS())

	s, err := r.SettingsByID("new_player")
	if err != nil {
		t.Fatalf("SettingsByID() err: %v", err)
	}
	if !s.GameFlags.Has(rset.GFFixGlitch) || !s.GameFlags.Has(rset.GFFastTabs) {
		t.Errorf("gameflags = %v", s.GameFlags.Names())
	}
	// init 應已回填預設角色名
	if s.CharSettings.Names[0] != "Crono" {
		t.Errorf("char name[0] = %q", s.CharSettings.Names[0])
	}

	if _, err := r.SettingsByID("no_such_preset"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestRegistryMapMarshalsSorted(t *testing.T) {
	r := mustLoad(t, newTestFS())

	data, err := json.Marshal(r.Map())
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	// map key 經 encoding/json 輸出必為字典序
	i := strings.Index(string(data), `"new_player"`)
	j := strings.Index(string(data), `"race_standard"`)
	if i < 0 || j < 0 || i > j {
		t.Errorf("presets map not sorted: %s", data)
	}
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	src := newTestFS()
	src["beginner/np.preset.yaml"] = &fstest.MapFile{Data: []byte("metadata:\n  name: New Player\nsettings: {}\n")}

	r, err := New(src)
	if err != nil {
		t.Fatalf("New() err: %v", err)
	}
	if err := r.LoadAll(); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestRegistryRejectsUnknownField(t *testing.T) {
	src := fstest.MapFS{
		"bad.preset.json": {Data: []byte(`{"metadata":{"name":"x"},"settings":{"nope":1}}`)},
	}
	r, err := New(src)
	if err != nil {
		t.Fatalf("New() err: %v", err)
	}
	if err := r.LoadAll(); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestRegistryFrozen(t *testing.T) {
	r := mustLoad(t, newTestFS())
	r.Freeze()
	if !r.IsFrozen() {
		t.Fatal("IsFrozen() = false")
	}
	if err := r.LoadAll(); err == nil {
		t.Fatal("expected error loading after freeze")
	}
}
