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

// Package preset 管理 preset 檔目錄（web 下拉選單的 Single Source of Truth）。
//
// preset 檔來源一律以 fs.FS 注入：
//   - 部署時用 go:embed 把 preset 編進 binary（不依賴工作目錄）。
//   - 開發時可用 os.DirFS 指到本機目錄。
//
// 檔名合約：*.preset.json / *.preset.yaml / *.preset.yml，允許子目錄分類
// （例如 race/、beginner/），但 basename 全域唯一。
package preset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"github.com/coffeemancy/ctjot-web-generator/rset"
)

// Entry 一份已註冊 preset 的目錄資訊
type Entry struct {
	ID       string // metadata name 正規化後的 id（小寫、空白轉底線）
	Metadata rset.PresetMetadata
	FileName string // fs.FS 內的完整路徑
	Contents string // 原始檔內容（空白正規化後的 compact 形式，前端直接嵌入）
}

// Info 是 presets map 的值（前端 'presets-map' JSON script 用）
type Info struct {
	Metadata rset.PresetMetadata `json:"metadata"`
	Contents string              `json:"contents"`
}

// Registry preset 目錄。
// 與 runtime 的關係：LoadAll 之後 Freeze，之後只讀不寫。
type Registry struct {
	byID   map[string]Entry
	ids    []string // 穩定排序
	src    []fs.FS
	frozen bool
}

func New(src ...fs.FS) (*Registry, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no preset fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.Fatalf("preset fs[%d] is nil", i)
		}
	}
	return &Registry{
		byID: map[string]Entry{},
		ids:  make([]string, 0, 16),
		src:  src,
	}, nil
}

// IDFromName metadata name -> preset id（小寫、空白轉底線）
func IDFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// LoadAll 掃描所有來源，解析每個 preset 檔並註冊。
//
// 行為特性：
//  1. Fail-fast：任一檔案讀取/解析失敗立刻回傳 error。
//  2. 原子性：全部檔案成功解析才寫入 registry，不會出現半完成狀態。
//  3. 穩定性：依路徑排序後處理，行為 deterministic。
func (r *Registry) LoadAll() error {
	if r.frozen {
		return errs.NewWarn("can not load when registry already frozen")
	}

	type loaded struct {
		path string
		ent  Entry
	}
	var all []loaded
	seenID := map[string]string{}
	seenFile := map[string]string{}

	for _, src := range r.src {
		var paths []string
		err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") {
				return nil
			}
			if !isPresetName(base) {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return errs.Wrap(err, "walk preset fs failed")
		}
		sort.Strings(paths)

		for _, path := range paths {
			raw, err := fs.ReadFile(src, path)
			if err != nil {
				return errs.Fatalf("read preset failed: %s", path)
			}
			p, err := parsePresetByExt(path, raw)
			if err != nil {
				return errs.Wrap(err, fmt.Sprintf("parse preset failed: %s", path))
			}

			base := filepath.Base(path)
			if prev, ok := seenFile[base]; ok {
				return errs.Fatalf("duplicate preset filename: %s (%s and %s)", base, prev, path)
			}
			seenFile[base] = path

			id := IDFromName(p.Metadata.Name)
			if id == "" {
				return errs.Fatalf("preset name required: %s", path)
			}
			if prev, ok := seenID[id]; ok {
				return errs.Fatalf("duplicate preset id: %s (%s and %s)", id, prev, path)
			}
			seenID[id] = path

			all = append(all, loaded{path: path, ent: Entry{
				ID:       id,
				Metadata: p.Metadata,
				FileName: path,
				Contents: compact(raw),
			}})
		}
	}

	if len(all) == 0 {
		return errs.NewFatal("no preset files found")
	}

	for _, l := range all {
		r.byID[l.ent.ID] = l.ent
		r.ids = append(r.ids, l.ent.ID)
	}
	sort.Strings(r.ids)
	return nil
}

func (r *Registry) Freeze()        { r.frozen = true }
func (r *Registry) IsFrozen() bool { return r.frozen }

func (r *Registry) ByID(id string) (Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

func (r *Registry) IDs() []string {
	if len(r.ids) == 0 {
		return nil
	}
	return append([]string(nil), r.ids...)
}

func (r *Registry) All() []Entry {
	out := make([]Entry, 0, len(r.ids))
	for _, id := range r.IDs() {
		if e, ok := r.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// SettingsByID 重新解析該 preset 的 settings（每次呼叫回傳獨立 copy）
func (r *Registry) SettingsByID(id string) (*rset.Settings, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, errs.Warnf("preset id not found: %s", id)
	}
	for _, src := range r.src {
		raw, err := fs.ReadFile(src, e.FileName)
		if err != nil {
			continue
		}
		p, err := parsePresetByExt(e.FileName, raw)
		if err != nil {
			return nil, err
		}
		return &p.Settings, nil
	}
	return nil, errs.Fatalf("preset file vanished: %s", e.FileName)
}

// Map 回傳 preset id -> {metadata, compact contents}。
// encoding/json 對 map key 做字典序輸出，恰好滿足「依 id 排序」的合約。
func (r *Registry) Map() map[string]Info {
	out := make(map[string]Info, len(r.byID))
	for id, e := range r.byID {
		out[id] = Info{Metadata: e.Metadata, Contents: e.Contents}
	}
	return out
}

func isPresetName(base string) bool {
	lower := strings.ToLower(base)
	return strings.HasSuffix(lower, ".preset.json") ||
		strings.HasSuffix(lower, ".preset.yaml") ||
		strings.HasSuffix(lower, ".preset.yml")
}

func parsePresetByExt(filename string, raw []byte) (*rset.Preset, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return rset.GetPresetByYAML(raw)
	case ".json":
		return rset.GetPresetByJSON(raw)
	default:
		return nil, errs.Fatalf("unsupported preset format: %q", filename)
	}
}

// compact 空白正規化：所有連續空白壓成單一空格
func compact(raw []byte) string {
	return strings.Join(strings.Fields(string(raw)), " ")
}
