package rset

import (
	"bytes"
	"encoding/json"

	"github.com/coffeemancy/ctjot-web-generator/errs"
	"gopkg.in/yaml.v3"
)

// PresetMetadata preset 檔的描述欄位（顯示在前端下拉選單）
type PresetMetadata struct {
	Name string `yaml:"name" json:"name"`
	Desc string `yaml:"desc" json:"desc"`
}

// Preset 是一份 preset 檔的完整內容：metadata + settings。
// 瀏覽器表單的 hidden field 送回來的就是這個結構的 JSON。
type Preset struct {
	Metadata PresetMetadata `yaml:"metadata" json:"metadata"`
	Settings Settings       `yaml:"settings" json:"settings"`
}

// GetPresetByJSON 解析 preset JSON、初始化 settings 並執行基本檢查後回傳。
// 未知欄位直接報錯，避免拼錯欄位被靜默吃掉。
func GetPresetByJSON(data []byte) (*Preset, error) {
	p := &Preset{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall preset json")
	}
	if err := p.init(); err != nil {
		return nil, errs.Wrap(err, "preset initialized err")
	}
	return p, nil
}

// GetPresetByYAML 解析 preset YAML、初始化 settings 並執行基本檢查後回傳
func GetPresetByYAML(data []byte) (*Preset, error) {
	p := &Preset{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err := dec.Decode(p); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall preset yaml")
	}
	if err := p.init(); err != nil {
		return nil, errs.Wrap(err, "preset initialized err")
	}
	return p, nil
}

func (p *Preset) init() error {
	if p.Metadata.Name == "" {
		return errs.NewWarn("preset metadata name required")
	}
	return p.Settings.init()
}

// GetSettingsByJSON 直接解析一份 settings JSON（DB blob / 前端 payload）
func GetSettingsByJSON(data []byte) (*Settings, error) {
	s := &Settings{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall settings json")
	}
	if err := s.init(); err != nil {
		return nil, errs.Wrap(err, "settings initialized err")
	}
	return s, nil
}
