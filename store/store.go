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

// Package store 提供 seed 分享的 SQLite 持久層。
//
// 使用純 Go 的 modernc.org/sqlite driver，部署不需要 CGO。
// 一筆記錄對應一個可分享的 seed：settings 與 config 以 JSON blob 保存，
// share id 是隨機 URL-safe 字串，出現在分享連結與 ROM 檔名裡。
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite" // 純 Go SQLite driver
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/coffeemancy/ctjot-web-generator/errs"
)

// shareIDLen 分享 id 長度（URL-safe 字元）
const shareIDLen = 10

// saveRetry share id 撞號時的重試次數。
// id 空間約 64^10，撞號機率極低，重試只是保險。
const saveRetry = 5

// Seed 一筆可分享的 seed 記錄
type Seed struct {
	ShareID   string
	Settings  []byte // settings JSON（canonical name 格式）
	Config    []byte // roll 結果 config JSON
	Hash      []byte // seed hash（可能為空：尚未產過 ROM）
	Race      bool   // true = spoiler 未解禁
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open 開啟（或建立）資料庫並跑 migration。
// 會自動建立父目錄；路徑支援 "~" 展開。
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errs.NewFatal("db path required")
	}
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errs.Wrap(err, "can not expand home directory")
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(err, "can not create db directory")
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errs.Wrap(err, "can not open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errs.Wrap(err, "can not connect to database")
	}

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, errs.Wrap(err, "migration failed")
	}
	return st, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS seeds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			share_id TEXT NOT NULL UNIQUE,
			settings BLOB NOT NULL,
			config BLOB NOT NULL,
			hash BLOB,
			race INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_seeds_share_id ON seeds(share_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSeed 寫入一筆 seed 記錄並回傳產生的 share id。
// share id 由 crypto/rand 產生；撞到 UNIQUE 約束會換號重試。
func (s *Store) SaveSeed(ctx context.Context, seed *Seed) (string, error) {
	if seed == nil {
		return "", errs.NewWarn("nil seed")
	}
	if len(seed.Settings) == 0 || len(seed.Config) == 0 {
		return "", errs.NewWarn("settings and config are required")
	}

	var lastErr error
	for i := 0; i < saveRetry; i++ {
		shareID, err := NewShareID()
		if err != nil {
			return "", err
		}
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO seeds (share_id, settings, config, hash, race) VALUES (?, ?, ?, ?, ?)",
			shareID, seed.Settings, seed.Config, seed.Hash, seed.Race,
		)
		if err == nil {
			seed.ShareID = shareID
			return shareID, nil
		}
		// 只有 share id 撞號才換號重試，其他錯誤（DB 壞掉、schema 不對）直接回報
		if !isUniqueViolation(err) {
			return "", errs.Wrap(err, "can not save seed")
		}
		lastErr = err
	}
	return "", errs.Wrap(lastErr, "share id collision retries exhausted")
}

// isUniqueViolation 判斷是否為 UNIQUE/PRIMARY KEY 約束衝突
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlitelib.SQLITE_CONSTRAINT_UNIQUE || code == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY
}

// GetSeed 依 share id 取回 seed 記錄；不存在回 Warn 級錯誤（對外 404/400）。
func (s *Store) GetSeed(ctx context.Context, shareID string) (*Seed, error) {
	seed := &Seed{}
	var createdAt any
	err := s.db.QueryRowContext(ctx,
		"SELECT share_id, settings, config, hash, race, created_at FROM seeds WHERE share_id = ?",
		shareID,
	).Scan(&seed.ShareID, &seed.Settings, &seed.Config, &seed.Hash, &seed.Race, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Warnf("seed not found: %s", shareID)
	}
	if err != nil {
		return nil, errs.Wrap(err, "can not query seed")
	}

	switch v := createdAt.(type) {
	case time.Time:
		seed.CreatedAt = v
	case string:
		if parsed, perr := time.Parse("2006-01-02 15:04:05", v); perr == nil {
			seed.CreatedAt = parsed
		}
	}
	return seed, nil
}

// Exists 檢查 share id 是否存在
func (s *Store) Exists(ctx context.Context, shareID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM seeds WHERE share_id = ?", shareID,
	).Scan(&n)
	if err != nil {
		return false, errs.Wrap(err, "can not query seed")
	}
	return n > 0, nil
}

// SetHash 回填 seed hash（hash 是 lazy 的：第一次產 ROM 後才有值）
func (s *Store) SetHash(ctx context.Context, shareID string, hash []byte) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE seeds SET hash = ? WHERE share_id = ?", hash, shareID,
	)
	if err != nil {
		return errs.Wrap(err, "can not update seed hash")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.Warnf("seed not found: %s", shareID)
	}
	return nil
}

// NewShareID 產生 URL-safe 的隨機 share id
func NewShareID() (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", errs.Wrap(err, "share id generation failed")
	}
	id := base64.RawURLEncoding.EncodeToString(raw)
	return id[:shareIDLen], nil
}
