package waveform

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache analiz sonuçlarını SQLite'ta saklar. Kayıt, dosyanın boyutu ve
// değişiklik zamanı eşleştiği sürece geçerlidir.
type Cache struct {
	db *sql.DB
}

// OpenCache veritabanını açar ve tabloyu oluşturur.
func OpenCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("önbellek dizini oluşturulamadı: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("veritabanı açılamadı: %w", err)
	}
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS analysis (
		path TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		mtime INTEGER NOT NULL,
		sample_rate INTEGER NOT NULL,
		duration REAL NOT NULL,
		peak_db REAL NOT NULL,
		samples BLOB NOT NULL
	);`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("tablo oluşturulamadı: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get geçerli bir kayıt varsa döner.
func (c *Cache) Get(ctx context.Context, path string, info os.FileInfo) (Analysis, bool, error) {
	var (
		size, mtime int64
		rate        int
		duration    float64
		peakDB      float64
		blob        []byte
	)
	row := c.db.QueryRowContext(ctx,
		`SELECT size, mtime, sample_rate, duration, peak_db, samples FROM analysis WHERE path = ?`, path)
	err := row.Scan(&size, &mtime, &rate, &duration, &peakDB, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, false, nil
	}
	if err != nil {
		return Analysis{}, false, err
	}
	if size != info.Size() || mtime != info.ModTime().UnixNano() {
		return Analysis{}, false, nil
	}
	return Analysis{
		SourcePath: path,
		Samples:    decodeSamples(blob),
		SampleRate: rate,
		Duration:   duration,
		PeakDB:     fromStoredDB(peakDB),
		Valid:      true,
	}, true, nil
}

// Put sonucu yazar (varsa üzerine).
func (c *Cache) Put(ctx context.Context, a Analysis, info os.FileInfo) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis (path, size, mtime, sample_rate, duration, peak_db, samples)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.SourcePath, info.Size(), info.ModTime().UnixNano(), a.SampleRate, a.Duration,
		toStoredDB(a.PeakDB), encodeSamples(a.Samples))
	return err
}

// Forget bir yolun kaydını siler.
func (c *Cache) Forget(ctx context.Context, path string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM analysis WHERE path = ?`, path)
	return err
}

// sessizlik (-Inf) REAL sütununda saklanamadığı için alt sınıra eşlenir
const silenceDB = -1000.0

func toStoredDB(v float64) float64 {
	if math.IsInf(v, -1) || v < silenceDB {
		return silenceDB
	}
	return v
}

func fromStoredDB(v float64) float64 {
	if v <= silenceDB {
		return math.Inf(-1)
	}
	return v
}

func encodeSamples(samples []float32) []byte {
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

func decodeSamples(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

// CachedAnalyzer bir Analyzer'ı önbellekle sarar. Önbellek hataları
// loglanır ve analiz doğrudan yapılır.
type CachedAnalyzer struct {
	Inner Analyzer
	Cache *Cache
}

// Forget yolun önbellek kaydını siler; dosya düzenlendikten sonra çağrılır.
func (c *CachedAnalyzer) Forget(ctx context.Context, path string) error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Forget(ctx, path)
}

func (c *CachedAnalyzer) Analyze(ctx context.Context, path string) (Analysis, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return Analysis{SourcePath: path}, statErr
	}
	if c.Cache != nil {
		a, ok, err := c.Cache.Get(ctx, path, info)
		if err != nil {
			log.Printf("önbellek okunamadı (%s): %v", path, err)
		} else if ok {
			return a, nil
		}
	}

	a, err := c.Inner.Analyze(ctx, path)
	if err != nil || !a.Valid {
		return a, err
	}
	if c.Cache != nil {
		if err := c.Cache.Put(ctx, a, info); err != nil {
			log.Printf("önbelleğe yazılamadı (%s): %v", path, err)
		}
	}
	return a, nil
}
