package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
)

// timeLayout фиксированной ширины, чтобы строки сортировались хронологически
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var scanLogSchema = []string{
	`CREATE TABLE IF NOT EXISTS scans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    device_id TEXT NOT NULL DEFAULT '',
    barcode TEXT NOT NULL,
    format TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL,
    target TEXT NOT NULL DEFAULT '',
    scanned_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at)`,
}

// SQLiteScanLog журнал сканирований в SQLite
type SQLiteScanLog struct {
	db   *sql.DB
	path string
}

// OpenSQLiteScanLog открывает (или создаёт) базу журнала.
func OpenSQLiteScanLog(path string) (*SQLiteScanLog, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure scan log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	for _, stmt := range scanLogSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply scan log schema: %w", err)
		}
	}

	return &SQLiteScanLog{db: db, path: path}, nil
}

// Close закрывает соединение с базой.
func (s *SQLiteScanLog) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record сохраняет запись и проставляет ей ID.
func (s *SQLiteScanLog) Record(ctx context.Context, record *entity.ScanRecord) error {
	scannedAt := record.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (session_id, device_id, barcode, format, outcome, target, scanned_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID,
		record.DeviceID,
		record.Barcode,
		record.Format,
		string(record.Outcome),
		record.Target,
		scannedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	record.ID = id
	record.ScannedAt = scannedAt
	return nil
}

// Recent возвращает последние записи, новые первыми.
func (s *SQLiteScanLog) Recent(ctx context.Context, limit int) ([]entity.ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, device_id, barcode, format, outcome, target, scanned_at
        FROM scans ORDER BY scanned_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var records []entity.ScanRecord
	for rows.Next() {
		var (
			rec       entity.ScanRecord
			outcome   string
			scannedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.DeviceID, &rec.Barcode, &rec.Format, &outcome, &rec.Target, &scannedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec.Outcome = entity.ScanOutcome(outcome)
		if ts, err := time.Parse(timeLayout, scannedAt); err == nil {
			rec.ScannedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return records, nil
}

// Проверка реализации интерфейса
var _ port.ScanLog = (*SQLiteScanLog)(nil)
