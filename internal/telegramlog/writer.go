// Package telegramlog writes received telegrams through to a SQLite table,
// supplementing the in-memory ring buffer with durable, queryable history.
package telegramlog

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enoceanmqtt/core/internal/ringbuffer"
)

// Logger is the minimal logging interface the writer needs.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Writer appends every received telegram to the telegram_log table. It is
// write-through, non-blocking to the caller's critical path, and
// best-effort: a write failure is logged and otherwise ignored, since the
// in-memory ring buffer remains the authoritative record.
//
// Thread Safety: all methods are safe for concurrent use.
type Writer struct {
	db     *sql.DB
	logger Logger

	insertStmt *sql.Stmt
	stmtMu     sync.Mutex

	closed bool
	mu     sync.RWMutex
}

// NewWriter returns a Writer for db. The telegram_log table must already
// exist (see migrations/20260118_120000_telegram_log.up.sql).
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// SetLogger sets the logger used for write failures.
func (w *Writer) SetLogger(logger Logger) {
	w.logger = logger
}

// Start prepares the writer for use. Must be called before Record.
func (w *Writer) Start() error {
	w.stmtMu.Lock()
	defer w.stmtMu.Unlock()

	if w.insertStmt != nil {
		return nil // already started
	}

	stmt, err := w.db.Prepare(`
		INSERT INTO telegram_log
			(entry_id, received_at, sender_id, rorg, data_hex, status, rssi_dbm, device_name, eep_id, is_teach_in)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing telegram_log insert statement: %w", err)
	}

	w.insertStmt = stmt
	w.log("telegram log writer started")
	return nil
}

// Stop closes the writer and releases its prepared statement.
func (w *Writer) Stop() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.stmtMu.Lock()
	defer w.stmtMu.Unlock()

	if w.insertStmt != nil {
		w.insertStmt.Close()
		w.insertStmt = nil
	}

	w.log("telegram log writer stopped")
}

// Record appends entry to the telegram log. Failures are logged, never
// returned: this is a best-effort overflow log, not the source of truth.
func (w *Writer) Record(entry ringbuffer.TelegramEntry) {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return
	}
	w.mu.RUnlock()

	w.stmtMu.Lock()
	stmt := w.insertStmt
	w.stmtMu.Unlock()

	if stmt == nil {
		return // not started
	}

	isTeachIn := 0
	if entry.IsTeachIn {
		isTeachIn = 1
	}

	entryID := entry.ID
	if entryID == "" {
		entryID = uuid.New().String()
	}

	_, err := stmt.Exec(
		entryID,
		entry.Timestamp.Format(time.RFC3339Nano),
		entry.SenderID,
		entry.RORG,
		entry.DataHex,
		entry.Status,
		entry.DBm,
		entry.DeviceName,
		entry.EEPID,
		isTeachIn,
	)
	if err != nil {
		w.logError("recording telegram", err)
	}
}

func (w *Writer) log(msg string, keysAndValues ...any) {
	if w.logger != nil {
		w.logger.Info(msg, keysAndValues...)
	}
}

func (w *Writer) logError(msg string, err error) {
	if w.logger != nil {
		w.logger.Error(msg, "error", err)
	}
}
