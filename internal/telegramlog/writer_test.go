package telegramlog

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/enoceanmqtt/core/internal/ringbuffer"
)

// setupWriterDB creates an in-memory SQLite database with the telegram_log
// schema, matching migrations/20260118_120000_telegram_log.up.sql.
func setupWriterDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE telegram_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id    TEXT    NOT NULL,
			received_at TEXT    NOT NULL,
			sender_id   TEXT    NOT NULL,
			rorg        TEXT    NOT NULL,
			data_hex    TEXT    NOT NULL,
			status      INTEGER NOT NULL,
			rssi_dbm    INTEGER NOT NULL,
			device_name TEXT    NOT NULL DEFAULT '',
			eep_id      TEXT    NOT NULL DEFAULT '',
			is_teach_in INTEGER NOT NULL DEFAULT 0
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriter_StartStop(t *testing.T) {
	db := setupWriterDB(t)
	w := NewWriter(db)

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("second Start() error: %v", err)
	}

	w.Stop()
	w.Stop() // double-stop should not panic
}

func TestWriter_Record(t *testing.T) {
	db := setupWriterDB(t)
	w := NewWriter(db)

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	entry := ringbuffer.TelegramEntry{
		ID:         "0196c3b4-0000-7000-8000-000000000001",
		Timestamp:  time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC),
		SenderID:   "0182E673",
		RORG:       "A5",
		DataHex:    "A50BA8019782E673001FFFFF",
		Status:     0x00,
		DBm:        -62,
		DeviceName: "kitchen-sensor",
		EEPID:      "A5-02-05",
		IsTeachIn:  false,
	}

	w.Record(entry)

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM telegram_log`).Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != 1 {
		t.Fatalf("telegram_log row count = %d, want 1", count)
	}

	var entryID, senderID, rorg, deviceName string
	var isTeachIn int
	err := db.QueryRow(`SELECT entry_id, sender_id, rorg, device_name, is_teach_in FROM telegram_log`).
		Scan(&entryID, &senderID, &rorg, &deviceName, &isTeachIn)
	if err != nil {
		t.Fatalf("row query: %v", err)
	}
	if entryID != entry.ID || senderID != entry.SenderID || rorg != entry.RORG || deviceName != entry.DeviceName || isTeachIn != 0 {
		t.Errorf("row = (%q, %q, %q, %q, %d), want (%q, %q, %q, %q, 0)",
			entryID, senderID, rorg, deviceName, isTeachIn, entry.ID, entry.SenderID, entry.RORG, entry.DeviceName)
	}
}

func TestWriter_RecordAssignsIDWhenMissing(t *testing.T) {
	db := setupWriterDB(t)
	w := NewWriter(db)

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	w.Record(ringbuffer.TelegramEntry{SenderID: "0182E673", RORG: "A5"})

	var entryID string
	if err := db.QueryRow(`SELECT entry_id FROM telegram_log`).Scan(&entryID); err != nil {
		t.Fatalf("row query: %v", err)
	}
	if entryID == "" {
		t.Error("entry_id should be auto-assigned when the entry has no ID")
	}
}

func TestWriter_RecordBeforeStart(t *testing.T) {
	db := setupWriterDB(t)
	w := NewWriter(db)

	// Record before Start should be a no-op, not a panic.
	w.Record(ringbuffer.TelegramEntry{SenderID: "0182E673", RORG: "A5"})

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM telegram_log`).Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != 0 {
		t.Fatalf("telegram_log row count = %d, want 0", count)
	}
}

func TestWriter_RecordAfterStop(t *testing.T) {
	db := setupWriterDB(t)
	w := NewWriter(db)

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	w.Stop()

	w.Record(ringbuffer.TelegramEntry{SenderID: "0182E673", RORG: "A5"})

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM telegram_log`).Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != 0 {
		t.Fatalf("telegram_log row count = %d, want 0 after Stop()", count)
	}
}
