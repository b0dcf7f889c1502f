package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// BackupLog is an append-only JSON-lines log used when the primary
// store is unavailable. Appends never rewrite existing records, and a
// mutex serializes writers within the process.
type BackupLog struct {
	path string
	mu   sync.Mutex
}

// NewBackupLog creates a backup log at path. The file is created lazily
// on first append.
func NewBackupLog(path string) *BackupLog {
	return &BackupLog{path: path}
}

// Append writes one trade record as a single JSON line.
func (b *BackupLog) Append(trade *models.Trade) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	f, err := os.OpenFile(b.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening backup log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("encoding trade: %w", err)
	}
	line = append(line, '\n')

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("appending to backup log: %w", err)
	}
	return f.Sync()
}

// Load reads every record in the log, oldest first. A missing file is
// an empty log, not an error.
func (b *BackupLog) Load() ([]models.Trade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadLocked()
}

func (b *BackupLog) loadLocked() ([]models.Trade, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening backup log: %w", err)
	}
	defer f.Close()

	var trades []models.Trade
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var trade models.Trade
		if err := json.Unmarshal(line, &trade); err != nil {
			return nil, fmt.Errorf("decoding backup record: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading backup log: %w", err)
	}
	return trades, nil
}

// Replay pushes every backed-up record into the primary store and
// truncates the log once all records are accepted. Records already in
// the primary (same id) are skipped. Returns the number replayed.
func (b *BackupLog) Replay(ctx context.Context, primary TradeStore) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	trades, err := b.loadLocked()
	if err != nil {
		return 0, err
	}
	if len(trades) == 0 {
		return 0, nil
	}

	replayed := 0
	for i := range trades {
		if existing, err := primary.GetTradeByID(ctx, trades[i].ID); err == nil && existing != nil {
			continue
		}
		if err := primary.SaveTrade(ctx, &trades[i]); err != nil {
			return replayed, fmt.Errorf("replaying trade %s: %w", trades[i].ID, err)
		}
		replayed++
	}

	if err := os.Truncate(b.path, 0); err != nil {
		return replayed, fmt.Errorf("truncating backup log: %w", err)
	}
	return replayed, nil
}
