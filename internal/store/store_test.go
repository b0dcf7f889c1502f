package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

func sampleTrade(id string) *models.Trade {
	return &models.Trade{
		ID:       id,
		Strategy: "BB TRAP",
		Signal: models.Signal{
			Action:     models.ActionBuy,
			Symbol:     "NIFTY1!",
			EntryPrice: 25560.2,
			StopLoss:   25520.2,
			Target:     25640.2,
		},
		Legs: []models.OrderLeg{
			{ContractType: models.ContractCall, Action: models.OrderSideBuy, Strike: 25600, Price: 140.5, SecurityID: "42885"},
			{ContractType: models.ContractPut, Action: models.OrderSideSell, Strike: 25500, Price: 97.25, SecurityID: "42886"},
		},
		Results: []models.DispatchResult{
			{Success: true, ClientName: "alpha", Leg: models.OrderLeg{ContractType: models.ContractCall, Action: models.OrderSideBuy, Strike: 25600, Price: 140.5, SecurityID: "42885"}, BrokerResponse: `{"orderId":"1"}`},
			{Success: false, ClientName: "bravo", Leg: models.OrderLeg{ContractType: models.ContractPut, Action: models.OrderSideSell, Strike: 25500, Price: 97.25, SecurityID: "42886"}, ErrorDetail: "rejected"},
		},
		Status:    models.TradeFailed,
		CreatedAt: time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC),
	}
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "trades.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleTrade("TRD-1")
	if err := s.SaveTrade(ctx, want); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	got, err := s.GetTradeByID(ctx, "TRD-1")
	if err != nil {
		t.Fatalf("GetTradeByID: %v", err)
	}
	if !reflect.DeepEqual(got.Signal, want.Signal) {
		t.Errorf("signal mismatch:\n got %+v\nwant %+v", got.Signal, want.Signal)
	}
	if !reflect.DeepEqual(got.Legs, want.Legs) {
		t.Errorf("legs mismatch:\n got %+v\nwant %+v", got.Legs, want.Legs)
	}
	if !reflect.DeepEqual(got.Results, want.Results) {
		t.Errorf("results mismatch:\n got %+v\nwant %+v", got.Results, want.Results)
	}
	if got.Status != models.TradeFailed {
		t.Errorf("expected status FAILED, got %s", got.Status)
	}
}

func TestSQLiteStore_GetTradesFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleTrade("TRD-1")
	second := sampleTrade("TRD-2")
	second.Signal.Symbol = "BANKNIFTY1!"
	second.Status = models.TradeActive
	second.CreatedAt = first.CreatedAt.Add(time.Minute)

	for _, trade := range []*models.Trade{first, second} {
		if err := s.SaveTrade(ctx, trade); err != nil {
			t.Fatalf("SaveTrade: %v", err)
		}
	}

	all, err := s.GetTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(all))
	}
	if all[0].ID != "TRD-2" {
		t.Errorf("expected newest first, got %s", all[0].ID)
	}

	bySymbol, err := s.GetTrades(ctx, TradeFilter{Symbol: "NIFTY1!"})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(bySymbol) != 1 || bySymbol[0].ID != "TRD-1" {
		t.Errorf("symbol filter returned %+v", bySymbol)
	}

	byStatus, err := s.GetTrades(ctx, TradeFilter{Status: models.TradeActive})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != "TRD-2" {
		t.Errorf("status filter returned %+v", byStatus)
	}
}

func TestBackupLog_AppendLoad(t *testing.T) {
	log := NewBackupLog(filepath.Join(t.TempDir(), "backup.jsonl"))

	// Absent file reads as empty.
	trades, err := log.Load()
	if err != nil {
		t.Fatalf("Load on absent file: %v", err)
	}
	if len(trades) != 0 {
		t.Fatalf("expected empty log, got %d records", len(trades))
	}

	first := sampleTrade("TRD-1")
	second := sampleTrade("TRD-2")
	if err := log.Append(first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	trades, err = log.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 records, got %d", len(trades))
	}
	if trades[0].ID != "TRD-1" || trades[1].ID != "TRD-2" {
		t.Errorf("append order not preserved: %s, %s", trades[0].ID, trades[1].ID)
	}
	if !reflect.DeepEqual(trades[0].Results, first.Results) {
		t.Errorf("results mismatch after reload")
	}
}

func TestBackupLog_Replay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	log := NewBackupLog(filepath.Join(t.TempDir(), "backup.jsonl"))

	// TRD-1 is already in the primary; replay must skip it.
	already := sampleTrade("TRD-1")
	if err := s.SaveTrade(ctx, already); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}
	if err := log.Append(already); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(sampleTrade("TRD-2")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	replayed, err := log.Replay(ctx, s)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if replayed != 1 {
		t.Errorf("expected 1 replayed record, got %d", replayed)
	}

	if _, err := s.GetTradeByID(ctx, "TRD-2"); err != nil {
		t.Errorf("TRD-2 not replayed into primary: %v", err)
	}

	// Log is truncated after a successful replay.
	trades, err := log.Load()
	if err != nil {
		t.Fatalf("Load after replay: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected truncated log, got %d records", len(trades))
	}
}

// failingStore simulates a primary store outage.
type failingStore struct{}

func (f *failingStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	return errors.New("database is locked")
}

func (f *failingStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	return nil, errors.New("database is locked")
}

func (f *failingStore) GetTradeByID(ctx context.Context, id string) (*models.Trade, error) {
	return nil, errors.New("database is locked")
}

func (f *failingStore) Close() error { return nil }

func TestPersister_PrimaryWrite(t *testing.T) {
	s := newTestStore(t)
	log := NewBackupLog(filepath.Join(t.TempDir(), "backup.jsonl"))
	p := NewPersister(PersisterConfig{Primary: s, Backup: log, Strategy: "BB TRAP", Logger: zerolog.Nop()})

	src := sampleTrade("ignored")
	trade, err := p.Persist(context.Background(), &src.Signal, src.Legs, src.Results)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if trade.Status != models.TradeFailed {
		t.Errorf("expected derived status FAILED, got %s", trade.Status)
	}
	if trade.Strategy != "BB TRAP" {
		t.Errorf("expected strategy tag, got %s", trade.Strategy)
	}

	stored, err := s.GetTradeByID(context.Background(), trade.ID)
	if err != nil {
		t.Fatalf("trade not in primary: %v", err)
	}
	if !reflect.DeepEqual(stored.Legs, src.Legs) {
		t.Errorf("legs mismatch after persist")
	}

	// Nothing should land in the backup log on the happy path.
	backed, _ := log.Load()
	if len(backed) != 0 {
		t.Errorf("expected empty backup log, got %d records", len(backed))
	}
}

func TestPersister_FallsBackToBackupLog(t *testing.T) {
	log := NewBackupLog(filepath.Join(t.TempDir(), "backup.jsonl"))
	p := NewPersister(PersisterConfig{Primary: &failingStore{}, Backup: log, Strategy: "BB TRAP", Logger: zerolog.Nop()})

	src := sampleTrade("ignored")
	trade, err := p.Persist(context.Background(), &src.Signal, src.Legs, src.Results)
	if err != nil {
		t.Fatalf("Persist with fallback: %v", err)
	}

	backed, err := log.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(backed) != 1 || backed[0].ID != trade.ID {
		t.Fatalf("expected trade in backup log, got %+v", backed)
	}
}

func TestPersister_BothPathsDownIsFatal(t *testing.T) {
	// Backup path nests under a regular file, so creating it fails too.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("writing blocker file: %v", err)
	}
	log := NewBackupLog(filepath.Join(blocker, "backup.jsonl"))
	p := NewPersister(PersisterConfig{Primary: &failingStore{}, Backup: log, Strategy: "BB TRAP", Logger: zerolog.Nop()})

	src := sampleTrade("ignored")
	_, err := p.Persist(context.Background(), &src.Signal, src.Legs, src.Results)
	if err == nil {
		t.Fatal("expected fatal persistence error")
	}
	if !apperrors.Is(err, apperrors.ErrPersistenceFailed) {
		t.Errorf("expected ErrPersistenceFailed, got %v", err)
	}
	var pErr *apperrors.PersistenceError
	if !apperrors.As(err, &pErr) || !pErr.Fallback {
		t.Errorf("expected PersistenceError with Fallback=true, got %v", err)
	}
}
