package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

const (
	keyDeltaToken = "deltaToken"
	fieldValue    = "value"
)

// Settings хранит настройки движка (delta token'ы) в конфигурационной таблице.
type Settings struct {
	store Store
}

// NewSettings creates settings backed by the config table of store
func NewSettings(store Store) *Settings {
	return &Settings{store: store}
}

func deltaTokenKey(table, queryID string) string {
	return keyDeltaToken + "|" + table + "|" + queryID
}

// GetDeltaToken returns the max updatedAt already pulled for (table, queryID).
// Returns the Unix epoch if no pull has been recorded yet.
func (s *Settings) GetDeltaToken(ctx context.Context, table, queryID string) (time.Time, error) {
	item, err := s.store.Lookup(ctx, TableConfig, deltaTokenKey(table, queryID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			// Первый pull: начинаем с эпохи
			return time.Unix(0, 0).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("failed to get delta token: %w", err)
	}

	raw, _ := item[fieldValue].(string)
	token, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse delta token %q: %w", raw, err)
	}
	return token.UTC(), nil
}

// SetDeltaToken saves the delta token for (table, queryID)
func (s *Settings) SetDeltaToken(ctx context.Context, table, queryID string, token time.Time) error {
	item := models.Item{
		"id":       deltaTokenKey(table, queryID),
		fieldValue: token.UTC().Format(time.RFC3339Nano),
	}
	if err := s.store.Upsert(ctx, TableConfig, []models.Item{item}, false); err != nil {
		return fmt.Errorf("failed to save delta token: %w", err)
	}
	return nil
}

// ResetDeltaToken removes the delta token so the next pull starts from the epoch
func (s *Settings) ResetDeltaToken(ctx context.Context, table, queryID string) error {
	if err := s.store.Delete(ctx, TableConfig, []string{deltaTokenKey(table, queryID)}); err != nil {
		return fmt.Errorf("failed to reset delta token: %w", err)
	}
	return nil
}

// ResetDeltaTokens removes every delta token recorded for table
func (s *Settings) ResetDeltaTokens(ctx context.Context, table string) error {
	records, err := s.store.Read(ctx, query.New(TableConfig))
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	prefix := deltaTokenKey(table, "")
	var ids []string
	for _, record := range records {
		if strings.HasPrefix(record.ID(), prefix) {
			ids = append(ids, record.ID())
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.Delete(ctx, TableConfig, ids); err != nil {
		return fmt.Errorf("failed to reset delta tokens: %w", err)
	}
	return nil
}
