package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/offlinesync/pkg/api"
)

// Item представляет запись таблицы в виде JSON объекта.
// Системные свойства (id, version, updatedAt, deleted) хранятся вместе с данными.
type Item map[string]any

// ID returns the item id or an empty string when it is missing or not a string.
func (i Item) ID() string {
	id, _ := i[api.PropertyID].(string)
	return id
}

// Version returns the opaque server version of the item.
func (i Item) Version() string {
	v, ok := i[api.PropertyVersion]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// UpdatedAt returns the server update timestamp of the item.
func (i Item) UpdatedAt() (time.Time, bool) {
	switch v := i[api.PropertyUpdatedAt].(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	default:
		return time.Time{}, false
	}
}

// IsDeleted reports whether the item carries the soft delete marker.
func (i Item) IsDeleted() bool {
	deleted, _ := i[api.PropertyDeleted].(bool)
	return deleted
}

// Clone returns a deep copy of the item
func (i Item) Clone() Item {
	if i == nil {
		return nil
	}
	out := make(Item, len(i))
	for k, v := range i {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Item(val).Clone())
	case Item:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	default:
		return val
	}
}

// ToItem converts any JSON serializable value into an Item.
func ToItem(v any) (Item, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item, nil
}

// Decode fills v with the item contents.
func (i Item) Decode(v any) error {
	data, err := json.Marshal(i)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode item: %w", err)
	}
	return nil
}
