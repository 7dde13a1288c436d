package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/fatflowers/vcard/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONList is a JSON array column. Malformed or non-array content scans as an
// empty list instead of failing the whole row.
type JSONList[T any] []T

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *JSONList[T]) Scan(src any) error {
	var out []T
	if !decodeLenient(src, &out) {
		*l = nil
		return nil
	}
	*l = out
	return nil
}

func (JSONList[T]) GormDataType() string { return "json" }

func (JSONList[T]) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

// JSONHours stores business hours as a JSON object keyed by weekday.
type JSONHours types.BusinessHours

func (h JSONHours) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]types.DaySchedule(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (h *JSONHours) Scan(src any) error {
	var out map[string]types.DaySchedule
	if !decodeLenient(src, &out) {
		*h = nil
		return nil
	}
	*h = out
	return nil
}

func (JSONHours) GormDataType() string { return "json" }

func (JSONHours) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

func decodeLenient(src any, dst any) bool {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return false
	}
	if len(b) == 0 {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func jsonColumnType(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	case "mysql":
		return "json"
	}
	return "text"
}
