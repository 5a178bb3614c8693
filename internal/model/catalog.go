package model

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"
)

// VerticalType is the business category a catalog belongs to
type VerticalType string

const (
	VerticalFashion VerticalType = "fashion"
	VerticalHome    VerticalType = "home"
	VerticalGeneral VerticalType = "general"
)

// Valid reports whether the vertical is one of the known categories
func (v VerticalType) Valid() bool {
	switch v {
	case VerticalFashion, VerticalHome, VerticalGeneral:
		return true
	}
	return false
}

// LocaleList is a set of locale codes stored as a single comma-joined column
type LocaleList []string

// Value implements driver.Valuer
func (l LocaleList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner
func (l *LocaleList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return errors.New("locales: unsupported column type")
	}
	if raw == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(raw, ",")
	return nil
}

// Catalog represents a named product catalog scoped to a tenant, vertical and
// set of locales. Name is unique across all tenants. At most one catalog per
// (tenant, vertical) pair may be primary at any time.
type Catalog struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Vertical  VerticalType `json:"vertical" gorm:"type:varchar(20);not null;index:idx_catalog_tenant_vertical,priority:2"`
	Primary   bool         `json:"primary" gorm:"column:is_primary;default:false"`
	Locales   LocaleList   `json:"locales" gorm:"type:text;not null"`
	IndexedAt *time.Time   `json:"indexed_at"`
	TenantID  uint         `json:"tenant_id" gorm:"not null;index:idx_catalog_tenant_vertical,priority:1"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
