package model

import (
	"time"
)

// Tenant represents an isolated customer account owning users and catalogs.
// This is the root aggregate of the multi-tenant architecture.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Users    []User    `json:"users,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
	Catalogs []Catalog `json:"catalogs,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}
