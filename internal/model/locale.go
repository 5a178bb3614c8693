package model

// Locale is a reusable locale code, e.g. "en_US" or "es_ES". The table exists
// in the schema for future catalog/locale association; no operation reads it yet.
type Locale struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(20);uniqueIndex;not null"`
}
