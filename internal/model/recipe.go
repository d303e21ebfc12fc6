package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// NutritionKeys is the fixed key set every persisted recipe carries in
// nutrition_info. Missing values are filled with NutritionUnknown, never
// dropped.
var NutritionKeys = []string{
	"calories", "fat", "cholesterol", "sodium", "carbs", "fiber", "sugar", "protein",
}

// NutritionUnknown is the placeholder stored when a nutrient value could not
// be determined.
const NutritionUnknown = "unknown"

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// NutritionInfo is a flat nutrient-name to value mapping stored as JSONB.
// It is always an object on the wire, never an array.
type NutritionInfo map[string]string

// Value implements the driver.Valuer interface
func (n NutritionInfo) Value() (driver.Value, error) {
	if len(n) == 0 {
		return "{}", nil
	}
	return json.Marshal(n)
}

// Scan implements the sql.Scanner interface
func (n *NutritionInfo) Scan(value interface{}) error {
	if value == nil {
		*n = NutritionInfo{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, n)
}

// Complete reports whether every fixed nutrition key is present with a
// non-empty value.
func (n NutritionInfo) Complete() bool {
	for _, key := range NutritionKeys {
		if v, ok := n[key]; !ok || v == "" {
			return false
		}
	}
	return true
}

// Recipe is the canonical recipe record. UserID is immutable after creation;
// ID and CreatedAt are assigned by the store.
type Recipe struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	UserID           string           `gorm:"size:255;not null;index" json:"user_id"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	Highlight        string           `gorm:"type:text" json:"highlight"`
	Tags             JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tag"`
	Ingredients      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	NutritionInfo    NutritionInfo    `gorm:"type:jsonb;not null;default:'{}'" json:"nutrition_info"`
	Image            string           `gorm:"size:512" json:"image,omitempty"`
	SupportingImages JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"supporting_images,omitempty"`
	Embedding        pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

// HasTag reports whether the recipe's tag set intersects the given set.
func (r *Recipe) HasTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range r.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
