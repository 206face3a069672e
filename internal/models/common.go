// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. Records in this system are never deleted
// (the supply chain log is append-only), so there is no soft-delete column.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL (stored as plain JSON text on SQLite)
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type Role string

const (
	RoleFarmer      Role = "farmer"
	RoleDistributor Role = "distributor"
	RoleRetailer    Role = "retailer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleDistributor, RoleRetailer:
		return true
	}
	return false
}

// Successor returns the role that receives ownership from r in the
// farmer -> distributor -> retailer progression. The second return value
// is false for retailers, which are the end of the chain.
func (r Role) Successor() (Role, bool) {
	switch r {
	case RoleFarmer:
		return RoleDistributor, true
	case RoleDistributor:
		return RoleRetailer, true
	}
	return "", false
}

type QualityGrade string

const (
	QualityPremium  QualityGrade = "Premium"
	QualityGradeA   QualityGrade = "Grade A"
	QualityGradeB   QualityGrade = "Grade B"
	QualityStandard QualityGrade = "Standard"
)

func (q QualityGrade) Valid() bool {
	switch q {
	case QualityPremium, QualityGradeA, QualityGradeB, QualityStandard:
		return true
	}
	return false
}
