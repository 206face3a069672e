// internal/models/produce.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// GenesisDetails is the note written into the first provenance entry of every
// produce record at registration time.
const GenesisDetails = "Produce registered by farmer"

// ProduceRecord is a tracked unit of agricultural goods. Its integer id is
// assigned by a database sequence, so ids stay monotonic even under concurrent
// registration. Producer, type and origin are immutable once set; owner and
// price change only through the transfer operation, which also appends to
// History in the same database transaction.
type ProduceRecord struct {
	ID             uint64       `json:"id" gorm:"primaryKey;autoIncrement"`
	ProducerID     uuid.UUID    `json:"producer_id" gorm:"type:uuid;not null;index"`
	ProduceType    string       `json:"produce_type" gorm:"size:100;not null"`
	OriginLocation string       `json:"origin_location" gorm:"size:255"`
	Quality        QualityGrade `json:"quality" gorm:"type:varchar(20);not null"`
	Price          float64      `json:"price" gorm:"type:decimal(10,2);not null"`
	CurrentOwnerID uuid.UUID    `json:"current_owner_id" gorm:"type:uuid;not null;index"`
	RegisteredAt   time.Time    `json:"registered_at" gorm:"not null"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// History is the append-only provenance log, oldest first. It is never
	// empty: registration writes the genesis entry together with the record.
	History []Transfer `json:"history,omitempty" gorm:"foreignKey:ProduceID"`

	// Relationships
	Producer     *Participant `json:"producer,omitempty" gorm:"foreignKey:ProducerID"`
	CurrentOwner *Participant `json:"current_owner,omitempty" gorm:"foreignKey:CurrentOwnerID"`
}

// Transfer is one immutable provenance entry. FromParticipantID is NULL only
// for the genesis entry written at registration. Insertion order (the primary
// key) is chronological order.
type Transfer struct {
	ID                uint64     `json:"-" gorm:"primaryKey;autoIncrement"`
	ProduceID         uint64     `json:"-" gorm:"not null;index"`
	Timestamp         time.Time  `json:"timestamp" gorm:"not null"`
	FromParticipantID *uuid.UUID `json:"from,omitempty" gorm:"type:uuid"`
	ToParticipantID   uuid.UUID  `json:"to" gorm:"type:uuid;not null"`
	Price             float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	Details           string     `json:"details" gorm:"type:text;not null"`
}
