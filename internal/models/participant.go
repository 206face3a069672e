// internal/models/participant.go
package models

// Participant is a registered actor in the supply chain. The phone number is
// unique across all participants regardless of role; authentication is scoped
// to the phone+role pair. Role and phone are immutable after registration.
type Participant struct {
	BaseModel
	Role   Role    `json:"role" gorm:"type:varchar(20);not null;index"`
	Name   string  `json:"name" gorm:"size:100;not null"`
	Phone  string  `json:"phone" gorm:"uniqueIndex;size:20;not null"`
	Origin *string `json:"origin,omitempty" gorm:"size:255"`

	// Relationships
	RegisteredProduce []ProduceRecord `json:"registered_produce,omitempty" gorm:"foreignKey:ProducerID"`
	OwnedProduce      []ProduceRecord `json:"owned_produce,omitempty" gorm:"foreignKey:CurrentOwnerID"`
}
