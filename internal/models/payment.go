package models

import "time"

type Payment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"index" json:"owner_id"`

	AppointmentID *uint `gorm:"index" json:"appointment_id"`

	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`

	Status string `gorm:"size:20;default:'pendente'" json:"status"`

	ProviderReference string `gorm:"size:100;index" json:"provider_reference"`
	PixPayload        string `gorm:"size:1000" json:"pix_payload"`

	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
