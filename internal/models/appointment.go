package models

import "time"

type Appointment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"index" json:"owner_id"`

	ClientID *uint  `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	// Reservas públicas podem chegar só com o e-mail do cliente.
	ClientEmail string `gorm:"size:100" json:"client_email"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	ProfessionalID uint         `gorm:"index" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	ScheduledAt time.Time `gorm:"index" json:"scheduled_at"`

	// Status bruto gravado na linha. A tela nunca exibe este campo
	// diretamente: o status de exibição é derivado junto com os
	// pagamentos (ver domain/appointment).
	Status string `gorm:"size:20;default:'pendente'" json:"status"`

	Value     float64 `json:"value"`
	ValuePaid float64 `json:"value_paid"`

	// Texto livre. Sessões de pacote mensal carregam aqui o token
	// compartilhado, ex.: "[pacote:PKG-1a2b3c4d]".
	Notes string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
