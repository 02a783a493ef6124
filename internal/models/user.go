package models

import "time"

// User é a conta do profissional dono do negócio (tenant). Todos os
// registros do sistema são escopados pelo ID dele.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Slug         string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:100" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	// Credencial MercadoPago usada para gerar cobranças PIX. Vazia
	// significa "pagamento não configurado".
	MercadoPagoToken string `gorm:"size:255" json:"-"`

	// Percentual do valor do serviço cobrado antecipado via PIX.
	AdvancePercentage int `gorm:"default:50" json:"advance_percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
