package dto

import "time"

// SessionDTO é uma sessão individual de um pacote mensal.
type SessionDTO struct {
	ID          uint      `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Value       float64   `json:"value"`
}

// BookingDTO é a visão reconciliada exibida no painel: status derivado,
// nunca o bruto, com pacotes agregados em uma entrada só.
type BookingDTO struct {
	ID   uint   `json:"id"`
	Kind string `json:"kind"` // "single" | "package"

	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	PercentPaid int       `json:"percent_paid"`
	Value       float64   `json:"value"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ServiceName string `json:"service_name"`
	Notes       string `json:"notes,omitempty"`

	PackageToken      string       `json:"package_token,omitempty"`
	Sessions          []SessionDTO `json:"sessions,omitempty"`
	CancelledSessions int          `json:"cancelled_sessions,omitempty"`
	CompletedSessions int          `json:"completed_sessions,omitempty"`
}
