package models

import "time"

// CalendarSettings define o expediente de um profissional. A ausência do
// registro não impede reservas: o cálculo de disponibilidade usa um
// padrão documentado (08:00–18:00, 30min, seg–sex).
type CalendarSettings struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OwnerID        uint `gorm:"index" json:"owner_id"`
	ProfessionalID uint `gorm:"uniqueIndex" json:"professional_id"`

	OpenTime  string `gorm:"size:5;default:'08:00'" json:"open_time"`
	CloseTime string `gorm:"size:5;default:'18:00'" json:"close_time"`

	SlotIntervalMinutes int `gorm:"default:30" json:"slot_interval_minutes"`
	MinLeadMinutes      int `gorm:"default:0" json:"min_lead_minutes"`

	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`

	// Dias ativos como CSV de time.Weekday (0=domingo), ex.: "1,2,3,4,5".
	ActiveWeekdays string `gorm:"size:20;default:'1,2,3,4,5'" json:"active_weekdays"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClosedDate struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OwnerID        uint `gorm:"index" json:"owner_id"`
	ProfessionalID uint `gorm:"index" json:"professional_id"`

	// Data no formato 2006-01-02.
	Date   string `gorm:"size:10;index" json:"date"`
	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

type ClosedTimeSlot struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OwnerID        uint `gorm:"index" json:"owner_id"`
	ProfessionalID uint `gorm:"index" json:"professional_id"`

	Date      string `gorm:"size:10;index" json:"date"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Reason    string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
