package events

import "context"

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Event é uma mudança em uma linha de agendamento ou pagamento, escopada
// pelo dono. É o canal "realtime" consumido pelo listener de confirmação
// e pelo stream SSE do painel.
type Event struct {
	Table   string `json:"table"`
	Op      Op     `json:"op"`
	OwnerID uint   `json:"owner_id"`

	// RecordID é o ID da linha alterada; para eventos de pagamento,
	// AppointmentID carrega também o agendamento associado.
	RecordID      uint   `json:"record_id"`
	AppointmentID uint   `json:"appointment_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Bus publica e entrega eventos por dono. Subscribe devolve o canal e a
// função de cancelamento; após chamá-la nenhuma entrega acontece e o canal
// é fechado.
type Bus interface {
	Publish(ctx context.Context, ev Event)
	Subscribe(ctx context.Context, ownerID uint) (<-chan Event, func())
}
