package appointment

import "github.com/Agenda-Right-Time/agenda-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

// O status bruto gravado na linha pode divergir do estado real dos
// pagamentos após falhas parciais. Nunca exiba o status bruto: use
// DeriveStatus.
type Status string

const (
	StatusPendente   Status = "pendente"
	StatusConfirmado Status = "confirmado"
	StatusAgendado   Status = "agendado"
	StatusConcluido  Status = "concluido"
	StatusCancelado  Status = "cancelado"
)

// Terminal indica estados que nunca são sobrescritos por pagamento.
func (s Status) Terminal() bool {
	return s == StatusConcluido || s == StatusCancelado
}

type PaymentStatus string

const (
	PaymentPendente PaymentStatus = "pendente"
	PaymentPago     PaymentStatus = "pago"
)

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current.Terminal() {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanComplete(current Status) error {
	if current.Terminal() {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// InitialStatus é o status de uma reserva pública aguardando pagamento.
func InitialStatus() Status {
	return StatusPendente
}

// DirectBookingStatus é o status de um agendamento criado pelo próprio
// profissional no painel, sem cobrança antecipada.
func DirectBookingStatus() Status {
	return StatusConfirmado
}
