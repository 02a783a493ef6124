package appointment

import "github.com/Agenda-Right-Time/agenda-api/internal/models"

// ===============================
// Status Reconciliation
// ===============================

// DeriveStatus calcula o status de exibição de um agendamento a partir do
// status bruto e dos pagamentos associados. É uma função pura, recomputada
// a cada leitura; a ordem de precedência abaixo é contrato e não pode
// mudar:
//
//  1. concluido  (terminal)
//  2. cancelado  (terminal)
//  3. qualquer pagamento pago   -> agendado
//  4. status bruto confirmado   -> agendado
//  5. qualquer pagamento pendente -> pendente
//  6. fallback no status bruto, normalizando confirmado -> agendado e
//     valores desconhecidos -> pendente
func DeriveStatus(raw Status, payments []models.Payment) Status {
	switch raw {
	case StatusConcluido:
		return StatusConcluido
	case StatusCancelado:
		return StatusCancelado
	}

	anyPaid := false
	anyPending := false
	for _, p := range payments {
		switch PaymentStatus(p.Status) {
		case PaymentPago:
			anyPaid = true
		case PaymentPendente:
			anyPending = true
		}
	}

	if anyPaid {
		return StatusAgendado
	}
	if raw == StatusConfirmado {
		return StatusAgendado
	}
	if anyPending {
		return StatusPendente
	}

	switch raw {
	case StatusPendente, StatusAgendado:
		return raw
	default:
		// status desconhecido degrada para pendente, nunca erro
		return StatusPendente
	}
}

// PercentPaid retorna o percentual pago de um agendamento avulso:
// soma dos pagamentos pagos sobre o valor cobrado, limitado a 100.
// Pacotes usam a regra própria em Package.PercentPaid.
func PercentPaid(ap models.Appointment, payments []models.Payment) int {
	if ap.Value <= 0 {
		return 0
	}

	var paid float64
	for _, p := range payments {
		if PaymentStatus(p.Status) == PaymentPago {
			paid += p.Value
		}
	}

	pct := int(paid / ap.Value * 100)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// GroupPaymentsByAppointment indexa pagamentos pelo agendamento associado.
// Pagamentos sem agendamento (referência pendurada) são ignorados aqui e
// apenas deixam de influenciar qualquer derivação.
func GroupPaymentsByAppointment(payments []models.Payment) map[uint][]models.Payment {
	out := make(map[uint][]models.Payment)
	for _, p := range payments {
		if p.AppointmentID == nil {
			continue
		}
		out[*p.AppointmentID] = append(out[*p.AppointmentID], p)
	}
	return out
}

// HasOtherPaid informa se algum outro pagamento da lista (id diferente do
// informado) já está pago. O agendamento mantém no máximo um pagamento
// pago; cobranças de retry que confirmarem depois não viram pagas.
func HasOtherPaid(payments []models.Payment, paymentID uint) bool {
	for _, p := range payments {
		if p.ID != paymentID && PaymentStatus(p.Status) == PaymentPago {
			return true
		}
	}
	return false
}
