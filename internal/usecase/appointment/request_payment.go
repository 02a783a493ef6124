package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	"github.com/Agenda-Right-Time/agenda-api/internal/config"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

// RequestPayment gera a cobrança PIX de um agendamento e persiste o
// pagamento pendente. O status do agendamento não é tocado aqui: ele só
// muda de exibição quando o pagamento vira pago, via derivação.
type RequestPayment struct {
	store    domain.Store
	provider domain.PixProvider
	audit    *audit.Dispatcher
	cfg      *config.Config
}

func NewRequestPayment(
	store domain.Store,
	provider domain.PixProvider,
	audit *audit.Dispatcher,
	cfg *config.Config,
) *RequestPayment {
	return &RequestPayment{
		store:    store,
		provider: provider,
		audit:    audit,
		cfg:      cfg,
	}
}

// Execute cobra o percentual antecipado de um serviço avulso, ou o valor
// total quando o agendamento pertence a um pacote mensal. percentage <= 0
// usa o percentual configurado na conta.
//
// Credencial ausente falha antes de qualquer escrita; falha do provedor
// também não deixa pagamento pendurado.
func (uc *RequestPayment) Execute(
	ctx context.Context,
	appointmentID uint,
	percentage int,
) (*models.Payment, error) {

	ap, err := uc.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if domain.Status(ap.Status).Terminal() {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	owner, err := uc.store.GetOwnerAccount(ctx)
	if err != nil {
		return nil, err
	}

	accessToken := owner.MercadoPagoToken
	if accessToken == "" {
		accessToken = uc.cfg.MPAccessToken
	}
	if accessToken == "" {
		return nil, httperr.ErrBusiness(httperr.CodeProviderCredentials)
	}

	amount, pct, expiresAt, description, err := uc.charge(ctx, ap, owner, percentage)
	if err != nil {
		return nil, err
	}

	correlationID := fmt.Sprintf("apt-%d-%s", ap.ID, uuid.NewString()[:8])

	charge, err := uc.provider.CreatePixCharge(
		ctx,
		accessToken,
		amount,
		description,
		ap.ClientEmail,
		correlationID,
	)
	if err != nil {
		return nil, err
	}

	pay := &models.Payment{
		AppointmentID:     &ap.ID,
		Value:             amount,
		Percentage:        pct,
		Status:            string(domain.PaymentPendente),
		ProviderReference: charge.Reference,
		PixPayload:        charge.Payload,
		ExpiresAt:         expiresAt,
	}

	if err := uc.store.InsertPayment(ctx, pay); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  uc.store.Owner(),
		Action:   "payment_requested",
		Entity:   "payment",
		EntityID: &pay.ID,
		Metadata: map[string]any{"amount": amount, "percentage": pct},
	})

	return pay, nil
}

func (uc *RequestPayment) charge(
	ctx context.Context,
	ap *models.Appointment,
	owner *models.User,
	percentage int,
) (amount float64, pct int, expiresAt *time.Time, description string, err error) {

	if token, ok := domain.PackageToken(ap.Notes); ok {
		members, lerr := uc.store.ListAppointments(ctx, domain.ListFilters{})
		if lerr != nil {
			return 0, 0, nil, "", lerr
		}

		var total float64
		for _, m := range members {
			if t, ok := domain.PackageToken(m.Notes); ok && t == token {
				total += m.Value
			}
		}
		if total <= 0 {
			total = ap.Value
		}

		// pacote é cobrado integral e sem expiração curta
		return total, 100, nil, "Pacote mensal - " + owner.Name, nil
	}

	pct = percentage
	if pct <= 0 {
		pct = owner.AdvancePercentage
	}
	if pct <= 0 {
		pct = uc.cfg.AdvancePercentDefault
	}
	if pct > 100 {
		pct = 100
	}

	amount = ap.Value * float64(pct) / 100

	exp := timezone.Now().Add(time.Duration(uc.cfg.PixExpiryMinutes) * time.Minute)
	return amount, pct, &exp, "Agendamento - " + owner.Name, nil
}
