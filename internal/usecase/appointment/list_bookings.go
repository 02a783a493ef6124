package appointment

import (
	"context"
	"sort"
	"time"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/dto"
)

type ListBookingsInput struct {
	ProfessionalID      *uint
	From                *time.Time
	To                  *time.Time
	ClientEmailContains string
}

// ListBookings monta a visão reconciliada do painel: lê agendamentos e
// pagamentos, agrega pacotes e deriva o status de exibição de cada
// entrada. Nunca escreve.
type ListBookings struct {
	store domain.Store
}

func NewListBookings(store domain.Store) *ListBookings {
	return &ListBookings{store: store}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) ([]dto.BookingDTO, error) {

	apps, err := uc.store.ListAppointments(ctx, domain.ListFilters{
		ProfessionalID:      in.ProfessionalID,
		From:                in.From,
		To:                  in.To,
		ClientEmailContains: in.ClientEmailContains,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(apps))
	for _, ap := range apps {
		ids = append(ids, ap.ID)
	}

	pays, err := uc.store.ListPayments(ctx, ids)
	if err != nil {
		return nil, err
	}

	paymentsByAppt := domain.GroupPaymentsByAppointment(pays)

	packages, singles := domain.GroupPackages(apps)

	out := make([]dto.BookingDTO, 0, len(singles)+len(packages))

	for _, ap := range singles {
		pp := paymentsByAppt[ap.ID]
		out = append(out, dto.BookingDTO{
			ID:          ap.ID,
			Kind:        "single",
			ScheduledAt: ap.ScheduledAt,
			Status:      string(domain.DeriveStatus(domain.Status(ap.Status), pp)),
			PercentPaid: domain.PercentPaid(ap, pp),
			Value:       ap.Value,
			ClientName:  ap.Client.Name,
			ClientEmail: ap.ClientEmail,
			ServiceName: ap.Service.Name,
			Notes:       ap.Notes,
		})
	}

	for i := range packages {
		pkg := &packages[i]
		rep := pkg.Representative()

		sessions := make([]dto.SessionDTO, 0, len(pkg.Members))
		for _, m := range pkg.Members {
			sessions = append(sessions, dto.SessionDTO{
				ID:          m.ID,
				ScheduledAt: m.ScheduledAt,
				Status:      string(domain.DeriveStatus(domain.Status(m.Status), paymentsByAppt[m.ID])),
				Value:       m.Value,
			})
		}

		out = append(out, dto.BookingDTO{
			ID:                rep.ID,
			Kind:              "package",
			ScheduledAt:       rep.ScheduledAt,
			Status:            string(pkg.DeriveStatus(paymentsByAppt)),
			PercentPaid:       pkg.PercentPaid(paymentsByAppt),
			Value:             pkg.TotalValue,
			ClientName:        rep.Client.Name,
			ClientEmail:       rep.ClientEmail,
			ServiceName:       rep.Service.Name,
			PackageToken:      pkg.Token,
			Sessions:          sessions,
			CancelledSessions: pkg.Cancelled,
			CompletedSessions: pkg.Completed,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})

	return out, nil
}
