package appointment

import (
	"context"
	"time"

	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// ListFilters restringe a listagem de agendamentos. Todos os campos são
// opcionais; o escopo pelo dono já está embutido no Store.
type ListFilters struct {
	Statuses            []Status
	ProfessionalID      *uint
	From                *time.Time // scheduled_at >= From
	To                  *time.Time // scheduled_at <  To
	ClientEmailContains string
}

// Store é a capacidade de acesso a dados de UM dono. O ID do dono é fixado
// na construção e aplicado em toda consulta e mutação, de modo que nenhum
// chamador consegue vazar dados de outro tenant por esquecer um filtro.
type Store interface {
	Owner() uint
	GetOwnerAccount(ctx context.Context) (*models.User, error)

	// -------- Appointments --------
	ListAppointments(ctx context.Context, f ListFilters) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	InsertAppointment(ctx context.Context, ap *models.Appointment, duration time.Duration) error
	UpdateAppointmentStatus(ctx context.Context, id uint, st Status) error
	DeleteAppointments(ctx context.Context, ids []uint) error

	// -------- Payments --------
	ListPayments(ctx context.Context, appointmentIDs []uint) ([]models.Payment, error)
	InsertPayment(ctx context.Context, p *models.Payment) error
	UpdatePaymentStatus(ctx context.Context, id uint, st PaymentStatus) error
	DeletePayments(ctx context.Context, appointmentIDs []uint) error

	// -------- Catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetProfessional(ctx context.Context, id uint) (*models.Professional, error)
	GetOrCreateClient(ctx context.Context, professionalID *uint, name, phone, email string) (*models.Client, error)

	// -------- Calendar (somente leitura para o core) --------
	GetCalendarSettings(ctx context.Context, professionalID uint) (*models.CalendarSettings, error)
	ListClosedDates(ctx context.Context, professionalID uint, date string) ([]models.ClosedDate, error)
	ListClosedTimeSlots(ctx context.Context, professionalID uint, date string) ([]models.ClosedTimeSlot, error)
}

// PixCharge é o resultado de uma cobrança criada no provedor.
type PixCharge struct {
	// Payload copia-e-cola apresentado ao cliente.
	Payload string
	// Reference identifica a cobrança no provedor para consulta posterior.
	Reference string
}

// PixProvider abstrai o provedor de pagamento externo.
type PixProvider interface {
	CreatePixCharge(ctx context.Context, accessToken string, amount float64, description, payerEmail, correlationID string) (*PixCharge, error)
	CheckPaymentStatus(ctx context.Context, accessToken, reference string) (PaymentStatus, error)
}
