package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// ScopedStore é a implementação gorm do Store com o dono fixado na
// construção. Toda query filtra por owner_id; mutações publicam o evento
// de mudança correspondente no bus.
type ScopedStore struct {
	db      *gorm.DB
	bus     events.Bus
	ownerID uint
}

func NewScopedStore(db *gorm.DB, bus events.Bus, ownerID uint) *ScopedStore {
	return &ScopedStore{db: db, bus: bus, ownerID: ownerID}
}

func (s *ScopedStore) Owner() uint {
	return s.ownerID
}

func (s *ScopedStore) GetOwnerAccount(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, s.ownerID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (s *ScopedStore) ListAppointments(
	ctx context.Context,
	f domain.ListFilters,
) ([]models.Appointment, error) {

	q := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("owner_id = ?", s.ownerID)

	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.From != nil {
		q = q.Where("scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("scheduled_at < ?", *f.To)
	}
	if f.ClientEmailContains != "" {
		q = q.Where("client_email ILIKE ?", "%"+f.ClientEmailContains+"%")
	}

	var apps []models.Appointment
	if err := q.Order("scheduled_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *ScopedStore) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ? AND owner_id = ?", id, s.ownerID).
		First(&ap).Error; err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &ap, nil
}

// InsertAppointment cria a linha dentro de uma transação que refaz a
// checagem de conflito com lock, para que duas reservas simultâneas do
// mesmo horário não passem as duas.
func (s *ScopedStore) InsertAppointment(
	ctx context.Context,
	ap *models.Appointment,
	duration time.Duration,
) error {

	ap.OwnerID = s.ownerID
	end := ap.ScheduledAt.Add(duration)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := s.conflictQuery(tx, ap, end).Find(&ids).Error; err != nil {
			return err
		}

		if len(ids) > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}

		return tx.Create(ap).Error
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.Event{
		Table:    "appointments",
		Op:       events.OpInsert,
		OwnerID:  s.ownerID,
		RecordID: ap.ID,
		Status:   ap.Status,
	})
	return nil
}

// conflictQuery seleciona e trava as linhas do profissional que colidem
// com o intervalo [ScheduledAt, end). Seleciona ids em vez de count():
// o Postgres rejeita FOR UPDATE em consulta agregada, e o lock fica
// restrito a appointments por causa do join com services.
func (s *ScopedStore) conflictQuery(tx *gorm.DB, ap *models.Appointment, end time.Time) *gorm.DB {
	return tx.
		Model(&models.Appointment{}).
		Select("appointments.id").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "appointments"}}).
		Joins("JOIN services ON services.id = appointments.service_id").
		Where(
			"appointments.owner_id = ? AND appointments.professional_id = ? AND appointments.status <> 'cancelado'"+
				" AND appointments.scheduled_at < ? AND appointments.scheduled_at + make_interval(mins => services.duration_min) > ?",
			s.ownerID,
			ap.ProfessionalID,
			end,
			ap.ScheduledAt,
		)
}

func (s *ScopedStore) UpdateAppointmentStatus(
	ctx context.Context,
	id uint,
	st domain.Status,
) error {

	res := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND owner_id = ?", id, s.ownerID).
		Update("status", string(st))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}

	s.bus.Publish(ctx, events.Event{
		Table:    "appointments",
		Op:       events.OpUpdate,
		OwnerID:  s.ownerID,
		RecordID: id,
		Status:   string(st),
	})
	return nil
}

func (s *ScopedStore) DeleteAppointments(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).
		Where("id IN ? AND owner_id = ?", ids, s.ownerID).
		Delete(&models.Appointment{}).Error; err != nil {
		return err
	}

	for _, id := range ids {
		s.bus.Publish(ctx, events.Event{
			Table:    "appointments",
			Op:       events.OpDelete,
			OwnerID:  s.ownerID,
			RecordID: id,
		})
	}
	return nil
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (s *ScopedStore) ListPayments(
	ctx context.Context,
	appointmentIDs []uint,
) ([]models.Payment, error) {

	if len(appointmentIDs) == 0 {
		return nil, nil
	}

	var pays []models.Payment
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND appointment_id IN ?", s.ownerID, appointmentIDs).
		Order("created_at ASC").
		Find(&pays).Error; err != nil {
		return nil, err
	}
	return pays, nil
}

func (s *ScopedStore) InsertPayment(ctx context.Context, p *models.Payment) error {
	p.OwnerID = s.ownerID
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}

	ev := events.Event{
		Table:    "payments",
		Op:       events.OpInsert,
		OwnerID:  s.ownerID,
		RecordID: p.ID,
		Status:   p.Status,
	}
	if p.AppointmentID != nil {
		ev.AppointmentID = *p.AppointmentID
	}
	s.bus.Publish(ctx, ev)
	return nil
}

func (s *ScopedStore) UpdatePaymentStatus(
	ctx context.Context,
	id uint,
	st domain.PaymentStatus,
) error {

	var pay models.Payment
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, s.ownerID).
		First(&pay).Error; err != nil {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if st == domain.PaymentPago && pay.AppointmentID != nil {
		var siblings []models.Payment
		if err := s.db.WithContext(ctx).
			Where("owner_id = ? AND appointment_id = ?", s.ownerID, *pay.AppointmentID).
			Find(&siblings).Error; err != nil {
			return err
		}
		// já existe pagamento pago neste agendamento; a cobrança duplicada
		// fica como está para manter no máximo um pago por agendamento
		if domain.HasOtherPaid(siblings, pay.ID) {
			return nil
		}
	}

	if err := s.db.WithContext(ctx).
		Model(&pay).
		Update("status", string(st)).Error; err != nil {
		return err
	}

	ev := events.Event{
		Table:    "payments",
		Op:       events.OpUpdate,
		OwnerID:  s.ownerID,
		RecordID: pay.ID,
		Status:   string(st),
	}
	if pay.AppointmentID != nil {
		ev.AppointmentID = *pay.AppointmentID
	}
	s.bus.Publish(ctx, ev)
	return nil
}

func (s *ScopedStore) DeletePayments(ctx context.Context, appointmentIDs []uint) error {
	if len(appointmentIDs) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).
		Where("owner_id = ? AND appointment_id IN ?", s.ownerID, appointmentIDs).
		Delete(&models.Payment{}).Error
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (s *ScopedStore) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, s.ownerID).
		First(&svc).Error; err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &svc, nil
}

func (s *ScopedStore) GetProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var pro models.Professional
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, s.ownerID).
		First(&pro).Error; err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &pro, nil
}

func (s *ScopedStore) GetOrCreateClient(
	ctx context.Context,
	professionalID *uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	q := s.db.WithContext(ctx).Where("owner_id = ?", s.ownerID)
	if email != "" {
		q = q.Where("email = ?", email)
	} else {
		q = q.Where("phone = ?", phone)
	}

	if err := q.First(&client).Error; err == nil {
		return &client, nil
	}

	client = models.Client{
		OwnerID:        s.ownerID,
		ProfessionalID: professionalID,
		Name:           name,
		Phone:          phone,
		Email:          email,
	}

	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (s *ScopedStore) GetCalendarSettings(
	ctx context.Context,
	professionalID uint,
) (*models.CalendarSettings, error) {

	var cs models.CalendarSettings
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND professional_id = ?", s.ownerID, professionalID).
		First(&cs).Error
	if err != nil {
		// sem configuração não é erro: o cálculo usa o padrão
		return nil, nil
	}
	return &cs, nil
}

func (s *ScopedStore) ListClosedDates(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]models.ClosedDate, error) {

	var out []models.ClosedDate
	q := s.db.WithContext(ctx).
		Where("owner_id = ? AND professional_id = ?", s.ownerID, professionalID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ScopedStore) ListClosedTimeSlots(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]models.ClosedTimeSlot, error) {

	var out []models.ClosedTimeSlot
	q := s.db.WithContext(ctx).
		Where("owner_id = ? AND professional_id = ?", s.ownerID, professionalID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Compile-time check
var _ domain.Store = (*ScopedStore)(nil)
