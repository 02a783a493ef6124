package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	"github.com/Agenda-Right-Time/agenda-api/internal/config"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	infraRepo "github.com/Agenda-Right-Time/agenda-api/internal/infra/repository"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	ucAppointment "github.com/Agenda-Right-Time/agenda-api/internal/usecase/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/watch"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serve a tela de reserva do cliente final, resolvendo o
// dono pelo slug da URL.
type PublicHandler struct {
	db       *gorm.DB
	bus      events.Bus
	cfg      *config.Config
	provider domain.PixProvider
	audit    *audit.Dispatcher
}

func NewPublicHandler(
	db *gorm.DB,
	bus events.Bus,
	cfg *config.Config,
	provider domain.PixProvider,
	auditDispatcher *audit.Dispatcher,
) *PublicHandler {
	return &PublicHandler{
		db:       db,
		bus:      bus,
		cfg:      cfg,
		provider: provider,
		audit:    auditDispatcher,
	}
}

func (h *PublicHandler) resolveOwner(c *gin.Context) (*models.User, bool) {
	slug := c.Param("slug")

	var owner models.User
	if err := h.db.Where("slug = ?", slug).First(&owner).Error; err != nil {
		httperr.NotFound(c, "owner_not_found", "Página não encontrada.")
		return nil, false
	}
	return &owner, true
}

func (h *PublicHandler) store(ownerID uint) domain.Store {
	return infraRepo.NewScopedStore(h.db, h.bus, ownerID)
}

// ======================================================
// CATALOG
// ======================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("owner_id = ? AND active = true", owner.ID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	var pros []models.Professional
	if err := h.db.
		Where("owner_id = ? AND active = true", owner.ID).
		Order("name ASC").
		Find(&pros).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar profissionais.")
		return
	}

	c.JSON(http.StatusOK, pros)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	professionalID, err1 := strconv.Atoi(c.Query("professional_id"))
	serviceID, err2 := strconv.Atoi(c.Query("service_id"))
	date, err3 := parseDate(c.Query("date"))
	if err1 != nil || err2 != nil || err3 != nil {
		httperr.BadRequest(c, "invalid_request", "Parâmetros inválidos.")
		return
	}

	uc := ucAppointment.NewGetAvailability(h.store(owner.ID))
	slots, err := uc.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		ProfessionalID: uint(professionalID),
		ServiceID:      uint(serviceID),
		Date:           date,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": formatSlots(slots),
	})
}

// ======================================================
// BOOKING
// ======================================================

type CreateBookingRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone"`
	ClientEmail    string `json:"client_email"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
	Package        bool   `json:"package"`
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	uc := ucAppointment.NewCreateBooking(h.store(owner.ID), h.audit)
	created, err := uc.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		Package:        req.Package,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointments": created})
}

// ======================================================
// PAYMENT
// ======================================================

type RequestPaymentRequest struct {
	Percentage int `json:"percentage"`
}

func (h *PublicHandler) RequestPayment(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	appointmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	var req RequestPaymentRequest
	_ = c.ShouldBindJSON(&req)

	uc := ucAppointment.NewRequestPayment(h.store(owner.ID), h.provider, h.audit, h.cfg)
	pay, err := uc.Execute(c.Request.Context(), uint(appointmentID), req.Percentage)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment_id":  pay.ID,
		"pix_payload": pay.PixPayload,
		"value":       pay.Value,
		"percentage":  pay.Percentage,
		"expires_at":  pay.ExpiresAt,
	})
}

// PaymentStatus devolve o estado atual do pagamento, fazendo uma consulta
// pontual ao provedor quando ainda está pendente.
func (h *PublicHandler) PaymentStatus(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	var pay models.Payment
	if err := h.db.
		Where("id = ? AND owner_id = ?", paymentID, owner.ID).
		First(&pay).Error; err != nil {
		httperr.NotFound(c, "payment_not_found", "Pagamento não encontrado.")
		return
	}

	if domain.PaymentStatus(pay.Status) == domain.PaymentPendente && pay.ProviderReference != "" {
		accessToken := owner.MercadoPagoToken
		if accessToken == "" {
			accessToken = h.cfg.MPAccessToken
		}

		st, err := h.provider.CheckPaymentStatus(c.Request.Context(), accessToken, pay.ProviderReference)
		if err == nil && st == domain.PaymentPago {
			store := h.store(owner.ID)
			if err := store.UpdatePaymentStatus(c.Request.Context(), pay.ID, domain.PaymentPago); err == nil {
				pay.Status = string(domain.PaymentPago)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_id": pay.ID,
		"status":     pay.Status,
	})
}

// ======================================================
// WATCH (SSE)
// ======================================================

// WatchAppointment mantém a tela de pagamento ouvindo a confirmação de um
// agendamento. O watcher combina polling e realtime e garante um único
// evento "confirmed"; fechar a conexão derruba o watch inteiro.
func (h *PublicHandler) WatchAppointment(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	appointmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	accessToken := owner.MercadoPagoToken
	if accessToken == "" {
		accessToken = h.cfg.MPAccessToken
	}

	store := h.store(owner.ID)
	confirmed := make(chan uint, 1)

	check := func(ctx context.Context, reference string) (domain.PaymentStatus, error) {
		return h.provider.CheckPaymentStatus(ctx, accessToken, reference)
	}
	onConfirmed := func(id uint) {
		if id == uint(appointmentID) {
			select {
			case confirmed <- id:
			default:
			}
		}
	}

	interval := time.Duration(h.cfg.PollIntervalSeconds) * time.Second
	watcher := watch.New(store, h.bus, check, onConfirmed, interval)

	stop := watcher.Start(c.Request.Context())
	defer stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case id := <-confirmed:
			c.SSEvent("confirmed", gin.H{"appointment_id": id})
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}
