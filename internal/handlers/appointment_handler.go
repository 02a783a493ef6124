package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	infraRepo "github.com/Agenda-Right-Time/agenda-api/internal/infra/repository"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
	ucAppointment "github.com/Agenda-Right-Time/agenda-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db    *gorm.DB
	bus   events.Bus
	audit *audit.Dispatcher
}

func NewAppointmentHandler(db *gorm.DB, bus events.Bus, auditDispatcher *audit.Dispatcher) *AppointmentHandler {
	return &AppointmentHandler{
		db:    db,
		bus:   bus,
		audit: auditDispatcher,
	}
}

func (h *AppointmentHandler) store(c *gin.Context) domain.Store {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)
	return infraRepo.NewScopedStore(h.db, h.bus, ownerID)
}

// ======================================================
// CREATE (agendamento direto do painel)
// ======================================================

type CreatePrivateRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone"`
	ClientEmail    string `json:"client_email"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var req CreatePrivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	uc := ucAppointment.NewCreatePrivateAppointment(h.store(c), h.audit)
	ap, err := uc.Execute(c.Request.Context(), ownerID, ucAppointment.CreatePrivateAppointmentInput{
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST (visão reconciliada)
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	in := ucAppointment.ListBookingsInput{
		ClientEmailContains: c.Query("client_email"),
	}

	if v := c.Query("professional_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			pid := uint(id)
			in.ProfessionalID = &pid
		}
	}
	if v := c.Query("from"); v != "" {
		if from, err := parseDate(v); err == nil {
			in.From = &from
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err := parseDate(v); err == nil {
			end := to.AddDate(0, 0, 1)
			in.To = &end
		}
	}

	uc := ucAppointment.NewListBookings(h.store(c))
	bookings, err := uc.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	uc := ucAppointment.NewCancelAppointment(h.store(c), h.audit)
	ap, err := uc.Execute(c.Request.Context(), ownerID, uint(id))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	uc := ucAppointment.NewCompleteAppointment(h.store(c), h.audit)
	ap, err := uc.Execute(c.Request.Context(), ownerID, uint(id))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
