package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// CalendarHandler gerencia expediente e exceções do profissional. O core
// de disponibilidade só lê estes registros.
type CalendarHandler struct {
	db *gorm.DB
}

func NewCalendarHandler(db *gorm.DB) *CalendarHandler {
	return &CalendarHandler{db: db}
}

// ======================================================
// SETTINGS
// ======================================================

func (h *CalendarHandler) GetSettings(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	professionalID, err := strconv.Atoi(c.Query("professional_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "professional_id inválido.")
		return
	}

	var cs models.CalendarSettings
	if err := h.db.
		Where("owner_id = ? AND professional_id = ?", ownerID, professionalID).
		First(&cs).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"settings": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": cs})
}

type UpsertSettingsRequest struct {
	ProfessionalID      uint   `json:"professional_id" binding:"required"`
	OpenTime            string `json:"open_time" binding:"required"`
	CloseTime           string `json:"close_time" binding:"required"`
	SlotIntervalMinutes int    `json:"slot_interval_minutes"`
	MinLeadMinutes      int    `json:"min_lead_minutes"`
	LunchStart          string `json:"lunch_start"`
	LunchEnd            string `json:"lunch_end"`
	ActiveWeekdays      string `json:"active_weekdays"`
}

func (h *CalendarHandler) UpsertSettings(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var req UpsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var cs models.CalendarSettings
	err := h.db.
		Where("owner_id = ? AND professional_id = ?", ownerID, req.ProfessionalID).
		First(&cs).Error

	cs.OwnerID = ownerID
	cs.ProfessionalID = req.ProfessionalID
	cs.OpenTime = req.OpenTime
	cs.CloseTime = req.CloseTime
	cs.SlotIntervalMinutes = req.SlotIntervalMinutes
	cs.MinLeadMinutes = req.MinLeadMinutes
	cs.LunchStart = req.LunchStart
	cs.LunchEnd = req.LunchEnd
	cs.ActiveWeekdays = req.ActiveWeekdays

	if err == gorm.ErrRecordNotFound {
		err = h.db.Create(&cs).Error
	} else {
		err = h.db.Save(&cs).Error
	}
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro ao salvar expediente.")
		return
	}

	c.JSON(http.StatusOK, cs)
}

// ======================================================
// CLOSED DATES
// ======================================================

type ClosedDateRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Reason         string `json:"reason"`
}

func (h *CalendarHandler) ListClosedDates(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var out []models.ClosedDate
	q := h.db.Where("owner_id = ?", ownerID)
	if v := c.Query("professional_id"); v != "" {
		q = q.Where("professional_id = ?", v)
	}
	if err := q.Order("date ASC").Find(&out).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar datas fechadas.")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *CalendarHandler) CreateClosedDate(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var req ClosedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if _, err := parseDate(req.Date); err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	cd := models.ClosedDate{
		OwnerID:        ownerID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Reason:         req.Reason,
	}
	if err := h.db.Create(&cd).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao salvar data fechada.")
		return
	}

	c.JSON(http.StatusCreated, cd)
}

func (h *CalendarHandler) DeleteClosedDate(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.ClosedDate{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Erro ao remover data fechada.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "not_found", "Registro não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// CLOSED TIME SLOTS
// ======================================================

type ClosedTimeSlotRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Reason         string `json:"reason"`
}

func (h *CalendarHandler) ListClosedTimeSlots(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var out []models.ClosedTimeSlot
	q := h.db.Where("owner_id = ?", ownerID)
	if v := c.Query("professional_id"); v != "" {
		q = q.Where("professional_id = ?", v)
	}
	if v := c.Query("date"); v != "" {
		q = q.Where("date = ?", v)
	}
	if err := q.Order("date ASC, start_time ASC").Find(&out).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar bloqueios.")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *CalendarHandler) CreateClosedTimeSlot(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var req ClosedTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	cs := models.ClosedTimeSlot{
		OwnerID:        ownerID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Reason:         req.Reason,
	}
	if err := h.db.Create(&cs).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao salvar bloqueio.")
		return
	}

	c.JSON(http.StatusCreated, cs)
}

func (h *CalendarHandler) DeleteClosedTimeSlot(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.ClosedTimeSlot{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Erro ao remover bloqueio.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "not_found", "Registro não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}
