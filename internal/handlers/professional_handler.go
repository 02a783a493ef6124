package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/httpresp"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var pros []models.Professional
	if err := h.db.
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&pros).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar profissionais.")
		return
	}

	httpresp.List(c, pros)
}

type ProfessionalRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email"`
	Active *bool  `json:"active"`
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var req ProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	pro := models.Professional{
		OwnerID: ownerID,
		Name:    req.Name,
		Email:   req.Email,
		Active:  true,
	}
	if req.Active != nil {
		pro.Active = *req.Active
	}

	if err := h.db.Create(&pro).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao criar profissional.")
		return
	}

	httpresp.Created(c, pro)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	var req ProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	pro.Name = req.Name
	pro.Email = req.Email
	if req.Active != nil {
		pro.Active = *req.Active
	}

	if err := h.db.Save(&pro).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao atualizar profissional.")
		return
	}

	c.JSON(http.StatusOK, pro)
}
