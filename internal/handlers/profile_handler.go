package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// ProfileHandler expõe a conta do dono e as configurações de cobrança
// (percentual antecipado e credencial do provedor PIX).
type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var user models.User
	if err := h.db.First(&user, ownerID).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao carregar perfil.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 user.ID,
		"name":               user.Name,
		"slug":               user.Slug,
		"email":              user.Email,
		"phone":              user.Phone,
		"advance_percentage": user.AdvancePercentage,
		"payment_configured": user.MercadoPagoToken != "",
	})
}

type UpdateProfileRequest struct {
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	AdvancePercentage *int    `json:"advance_percentage"`
	MercadoPagoToken  *string `json:"mercado_pago_token"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	var user models.User
	if err := h.db.First(&user, ownerID).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao carregar perfil.")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.AdvancePercentage != nil {
		pct := *req.AdvancePercentage
		if pct < 1 || pct > 100 {
			httperr.BadRequest(c, "invalid_percentage", "Percentual deve ficar entre 1 e 100.")
			return
		}
		user.AdvancePercentage = pct
	}
	if req.MercadoPagoToken != nil {
		user.MercadoPagoToken = *req.MercadoPagoToken
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao salvar perfil.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
