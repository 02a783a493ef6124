package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/httpresp"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

func (h *ClientHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	q := h.db.Where("owner_id = ?", ownerID)

	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	if v := c.Query("professional_id"); v != "" {
		q = q.Where("professional_id = ?", v)
	}

	var clients []models.Client
	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}
