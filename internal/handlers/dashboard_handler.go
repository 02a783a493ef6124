package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	infraRepo "github.com/Agenda-Right-Time/agenda-api/internal/infra/repository"
	"github.com/Agenda-Right-Time/agenda-api/internal/janitor"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
	ucAppointment "github.com/Agenda-Right-Time/agenda-api/internal/usecase/appointment"
)

// DashboardHandler monta a visão principal do painel. A cada carga roda a
// limpeza de ciclo de vida em melhor esforço antes de ler.
type DashboardHandler struct {
	db      *gorm.DB
	bus     events.Bus
	janitor *janitor.Janitor
}

func NewDashboardHandler(db *gorm.DB, bus events.Bus, j *janitor.Janitor) *DashboardHandler {
	return &DashboardHandler{db: db, bus: bus, janitor: j}
}

func (h *DashboardHandler) Load(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)
	store := infraRepo.NewScopedStore(h.db, h.bus, ownerID)

	// limpeza nunca bloqueia a leitura: erros são logados dentro dela
	h.janitor.Run(c.Request.Context(), store, timezone.Now())

	today := timezone.DayStart(timezone.Now())
	in := ucAppointment.ListBookingsInput{From: &today}

	uc := ucAppointment.NewListBookings(store)
	bookings, err := uc.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro ao carregar o painel.")
		return
	}

	counts := map[string]int{}
	for _, b := range bookings {
		counts[b.Status]++
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"counts":   counts,
	})
}
