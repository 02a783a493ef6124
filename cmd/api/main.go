package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/config"
	dbpkg "github.com/Agenda-Right-Time/agenda-api/internal/db"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	infraRepo "github.com/Agenda-Right-Time/agenda-api/internal/infra/repository"
	"github.com/Agenda-Right-Time/agenda-api/internal/janitor"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	bus := newBus(cfg)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, bus, cfg)

	startJanitorSweep(cfg, db, bus)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func newBus(cfg *config.Config) events.Bus {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, using in-process event bus")
		return events.NewMemoryBus()
	}

	bus, err := events.NewRedisBus(cfg.RedisAddr)
	if err != nil {
		log.Printf("redis unavailable (%v), using in-process event bus", err)
		return events.NewMemoryBus()
	}
	return bus
}

func startJanitorSweep(cfg *config.Config, db *gorm.DB, bus events.Bus) {
	j := janitor.New(cfg)

	listOwners := func(ctx context.Context) ([]uint, error) {
		var ids []uint
		err := db.WithContext(ctx).
			Model(&models.User{}).
			Pluck("id", &ids).Error
		return ids, err
	}

	stores := func(ownerID uint) domain.Store {
		return infraRepo.NewScopedStore(db, bus, ownerID)
	}

	j.StartSweep(listOwners, stores)
}
