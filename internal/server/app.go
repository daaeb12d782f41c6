package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/imrics/DermAI/internal/analysis"
	"github.com/imrics/DermAI/internal/config"
	"github.com/imrics/DermAI/internal/imagestore"
	"github.com/imrics/DermAI/internal/model"
	"github.com/imrics/DermAI/internal/store"
)

type App struct {
	cfg      config.Config
	logger   *logrus.Logger
	db       *pgxpool.Pool
	users    *store.UserStore
	meds     *store.MedicationStore
	entries  *store.EntryStore
	images   imagestore.ImageStore
	analyzer *analysis.Analyzer
}

func New(cfg config.Config, logger *logrus.Logger, db *pgxpool.Pool, images imagestore.ImageStore, analyzer *analysis.Analyzer) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		users:    store.NewUserStore(db),
		meds:     store.NewMedicationStore(db),
		entries:  store.NewEntryStore(db),
		images:   images,
		analyzer: analyzer,
	}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", a.root)
	router.GET("/health", a.health)

	router.POST("/create-user", a.createUser)
	router.GET("/users/:user_id", a.getUser)

	router.POST("/users/:user_id/medications", a.addMedication)
	router.GET("/users/:user_id/medications", a.listMedications)
	router.PUT("/medications/:medication_id", a.updateMedication)
	router.DELETE("/medications/:medication_id", a.deleteMedication)

	router.POST("/users/:user_id/hairline-entries", a.createEntryHandler(model.KindHairline))
	router.POST("/users/:user_id/acne-entries", a.createEntryHandler(model.KindAcne))
	router.POST("/users/:user_id/mole-entries", a.createEntryHandler(model.KindMole))
	router.GET("/users/:user_id/entries", a.listEntries)
	router.GET("/users/:user_id/entries/sequences", a.listSequences)
	router.GET("/entries/:entry_id", a.getEntry)
	router.GET("/images/:image_id", a.getImage)

	router.GET("/users/:user_id/export-pdf", a.exportPDF)

	return router
}

func (a *App) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": a.cfg.AppName,
		"status":  "running",
	})
}

func (a *App) health(c *gin.Context) {
	if err := a.db.Ping(c.Request.Context()); err != nil {
		writeError(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": a.cfg.AppName,
	})
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
