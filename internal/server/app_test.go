package server

import (
	"io"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/imrics/DermAI/internal/config"
)

func newTestApp() *App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := config.Config{
		AppName:          "DermAI API",
		CORSAllowOrigins: []string{"http://localhost:5173"},
		ReportDir:        "reports",
	}
	return New(cfg, logger, nil, nil, nil)
}

func TestRouterRegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newTestApp().Router()

	want := []string{
		"POST /create-user",
		"GET /users/:user_id",
		"POST /users/:user_id/medications",
		"GET /users/:user_id/medications",
		"PUT /medications/:medication_id",
		"DELETE /medications/:medication_id",
		"POST /users/:user_id/hairline-entries",
		"POST /users/:user_id/acne-entries",
		"POST /users/:user_id/mole-entries",
		"GET /users/:user_id/entries",
		"GET /users/:user_id/entries/sequences",
		"GET /entries/:entry_id",
		"GET /images/:image_id",
		"GET /users/:user_id/export-pdf",
		"GET /health",
	}
	registered := map[string]bool{}
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, key := range want {
		if !registered[key] {
			t.Errorf("route not registered: %s", key)
		}
	}
}

func TestImageContentType(t *testing.T) {
	cases := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".bin":  "application/octet-stream",
		"":      "application/octet-stream",
	}
	for ext, want := range cases {
		if got := imageContentType(ext); got != want {
			t.Errorf("ext %q: got %q, want %q", ext, got, want)
		}
	}
}
