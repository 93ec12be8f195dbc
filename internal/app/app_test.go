package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pricing-engine/internal/data/db"
	"github.com/yungbote/pricing-engine/internal/flashcode"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

func TestWireClientsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	clients, err := wireClients(context.Background(), logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("wireClients: %v", err)
	}
	if clients.Advisor != nil {
		t.Fatalf("advisor should be nil without a base url")
	}
	if _, ok := clients.Flash.(*flashcode.MemoryStore); !ok {
		t.Fatalf("flash store: want memory got %T", clients.Flash)
	}

	cfg.Advisory.BaseURL = "http://advisory.local/v1"
	clients, err = wireClients(context.Background(), logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("wireClients with advisory: %v", err)
	}
	if clients.Advisor == nil {
		t.Fatalf("advisor should be wired when a base url is set")
	}
}

func TestNewWithConfigServesHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := DefaultConfig()
	cfg.DB = db.Config{Driver: "sqlite", DSN: "file:app_test?mode=memory&cache=shared"}

	a, err := NewWithConfig(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	a.Start()
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: want=200 got=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid/market", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad product id: want=400 got=%d", rec.Code)
	}
}
