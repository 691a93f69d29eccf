// internal/api/handler/api/strategies_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/api/response"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
	"github.com/khushi-saxena/TradeSage/internal/strategy/emacross"
	"github.com/khushi-saxena/TradeSage/internal/strategy/smacross"
)

func TestStrategiesHandler_List(t *testing.T) {
	engine := strategy.NewEngine()

	sma, err := smacross.New(50, 200, zap.NewNop())
	if err != nil {
		t.Fatalf("smacross.New failed: %v", err)
	}
	ema, err := emacross.New(12, 26, zap.NewNop())
	if err != nil {
		t.Fatalf("emacross.New failed: %v", err)
	}
	engine.Register(sma)
	engine.Register(ema)

	h := NewStrategiesHandler(engine)

	req := httptest.NewRequest("GET", "/api/v1/strategies", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	data := resp.Data.(map[string]any)
	list, ok := data["strategies"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected 2 strategies, got %v", data["strategies"])
	}
}

func TestStrategiesHandler_List_Empty(t *testing.T) {
	h := NewStrategiesHandler(strategy.NewEngine())

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest("GET", "/api/v1/strategies", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
