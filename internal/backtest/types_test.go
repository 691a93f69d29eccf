package backtest

import (
	"errors"
	"testing"

	"github.com/khushi-saxena/TradeSage/internal/core"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid", Params{InitialCapital: 100000, AnnualizationFactor: 252}, false},
		{"zero capital", Params{InitialCapital: 0, AnnualizationFactor: 252}, true},
		{"negative capital", Params{InitialCapital: -1, AnnualizationFactor: 252}, true},
		{"zero annualization", Params{InitialCapital: 1000, AnnualizationFactor: 0}, true},
		{"negative annualization", Params{InitialCapital: 1000, AnnualizationFactor: -252}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr && !errors.Is(err, core.ErrInvalidParameter) {
				t.Errorf("expected INVALID_PARAMETER, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
