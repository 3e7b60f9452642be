package persona

import (
	"testing"
)

func TestParamsForKnownModes(t *testing.T) {
	tests := []struct {
		mode      BehavioralMode
		wantTemp  float64
		wantMax   int
		wantTopP  float64
	}{
		{ModeExploratory, 0.8, 1024, 0.95},
		{ModeOrganizing, 0.6, 1536, 0.9},
		{ModeDecision, 0.4, 2048, 0.85},
		{ModeAction, 0.3, 2048, 0.8},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := ParamsFor(tt.mode)
			if p.Temperature != tt.wantTemp {
				t.Errorf("temperature = %v, want %v", p.Temperature, tt.wantTemp)
			}
			if p.MaxTokens != tt.wantMax {
				t.Errorf("max tokens = %d, want %d", p.MaxTokens, tt.wantMax)
			}
			if p.TopP != tt.wantTopP {
				t.Errorf("top_p = %v, want %v", p.TopP, tt.wantTopP)
			}
		})
	}
}

func TestParamsForUnknownModeFallsBack(t *testing.T) {
	got := ParamsFor(BehavioralMode("daydreaming"))
	want := ParamsFor(ModeExploratory)
	if got != want {
		t.Errorf("unknown mode should resolve to exploratory params, got %+v", got)
	}
}

// Temperature must fall monotonically from exploratory to action: the more
// concrete the mode, the cooler the sampling.
func TestParamsTemperatureOrdering(t *testing.T) {
	order := []BehavioralMode{ModeExploratory, ModeOrganizing, ModeDecision, ModeAction}
	for i := 1; i < len(order); i++ {
		prev := ParamsFor(order[i-1])
		cur := ParamsFor(order[i])
		if cur.Temperature >= prev.Temperature {
			t.Errorf("temperature for %s (%v) should be below %s (%v)",
				order[i], cur.Temperature, order[i-1], prev.Temperature)
		}
		if cur.MaxTokens < prev.MaxTokens {
			t.Errorf("max tokens for %s should not shrink below %s", order[i], order[i-1])
		}
	}
}

func TestParamsBounds(t *testing.T) {
	for _, mode := range AllModes() {
		p := ParamsFor(mode)
		if p.Temperature <= 0 || p.Temperature > 1 {
			t.Errorf("%s: temperature %v out of (0,1]", mode, p.Temperature)
		}
		if p.TopP <= 0 || p.TopP > 1 {
			t.Errorf("%s: top_p %v out of (0,1]", mode, p.TopP)
		}
		if p.MaxTokens <= 0 {
			t.Errorf("%s: max tokens must be positive", mode)
		}
	}
}
