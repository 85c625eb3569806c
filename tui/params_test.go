// ABOUTME: Tests for ParamManager parameter adjustment and navigation
// ABOUTME: Verifies boundary checking, config field binding and reset functionality

package tui

import (
	"fmt"
	"testing"

	"tickruler/config"
)

func TestParamManager_Selection(t *testing.T) {
	tests := []struct {
		name          string
		paramCount    int
		initialIndex  int
		operation     string
		expectedIndex int
	}{
		{"select next", 5, 0, "next", 1},
		{"select next at end", 5, 4, "next", 4},
		{"select previous", 5, 2, "prev", 1},
		{"select previous at start", 5, 0, "prev", 0},
		{"set valid index", 5, 0, "set:3", 3},
		{"set invalid negative", 5, 2, "set:-1", 2},
		{"set invalid too high", 5, 2, "set:10", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewParamManager(createTestParams(tt.paramCount))
			pm.SetSelected(tt.initialIndex)

			switch tt.operation {
			case "next":
				pm.SelectNext()
			case "prev":
				pm.SelectPrevious()
			default:
				var idx int
				if _, err := fmt.Sscanf(tt.operation, "set:%d", &idx); err == nil {
					pm.SetSelected(idx)
				}
			}

			if pm.Selected() != tt.expectedIndex {
				t.Errorf("Expected index %d, got %d", tt.expectedIndex, pm.Selected())
			}
		})
	}
}

func TestParamManager_FloatBounds(t *testing.T) {
	tickSize := 1.0
	pm := NewParamManager([]Parameter{
		{Name: "Tick Size", Value: &tickSize, Min: 0, Max: 2, Step: 0.5},
	})

	tests := []struct {
		name         string
		initialVal   float64
		increase     bool
		expectChange bool
		expectedVal  float64
	}{
		{"increase from middle", 1.0, true, true, 1.5},
		{"increase to max", 1.5, true, true, 2.0},
		{"increase at max", 2.0, true, false, 2.0},
		{"decrease to min", 0.5, false, true, 0.0},
		{"decrease at min", 0.0, false, false, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickSize = tt.initialVal

			changed := pm.Decrease
			if tt.increase {
				changed = pm.Increase
			}

			if got := changed(); got != tt.expectChange {
				t.Errorf("Expected changed=%v, got %v", tt.expectChange, got)
			}

			if tickSize != tt.expectedVal {
				t.Errorf("Expected value %.2f, got %.2f", tt.expectedVal, tickSize)
			}
		})
	}
}

func TestParamManager_FloatPrecisionClamping(t *testing.T) {
	val := 0.05
	pm := NewParamManager([]Parameter{
		{Name: "test", Value: &val, Min: 0.0, Max: 1.0, Step: 0.05},
	})

	// Values within 0.0001 of the minimum are clamped onto it
	if !pm.Decrease() {
		t.Error("Expected decrease to succeed")
	}

	if val != 0.0 {
		t.Errorf("Expected value to be 0.0, got %.10f", val)
	}
}

func TestParamManager_IntegerBounds(t *testing.T) {
	divisions := 10
	pm := NewParamManager([]Parameter{
		{Name: "Divisions", IntValue: &divisions, Min: 2, Max: 12, Step: 2, IsInt: true},
	})

	tests := []struct {
		name         string
		initialVal   int
		increase     bool
		expectChange bool
		expectedVal  int
	}{
		{"increase to max", 10, true, true, 12},
		{"increase at max", 12, true, false, 12},
		{"increase would exceed max", 11, true, false, 11},
		{"decrease to min", 4, false, true, 2},
		{"decrease would go below min", 3, false, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			divisions = tt.initialVal

			changed := pm.Decrease
			if tt.increase {
				changed = pm.Increase
			}

			if got := changed(); got != tt.expectChange {
				t.Errorf("Expected changed=%v, got %v", tt.expectChange, got)
			}

			if divisions != tt.expectedVal {
				t.Errorf("Expected value %d, got %d", tt.expectedVal, divisions)
			}
		})
	}
}

func TestNewParametersBindConfigFields(t *testing.T) {
	cfg := config.DefaultConfig()

	pm := NewParamManager(newParameters(&cfg, false))
	if pm.Len() != 10 {
		t.Fatalf("Expected 10 parameters, got %d", pm.Len())
	}

	// Line Spacing is first and writes through to the config
	if !pm.Increase() {
		t.Fatal("Expected Line Spacing increase")
	}

	if cfg.Ruler.LineSpacing != 11 {
		t.Errorf("LineSpacing = %.2f, want 11", cfg.Ruler.LineSpacing)
	}

	for pm.GetSelected().Name != "Maximum" {
		pm.SelectNext()
	}

	pm.Decrease()
	if cfg.Ruler.Metrics.Maximum != 140 {
		t.Errorf("Maximum = %d, want 140", cfg.Ruler.Metrics.Maximum)
	}
}

func TestNewParametersTimelineGeometryOnly(t *testing.T) {
	cfg := config.DefaultConfig()

	params := newParameters(&cfg, true)
	if len(params) != 6 {
		t.Fatalf("Expected 6 geometry parameters, got %d", len(params))
	}

	for _, p := range params {
		if !p.Geometry || p.IsInt {
			t.Errorf("Parameter %s should be float geometry", p.Name)
		}
	}
}

func TestParamManager_ResetToDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	pm := NewParamManager(newParameters(&cfg, false))

	// Modify all parameters
	for i := 0; i < pm.Len(); i++ {
		pm.SetSelected(i)
		pm.Increase()
		pm.Increase()
	}

	if cfg.Ruler.Metrics.Default == 55 {
		t.Fatal("Default should have changed before reset")
	}

	pm.ResetToDefaults(config.DefaultConfig().Ruler)

	defaults := config.DefaultConfig().Ruler
	if cfg.Ruler.LineSpacing != defaults.LineSpacing ||
		cfg.Ruler.TickSize != defaults.TickSize ||
		cfg.Ruler.LineAndLabelSpacing != defaults.LineAndLabelSpacing {
		t.Errorf("Geometry not reset: %+v", cfg.Ruler)
	}

	if cfg.Ruler.Metrics != defaults.Metrics {
		t.Errorf("Metrics = %+v, want %+v", cfg.Ruler.Metrics, defaults.Metrics)
	}
}

func TestParamManager_GetMethods(t *testing.T) {
	params := createTestParams(5)
	pm := NewParamManager(params)

	if pm.Len() != 5 {
		t.Errorf("Expected length 5, got %d", pm.Len())
	}

	param := pm.Get(2)
	if param == nil {
		t.Fatal("Expected non-nil parameter")
	}

	if param.Name != params[2].Name {
		t.Errorf("Expected parameter %s, got %s", params[2].Name, param.Name)
	}

	if pm.Get(-1) != nil || pm.Get(10) != nil {
		t.Error("Expected nil for out-of-bounds index")
	}

	pm.SetSelected(3)
	if selected := pm.GetSelected(); selected == nil || selected.Name != params[3].Name {
		t.Errorf("Expected selected parameter %s, got %v", params[3].Name, selected)
	}

	if len(pm.All()) != 5 {
		t.Errorf("Expected All() to return 5 parameters, got %d", len(pm.All()))
	}
}

func TestFormatParamValue(t *testing.T) {
	f := 6.0
	n := 10

	tests := []struct {
		name  string
		param Parameter
		want  string
	}{
		{"float", Parameter{Value: &f}, "6.00"},
		{"int", Parameter{IntValue: &n, IsInt: true}, "10"},
		{"unbound", Parameter{IsInt: true}, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatParamValue(tt.param); got != tt.want {
				t.Errorf("formatParamValue = %q, want %q", got, tt.want)
			}
		})
	}
}

// Helper function to create test parameters
func createTestParams(count int) []Parameter {
	params := make([]Parameter, count)
	for i := range params {
		val := float64(i)
		params[i] = Parameter{
			Name:  fmt.Sprintf("param_%d", i),
			Value: &val,
			Min:   0,
			Max:   10,
			Step:  1,
		}
	}

	return params
}
