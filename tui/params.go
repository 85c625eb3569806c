// ABOUTME: Parameter manager for live ruler geometry and metrics tuning
// ABOUTME: Handles parameter value adjustments with boundary checking

package tui

import "tickruler/config"

// Parameter represents a tunable ruler setting with constraints
type Parameter struct {
	Name     string
	Value    *float64 // Pointer to actual config field
	IntValue *int     // For integer parameters
	Min      float64
	Max      float64
	Step     float64
	IsInt    bool
	Geometry bool // Editable in timeline mode, where the range owns the metrics
}

// newParameters builds the tunable list over cfg. Timeline rulers get geometry only.
func newParameters(cfg *config.Config, timelineMode bool) []Parameter {
	r := &cfg.Ruler
	m := &r.Metrics

	all := []Parameter{
		{Name: "Line Spacing", Value: &r.LineSpacing, Min: 0, Max: 60, Step: 1, Geometry: true},
		{Name: "Tick Size", Value: &r.TickSize, Min: 0, Max: 10, Step: 0.5, Geometry: true},
		{Name: "Label Spacing", Value: &r.LineAndLabelSpacing, Min: 0, Max: 30, Step: 1, Geometry: true},
		{Name: "Full Line Size", Value: &m.FullLineSize, Min: 0, Max: 80, Step: 2, Geometry: true},
		{Name: "Mid Line Size", Value: &m.MidLineSize, Min: 0, Max: 80, Step: 2, Geometry: true},
		{Name: "Small Line Size", Value: &m.SmallLineSize, Min: 0, Max: 80, Step: 2, Geometry: true},
		{Name: "Divisions", IntValue: &m.Divisions, Min: 2, Max: 60, Step: 1, IsInt: true},
		{Name: "Minimum", IntValue: &m.Minimum, Min: -100000, Max: 100000, Step: 10, IsInt: true},
		{Name: "Default", IntValue: &m.Default, Min: -100000, Max: 100000, Step: 1, IsInt: true},
		{Name: "Maximum", IntValue: &m.Maximum, Min: -100000, Max: 100000, Step: 10, IsInt: true},
	}

	if !timelineMode {
		return all
	}

	geometry := make([]Parameter, 0, len(all))
	for _, p := range all {
		if p.Geometry {
			geometry = append(geometry, p)
		}
	}

	return geometry
}

// ParamManager manages ruler parameter adjustments
type ParamManager struct {
	params        []Parameter
	selectedIndex int
}

// NewParamManager creates a new parameter manager
func NewParamManager(params []Parameter) *ParamManager {
	return &ParamManager{
		params:        params,
		selectedIndex: 0,
	}
}

// Selected returns the index of the currently selected parameter
func (pm *ParamManager) Selected() int {
	return pm.selectedIndex
}

// SetSelected sets the selected parameter index
func (pm *ParamManager) SetSelected(index int) {
	if index >= 0 && index < len(pm.params) {
		pm.selectedIndex = index
	}
}

// SelectNext moves selection to the next parameter
func (pm *ParamManager) SelectNext() {
	if pm.selectedIndex < len(pm.params)-1 {
		pm.selectedIndex++
	}
}

// SelectPrevious moves selection to the previous parameter
func (pm *ParamManager) SelectPrevious() {
	if pm.selectedIndex > 0 {
		pm.selectedIndex--
	}
}

// Increase increases the selected parameter value
// Returns true if the value was changed
func (pm *ParamManager) Increase() bool {
	if pm.selectedIndex >= len(pm.params) {
		return false
	}

	param := &pm.params[pm.selectedIndex]
	if param.IsInt {
		newVal := *param.IntValue + int(param.Step)
		if float64(newVal) <= param.Max {
			*param.IntValue = newVal
			return true
		}
	} else {
		newVal := *param.Value + param.Step
		if newVal <= param.Max {
			*param.Value = newVal
			return true
		}
	}

	return false
}

// Decrease decreases the selected parameter value
// Returns true if the value was changed
func (pm *ParamManager) Decrease() bool {
	if pm.selectedIndex >= len(pm.params) {
		return false
	}

	param := &pm.params[pm.selectedIndex]
	if param.IsInt {
		newVal := *param.IntValue - int(param.Step)
		if float64(newVal) >= param.Min {
			*param.IntValue = newVal
			return true
		}
	} else {
		newVal := *param.Value - param.Step
		// Clamp to min if we're very close (handles floating point precision)
		if newVal < param.Min && newVal >= param.Min-0.0001 {
			newVal = param.Min
		}

		if newVal >= param.Min {
			*param.Value = newVal
			return true
		}
	}

	return false
}

// ResetToDefaults copies every managed field from defaults
// Uses name-based lookup to avoid fragile array indexing
func (pm *ParamManager) ResetToDefaults(defaults config.RulerConfig) {
	for i := range pm.params {
		p := &pm.params[i]
		switch p.Name {
		case "Line Spacing":
			*p.Value = defaults.LineSpacing
		case "Tick Size":
			*p.Value = defaults.TickSize
		case "Label Spacing":
			*p.Value = defaults.LineAndLabelSpacing
		case "Full Line Size":
			*p.Value = defaults.Metrics.FullLineSize
		case "Mid Line Size":
			*p.Value = defaults.Metrics.MidLineSize
		case "Small Line Size":
			*p.Value = defaults.Metrics.SmallLineSize
		case "Divisions":
			*p.IntValue = defaults.Metrics.Divisions
		case "Minimum":
			*p.IntValue = defaults.Metrics.Minimum
		case "Default":
			*p.IntValue = defaults.Metrics.Default
		case "Maximum":
			*p.IntValue = defaults.Metrics.Maximum
		}
	}
}

// Get returns the parameter at the given index
func (pm *ParamManager) Get(index int) *Parameter {
	if index >= 0 && index < len(pm.params) {
		return &pm.params[index]
	}
	return nil
}

// GetSelected returns the currently selected parameter
func (pm *ParamManager) GetSelected() *Parameter {
	return pm.Get(pm.selectedIndex)
}

// Len returns the number of parameters
func (pm *ParamManager) Len() int {
	return len(pm.params)
}

// All returns all parameters (for rendering)
func (pm *ParamManager) All() []Parameter {
	return pm.params
}
