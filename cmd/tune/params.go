package main

import "github.com/pthm-cable/growth/config"

// ParamSpec defines a single tunable setting.
type ParamSpec struct {
	Name    string  // Matches the settings YAML key
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Settings) float64
	set func(*config.Settings, float64)
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. The edge
// length ranges do not overlap so every candidate keeps min < max.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "max_speed", Min: 0.2, Max: 3.0, Default: 1.0,
				get: func(s *config.Settings) float64 { return s.MaxSpeed },
				set: func(s *config.Settings, v float64) { s.MaxSpeed = v }},
			{Name: "max_force", Min: 0.05, Max: 1.5, Default: 0.6,
				get: func(s *config.Settings) float64 { return s.MaxForce },
				set: func(s *config.Settings, v float64) { s.MaxForce = v }},
			{Name: "separation_distance", Min: 5, Max: 100, Default: 50,
				get: func(s *config.Settings) float64 { return s.SeparationDistance },
				set: func(s *config.Settings, v float64) { s.SeparationDistance = v }},
			{Name: "alignment_weight", Min: 0, Max: 3, Default: 1.5,
				get: func(s *config.Settings) float64 { return s.AlignmentWeight },
				set: func(s *config.Settings, v float64) { s.AlignmentWeight = v }},
			{Name: "separation_weight", Min: 0.1, Max: 3, Default: 1.01,
				get: func(s *config.Settings) float64 { return s.SeparationWeight },
				set: func(s *config.Settings, v float64) { s.SeparationWeight = v }},
			{Name: "max_edge_length", Min: 3, Max: 15, Default: 5,
				get: func(s *config.Settings) float64 { return s.MaxEdgeLength },
				set: func(s *config.Settings, v float64) { s.MaxEdgeLength = v }},
			{Name: "min_edge_length", Min: 0.2, Max: 2.5, Default: 1,
				get: func(s *config.Settings) float64 { return s.MinEdgeLength },
				set: func(s *config.Settings, v float64) { s.MinEdgeLength = v }},
			{Name: "injection_probability", Min: 0, Max: 1, Default: 0.5,
				get: func(s *config.Settings) float64 { return s.InjectionProbability },
				set: func(s *config.Settings, v float64) { s.InjectionProbability = v }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Names returns the parameter names in vector order.
func (pv *ParamVector) Names() []string {
	names := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		names[i] = spec.Name
	}
	return names
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Apply writes clamped parameter values into settings.
func (pv *ParamVector) Apply(s *config.Settings, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(s, v)
	}
}

// Extract reads the current parameter values from settings.
func (pv *ParamVector) Extract(s *config.Settings) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(s)
	}
	return v
}
