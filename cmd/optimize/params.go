package main

import (
	"math"

	"github.com/wyixiang/ikerEcsProject/config"
)

// ParamSpec is one tunable config value and its search bounds.
type ParamSpec struct {
	Name     string
	Min, Max float64
	Default  float64

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector is the ordered search space. Vectors passed to its methods
// hold one value per spec, in spec order.
type ParamVector struct {
	Specs []ParamSpec
}

// floatParam binds a float64 config field.
func floatParam(name string, lo, hi, def float64, field func(*config.Config) *float64) ParamSpec {
	return ParamSpec{
		Name: name, Min: lo, Max: hi, Default: def,
		get: func(c *config.Config) float64 { return *field(c) },
		set: func(c *config.Config, v float64) { *field(c) = v },
	}
}

// NewParamVector returns the predator and food parameters searched by the
// optimizer.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		floatParam("pred_move_speed", 0.5, 8, 3, func(c *config.Config) *float64 { return &c.Predator.MoveSpeed }),
		floatParam("pred_eat_range", 0.2, 3, 1, func(c *config.Config) *float64 { return &c.Predator.EatRange }),
		{
			Name: "pred_repro_thresh", Min: 1, Max: 10, Default: 3,
			get: func(c *config.Config) float64 { return float64(c.Predator.ReproduceThreshold) },
			set: func(c *config.Config, v float64) { c.Predator.ReproduceThreshold = int(math.Round(v)) },
		},
		floatParam("pred_wander_factor", 0, 1, 0.5, func(c *config.Config) *float64 { return &c.Predator.WanderSpeedFactor }),
		floatParam("pred_chase_range", 0, 20, 0, func(c *config.Config) *float64 { return &c.Predator.ChaseRange }),
		floatParam("pred_repro_offset", 0.5, 6, 2, func(c *config.Config) *float64 { return &c.Predator.ReproduceOffset }),
		floatParam("food_interval", 0.1, 3, 1, func(c *config.Config) *float64 { return &c.Food.SpawnInterval }),
		floatParam("food_radius", 0.5, 8, 2, func(c *config.Config) *float64 { return &c.Food.SpawnRadius }),
	}}
}

func (pv *ParamVector) Dim() int { return len(pv.Specs) }

func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto [0, 1] per spec bounds.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return (v - s.Min) / (s.Max - s.Min) })
}

func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.each(unit, func(s ParamSpec, v float64) float64 { return s.Min + v*(s.Max-s.Min) })
}

func (pv *ParamVector) Clamp(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return math.Max(s.Min, math.Min(v, s.Max)) })
}

// ApplyToConfig writes raw, clamped to bounds, into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	for i, v := range pv.Clamp(raw) {
		pv.Specs[i].set(cfg, v)
	}
}

func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.get(cfg) })
}

func (pv *ParamVector) each(in []float64, fn func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		var v float64
		if in != nil {
			v = in[i]
		}
		out[i] = fn(s, v)
	}
	return out
}
