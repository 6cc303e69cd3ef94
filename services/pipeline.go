package services

import (
	"sort"

	"ev-value-index/models"
)

// Pipeline runs validation then scoring over one in-memory batch.
type Pipeline struct {
	validator *Validator
	engine    *Engine
}

// NewPipeline wires a Validator into an Engine.
func NewPipeline(validator *Validator, engine *Engine) *Pipeline {
	return &Pipeline{validator: validator, engine: engine}
}

// Process validates and scores raw records. The result is ordered by
// value index descending, then brand, then model.
func (p *Pipeline) Process(raw []models.RawRecord) []models.ScoredRecord {
	scored := p.engine.Score(p.validator.Validate(raw))

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.EVValueIndex != b.EVValueIndex {
			return a.EVValueIndex > b.EVValueIndex
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		return a.Model < b.Model
	})
	return scored
}

// Summary returns the validation summary of the last Process call.
func (p *Pipeline) Summary() models.ValidationSummary {
	return p.validator.Last()
}
