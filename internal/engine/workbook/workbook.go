// Package workbook is the JSON-serializable payload a caller (the CLI, the
// HTTP server, or a test) hands the engine, plus the glue that wires a
// model.Config into a fully-registered module.Dispatcher before delegating
// to orchestrator.Evaluate.
package workbook

import (
	"pfengine/internal/engine/model"
	"pfengine/internal/engine/module"
	"pfengine/internal/engine/module/amortisation"
	"pfengine/internal/engine/module/construction"
	"pfengine/internal/engine/module/distributions"
	"pfengine/internal/engine/module/dsrf"
	"pfengine/internal/engine/module/gst"
	"pfengine/internal/engine/module/mra"
	"pfengine/internal/engine/module/debtsizer"
	"pfengine/internal/engine/orchestrator"
	"pfengine/internal/engine/timeline"
)

// Workbook is everything one evaluation pass needs (§2, §3).
type Workbook struct {
	Config       model.Config          `json:"config"`
	Groups       []model.Group         `json:"groups"`
	Inputs       []model.Input         `json:"inputs"`
	KeyPeriods   []model.KeyPeriod     `json:"keyPeriods"`
	Calculations []model.Calculation   `json:"calculations"`
	Modules      []model.ModuleInstance `json:"modules"`

	// DistributionConvertedOutputs maps the distributions module's
	// forward-pass output keys (historic_adscr, re_pass, npat_pass,
	// cash_available_after_reserve) to the R{id}/ref the workbook computes them
	// through as ordinary calculations (§4.8); lockup_active and the SC
	// waterfall outputs are always computed by the module's own Calculator
	// instead, since they carry state a formula can't express. Optional: a
	// workbook without a distributions module instance leaves this nil.
	DistributionConvertedOutputs map[string]string `json:"distributionConvertedOutputs,omitempty"`
}

// Evaluate builds the module dispatcher for wb's own timeline and runs one
// full pass. This is the one engine entry point the CLI and HTTP server both
// call.
func Evaluate(wb Workbook) orchestrator.Output {
	dispatcher := newDispatcher(wb.Config, wb.DistributionConvertedOutputs)
	return orchestrator.Evaluate(wb.Config, wb.Groups, wb.Inputs, wb.KeyPeriods, wb.Calculations, wb.Modules, dispatcher)
}

// newDispatcher registers every §4.8 module type. A malformed Config can't
// bind the debt sizer's period-end callback to a timeline; in that case the
// debt sizer is left unregistered and orchestrator.Evaluate reports the same
// CONFIG_INVALID diagnostic it would have anyway when it re-derives the
// timeline itself.
func newDispatcher(cfg model.Config, convertedOutputs map[string]string) *module.Dispatcher {
	d := module.NewDispatcher()

	if tl, err := timeline.New(cfg); err == nil {
		d.Register(debtsizer.NewTemplate(), &debtsizer.Calculator{IsPeriodEnd: periodEndAdapter(tl)})
	}

	d.Register(construction.NewTemplate(), construction.Calculator{})
	d.Register(dsrf.NewTemplate(), dsrf.Calculator{})
	d.Register(gst.NewTemplate(), gst.Calculator{})
	d.Register(mra.NewTemplate(), mra.Calculator{})
	d.Register(amortisation.NewTemplate(), amortisation.Calculator{})
	d.Register(distributions.NewTemplate(convertedOutputs), distributions.Calculator{})

	return d
}

// periodEndAdapter binds a real timeline's IsPeriodEnd to the debt sizer's
// own PeriodKind vocabulary (Design Notes §9: never `i % 3`).
func periodEndAdapter(tl *timeline.Timeline) func(i int, kind debtsizer.PeriodKind) bool {
	return func(i int, kind debtsizer.PeriodKind) bool {
		var freq model.Frequency
		switch kind {
		case debtsizer.PeriodQuarterly:
			freq = model.FreqQuarterly
		case debtsizer.PeriodYearly:
			freq = model.FreqYearly
		default:
			freq = model.FreqMonthly
		}
		return tl.IsPeriodEnd(i, freq)
	}
}
