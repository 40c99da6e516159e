package reconcile

import (
	"strconv"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/extract"
)

// per-origin confidence assignments for cross-search completions
const (
	batchNameConf      = 0.85
	batchAgreementConf = 0.80
	batchRUTConf       = 0.78
	batchFuzzyConf     = 0.75

	persistNameConf      = 0.75
	persistAgreementConf = 0.73
	persistRUTConf       = 0.72
	persistFuzzyConf     = 0.70

	crossSearchFloor = 0.70
	decreeFloor      = 0.50
	decreeConf       = 0.80

	calculatedAmountConf = 0.55
)

// normalizeDecrees assigns the majority agreement of every decree with at
// least two batch observations to records sharing that decree and missing
// or placeholder agreement.
func (p *Pipeline) normalizeDecrees(recs []*entity.Record) {
	for _, r := range recs {
		if r.Error != "" || r.Decree.Empty() {
			continue
		}
		agr, n := p.Batch.DecreeMajority(r.Decree.Value)
		if n < 2 || agr == "" {
			continue
		}
		if fill(&r.Agreement, agr, decreeConf, constants.OriginDecree, decreeFloor) {
			p.Logger.Debug("reconcile.decree.filled", "source", r.SourceRef, "decree", r.Decree.Value, "agreement", agr)
		}
	}
}

// CrossSearch attempts identifier/name/agreement completion for every
// record: batch memory first, persistent store second, each with strict
// lookups before the aggressive fuzzy last resort. Exported so a manual
// correction can trigger a constrained re-run over still-pending records.
func (p *Pipeline) CrossSearch(recs []*entity.Record) {
	for _, r := range recs {
		if r.Error != "" {
			continue
		}
		p.crossSearchBatch(r)
		p.crossSearchPersistent(r)
		p.lastResort(r)
	}
}

func (p *Pipeline) crossSearchBatch(r *entity.Record) {
	if rut := r.RUT.Value; rut != "" {
		if name, ok := p.Batch.NameByRUT(rut); ok {
			fill(&r.Name, name, batchNameConf, constants.OriginBatch, crossSearchFloor)
		}
		if agr, ok := p.Batch.AgreementByRUT(rut); ok {
			fill(&r.Agreement, agr, batchAgreementConf, constants.OriginBatch, crossSearchFloor)
		}
	}
	if r.RUT.Empty() && !r.Name.Empty() {
		if rut, ok := p.Batch.RUTByName(r.Name.Value, true); ok {
			fill(&r.RUT, rut, batchRUTConf, constants.OriginBatch, crossSearchFloor)
		}
	}
}

func (p *Pipeline) crossSearchPersistent(r *entity.Record) {
	if p.Store == nil {
		return
	}
	if rut := r.RUT.Value; rut != "" {
		if name, ok := p.Store.NameByRUT(rut); ok {
			fill(&r.Name, name, persistNameConf, constants.OriginPersistent, crossSearchFloor)
		}
		if agr, ok := p.Store.AgreementByRUT(rut); ok {
			fill(&r.Agreement, agr, persistAgreementConf, constants.OriginPersistent, crossSearchFloor)
		}
	}
	if r.RUT.Empty() && !r.Name.Empty() {
		if rut, ok := p.Store.RUTByName(r.Name.Value, true); ok {
			fill(&r.RUT, rut, persistRUTConf, constants.OriginPersistent, crossSearchFloor)
		}
	}
}

// lastResort relaxes the lookups to fuzzy and token-partial matching for
// records still missing their identifier after the strict passes.
func (p *Pipeline) lastResort(r *entity.Record) {
	if !r.RUT.Empty() || r.Name.Empty() {
		return
	}
	if rut, ok := p.Batch.RUTByName(r.Name.Value, false); ok {
		fill(&r.RUT, rut, batchFuzzyConf, constants.OriginBatch, crossSearchFloor)
		return
	}
	if p.Store != nil {
		if rut, ok := p.Store.RUTByName(r.Name.Value, false); ok {
			fill(&r.RUT, rut, persistFuzzyConf, constants.OriginPersistent, crossSearchFloor)
		}
	}
}

// fillAmounts closes a missing amount from the learned payment pattern,
// else calculates hours x rate x payment-type multiplier. The extractor
// itself never fabricates amounts; only this stage may, and it tags the
// result accordingly.
func (p *Pipeline) fillAmounts(recs []*entity.Record) {
	for _, r := range recs {
		if r.Error != "" || !r.Amount.Empty() {
			continue
		}
		if p.Store != nil && !r.RUT.Empty() && !r.Decree.Empty() {
			if pat, ok := p.Store.PaymentFor(r.RUT.Value, r.Decree.Value); ok {
				if fill(&r.Amount, pat.Amount, persistFuzzyConf, constants.OriginPersistent, crossSearchFloor) {
					if r.Hours.Empty() && pat.Hours != "" {
						fill(&r.Hours, pat.Hours, persistFuzzyConf, constants.OriginPersistent, crossSearchFloor)
					}
					continue
				}
			}
		}
		if hours, err := strconv.Atoi(r.Hours.Value); err == nil && hours > 0 {
			mult := 1.0
			if r.PaymentType.Value == constants.PaymentWeekly {
				mult = 4.0
			}
			amount := int(float64(hours) * p.Cfg.HourlyRate * mult)
			if extract.PlausibleAmount(amount) {
				fill(&r.Amount, strconv.Itoa(amount), calculatedAmountConf, constants.OriginCalculated, crossSearchFloor)
			}
		}
	}
}

// inferPeriods closes a month-only service period, but only for records
// without a document date, and never by guessing a year: the only accepted
// source is another record of the same identifier carrying the same month
// with an established year.
func (p *Pipeline) inferPeriods(recs []*entity.Record) {
	type key struct {
		rut   string
		month int
	}
	known := map[key]int{}
	for _, r := range recs {
		if r.Error == "" && r.PeriodMonth > 0 && r.PeriodYear > 0 && !r.RUT.Empty() {
			known[key{r.RUT.Value, r.PeriodMonth}] = r.PeriodYear
		}
	}
	for _, r := range recs {
		if r.Error != "" || !r.IssueDate.Empty() {
			continue
		}
		if r.PeriodMonth == 0 || r.PeriodYear != 0 {
			continue
		}
		if y, ok := known[key{r.RUT.Value, r.PeriodMonth}]; ok {
			r.PeriodYear = y
			r.Period = entity.Field{
				Value:      extract.MonthName(r.PeriodMonth) + " " + strconv.Itoa(y),
				Confidence: 0.65,
				Origin:     constants.OriginBatch,
			}
		}
	}
}
