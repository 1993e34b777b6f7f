package regnskab

import (
	"math"
	"strconv"
	"strings"

	"github.com/Marcximus/dansk-firma-finder/pkg/taxonomy"
	"github.com/Marcximus/dansk-firma-finder/pkg/xbrl"
)

// contextKind selects which contexts a metric may draw facts from:
// income-statement items need a full-year duration, balance-sheet items
// accept an instant within the target year (or an unrestricted fact in
// documents that declare no contexts).
type contextKind int

const (
	durationContext contextKind = iota
	instantContext
)

// resolver extracts metric values for one fiscal year from one tag
// index. It also remembers the first monetary currency it sees so the
// normalizer knows what it is converting from.
type resolver struct {
	idx      *xbrl.TagIndex
	year     int
	currency string
}

// resolve tries each synonym for the metric in order and returns the
// first value that survives context filtering and numeric
// normalization. Absence across all synonyms is an expected null.
func (r *resolver) resolve(metric string, kind contextKind) *float64 {
	for _, tag := range taxonomy.Lookup(metric) {
		for _, f := range r.idx.Facts[tag] {
			if !r.allowed(f, kind) {
				continue
			}
			if v, ok := r.normalize(f); ok {
				return &v
			}
		}
	}
	return nil
}

func (r *resolver) allowed(f xbrl.Fact, kind contextKind) bool {
	ctx := r.idx.Context(f.ContextRef)
	if ctx == nil {
		// Legacy documents may declare no contexts at all; their facts
		// are unrestricted. A dangling reference in a document that
		// does declare contexts is not.
		return len(r.idx.Contexts) == 0
	}
	if ctx.IsDuration() {
		return ctx.FullYear() && ctx.Year() == r.year
	}
	if kind == durationContext {
		return false
	}
	return ctx.Year() == r.year
}

// normalize parses the raw value and applies the two independent
// normalizations: the unit's declared scale (multiply) and the decimals
// exponent (divide when negative). Inline facts additionally carry their
// own scale attribute as a positive power of ten.
func (r *resolver) normalize(f xbrl.Fact) (float64, bool) {
	v, ok := ParseNumber(f.Value)
	if !ok {
		return 0, false
	}

	if f.UnitRef != "" {
		if u, declared := r.idx.Units[f.UnitRef]; declared {
			if u.Scale != 0 {
				v *= math.Pow10(-u.Scale)
			}
			if r.currency == "" {
				r.currency = DetectCurrency(u.Measure)
			}
		}
	}

	if f.Scale != "" {
		if s, err := strconv.Atoi(f.Scale); err == nil {
			v *= math.Pow10(s)
		}
	}

	if f.Decimals != "" && !strings.EqualFold(f.Decimals, "INF") {
		if d, err := strconv.Atoi(f.Decimals); err == nil && d < 0 {
			v /= math.Pow10(-d)
		}
	}

	return v, true
}

// ParseNumber parses a reported numeric string, stripping whitespace and
// thousands separators in both the anglophone (1,234,567.89) and Danish
// (1.234.567,89) conventions. An unparsable value yields ok false, never
// an error.
func ParseNumber(s string) (v float64, ok bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ' ':
			return -1
		}
		return r
	}, s)
	if s == "" || s == "-" {
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		// Whichever separator comes last is the decimal mark.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// A single comma with one or two trailing digits is a Danish
		// decimal mark; everything else is grouping.
		if strings.Count(s, ",") == 1 && len(s)-strings.LastIndex(s, ",")-1 != 3 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ExtractMetricSet resolves every metric for one fiscal year from a
// parsed document. The detected source currency lands in OriginalValuta;
// conversion happens separately in NormalizeCurrency.
func ExtractMetricSet(idx *xbrl.TagIndex, year int) *FinancialMetricSet {
	r := &resolver{idx: idx, year: year}
	ms := &FinancialMetricSet{Aar: strconv.Itoa(year)}

	ms.Nettoomsaetning = r.resolve(taxonomy.Nettoomsaetning, durationContext)
	gross := r.resolve(taxonomy.Bruttofortjeneste, durationContext)

	if ms.Nettoomsaetning == nil {
		// Investment-holding pattern: no dedicated revenue tag, no
		// gross-profit family tag, only a combined revenue/operating
		// income figure. Revenue is reported as zero rather than
		// substituting the combined number.
		combined := r.resolve(taxonomy.RevenueAndOpIncome, durationContext)
		if combined != nil && gross == nil {
			zero := 0.0
			ms.Nettoomsaetning = &zero
		}
	}

	// A negative gross profit is reported as a gross loss (absolute
	// value), not a negative profit.
	if gross != nil {
		if *gross < 0 {
			loss := -*gross
			ms.Bruttotab = &loss
		} else {
			ms.Bruttofortjeneste = gross
		}
	}

	ms.Driftsresultat = r.resolve(taxonomy.Driftsresultat, durationContext)
	ms.ResultatFoerSkat = r.resolve(taxonomy.ResultatFoerSkat, durationContext)
	ms.AaretsResultat = r.resolve(taxonomy.AaretsResultat, durationContext)
	ms.Personaleomkostninger = r.resolve(taxonomy.Personaleomkostninger, durationContext)
	ms.Afskrivninger = r.resolve(taxonomy.Afskrivninger, durationContext)
	ms.FinansielleIndtaegter = r.resolve(taxonomy.FinansielleIndtaegter, durationContext)
	ms.FinansielleOmkostninger = r.resolve(taxonomy.FinansielleOmkostninger, durationContext)
	ms.SkatAfAaretsResultat = r.resolve(taxonomy.SkatAfAaretsResultat, durationContext)

	ms.Aktiver = r.resolve(taxonomy.Aktiver, instantContext)
	ms.Anlaegsaktiver = r.resolve(taxonomy.Anlaegsaktiver, instantContext)
	ms.Omsaetningsaktiver = r.resolve(taxonomy.Omsaetningsaktiver, instantContext)
	ms.Egenkapital = r.resolve(taxonomy.Egenkapital, instantContext)
	ms.HensatteForpligtelser = r.resolve(taxonomy.HensatteForpligtelser, instantContext)
	ms.Gaeldsforpligtelser = r.resolve(taxonomy.Gaeldsforpligtelser, instantContext)
	ms.KortfristetGaeld = r.resolve(taxonomy.KortfristetGaeld, instantContext)
	ms.LangfristetGaeld = r.resolve(taxonomy.LangfristetGaeld, instantContext)
	ms.LeverandoerGaeld = r.resolve(taxonomy.LeverandoerGaeld, instantContext)
	ms.TilgodehavenderFraSalg = r.resolve(taxonomy.TilgodehavenderFraSalg, instantContext)
	ms.LikvideBeholdninger = r.resolve(taxonomy.LikvideBeholdninger, instantContext)

	ms.OriginalValuta = r.currency
	return ms
}
