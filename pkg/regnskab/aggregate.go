package regnskab

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"github.com/Marcximus/dansk-firma-finder/pkg/cvr"
	"github.com/Marcximus/dansk-firma-finder/pkg/taxonomy"
	"github.com/Marcximus/dansk-firma-finder/pkg/xbrl"
)

const (
	// maxScanEvents bounds how many filing events one lookup examines.
	maxScanEvents = 20
	// targetYears is how many distinct fiscal years a lookup collects
	// before stopping early.
	targetYears = 7
	// maxYearCandidates bounds how many candidate years are extracted
	// and scored per document.
	maxYearCandidates = 3
)

// Fetcher is the slice of the registry client the aggregator consumes.
type Fetcher interface {
	SearchFilings(ctx context.Context, cvrNumber string) ([]cvr.Filing, error)
	LoadDocument(ctx context.Context, doc cvr.Document) ([]byte, error)
}

// ReportMetadata describes one accepted filing alongside its extracted
// metric set.
type ReportMetadata struct {
	Aar             string `json:"aar"`
	Periode         string `json:"periode,omitempty"`
	Offentliggjort  string `json:"offentliggjort,omitempty"`
	DokumentType    string `json:"dokumentType"`
	DokumentURL     string `json:"dokumentUrl"`
	Virksomhedsnavn string `json:"virksomhedsnavn,omitempty"`
	Resume          string `json:"resume,omitempty"`
}

// Result is the full response payload for one identifier lookup. Absence
// of financial data is communicated through empty slices and HasRealData,
// never through an error: most registered companies legitimately lack
// machine-readable filings for some or all years.
type Result struct {
	FinancialReports []ReportMetadata     `json:"financialReports"`
	FinancialData    []FinancialMetricSet `json:"financialData"`
	HasRealData      bool                 `json:"hasRealData"`
	Error            string               `json:"error,omitempty"`
}

var printer = message.NewPrinter(message.MatchLanguage("da"))

func emptyResult(msg string) *Result {
	return &Result{
		FinancialReports: []ReportMetadata{},
		FinancialData:    []FinancialMetricSet{},
		HasRealData:      false,
		Error:            msg,
	}
}

// Fetch runs one identifier lookup end to end: discover filing events,
// walk them newest-first, extract and score each event's best document,
// and accumulate one metric set per distinct fiscal year until the
// target count is reached or the scan is exhausted.
//
// Only cvr.ErrInvalidIdentifier and cvr.ErrRegistryUnavailable surface
// as errors (the latter together with a shaped Result); every other
// failure mode skips the offending candidate and continues.
func Fetch(ctx context.Context, client Fetcher, cvrNumber string) (*Result, error) {
	if err := cvr.ValidateCVR(cvrNumber); err != nil {
		return nil, err
	}

	filings, err := client.SearchFilings(ctx, cvrNumber)
	if err != nil {
		return emptyResult("registret kunne ikke kontaktes"), fmt.Errorf("CVR %s: %w", cvrNumber, err)
	}
	if len(filings) == 0 {
		return emptyResult("ingen offentliggjorte regnskaber fundet"), nil
	}

	cvr.SortNewestFirst(filings)

	accepted := make(map[int]bool)
	reports := []ReportMetadata{}
	data := []FinancialMetricSet{}

	for scanned, filing := range filings {
		if len(accepted) >= targetYears || scanned >= maxScanEvents {
			break
		}

		doc, ok := filing.SelectDocument()
		if !ok {
			continue
		}

		raw, err := client.LoadDocument(ctx, doc)
		if err != nil {
			log.Printf("CVR %s: skipping document %s: %v", cvrNumber, doc.DokumentURL, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		idx, err := xbrl.Build(strings.NewReader(xbrl.Reduce(string(raw))))
		if err != nil {
			log.Printf("CVR %s: unparsable document %s: %v", cvrNumber, doc.DokumentURL, err)
			continue
		}

		years, ok := fiscalYearCandidates(idx, filing)
		if !ok {
			log.Printf("CVR %s: rejecting %s: period is not a full fiscal year", cvrNumber, doc.DokumentURL)
			continue
		}

		// Duplicate years are silently dropped; the first accepted
		// (most recently published) filing for a year wins.
		remaining := make([]int, 0, len(years))
		for _, y := range years {
			if !accepted[y] {
				remaining = append(remaining, y)
			}
		}
		if len(remaining) == 0 {
			continue
		}

		ms := bestCandidate(idx, remaining)
		if score := Score(ms); score < ScoreThreshold {
			log.Printf("CVR %s: discarding %s: low confidence (%d key metrics)", cvrNumber, doc.DokumentURL, score)
			continue
		}

		ms.NormalizeCurrency()
		ms.ComputeRatios()

		year, _ := strconv.Atoi(ms.Aar)
		accepted[year] = true
		data = append(data, *ms)
		reports = append(reports, reportMetadata(filing, doc, ms))
	}

	result := &Result{
		FinancialReports: reports,
		FinancialData:    data,
		HasRealData:      len(data) > 0,
	}
	if !result.HasRealData {
		result.Error = "ingen maskinlæsbare regnskabsdata fundet"
	}
	return result, nil
}

// bestCandidate extracts a metric set per candidate year and keeps the
// best-scoring one. Candidates arrive in preference order and the sort
// is stable, so ties resolve toward the preferred year.
func bestCandidate(idx *xbrl.TagIndex, years []int) *FinancialMetricSet {
	type candidate struct {
		ms    *FinancialMetricSet
		score int
	}
	candidates := make([]candidate, 0, len(years))
	for _, year := range years {
		ms := ExtractMetricSet(idx, year)
		candidates = append(candidates, candidate{ms: ms, score: Score(ms)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates[0].ms
}

// fiscalYearCandidates derives the candidate fiscal years for a parsed
// document, in preference order: explicit reporting-period tags, then
// full-year duration contexts, then instant contexts, then the filing
// event's own metadata. A fact's year comes only from its owning
// context; metadata is used when no context offers one. ok is false when
// the document's period is identifiably not a full fiscal year.
func fiscalYearCandidates(idx *xbrl.TagIndex, filing cvr.Filing) ([]int, bool) {
	if year, found, rejected := yearFromReportingPeriod(idx); rejected {
		return nil, false
	} else if found {
		return []int{year}, true
	}

	if years, found, rejected := yearsFromDurations(idx); rejected {
		return nil, false
	} else if found {
		return years, true
	}

	if years, found := yearsFromInstants(idx); found {
		return years, true
	}

	return yearFromMetadata(filing)
}

func yearFromReportingPeriod(idx *xbrl.TagIndex) (year int, found, rejected bool) {
	var end, start string
	for _, tag := range taxonomy.ReportingPeriodEndTags {
		for _, f := range idx.Facts[tag] {
			if _, ok := xbrl.ParseDate(f.Value); ok {
				end = f.Value
				break
			}
		}
		if end != "" {
			break
		}
	}
	if end == "" {
		return 0, false, false
	}
	for _, tag := range taxonomy.ReportingPeriodStartTags {
		if facts := idx.Facts[tag]; len(facts) > 0 {
			start = facts[0].Value
			break
		}
	}
	if start != "" {
		span := xbrl.Context{StartDate: start, EndDate: end}
		if span.IsDuration() && !span.FullYear() {
			return 0, false, true
		}
	}
	endDate, _ := xbrl.ParseDate(end)
	return endDate.Year(), true, false
}

func yearsFromDurations(idx *xbrl.TagIndex) (years []int, found, rejected bool) {
	durations := 0
	seen := make(map[int]bool)
	for _, ctx := range idx.Contexts {
		if !ctx.IsDuration() {
			continue
		}
		durations++
		if !ctx.FullYear() {
			continue
		}
		if y := ctx.Year(); y != 0 && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	if durations > 0 && len(years) == 0 {
		// The document declares durations and none of them is a full
		// year: an interim filing that slipped past document-type
		// screening.
		return nil, false, true
	}
	if len(years) == 0 {
		return nil, false, false
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	if len(years) > maxYearCandidates {
		years = years[:maxYearCandidates]
	}
	return years, true, false
}

func yearsFromInstants(idx *xbrl.TagIndex) ([]int, bool) {
	seen := make(map[int]bool)
	var years []int
	for _, ctx := range idx.Contexts {
		if ctx.IsDuration() || ctx.Instant == "" {
			continue
		}
		if y := ctx.Year(); y != 0 && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return nil, false
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	if len(years) > maxYearCandidates {
		years = years[:maxYearCandidates]
	}
	return years, true
}

func yearFromMetadata(filing cvr.Filing) ([]int, bool) {
	period := filing.Regnskab.Regnskabsperiode
	if end, ok := xbrl.ParseDate(period.SlutDato); ok {
		span := xbrl.Context{StartDate: period.StartDato, EndDate: period.SlutDato}
		if span.IsDuration() && !span.FullYear() {
			return nil, false
		}
		return []int{end.Year()}, true
	}
	if published := filing.Published(); !published.IsZero() {
		return []int{published.Year() - 1}, true
	}
	return nil, false
}

func reportMetadata(filing cvr.Filing, doc cvr.Document, ms *FinancialMetricSet) ReportMetadata {
	meta := ReportMetadata{
		Aar:             ms.Aar,
		Offentliggjort:  filing.OffentliggoerelsesTidspunkt,
		DokumentType:    doc.DokumentType,
		DokumentURL:     doc.DokumentURL,
		Virksomhedsnavn: filing.Virksomhedsnavn,
	}
	period := filing.Regnskab.Regnskabsperiode
	if period.StartDato != "" && period.SlutDato != "" {
		meta.Periode = period.StartDato + " - " + period.SlutDato
	}
	switch {
	case ms.Nettoomsaetning != nil && *ms.Nettoomsaetning != 0:
		meta.Resume = printer.Sprintf("Nettoomsætning %.0f %s", *ms.Nettoomsaetning, ms.Valuta)
	case ms.AaretsResultat != nil:
		meta.Resume = printer.Sprintf("Årets resultat %.0f %s", *ms.AaretsResultat, ms.Valuta)
	}
	return meta
}
