package regnskab

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marcximus/dansk-firma-finder/pkg/cvr"
)

type fakeFetcher struct {
	filings   []cvr.Filing
	docs      map[string]string
	searchErr error
}

func (f *fakeFetcher) SearchFilings(ctx context.Context, cvrNumber string) ([]cvr.Filing, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.filings, nil
}

func (f *fakeFetcher) LoadDocument(ctx context.Context, doc cvr.Document) ([]byte, error) {
	content, ok := f.docs[doc.DokumentURL]
	if !ok {
		return nil, fmt.Errorf("no document at %s", doc.DokumentURL)
	}
	return []byte(content), nil
}

func annualFiling(url, published string) cvr.Filing {
	return cvr.Filing{
		CVRNummer:                   12345678,
		Virksomhedsnavn:             "Test Holding ApS",
		OffentliggoerelsesTidspunkt: published,
		Dokumenter: []cvr.Document{{
			DokumentURL:      url,
			DokumentMimeType: cvr.MimeXML,
			DokumentType:     cvr.DocTypeAnnual,
		}},
	}
}

// instance wraps facts in an instance document with a full-year duration
// context and a year-end instant context for the given fiscal year.
func instance(year int, facts string) string {
	return fmt.Sprintf(`<xbrl>
<xbrli:context id="ctx_d"><xbrli:period><xbrli:startDate>%d-01-01</xbrli:startDate><xbrli:endDate>%d-12-31</xbrli:endDate></xbrli:period></xbrli:context>
<xbrli:context id="ctx_i"><xbrli:period><xbrli:instant>%d-12-31</xbrli:instant></xbrli:period></xbrli:context>
<xbrli:unit id="dkk"><xbrli:measure>iso4217:DKK</xbrli:measure></xbrli:unit>
%s
</xbrl>`, year, year, year, facts)
}

func fullReport(year int, revenue, netResult, assets, equity int) string {
	return instance(year, fmt.Sprintf(`<ifrs-full:Revenue contextRef="ctx_d" unitRef="dkk">%d</ifrs-full:Revenue>
<ifrs-full:ProfitLoss contextRef="ctx_d" unitRef="dkk">%d</ifrs-full:ProfitLoss>
<ifrs-full:Assets contextRef="ctx_i" unitRef="dkk">%d</ifrs-full:Assets>
<ifrs-full:Equity contextRef="ctx_i" unitRef="dkk">%d</ifrs-full:Equity>`, revenue, netResult, assets, equity))
}

func TestFetchSingleFiling(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []cvr.Filing{annualFiling("http://docs/2023.xml", "2024-05-01T00:00:00Z")},
		docs: map[string]string{
			"http://docs/2023.xml": fullReport(2023, 100000000, 5000000, 20000000, 8000000),
		},
	}

	result, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.HasRealData)
	assert.Empty(t, result.Error)

	require.Len(t, result.FinancialData, 1)
	ms := result.FinancialData[0]
	assert.Equal(t, "2023", ms.Aar)
	require.NotNil(t, ms.Nettoomsaetning)
	assert.Equal(t, 100000000.0, *ms.Nettoomsaetning)
	assert.Equal(t, "DKK", ms.Valuta)
	require.NotNil(t, ms.Soliditetsgrad)
	assert.Equal(t, 40.0, *ms.Soliditetsgrad)

	require.Len(t, result.FinancialReports, 1)
	meta := result.FinancialReports[0]
	assert.Equal(t, "2023", meta.Aar)
	assert.Equal(t, "http://docs/2023.xml", meta.DokumentURL)
	assert.Equal(t, cvr.DocTypeAnnual, meta.DokumentType)
	assert.Equal(t, "Test Holding ApS", meta.Virksomhedsnavn)
	assert.Contains(t, meta.Resume, "Nettoomsætning")
}

func TestFetchInvalidIdentifier(t *testing.T) {
	result, err := Fetch(context.Background(), &fakeFetcher{}, "1234")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, cvr.ErrInvalidIdentifier)
}

func TestFetchRegistryUnavailable(t *testing.T) {
	fetcher := &fakeFetcher{searchErr: fmt.Errorf("boom: %w", cvr.ErrRegistryUnavailable)}
	result, err := Fetch(context.Background(), fetcher, "12345678")
	require.ErrorIs(t, err, cvr.ErrRegistryUnavailable)
	require.NotNil(t, result, "a shaped result accompanies the error")
	assert.False(t, result.HasRealData)
	assert.NotEmpty(t, result.Error)
	assert.NotNil(t, result.FinancialData)
	assert.NotNil(t, result.FinancialReports)
}

func TestFetchNoFilings(t *testing.T) {
	result, err := Fetch(context.Background(), &fakeFetcher{}, "12345678")
	require.NoError(t, err)
	assert.False(t, result.HasRealData)
	assert.Empty(t, result.FinancialData)
	assert.Empty(t, result.FinancialReports)
	assert.NotEmpty(t, result.Error)
}

func TestFetchLowConfidenceDiscarded(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []cvr.Filing{annualFiling("http://docs/thin.xml", "2024-05-01T00:00:00Z")},
		docs: map[string]string{
			"http://docs/thin.xml": instance(2023, `<ifrs-full:Revenue contextRef="ctx_d" unitRef="dkk">100</ifrs-full:Revenue>`),
		},
	}

	result, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	assert.False(t, result.HasRealData, "a single key metric is below the acceptance gate")
	assert.Empty(t, result.FinancialData)
}

func TestFetchYearDedup(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []cvr.Filing{
			annualFiling("http://docs/resubmitted.xml", "2024-09-01T00:00:00Z"),
			annualFiling("http://docs/original.xml", "2024-05-01T00:00:00Z"),
		},
		docs: map[string]string{
			"http://docs/resubmitted.xml": fullReport(2023, 100000000, 5000000, 20000000, 8000000),
			"http://docs/original.xml":    fullReport(2023, 999, 999, 999, 999),
		},
	}

	result, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	require.Len(t, result.FinancialData, 1, "the same fiscal year must appear once")
	assert.Equal(t, 100000000.0, *result.FinancialData[0].Nettoomsaetning, "the newest published filing wins")
}

func TestFetchMultipleYears(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []cvr.Filing{
			annualFiling("http://docs/2022.xml", "2023-05-01T00:00:00Z"),
			annualFiling("http://docs/2023.xml", "2024-05-01T00:00:00Z"),
		},
		docs: map[string]string{
			"http://docs/2023.xml": fullReport(2023, 200, 20, 2000, 800),
			"http://docs/2022.xml": fullReport(2022, 100, 10, 1000, 400),
		},
	}

	result, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	require.Len(t, result.FinancialData, 2)
	assert.Equal(t, "2023", result.FinancialData[0].Aar, "years arrive newest first")
	assert.Equal(t, "2022", result.FinancialData[1].Aar)
}

func TestFetchSkipsUnloadableDocument(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []cvr.Filing{
			annualFiling("http://docs/gone.xml", "2024-05-01T00:00:00Z"),
			annualFiling("http://docs/2022.xml", "2023-05-01T00:00:00Z"),
		},
		docs: map[string]string{
			"http://docs/2022.xml": fullReport(2022, 100, 10, 1000, 400),
		},
	}

	result, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	require.Len(t, result.FinancialData, 1, "an unloadable document abandons only that candidate")
	assert.Equal(t, "2022", result.FinancialData[0].Aar)
}

func TestFetchRejectsInterimPeriod(t *testing.T) {
	quarter := `<xbrl>
<xbrli:context id="q"><xbrli:period><xbrli:startDate>2023-01-01</xbrli:startDate><xbrli:endDate>2023-03-31</xbrli:endDate></xbrli:period></xbrli:context>
<xbrli:unit id="dkk"><xbrli:measure>iso4217:DKK</xbrli:measure></xbrli:unit>
<fsa:Revenue contextRef="q" unitRef="dkk">100</fsa:Revenue>
</xbrl>`
	fetcher := &fakeFetcher{
		filings: []cvr.Filing{annualFiling("http://docs/q1.xml", "2023-05-01T00:00:00Z")},
		docs:    map[string]string{"http://docs/q1.xml": quarter},
	}

	result, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	assert.False(t, result.HasRealData, "a document whose only durations are interim is not a fiscal year")
}

func TestFetchDeterministic(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []cvr.Filing{annualFiling("http://docs/2023.xml", "2024-05-01T00:00:00Z")},
		docs: map[string]string{
			"http://docs/2023.xml": fullReport(2023, 123456789, 5000000, 20000000, 8000000),
		},
	}

	first, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	second, err := Fetch(context.Background(), fetcher, "12345678")
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated extraction of the same documents is idempotent")
}
