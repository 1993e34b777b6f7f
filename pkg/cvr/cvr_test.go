package cvr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCVR(t *testing.T) {
	cases := []struct {
		name      string
		cvrNumber string
		valid     bool
	}{
		{"valid", "12345678", true},
		{"too short", "1234567", false},
		{"too long", "123456789", false},
		{"empty", "", false},
		{"letters", "1234567a", false},
		{"whitespace", " 12345678", false},
		{"with separator", "12 34 56 78", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCVR(tc.cvrNumber)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidIdentifier)
			}
		})
	}
}

func TestSelectDocumentPriority(t *testing.T) {
	filing := Filing{
		Dokumenter: []Document{
			{DokumentURL: "http://x/plain", DokumentMimeType: MimeXML, DokumentType: DocTypeAnnual},
			{DokumentURL: "http://x/esef", DokumentMimeType: MimeXML, DokumentType: DocTypeAnnualESEF},
			{DokumentURL: "http://x/pdf", DokumentMimeType: "application/pdf", DokumentType: DocTypeAnnualESEF},
		},
	}
	doc, ok := filing.SelectDocument()
	require.True(t, ok)
	assert.Equal(t, "http://x/esef", doc.DokumentURL, "ESEF should win over the standard annual report")
}

func TestSelectDocumentSkipsNonXML(t *testing.T) {
	filing := Filing{
		Dokumenter: []Document{
			{DokumentURL: "http://x/pdf", DokumentMimeType: "application/pdf", DokumentType: DocTypeAnnualESEF},
			{DokumentURL: "http://x/xml", DokumentMimeType: MimeXML, DokumentType: DocTypeAnnual},
		},
	}
	doc, ok := filing.SelectDocument()
	require.True(t, ok)
	assert.Equal(t, "http://x/xml", doc.DokumentURL)
}

func TestSelectDocumentDropsInterim(t *testing.T) {
	filing := Filing{
		Dokumenter: []Document{
			{DokumentURL: "http://x/half", DokumentMimeType: MimeXML, DokumentType: DocTypeHalfYear},
			{DokumentURL: "http://x/quarter", DokumentMimeType: MimeXML, DokumentType: DocTypeQuarterly},
		},
	}
	_, ok := filing.SelectDocument()
	assert.False(t, ok, "interim-only filings carry no extractable document")
}

func TestSelectDocumentEmpty(t *testing.T) {
	_, ok := Filing{}.SelectDocument()
	assert.False(t, ok)
}

func TestPublished(t *testing.T) {
	f := Filing{OffentliggoerelsesTidspunkt: "2024-05-01T10:30:00.000"}
	assert.Equal(t, 2024, f.Published().Year())

	f = Filing{OffentliggoerelsesTidspunkt: "2024-05-01T10:30:00Z"}
	assert.Equal(t, 2024, f.Published().Year())

	f = Filing{OffentliggoerelsesTidspunkt: "2024-05-01"}
	assert.Equal(t, 2024, f.Published().Year())

	assert.True(t, Filing{}.Published().IsZero())
}

func TestSortNewestFirst(t *testing.T) {
	filings := []Filing{
		{OffentliggoerelsesTidspunkt: "2022-06-01T00:00:00Z"},
		{OffentliggoerelsesTidspunkt: "2024-06-01T00:00:00Z"},
		{OffentliggoerelsesTidspunkt: "2023-06-01T00:00:00Z"},
	}
	SortNewestFirst(filings)
	require.Len(t, filings, 3)
	assert.Equal(t, 2024, filings[0].Published().Year())
	assert.Equal(t, 2023, filings[1].Published().Year())
	assert.Equal(t, 2022, filings[2].Published().Year())
}
