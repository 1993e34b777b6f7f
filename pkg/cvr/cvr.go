// Package cvr models the Danish business registry's offentliggørelser
// index: published filing events for a company, the documents attached
// to each event, and the search API that exposes them.
package cvr

import (
	"errors"
	"regexp"
	"sort"
	"time"
)

// ErrInvalidIdentifier is returned for CVR numbers that are not exactly
// eight digits. Validation happens before any network I/O.
var ErrInvalidIdentifier = errors.New("invalid CVR number: must be exactly 8 digits")

var cvrPattern = regexp.MustCompile(`^[0-9]{8}$`)

// ValidateCVR checks that an identifier is a well-formed CVR number.
func ValidateCVR(cvrNumber string) error {
	if !cvrPattern.MatchString(cvrNumber) {
		return ErrInvalidIdentifier
	}
	return nil
}

// Document types seen on filing events. Interim reports are never
// machine-extracted.
const (
	DocTypeAnnualESEF      = "AARSRAPPORT_ESEF"
	DocTypeAnnualFinancial = "AARSRAPPORT_FINANSIEL"
	DocTypeAnnual          = "AARSRAPPORT"
	DocTypeHalfYear        = "HALVAARSRAPPORT"
	DocTypeQuarterly       = "KVARTALSRAPPORT"
)

// MimeXML is the mime type of machine-readable instance documents.
const MimeXML = "application/xml"

// Document describes one retrievable document attached to a filing event.
type Document struct {
	DokumentURL      string `json:"dokumentUrl"`
	DokumentMimeType string `json:"dokumentMimeType"`
	DokumentType     string `json:"dokumentType"`
}

// Interim reports whether the document is a half-year or quarterly report.
func (d Document) Interim() bool {
	return d.DokumentType == DocTypeHalfYear || d.DokumentType == DocTypeQuarterly
}

// Period is the fiscal period a filing covers, as declared by the registry.
type Period struct {
	StartDato string `json:"startDato"`
	SlutDato  string `json:"slutDato"`
}

// Regnskab carries the registry's own metadata about the report.
type Regnskab struct {
	Regnskabsperiode Period `json:"regnskabsperiode"`
}

// Filing is one publication event in the offentliggørelser index. It is
// discovered read-only and never mutated.
type Filing struct {
	CVRNummer                   int        `json:"cvrNummer"`
	Virksomhedsnavn             string     `json:"virksomhedsnavn"`
	OffentliggoerelsesTidspunkt string     `json:"offentliggoerelsesTidspunkt"`
	GodkendelsesTidspunkt       string     `json:"godkendelsesTidspunkt"`
	DokumentType                string     `json:"dokumentType"`
	Dokumenter                  []Document `json:"dokumenter"`
	Regnskab                    Regnskab   `json:"regnskab"`
}

// Published parses the publication timestamp, zero time if absent.
func (f Filing) Published() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000", "2006-01-02"} {
		if t, err := time.Parse(layout, f.OffentliggoerelsesTidspunkt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// annualPriority is the strict selection order for machine-readable
// documents: ESEF first, then the domestic financial taxonomy, then the
// standard annual report.
var annualPriority = []string{DocTypeAnnualESEF, DocTypeAnnualFinancial, DocTypeAnnual}

// SelectDocument picks the single best machine-readable candidate on a
// filing event. Interim documents are dropped unconditionally; the first
// exact (type, application/xml) match in priority order wins and no other
// candidates are tried after that. ok is false when the event carries no
// extractable document.
func (f Filing) SelectDocument() (doc Document, ok bool) {
	for _, docType := range annualPriority {
		for _, d := range f.Dokumenter {
			if d.Interim() {
				continue
			}
			if d.DokumentType == docType && d.DokumentMimeType == MimeXML {
				return d, true
			}
		}
	}
	return Document{}, false
}

// SortNewestFirst orders filings by publication time, most recent first.
// The registry already sorts its hits, but ordering is a correctness
// requirement for year deduplication, so it is enforced again here.
func SortNewestFirst(filings []Filing) {
	sort.SliceStable(filings, func(i, j int) bool {
		return filings[i].Published().After(filings[j].Published())
	})
}
