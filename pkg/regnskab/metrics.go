// Package regnskab extracts per-year financial metric sets from the
// annual-report filings a company has published to the business
// registry: it resolves tagged facts across taxonomy dialects,
// normalizes units, scale and currency, derives secondary ratios and
// assembles a deduplicated, year-bounded result set.
package regnskab

// FinancialMetricSet is one fiscal year's extracted figures. JSON field
// names follow the Danish reporting vocabulary the rest of the system
// speaks. Pointer fields distinguish a genuinely absent figure (null)
// from a reported zero; absence is an expected outcome, not an error.
type FinancialMetricSet struct {
	Aar string `json:"aar"`

	Nettoomsaetning         *float64 `json:"nettoomsaetning"`
	Bruttofortjeneste       *float64 `json:"bruttofortjeneste"`
	Bruttotab               *float64 `json:"bruttotab"`
	Driftsresultat          *float64 `json:"driftsresultat"`
	ResultatFoerSkat        *float64 `json:"resultatFoerSkat"`
	AaretsResultat          *float64 `json:"aaretsResultat"`
	Aktiver                 *float64 `json:"aktiver"`
	Anlaegsaktiver          *float64 `json:"anlaegsaktiver"`
	Omsaetningsaktiver      *float64 `json:"omsaetningsaktiver"`
	Egenkapital             *float64 `json:"egenkapital"`
	HensatteForpligtelser   *float64 `json:"hensatteForpligtelser"`
	Gaeldsforpligtelser     *float64 `json:"gaeldsforpligtelser"`
	KortfristetGaeld        *float64 `json:"kortfristetGaeld"`
	LangfristetGaeld        *float64 `json:"langfristetGaeld"`
	Personaleomkostninger   *float64 `json:"personaleomkostninger"`
	Afskrivninger           *float64 `json:"afskrivninger"`
	FinansielleIndtaegter   *float64 `json:"finansielleIndtaegter"`
	FinansielleOmkostninger *float64 `json:"finansielleOmkostninger"`
	SkatAfAaretsResultat    *float64 `json:"skatAfAaretsResultat"`
	LeverandoerGaeld        *float64 `json:"leverandoerGaeld"`
	TilgodehavenderFraSalg  *float64 `json:"tilgodehavenderFraSalg"`
	LikvideBeholdninger     *float64 `json:"likvideBeholdninger"`

	Soliditetsgrad  *float64 `json:"soliditetsgrad"`
	Likviditetsgrad *float64 `json:"likviditetsgrad"`
	Afkastningsgrad *float64 `json:"afkastningsgrad"`
	Overskudsgrad   *float64 `json:"overskudsgrad"`

	// Valuta is the reporting currency every monetary field is
	// expressed in after normalization; OriginalValuta is the currency
	// detected in the filing before conversion.
	Valuta         string `json:"valuta"`
	OriginalValuta string `json:"originalValuta"`
}

// monetaryFields returns every field subject to currency conversion.
// Ratios are percentages and excluded.
func (ms *FinancialMetricSet) monetaryFields() []**float64 {
	return []**float64{
		&ms.Nettoomsaetning,
		&ms.Bruttofortjeneste,
		&ms.Bruttotab,
		&ms.Driftsresultat,
		&ms.ResultatFoerSkat,
		&ms.AaretsResultat,
		&ms.Aktiver,
		&ms.Anlaegsaktiver,
		&ms.Omsaetningsaktiver,
		&ms.Egenkapital,
		&ms.HensatteForpligtelser,
		&ms.Gaeldsforpligtelser,
		&ms.KortfristetGaeld,
		&ms.LangfristetGaeld,
		&ms.Personaleomkostninger,
		&ms.Afskrivninger,
		&ms.FinansielleIndtaegter,
		&ms.FinansielleOmkostninger,
		&ms.SkatAfAaretsResultat,
		&ms.LeverandoerGaeld,
		&ms.TilgodehavenderFraSalg,
		&ms.LikvideBeholdninger,
	}
}
