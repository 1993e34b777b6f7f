// Package taxonomy carries the static vocabulary of the reporting
// dialects found in published Danish annual reports: the IFRS/ESEF
// vocabulary used by larger entities, the domestic fsa vocabulary, the
// inline-fact form, and the legacy namespace-less form of older
// filings.
//
// One financial concept appears under many tag names across dialect
// vintages, so each canonical metric maps to an ordered synonym list.
// Lists are extended by appending new entries, never by branching logic;
// order encodes preference. All names are lowercase because the tag
// index lowercases element names during parsing.
package taxonomy

// Canonical metric names. These double as the JSON field vocabulary of
// the extracted metric sets.
const (
	Nettoomsaetning         = "nettoomsaetning"
	RevenueAndOpIncome      = "nettoomsaetningOgDriftsindtaegter"
	Bruttofortjeneste       = "bruttofortjeneste"
	Driftsresultat          = "driftsresultat"
	ResultatFoerSkat        = "resultatFoerSkat"
	AaretsResultat          = "aaretsResultat"
	Aktiver                 = "aktiver"
	Anlaegsaktiver          = "anlaegsaktiver"
	Omsaetningsaktiver      = "omsaetningsaktiver"
	Egenkapital             = "egenkapital"
	HensatteForpligtelser   = "hensatteForpligtelser"
	Gaeldsforpligtelser     = "gaeldsforpligtelser"
	KortfristetGaeld        = "kortfristetGaeld"
	LangfristetGaeld        = "langfristetGaeld"
	Personaleomkostninger   = "personaleomkostninger"
	Afskrivninger           = "afskrivninger"
	FinansielleIndtaegter   = "finansielleIndtaegter"
	FinansielleOmkostninger = "finansielleOmkostninger"
	SkatAfAaretsResultat    = "skatAfAaretsResultat"
	LeverandoerGaeld        = "leverandoerGaeld"
	TilgodehavenderFraSalg  = "tilgodehavenderFraSalg"
	LikvideBeholdninger     = "likvideBeholdninger"
)

// Synonyms maps each canonical metric to its tag names across all known
// dialects, in lookup order: ESEF/IFRS first, then the domestic fsa
// vocabulary, then older short-prefix vintages, then the namespace-less
// legacy form.
var Synonyms = map[string][]string{
	Nettoomsaetning: {
		"ifrs-full:revenue",
		"fsa:revenue",
		"e:revenue",
		"f:revenue",
		"revenue",
		"nettoomsaetning",
	},
	RevenueAndOpIncome: {
		"fsa:revenueandotheroperatingincome",
		"e:revenueandotheroperatingincome",
		"revenueandotheroperatingincome",
	},
	Bruttofortjeneste: {
		"ifrs-full:grossprofit",
		"fsa:grossprofitloss",
		"fsa:grossresult",
		"e:grossprofitloss",
		"grossprofitloss",
		"grossresult",
		"bruttofortjeneste",
	},
	Driftsresultat: {
		"ifrs-full:profitlossfromoperatingactivities",
		"fsa:profitlossfromordinaryoperatingactivities",
		"fsa:operatingprofitloss",
		"e:profitlossfromordinaryoperatingactivities",
		"profitlossfromordinaryoperatingactivities",
		"operatingprofitloss",
	},
	ResultatFoerSkat: {
		"ifrs-full:profitlossbeforetax",
		"fsa:profitlossfromordinaryactivitiesbeforetax",
		"e:profitlossfromordinaryactivitiesbeforetax",
		"profitlossfromordinaryactivitiesbeforetax",
		"profitlossbeforetax",
	},
	AaretsResultat: {
		"ifrs-full:profitloss",
		"fsa:profitloss",
		"arr:profitloss",
		"e:profitloss",
		"profitloss",
		"aaretsresultat",
	},
	Aktiver: {
		"ifrs-full:assets",
		"fsa:assets",
		"e:assets",
		"assets",
	},
	Anlaegsaktiver: {
		"ifrs-full:noncurrentassets",
		"fsa:noncurrentassets",
		"fsa:longtermassets",
		"e:noncurrentassets",
		"noncurrentassets",
		"longtermassets",
	},
	Omsaetningsaktiver: {
		"ifrs-full:currentassets",
		"fsa:currentassets",
		"fsa:shorttermassets",
		"e:currentassets",
		"currentassets",
		"shorttermassets",
	},
	Egenkapital: {
		"ifrs-full:equity",
		"fsa:equity",
		"e:equity",
		"equity",
		"egenkapital",
	},
	HensatteForpligtelser: {
		"ifrs-full:provisions",
		"fsa:provisions",
		"e:provisions",
		"provisions",
	},
	Gaeldsforpligtelser: {
		"ifrs-full:liabilities",
		"fsa:liabilitiesotherthanprovisions",
		"e:liabilitiesotherthanprovisions",
		"liabilitiesotherthanprovisions",
		"liabilities",
	},
	KortfristetGaeld: {
		"ifrs-full:currentliabilities",
		"fsa:shorttermliabilitiesotherthanprovisions",
		"e:shorttermliabilitiesotherthanprovisions",
		"shorttermliabilitiesotherthanprovisions",
		"currentliabilities",
	},
	LangfristetGaeld: {
		"ifrs-full:noncurrentliabilities",
		"fsa:longtermliabilitiesotherthanprovisions",
		"e:longtermliabilitiesotherthanprovisions",
		"longtermliabilitiesotherthanprovisions",
		"noncurrentliabilities",
	},
	Personaleomkostninger: {
		"ifrs-full:employeebenefitsexpense",
		"fsa:employeebenefitsexpense",
		"fsa:wagesandsalaries",
		"e:employeebenefitsexpense",
		"employeebenefitsexpense",
	},
	Afskrivninger: {
		"ifrs-full:depreciationandamortisationexpense",
		"fsa:depreciationamortisationexpenseandimpairmentlossesofpropertyplantandequipmentandintangibleassetsrecognisedinprofitorloss",
		"fsa:depreciationamortisationandimpairmentlosses",
		"depreciationandamortisationexpense",
		"depreciationamortisationandimpairmentlosses",
	},
	FinansielleIndtaegter: {
		"ifrs-full:financeincome",
		"fsa:otherfinanceincome",
		"e:otherfinanceincome",
		"otherfinanceincome",
		"financeincome",
	},
	FinansielleOmkostninger: {
		"ifrs-full:financecosts",
		"fsa:otherfinanceexpenses",
		"e:otherfinanceexpenses",
		"otherfinanceexpenses",
		"financeexpenses",
	},
	SkatAfAaretsResultat: {
		"ifrs-full:incometaxexpensecontinuingoperations",
		"fsa:taxexpenseonordinaryactivities",
		"fsa:taxexpense",
		"taxexpenseonordinaryactivities",
		"taxexpense",
	},
	LeverandoerGaeld: {
		"ifrs-full:tradeandothercurrentpayables",
		"fsa:shorttermtradepayables",
		"e:shorttermtradepayables",
		"shorttermtradepayables",
		"tradepayables",
	},
	TilgodehavenderFraSalg: {
		"ifrs-full:currenttradereceivables",
		"fsa:shorttermtradereceivables",
		"e:shorttermtradereceivables",
		"shorttermtradereceivables",
		"tradereceivables",
	},
	LikvideBeholdninger: {
		"ifrs-full:cashandcashequivalents",
		"fsa:cashandcashequivalents",
		"fsa:deposits",
		"e:cashandcashequivalents",
		"cashandcashequivalents",
		"deposits",
		"likvidebeholdninger",
	},
}

// Lookup returns the ordered synonym list for a canonical metric, nil
// when the metric is unknown.
func Lookup(metric string) []string {
	return Synonyms[metric]
}

// ReportingPeriodStartTags and ReportingPeriodEndTags carry the explicit
// reporting-period declarations some filings publish alongside contexts.
// They are preferred over context-derived years when present.
var (
	ReportingPeriodStartTags = []string{"gsd:reportingperiodstartdate", "reportingperiodstartdate"}
	ReportingPeriodEndTags   = []string{"gsd:reportingperiodenddate", "reportingperiodenddate"}
)

// NamespacePrefixes is the allow-list of financial tag namespaces used
// when bounding oversized documents. A reduced document keeps only
// remainder lines carrying one of these prefixes.
var NamespacePrefixes = []string{
	"fsa:",
	"ifrs-full:",
	"gsd:",
	"arr:",
	"sob:",
	"cmn:",
	"mrv:",
	"ix:",
	"e:",
	"f:",
	"g:",
}

// KeyMetrics are the eight metrics the scorer counts when gating a
// parsed candidate.
var KeyMetrics = []string{
	Nettoomsaetning,
	AaretsResultat,
	Aktiver,
	Egenkapital,
	Driftsresultat,
	ResultatFoerSkat,
	Anlaegsaktiver,
	Omsaetningsaktiver,
}
