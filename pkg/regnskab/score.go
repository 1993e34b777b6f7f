package regnskab

// ScoreThreshold is the acceptance gate: candidates extracting fewer key
// metrics than this are discarded entirely.
const ScoreThreshold = 2

// Score counts how many of the eight key metrics (the taxonomy.KeyMetrics
// set) came out non-null and non-zero. It doubles as the tiebreaker when
// several candidate years could be extracted from one document and as
// the acceptance gate for the whole candidate.
func Score(ms *FinancialMetricSet) int {
	key := []*float64{
		ms.Nettoomsaetning,
		ms.AaretsResultat,
		ms.Aktiver,
		ms.Egenkapital,
		ms.Driftsresultat,
		ms.ResultatFoerSkat,
		ms.Anlaegsaktiver,
		ms.Omsaetningsaktiver,
	}
	score := 0
	for _, v := range key {
		if v != nil && *v != 0 {
			score++
		}
	}
	return score
}
