package regnskab

import "math"

// ComputeRatios derives the secondary ratios from the primary metrics.
// Each ratio is computed only when both operands are present and the
// denominator is non-zero; otherwise it stays null.
func (ms *FinancialMetricSet) ComputeRatios() {
	ms.Soliditetsgrad = percentage(ms.Egenkapital, ms.Aktiver)
	ms.Likviditetsgrad = percentage(ms.Omsaetningsaktiver, ms.KortfristetGaeld)
	ms.Afkastningsgrad = percentage(ms.AaretsResultat, ms.Aktiver)
	ms.Overskudsgrad = percentage(ms.AaretsResultat, ms.Nettoomsaetning)
}

func percentage(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil || *denominator == 0 {
		return nil
	}
	v := math.Round(*numerator / *denominator * 100 * 100) / 100
	return &v
}
