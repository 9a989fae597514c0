package analyzer

import (
	"time"

	"github.com/gantryhq/gantry/pkg/types"
)

// recommendations applies the fixed rule ladder: risk tier, health tier,
// maintenance-frequency spike, age tier, condition tier, then the routine
// fallback when nothing fires.
func recommendations(asset types.AssetSnapshot, healthScore float64, prediction types.PredictionResult, summary types.MaintenanceSummary, now time.Time) []string {
	var recs []string

	switch {
	case prediction.RiskScore >= 0.8:
		recs = append(recs, "Immediate preventive maintenance required; failure risk is critical.")
	case prediction.RiskScore >= 0.6:
		recs = append(recs, "Schedule preventive maintenance within the next 7 days.")
	}

	switch {
	case healthScore < 40:
		recs = append(recs, "Health score is degraded; perform a full inspection.")
	case healthScore < 60:
		recs = append(recs, "Health score is declining; increase inspection frequency.")
	}

	if summary.Last30Days >= 3 {
		recs = append(recs, "Multiple repairs in the last 30 days; investigate the underlying root cause.")
	}

	if asset.PurchaseDate != nil {
		switch years := asset.AgeYears(now); {
		case years >= 15:
			recs = append(recs, "Asset exceeds typical service life; evaluate replacement.")
		case years >= 10:
			recs = append(recs, "Asset is nearing end of service life; budget for replacement.")
		}
	}

	switch asset.Condition {
	case types.ConditionCritical:
		recs = append(recs, "Condition is rated critical; take the asset out of service for assessment.")
	case types.ConditionPoor:
		recs = append(recs, "Condition is rated poor; prioritize corrective attention.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Continue routine monitoring.")
	}
	return recs
}
