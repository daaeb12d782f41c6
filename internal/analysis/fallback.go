package analysis

import "github.com/imrics/DermAI/internal/model"

// FallbackVerdict is the static, safe verdict written when real analysis
// cannot complete. Treatment lists stay within the contract's three-item
// cap; comments never embed the underlying error.
func FallbackVerdict(kind model.ConditionKind) model.Verdict {
	switch kind {
	case model.KindHairline:
		score := 2
		return model.Verdict{
			NorwoodScore:    &score,
			Comments:        "Hairline analysis unavailable at this time",
			Recommendations: "Please consult with a hair care professional for evaluation.",
			Treatment:       []string{"Ketoconazole Shampoo", "Minoxidil Topical 5%", "Low-Level Laser Therapy"},
		}
	case model.KindAcne:
		severity := model.SeverityModerate
		return model.Verdict{
			SeverityLevel:   &severity,
			Comments:        "Skin texture analysis unavailable at this time",
			Recommendations: "Please consult with a skincare professional for evaluation.",
			Treatment:       []string{"Oral Antibiotics", "Clindamycin + Benzoyl Peroxide Gel", "Tazarotene"},
		}
	default:
		irregular := false
		return model.Verdict{
			IrregularitiesDetected: &irregular,
			Comments:               "Skin feature analysis unavailable at this time",
			Recommendations:        "Please consult with a professional for evaluation.",
			Treatment:              []string{"Shave Excision", "Punch Biopsy", "Laser Ablation"},
		}
	}
}
