package analysis

import (
	"strings"

	"github.com/imrics/DermAI/internal/model"
)

// SystemInstruction frames every vision request. Deliberately phrased as
// image description rather than diagnosis.
const SystemInstruction = "You are a helpful image analysis assistant that describes visual characteristics of images. You provide objective observations without medical diagnosis."

// ContractVersion stamps the scale/vocabulary tables below. Changing a
// scale boundary or a treatment vocabulary is a data change here, nowhere
// else.
const ContractVersion = "2025.08"

// vocabBand maps a classification band to its allowed treatment options.
// The model is told to pick from these, not to invent treatments.
type vocabBand struct {
	Band    string
	Options []string
}

// Contract is the per-condition prompt contract: role, exact output shape,
// classification scale, treatment vocabulary, and analysis requirements.
type Contract struct {
	Kind             model.AnalysisKind
	Role             string
	ResponseShape    string
	Focus            string
	ScaleHeading     string
	ScaleLines       []string
	VocabHeading     string
	TreatmentVocab   []vocabBand
	Requirements     []string
	TrendRequirement string
}

var norwoodScale = []string{
	"Stage 0: No visible hair loss or recession",
	"Stage 1: No visible hair loss or recession",
	"Stage 2: Minimal recession at temples, forming mature hairline",
	"Stage 3: Deeper temple recession, may have slight crown thinning",
	"Stage 4: Significant temple recession with crown thinning becoming noticeable",
	"Stage 5: Crown and temples merge, horseshoe pattern starts forming",
	"Stage 6: Crown and temple areas mostly bald with bridge of hair",
	"Stage 7: Severe hair loss with only sides and back remaining",
}

var norwoodVocab = []vocabBand{
	{Band: "Stage 0-1", Options: []string{"Castor Oil", "Rosemary Oil", "Scalp Massage", "Biotin", "Vitamin D", "Zinc", "Omega-3 Fatty Acids"}},
	{Band: "Stage 2", Options: []string{"Ketoconazole Shampoo", "Minoxidil Oral 2.5 Mg", "Minoxidil Topical 5%", "Low-Level Laser Therapy"}},
	{Band: "Stage 3", Options: []string{"Finasteride 1 Mg", "Minoxidil Oral 2.5 Mg", "Minoxidil Topical 5%", "Microneedling"}},
	{Band: "Stage 4", Options: []string{"Dutasteride 0.5 Mg", "Minoxidil 2.5 Mg", "PRP Injections", "Exosome Therapy", "Stem-Cell Derived Therapies"}},
	{Band: "Stage 5-7", Options: []string{"Dutasteride 0.5 Mg", "Minoxidil 2.5 Mg", "Hair Transplant (FUE/FUT)", "Scalp Micropigmentation", "Wigs", "Hair Systems"}},
}

var acneVocab = []vocabBand{
	{Band: "Mild (smooth to slightly textured)", Options: []string{"Benzoyl Peroxide Wash", "Salicylic Acid Cleansers", "Adapalene", "Tretinoin"}},
	{Band: "Moderate (textured)", Options: []string{"Oral Antibiotics", "Clindamycin + Benzoyl Peroxide Gel", "Tazarotene"}},
	{Band: "Severe (very textured)", Options: []string{"Isotretinoin", "Oral Contraceptives", "Spironolactone", "Chemical Peels", "Laser Therapy", "Microneedling"}},
}

var moleVocab = []vocabBand{
	{Band: "Benign/Cosmetic (regular features)", Options: []string{"Shave Excision", "Punch Biopsy", "Laser Ablation"}},
	{Band: "Suspicious (irregular features)", Options: []string{"Dermoscopy", "Punch Biopsy", "Excisional Biopsy", "Wide Local Excision", "Sentinel Lymph Node Biopsy"}},
	{Band: "Cosmetic removal", Options: []string{"Electrosurgery", "Radiofrequency Ablation", "Plastic-Surgical Excision"}},
}

var contracts = map[model.AnalysisKind]Contract{
	model.AnalysisHair: {
		Kind: model.AnalysisHair,
		Role: "You are a hair pattern analysis specialist. Analyze this set of hairline photos using the Norwood Scale classification system (stages 0-7).",
		ResponseShape: `{
    "norwood_score": 2,
    "observations": "Describe current hairline pattern in 2-3 sentences, include trend across timeline",
    "suggestions": "Provide care/styling suggestions and any trend-aware guidance",
    "treatment": "Comma-separated treatment names only, no connective prose, title-cased, at most 3 items"
}`,
		ScaleHeading:   "IMPORTANT NORWOOD SCALE GUIDELINES:",
		ScaleLines:     norwoodScale,
		VocabHeading:   "TREATMENT GUIDELINES BY NORWOOD STAGE:",
		TreatmentVocab: norwoodVocab,
		Requirements: []string{
			"Be CONSERVATIVE in your estimates (choose the lower stage when unsure)",
			"Consider lighting and photo angle",
			"Select treatments ONLY from the guidelines above for the determined Norwood stage",
		},
		TrendRequirement: "Incorporate comparisons across the indexed images to note progression/regression",
	},
	model.AnalysisSkinTexture: {
		Kind: model.AnalysisSkinTexture,
		Role: "You are an image analysis AI. Analyze this set of photos for skin texture and appearance.",
		ResponseShape: `{
    "texture_level": "smooth",
    "observations": "Describe current texture in 2-3 sentences, include trend across timeline",
    "suggestions": "Provide general routine suggestions informed by trends",
    "treatment": "Comma-separated treatment names only, no connective prose, title-cased, at most 3 items"
}`,
		Focus:          `Focus on: skin texture, smoothness, overall appearance. Use texture_level values: "smooth", "textured", or "very_textured".`,
		VocabHeading:   "ACNE TREATMENT GUIDELINES BY SEVERITY:",
		TreatmentVocab: acneVocab,
		Requirements: []string{
			"Be CONSERVATIVE: when unsure, prefer the lower texture level",
			"Select treatments ONLY from the guidelines above for the determined texture level",
		},
		TrendRequirement: "Emphasize changes over time using the indexed images",
	},
	model.AnalysisSkinFeature: {
		Kind: model.AnalysisSkinFeature,
		Role: "You are an image analysis AI. Analyze this set of photos for skin feature characteristics.",
		ResponseShape: `{
    "feature_regular": true,
    "observations": "Describe current feature characteristics in 2-3 sentences, include trend across timeline",
    "suggestions": "Provide monitoring and care suggestions considering changes over time",
    "treatment": "Comma-separated treatment names only, no connective prose, title-cased, at most 3 items"
}`,
		Focus:          "Focus on: feature shape, color uniformity, overall appearance. Use feature_regular as true for regular features, false for irregular.",
		VocabHeading:   "MOLE/SKIN LESION TREATMENT GUIDELINES:",
		TreatmentVocab: moleVocab,
		Requirements: []string{
			"Be CONSERVATIVE: when unsure, prefer feature_regular = true",
			"Select treatments ONLY from the guidelines above for the feature regularity assessment",
			"Always recommend professional consultation for suspicious features",
		},
		TrendRequirement: "Emphasize changes over time using the indexed images",
	},
}

// ContractFor returns the prompt contract for an analysis kind.
func ContractFor(kind model.AnalysisKind) Contract {
	return contracts[kind]
}

// BuildPrompt renders the full instruction text. hasHistory switches the
// trend requirement on when prior images are attached.
func (c Contract) BuildPrompt(contextBlock string, hasHistory bool) string {
	var b strings.Builder
	b.WriteString(c.Role)
	b.WriteString("\n\nRespond in this exact JSON format:\n")
	b.WriteString(c.ResponseShape)
	b.WriteString("\n\nContext: ")
	b.WriteString(contextBlock)
	b.WriteString("\n")
	if c.Focus != "" {
		b.WriteString("\n" + c.Focus + "\n")
	}
	if len(c.ScaleLines) > 0 {
		b.WriteString("\n" + c.ScaleHeading + "\n")
		for _, line := range c.ScaleLines {
			b.WriteString("- " + line + "\n")
		}
	}
	b.WriteString("\n" + c.VocabHeading + "\n")
	for _, band := range c.TreatmentVocab {
		b.WriteString("- " + band.Band + ": " + strings.Join(band.Options, ", ") + "\n")
	}
	b.WriteString("\nREQUIREMENTS:\n")
	for _, req := range c.Requirements {
		b.WriteString("- " + req + "\n")
	}
	if hasHistory {
		b.WriteString("- " + c.TrendRequirement + "\n")
	}
	return b.String()
}
