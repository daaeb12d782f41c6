// Package report renders user assessment history as a PDF document.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/imrics/DermAI/internal/model"
)

var sectionTitles = map[model.ConditionKind]string{
	model.KindHairline: "Hairline Assessment",
	model.KindAcne:     "Acne Assessment",
	model.KindMole:     "Mole Assessment",
}

// sectionOrder keeps the report deterministic regardless of entry ordering.
var sectionOrder = []model.ConditionKind{model.KindHairline, model.KindAcne, model.KindMole}

// WriteUserReport renders the full assessment report for one user to w.
func WriteUserReport(w io.Writer, user model.User, entries []model.Entry) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "Dermatological Assessment Report", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	writePatientInfo(pdf, user, len(entries))

	byKind := map[model.ConditionKind][]model.Entry{}
	for _, entry := range entries {
		byKind[entry.Kind] = append(byKind[entry.Kind], entry)
	}
	for _, kind := range sectionOrder {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, sectionTitles[kind], "", 1, "L", false, 0, "")
		pdf.Ln(2)
		for _, entry := range group {
			writeEntry(pdf, entry)
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

func writePatientInfo(pdf *gofpdf.Fpdf, user model.User, total int) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Patient Information", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	rows := [][2]string{
		{"Name:", user.Name},
		{"Patient ID:", user.ID},
		{"Report Date:", time.Now().Format("January 2, 2006")},
		{"Total Entries:", fmt.Sprintf("%d", total)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func writeEntry(pdf *gofpdf.Fpdf, entry model.Entry) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Entry Date: "+entry.CreatedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Sequence ID: "+entry.SequenceID, "", 1, "L", false, 0, "")

	if line := classificationLine(entry); line != "" {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	writeLabeledText(pdf, "AI Analysis:", entry.AIComments)
	writeLabeledText(pdf, "Recommendations:", entry.Recommendations)
	if len(entry.Treatment) > 0 {
		treatment := strings.Join(entry.Treatment, ", ")
		writeLabeledText(pdf, "Treatment:", &treatment)
	}
	writeLabeledText(pdf, "Patient Notes:", entry.UserNotes)
	pdf.Ln(6)
}

func classificationLine(entry model.Entry) string {
	switch entry.Kind {
	case model.KindHairline:
		if entry.NorwoodScore != nil {
			return fmt.Sprintf("Norwood Score: %d", *entry.NorwoodScore)
		}
	case model.KindAcne:
		if entry.SeverityLevel != nil {
			return "Severity Level: " + *entry.SeverityLevel
		}
	case model.KindMole:
		if entry.IrregularitiesDetected != nil {
			status := "No"
			if *entry.IrregularitiesDetected {
				status = "Yes"
			}
			return "Irregularities Detected: " + status
		}
	}
	return ""
}

func writeLabeledText(pdf *gofpdf.Fpdf, label string, text *string) {
	if text == nil || *text == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, *text, "", "L", false)
	pdf.Ln(1)
}
