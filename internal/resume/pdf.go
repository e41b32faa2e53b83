package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 50.0
	bulletIndent = 18.0
)

// RenderPDF lays the resume out on US Letter and returns the document bytes.
func RenderPDF(r *Resume) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	writeHeadline(doc, tr, r.Headline)
	writeSummary(doc, tr, r.Summary)
	writeExperience(doc, tr, r.Sections.Experience)
	writeSkills(doc, tr, r.Sections.Skills)
	writeEducation(doc, tr, r.Sections.Education)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func contentWidth(doc *fpdf.Fpdf) float64 {
	w, _ := doc.GetPageSize()
	return w - 2*pageMargin
}

func writeHeadline(doc *fpdf.Fpdf, tr func(string) string, headline string) {
	doc.SetFont("Helvetica", "B", 22)
	doc.MultiCell(contentWidth(doc), 26, tr(headline), "", "C", false)
	doc.Ln(8)
}

func writeSummary(doc *fpdf.Fpdf, tr func(string) string, summary string) {
	if summary == "" {
		return
	}
	doc.SetFont("Helvetica", "", 12)
	doc.MultiCell(contentWidth(doc), 16, tr(summary), "", "L", false)
	doc.Ln(10)
}

func writeSectionTitle(doc *fpdf.Fpdf, title string) {
	doc.Ln(6)
	doc.SetFont("Helvetica", "B", 14)
	doc.MultiCell(contentWidth(doc), 18, strings.ToUpper(title), "", "L", false)
	doc.SetDrawColor(221, 221, 221)
	doc.SetLineWidth(1)
	y := doc.GetY()
	w, _ := doc.GetPageSize()
	doc.Line(pageMargin, y, w-pageMargin, y)
	doc.SetDrawColor(0, 0, 0)
	doc.Ln(8)
}

func writeExperience(doc *fpdf.Fpdf, tr func(string) string, experiences []ResumeExperience) {
	if len(experiences) == 0 {
		return
	}
	writeSectionTitle(doc, "Experience")

	for _, exp := range experiences {
		doc.SetFont("Helvetica", "B", 12)
		doc.MultiCell(contentWidth(doc), 15, tr(exp.Title+" - "+exp.Company), "", "L", false)

		meta := exp.Dates
		if exp.Location != "" {
			meta = exp.Location + " / " + exp.Dates
		}
		doc.SetFont("Helvetica", "I", 11)
		doc.MultiCell(contentWidth(doc), 14, tr(meta), "", "L", false)
		doc.Ln(2)

		doc.SetFont("Helvetica", "", 11)
		for _, bullet := range exp.Bullets {
			doc.SetX(pageMargin + bulletIndent)
			doc.MultiCell(contentWidth(doc)-bulletIndent, 14, tr("- "+bullet), "", "L", false)
		}
		doc.Ln(8)
	}
}

func writeSkills(doc *fpdf.Fpdf, tr func(string) string, skills []string) {
	if len(skills) == 0 {
		return
	}
	writeSectionTitle(doc, "Skills")
	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(contentWidth(doc), 14, tr(strings.Join(skills, " / ")), "", "L", false)
	doc.Ln(10)
}

func writeEducation(doc *fpdf.Fpdf, tr func(string) string, education []ResumeEducation) {
	if len(education) == 0 {
		return
	}
	writeSectionTitle(doc, "Education")
	for _, edu := range education {
		doc.SetFont("Helvetica", "B", 12)
		doc.MultiCell(contentWidth(doc), 15, tr(edu.Credential+" - "+edu.School), "", "L", false)
		if edu.Year != nil {
			doc.SetFont("Helvetica", "", 11)
			doc.MultiCell(contentWidth(doc), 14, fmt.Sprintf("%d", *edu.Year), "", "L", false)
		}
		doc.Ln(6)
	}
}
