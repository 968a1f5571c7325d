package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/yatrika/server/internal/planner/model"
	"github.com/yatrika/server/internal/trip"
)

// PDF renders a stored trip as a printable itinerary document.
func PDF(doc trip.PlanDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, fmt.Sprintf("Trip to %s", doc.Request.Destination), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s to %s", doc.Request.StartDate, doc.Request.ReturnDate), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, day := range doc.Itinerary.Plan {
		pdf.SetFont("Helvetica", "B", 13)
		title := fmt.Sprintf("Day %d", day.Day)
		if day.Theme != "" {
			title = fmt.Sprintf("Day %d: %s", day.Day, day.Theme)
		}
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

		if day.Date != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.CellFormat(0, 6, day.Date, "", 1, "L", false, 0, "")
		}

		pdf.SetFont("Helvetica", "", 10)
		for _, act := range day.Activities {
			line := act.Description
			if act.Time != "" {
				line = fmt.Sprintf("%s - %s", act.Time, act.Description)
			}
			if act.LocationName != "" {
				line = fmt.Sprintf("%s (%s)", line, act.LocationName)
			}
			pdf.MultiCell(0, 5.5, line, "", "L", false)
		}
		pdf.Ln(3)
	}

	writeCostTable(pdf, doc.Itinerary.CostBreakdown)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCostTable(pdf *fpdf.Fpdf, costs model.CostBreakdown) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Estimated Costs (INR)", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	rows := []struct {
		label string
		value int
	}{
		{"Accommodation", costs.AccommodationINR},
		{"Transport", costs.TransportINR},
		{"Activities", costs.ActivitiesINR},
		{"Food", costs.FoodINR},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", row.value), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%d", costs.TotalINR), "1", 1, "R", false, 0, "")
}
