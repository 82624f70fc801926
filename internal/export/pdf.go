// Package export renders orders and board lists to printable and
// spreadsheet formats.
package export

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/boardfoot/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 10.0
	rowHeight    = 6.0
)

// Column widths of a species table: board, board feet, cost.
var colWidths = []float64{110, 35, 35}

// ExportOrderPDF writes a saved order as a PDF report, using the order's
// frozen totals.
func ExportOrderPDF(path string, order model.SavedOrder) error {
	date := order.Date
	return writeReportPDF(path, order.Name, &date, order.Boards, order.TotalBoardFeet, order.TotalCost)
}

// ExportBoardsPDF writes an unsaved board list as a PDF report. Totals are
// computed from the boards and no date is printed.
func ExportBoardsPDF(path, title string, boards []model.BoardEntry) error {
	bf, cost := model.Totals(boards)
	return writeReportPDF(path, title, nil, boards, bf, cost)
}

func writeReportPDF(path, title string, date *time.Time, boards []model.BoardEntry, totalBF, totalCost float64) error {
	if len(boards) == 0 {
		return fmt.Errorf("no boards to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")
	y := marginTop + headerHeight

	if date != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, "Date: "+model.FormatReportDate(*date), "", 0, "L", false, 0, "")
		y += 6
	}

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y+1, pageWidth-marginRight, y+1)
	y += 5

	for _, g := range model.GroupBySpecies(boards) {
		// Group heading plus header row plus at least one board must fit
		if y+7+2*rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, tr(g.Species), "", 0, "L", false, 0, "")
		y += 8
		y = renderTableHeader(pdf, y)

		pdf.SetFont("Helvetica", "", 9)
		for i, b := range g.Boards {
			if y+rowHeight > pageHeight-marginBottom {
				pdf.AddPage()
				y = renderTableHeader(pdf, marginTop)
				pdf.SetFont("Helvetica", "", 9)
			}
			bf := model.BoardFeet(b)
			cost := model.Cost(b)
			row := []string{tr(model.DisplayString(b, false)), "", ""}
			if bf > 0 {
				row[1] = model.FormatFixed2(bf) + " bf"
			}
			if cost > 0 {
				row[2] = "$" + model.FormatFixed2(cost)
			}

			// Alternate row background
			if i%2 == 0 {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			renderRow(pdf, y, row, true)
			y += rowHeight
		}

		if sub := model.SubtotalLine(g.BoardFeet(), g.Cost()); sub != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2], rowHeight, sub[2:], "", 0, "R", false, 0, "")
			y += rowHeight
		}
		y += 4
	}

	if totalBF > 0 || totalCost > 0 {
		if y+20 > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Line(marginLeft, y, pageWidth-marginRight, y)
		y += 3
		pdf.SetFont("Helvetica", "B", 11)
		if totalBF > 0 {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(100, 7, "Total Board Feet: "+model.FormatFixed2(totalBF)+" bf", "", 0, "L", false, 0, "")
			y += 7
		}
		if totalCost > 0 {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(100, 7, "Total Cost: $"+model.FormatFixed2(totalCost), "", 0, "L", false, 0, "")
		}
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by boardfoot", "", 0, "C", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

func renderTableHeader(pdf *fpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	renderRow(pdf, y, []string{"Board", "Board Feet", "Cost"}, true)
	return y + rowHeight
}

func renderRow(pdf *fpdf.Fpdf, y float64, cells []string, fill bool) {
	aligns := []string{"L", "R", "R"}
	x := marginLeft
	for i, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], rowHeight, cell, "1", 0, aligns[i], fill, 0, "")
		x += colWidths[i]
	}
}
