package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/boardfoot/internal/model"
)

// LabelInfo holds the data encoded into each board label's QR code.
type LabelInfo struct {
	OrderID   string  `json:"order_id"`
	OrderName string  `json:"order"`
	BoardID   string  `json:"board_id"`
	Index     int     `json:"index"`
	Species   string  `json:"species"`
	Display   string  `json:"display"`
	Quantity  int     `json:"quantity"`
	BoardFeet float64 `json:"board_feet"`
	Cost      float64 `json:"cost"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per board line of
// the order. Each label shows the species, the board description and its
// board feet, with a QR code encoding the LabelInfo as JSON. Labels are laid
// out on a standard label sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, order model.SavedOrder) error {
	labels := CollectLabelInfos(order)
	if len(labels) == 0 {
		return fmt.Errorf("no boards to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return fmt.Errorf("failed to render label %d: %w", label.Index, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.OrderID, info.Index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Species (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, tr(info.Species), textW), "", 1, "L", false, 0, "")

	// Board description
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, tr(info.Display), textW), "", 1, "L", false, 0, "")

	// Board feet and cost
	var amounts string
	if info.BoardFeet > 0 {
		amounts = model.FormatFixed2(info.BoardFeet) + " bf"
	}
	if info.Cost > 0 {
		if amounts != "" {
			amounts += " - "
		}
		amounts += "$" + model.FormatFixed2(info.Cost)
	}
	if amounts != "" {
		pdf.SetXY(textX, y+labelPadding+9)
		pdf.CellFormat(textW, 3.5, amounts, "", 1, "L", false, 0, "")
	}

	// Order reference
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+13)
	ref := fmt.Sprintf("%s #%d", info.OrderName, info.Index)
	pdf.CellFormat(textW, 3, truncate(pdf, tr(ref), textW), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits w at the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos returns the label data for each board of an order, in
// order, without rendering anything.
func CollectLabelInfos(order model.SavedOrder) []LabelInfo {
	var labels []LabelInfo
	for i, b := range order.Boards {
		labels = append(labels, LabelInfo{
			OrderID:   order.ID,
			OrderName: order.Name,
			BoardID:   b.ID,
			Index:     i + 1,
			Species:   b.Species(),
			Display:   model.DisplayString(b, false),
			Quantity:  b.Quantity,
			BoardFeet: model.BoardFeet(b),
			Cost:      model.Cost(b),
		})
	}
	return labels
}
