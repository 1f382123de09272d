package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/workbridge/erp-backend-go/internal/domain/company"
	"github.com/workbridge/erp-backend-go/internal/domain/delivery"
)

// RenderDeliveryNote renders a delivery note as an A4 PDF with the
// company's letterhead and one row per delivered item.
func RenderDeliveryNote(comp company.Company, d delivery.Delivery) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Delivery Note %s", d.Number), false)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	writeLetterhead(doc, comp)
	writeDeliveryHeader(doc, d)
	writeItemTable(doc, d.Items)
	writeSignatureBlock(doc)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render delivery note: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLetterhead(doc *fpdf.Fpdf, comp company.Company) {
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 8, comp.Name, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(100, 100, 100)
	if comp.Address != nil {
		doc.CellFormat(0, 4.5, *comp.Address, "", 1, "L", false, 0, "")
	}
	contact := ""
	if comp.Email != nil {
		contact = *comp.Email
	}
	if comp.Phone != nil {
		if contact != "" {
			contact += " | "
		}
		contact += *comp.Phone
	}
	if contact != "" {
		doc.CellFormat(0, 4.5, contact, "", 1, "L", false, 0, "")
	}
	if comp.TaxID != nil {
		doc.CellFormat(0, 4.5, fmt.Sprintf("Tax ID: %s", *comp.TaxID), "", 1, "L", false, 0, "")
	}
	doc.SetTextColor(0, 0, 0)

	doc.Ln(4)
	doc.SetDrawColor(200, 200, 200)
	x, y := doc.GetXY()
	pageW, _ := doc.GetPageSize()
	_, _, rightMargin, _ := doc.GetMargins()
	doc.Line(x, y, pageW-rightMargin, y)
	doc.Ln(6)
}

func writeDeliveryHeader(doc *fpdf.Fpdf, d delivery.Delivery) {
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 7, "DELIVERY NOTE", "", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 10)
	rows := [][2]string{
		{"Number", d.Number},
		{"Date", d.DeliveryDate.Format("2 January 2006")},
		{"Status", string(d.Status)},
	}
	if d.CustomerName != nil {
		rows = append(rows, [2]string{"Customer", *d.CustomerName})
	}
	rows = append(rows, [2]string{"Delivery Address", d.Address})

	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(40, 6, row[0], "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 6, row[1], "", "L", false)
	}
	doc.Ln(4)
}

func writeItemTable(doc *fpdf.Fpdf, items []delivery.Item) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(240, 240, 240)
	doc.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	doc.CellFormat(128, 7, "Description", "1", 0, "L", true, 0, "")
	doc.CellFormat(30, 7, "Qty", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for i, item := range items {
		doc.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		doc.CellFormat(128, 7, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(30, 7, formatQuantity(item.Quantity), "1", 1, "R", false, 0, "")
	}
	doc.Ln(10)
}

func writeSignatureBlock(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "", 10)
	y := doc.GetY()
	doc.CellFormat(90, 6, "Delivered by,", "", 0, "C", false, 0, "")
	doc.CellFormat(90, 6, "Received by,", "", 1, "C", false, 0, "")
	doc.SetY(y + 26)
	doc.CellFormat(90, 6, "(................................)", "", 0, "C", false, 0, "")
	doc.CellFormat(90, 6, "(................................)", "", 1, "C", false, 0, "")

	doc.Ln(8)
	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(130, 130, 130)
	doc.CellFormat(0, 5, fmt.Sprintf("Generated on %s", time.Now().Format("2 January 2006 15:04")), "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
