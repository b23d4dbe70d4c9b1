package infra

// pdf.go — invoice PDF generation using go-pdf/fpdf.
// Produces an A4 invoice with business header, customer block, item table
// (name, qty, unit price, tax, line total) and a totals section.
// The output file is saved to storagePath/invoice_{invoiceNo}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"bizzops/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateInvoicePDF renders the invoice and returns the path of the
// generated file. storagePath is created if needed.
func GenerateInvoicePDF(inv *model.Invoice, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("invoice_%s.pdf", inv.InvoiceNo)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, businessName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, "Invoice "+inv.InvoiceNo, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, inv.Date.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Customer block ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 5, "Billed to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, inv.CustomerName, "", 1, "L", false, 0, "")
	if inv.CustomerEmail != nil {
		pdf.CellFormat(contentW, 5, *inv.CustomerEmail, "", 1, "L", false, 0, "")
	}
	if inv.CustomerPhone != nil {
		pdf.CellFormat(contentW, 5, *inv.CustomerPhone, "", 1, "L", false, 0, "")
	}
	if inv.CustomerAddress != nil {
		pdf.CellFormat(contentW, 5, *inv.CustomerAddress, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// ── Item table ────────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // item
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.16 // unit price
	col4 := contentW * 0.14 // tax
	col5 := contentW * 0.18 // line total

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "Unit Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Tax", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		name := item.Name
		if len(name) > 40 {
			name = name[:39] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", item.Qty), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, item.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, item.TaxAmount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3 + col4
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelW, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, inv.SubTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, "Tax", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, inv.TaxAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelW, 8, "Grand Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, inv.GrandTotal.StringFixed(2), "", 1, "R", false, 0, "")

	status := "UNPAID"
	if inv.Paid {
		status = "PAID"
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, status, "", 1, "L", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Thank you for your business!", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
