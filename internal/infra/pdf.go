package infra

// pdf.go — release slip generation using go-pdf/fpdf.
// Produces an A6 slip for the box that leaves the storeroom: product name,
// batch number, expiry, quantity, recipient, and the operator who released it.
// The output file is saved to storagePath/slip_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"pdstock/internal/model"

	"github.com/go-pdf/fpdf"
)

type SlipWriter struct {
	storagePath string
}

func NewSlipWriter(storagePath string) *SlipWriter {
	return &SlipWriter{storagePath: storagePath}
}

// GenerateReleaseSlip renders one release-history row as a printable slip and
// returns the absolute path to the generated file.
func (w *SlipWriter) GenerateReleaseSlip(h *model.ReleaseHistory) (string, error) {
	if err := os.MkdirAll(w.storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("slip_%s.pdf", h.ID)
	filePath := filepath.Join(w.storagePath, fileName)

	// A6 = 105mm × 148mm (custom size, "A6" is not in fpdf's named list)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 105, Ht: 148},
	})
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "PD Stock", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Release Slip", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	// ── Details ──────────────────────────────────────────────────────────────
	// Core PDF fonts cannot render Thai glyphs, so the slip carries the
	// English name; the batch number is the unambiguous identifier either way.
	name := h.EnglishName
	if name == "" {
		name = h.BatchNo
	}
	labelW := contentW * 0.38

	rows := []struct{ label, value string }{
		{"Product", name},
		{"Batch No", h.BatchNo},
		{"Expiry", h.Exp},
		{"Quantity", fmt.Sprintf("%d", h.Quantity)},
		{"Released To", h.ReleasedTo},
		{"Released By", h.ProcessedBy},
		{"Date", h.CreatedAt.Format("02/01/2006 15:04")},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(labelW, 6, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW-labelW, 6, row.value, "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(3)

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Ref %s", h.ID), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
