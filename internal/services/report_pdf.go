package services

import (
	"bytes"
	"fmt"
	"strings"

	"carreras/internal/domain/models"
	"carreras/internal/domain/settlement"
	"carreras/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReportDocsService renders a settlement breakdown as an exportable PDF.
type ReportDocsService struct {
	RequestID string
}

// reportPDF pairs the document with the cp1252 translator needed for the
// accented labels on core fonts.
type reportPDF struct {
	*gofpdf.Fpdf
	tr func(string) string
}

// GenerateUnitPDF builds the weekly settlement document for one unit.
func (s ReportDocsService) GenerateUnitPDF(name, from, to string, b settlement.UnitBreakdown) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_unit_pdf", fmt.Sprintf("unit=%s rides=%d", b.UnitKey, b.RideCount))

	pdf := newReportPDF(fmt.Sprintf("Reporte Semanal - Unidad: %s", safe(name, "N/A")), from, to)

	head := []string{"Fecha", "Proveedor", "Inicio", "Destino", "Pago", "Monto", "Comisión", "Neto"}
	rows := make([][]string, 0, len(b.Rides))
	for _, r := range b.Rides {
		comm := settlement.RideCommission(r)
		commCell := "-"
		if r.HasCommission {
			commCell = money(comm)
		}
		rows = append(rows, []string{
			r.Date,
			safe(r.ProviderName, "N/A"),
			r.StartLocation,
			r.Destination,
			paymentLabel(r.PaymentMethod),
			money(r.Amount),
			commCell,
			money(r.Amount - comm),
		})
	}
	pdf.writeRideTable(head, rows)

	pdf.writeSummaryTitle()
	pdf.writeSummaryLine("Total Bruto", money(b.Gross))
	pdf.writeSummaryLine("Crédito Solicitado", disableable(b.EffectiveRequestedCredit, b.RequestedCreditEnabled))
	pdf.writeSummaryLine("% Retenido", money(b.CommissionTotal))
	pdf.writeSummaryLine("Frecuencia", disableable(b.EffectiveFrequency, b.FrequencyEnabled))
	pdf.writeSummaryLine("Cuadre", money(b.SettlementFee))
	pdf.writeSummaryLine("Crédito a Favor", money(b.CreditOwed))

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	if b.Payable > 0 {
		pdf.Cell(0, 8, pdf.tr("TOTAL A PAGAR: "+money(b.Payable)))
	} else {
		pdf.Cell(0, 8, pdf.tr("TOTAL A RECIBIR: "+money(b.Receivable)))
	}

	return pdf.output(name, from)
}

// GenerateProviderPDF builds the weekly settlement document for one
// provider. Payable and receivable are both printed; they are never netted.
func (s ReportDocsService) GenerateProviderPDF(name, from, to string, b settlement.ProviderBreakdown) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_provider_pdf", fmt.Sprintf("provider=%s rides=%d", b.ProviderKey, b.RideCount))

	pdf := newReportPDF(fmt.Sprintf("Reporte Semanal - Proveedor: %s", safe(name, "N/A")), from, to)

	head := []string{"Fecha", "Unidad", "Inicio", "Destino", "Pago", "Monto", "Comisión", "Crédito"}
	rows := make([][]string, 0, len(b.Rides))
	for _, r := range b.Rides {
		commCell := "-"
		if r.HasCommission {
			commCell = money(settlement.RideCommission(r))
		}
		creditCell := "No"
		if r.ProviderGaveCredit {
			creditCell = "Sí"
		}
		rows = append(rows, []string{
			r.Date,
			safe(r.UnitName, "N/A"),
			r.StartLocation,
			r.Destination,
			paymentLabel(r.PaymentMethod),
			money(r.Amount),
			commCell,
			creditCell,
		})
	}
	pdf.writeRideTable(head, rows)

	pdf.writeSummaryTitle()
	pdf.writeSummaryLine("Créditos a Pagar", money(b.CreditsPayable))
	pdf.writeSummaryLine("Cuadre a Pagar", money(b.SettlementFee))
	pdf.writeSummaryLine("Comisión Total (10%)", money(b.CommissionTotal))

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, pdf.tr("TOTAL A PAGAR: "+money(b.Payable)))
	pdf.Ln(8)
	pdf.Cell(0, 8, pdf.tr("TOTAL A RECIBIR: "+money(b.Receivable)))

	return pdf.output(name, from)
}

func newReportPDF(title, from, to string) reportPDF {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Reporte Semanal", false)
	doc.AddPage()
	pdf := reportPDF{Fpdf: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, pdf.tr(title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, pdf.tr(fmt.Sprintf("Período: %s al %s", from, to)))
	pdf.Ln(12)
	return pdf
}

var rideColWidths = []float64{20, 28, 26, 26, 22, 20, 20, 20}

func (pdf reportPDF) writeRideTable(head []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range head {
		pdf.CellFormat(rideColWidths[i], 7, pdf.tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}
		for i, cell := range row {
			pdf.CellFormat(rideColWidths[i], 6, pdf.tr(clip(cell, 18)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (pdf reportPDF) writeSummaryTitle() {
	_, h := pdf.GetPageSize()
	if pdf.GetY() > h-70 {
		pdf.AddPage()
	}
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Resumen Financiero")
	pdf.Ln(10)
}

func (pdf reportPDF) writeSummaryLine(label, value string) {
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, pdf.tr(fmt.Sprintf("%s: %s", label, value)))
	pdf.Ln(7)
}

func (pdf reportPDF) output(name, from string) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("Reporte_%s_%s.pdf", safeFilenamePart(name), from)
	return buf.Bytes(), filename, nil
}

func money(v float64) string {
	return "$" + utils.FormatMoney(utils.RoundCents(v))
}

func disableable(v float64, enabled bool) string {
	if !enabled {
		return "$0.00 (Desactivado)"
	}
	return money(v)
}

func paymentLabel(method string) string {
	switch method {
	case models.PaymentCash:
		return "Efectivo"
	case models.PaymentCredit:
		return "Crédito"
	case models.PaymentTransfer:
		return "Transferencia"
	}
	return method
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
