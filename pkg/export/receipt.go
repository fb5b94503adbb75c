package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Receipt holds the printable fields of a settled payment.
type Receipt struct {
	PaymentID     string
	SaleID        string
	StudentName   string
	ServiceName   string
	BillingPeriod string
	Amount        float64
	Method        string
	PaymentDate   string
	TransactionID string
}

// ReceiptExporter renders payment receipts as PDF documents.
type ReceiptExporter struct {
	centerName string
}

// NewReceiptExporter builds a receipt exporter with a letterhead name.
func NewReceiptExporter(centerName string) *ReceiptExporter {
	if centerName == "" {
		centerName = "Centro de Tutorias"
	}
	return &ReceiptExporter{centerName: centerName}
}

// Render produces a one-page PDF receipt.
func (e *ReceiptExporter) Render(r Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 9, e.centerName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Recibo de pago", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(40, 6, label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, value, "", 1, "", false, 0, "")
	}

	line("Recibo:", r.PaymentID)
	line("Venta:", r.SaleID)
	line("Alumno:", r.StudentName)
	line("Servicio:", r.ServiceName)
	line("Periodo:", r.BillingPeriod)
	line("Fecha de pago:", r.PaymentDate)
	line("Metodo:", r.Method)
	if r.TransactionID != "" {
		line("Transaccion:", r.TransactionID)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Monto: Bs %.2f", r.Amount), "T", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
