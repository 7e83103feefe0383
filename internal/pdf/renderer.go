// Package pdf renders invoice documents and stores them on the local
// filesystem under stable, sanitized names.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// InvoiceData is the flat projection an invoice is rendered from. It carries
// everything the document needs so rendering never touches entities or the
// database, and it breaks the Order<->Invoice reference cycle.
type InvoiceData struct {
	Number          string
	IssuedAt        time.Time
	PaymentMethod   string
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Phone           string
	Lines           []InvoiceLine
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
}

// InvoiceLine is one product row of the rendered invoice.
type InvoiceLine struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
}

// Company block printed on every invoice.
const (
	companyName    = "Kraken Lures"
	companyAddress = "Limon, Costa Rica"
	companyPhone   = "+506 2222-5555"
	companyEmail   = "info@krakenlures.com"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Renderer produces invoice PDFs. All layout state lives on the instance,
// configured once at startup; there is no package-level font or color state.
type Renderer struct {
	dir string
}

// NewRenderer creates a Renderer that stores documents under dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render produces the PDF bytes for the given invoice projection. The output
// is a pure function of data; it is never empty on success.
func (r *Renderer) Render(data InvoiceData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 20, 15)
	doc.AddPage()

	// Title
	doc.SetFont("Helvetica", "B", 22)
	doc.SetTextColor(0, 51, 102)
	doc.CellFormat(0, 12, "FACTURA", "", 1, "C", false, 0, "")
	doc.Ln(4)

	// Company block
	doc.SetFont("Helvetica", "B", 11)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 6, companyName, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 5, companyAddress, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, companyPhone+"  -  "+companyEmail, "", 1, "L", false, 0, "")
	doc.Ln(6)

	// Invoice info
	r.infoRow(doc, "Numero de Factura:", data.Number)
	r.infoRow(doc, "Fecha de Emision:", data.IssuedAt.Format("02/01/2006 15:04"))
	r.infoRow(doc, "Metodo de Pago:", data.PaymentMethod)
	doc.Ln(4)

	// Customer block
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(0, 51, 102)
	doc.CellFormat(0, 8, "INFORMACION DEL CLIENTE", "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	r.infoRow(doc, "Nombre:", data.CustomerName)
	r.infoRow(doc, "Email:", data.CustomerEmail)
	r.infoRow(doc, "Direccion:", data.ShippingAddress)
	r.infoRow(doc, "Telefono:", data.Phone)
	doc.Ln(6)

	// Product table header
	widths := []float64{70, 30, 20, 30, 30}
	headers := []string{"Producto", "Precio Unitario", "Cantidad", "Subtotal", "Impuesto"}
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(0, 51, 102)
	doc.SetTextColor(255, 255, 255)
	for i, h := range headers {
		doc.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	// Product rows
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	for _, line := range data.Lines {
		doc.CellFormat(widths[0], 7, line.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 7, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[3], 7, line.Subtotal.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 7, line.Tax.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}
	doc.Ln(6)

	// Totals, right-aligned
	r.totalRow(doc, "Subtotal:", data.Subtotal, false)
	r.totalRow(doc, "Impuesto:", data.Tax, false)
	r.totalRow(doc, "TOTAL:", data.Total, true)
	doc.Ln(10)

	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(100, 100, 100)
	doc.MultiCell(0, 4, "Gracias por su compra. Esta factura fue generada electronicamente y es valida sin firma.", "", "C", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", data.Number, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) infoRow(doc *gofpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (r *Renderer) totalRow(doc *gofpdf.Fpdf, label string, amount decimal.Decimal, emphasized bool) {
	if emphasized {
		doc.SetFont("Helvetica", "B", 12)
		doc.SetTextColor(0, 51, 102)
	} else {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetTextColor(0, 0, 0)
	}
	doc.CellFormat(120, 7, "", "", 0, "L", false, 0, "")
	doc.CellFormat(30, 7, label, "", 0, "R", false, 0, "")
	doc.CellFormat(30, 7, amount.StringFixed(2), "", 1, "R", false, 0, "")
	doc.SetTextColor(0, 0, 0)
}

// Store writes the rendered bytes under the invoices directory as
// factura_<sanitized number>.pdf and returns the path used for later reads.
func (r *Renderer) Store(pdfBytes []byte, invoiceNumber string) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice directory %s: %w", r.dir, err)
	}
	name := "factura_" + SanitizeNumber(invoiceNumber) + ".pdf"
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("failed to write invoice document %s: %w", path, err)
	}
	return path, nil
}

// SanitizeNumber replaces any character that is unsafe in a filename with '_'.
func SanitizeNumber(number string) string {
	return unsafeFileChars.ReplaceAllString(number, "_")
}
