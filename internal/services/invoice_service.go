package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/models"
	"tiendapesca/internal/repositories"
)

// issueAttempts bounds the retry loop against invoice number collisions.
const issueAttempts = 3

// NumberGenerator produces candidate invoice numbers. The default generator
// emits INV-<year>-<8 uppercase hex of a fresh UUID>.
type NumberGenerator func() string

func defaultInvoiceNumber() string {
	return fmt.Sprintf("INV-%d-%s", time.Now().Year(), strings.ToUpper(uuid.NewString()[:8]))
}

// InvoiceService issues, renders, cancels and mails invoices. Issuance runs
// outside the order placement transaction: a persisted order never loses its
// invoice row to a rendering failure, and a row left without a document can
// be recovered through Regenerate.
type InvoiceService struct {
	invoices       repositories.InvoiceRepository
	orders         repositories.OrderRepository
	renderer       DocumentRenderer
	mailer         Mailer
	generateNumber NumberGenerator
}

// NewInvoiceService creates a new InvoiceService. A nil numberFn selects the
// default generator.
func NewInvoiceService(invoices repositories.InvoiceRepository, orders repositories.OrderRepository, renderer DocumentRenderer, mailer Mailer, numberFn NumberGenerator) *InvoiceService {
	if numberFn == nil {
		numberFn = defaultInvoiceNumber
	}
	return &InvoiceService{
		invoices:       invoices,
		orders:         orders,
		renderer:       renderer,
		mailer:         mailer,
		generateNumber: numberFn,
	}
}

// Issue creates the invoice for an order, retrying number collisions against
// the unique constraint up to issueAttempts times, then renders and stores
// the document. When rendering fails the persisted invoice is returned
// together with an INTERNAL_RENDER error so callers can keep the order and
// retry the document later.
func (s *InvoiceService) Issue(orderID uint) (*models.Invoice, error) {
	order, err := s.orders.GetByIDWithDetails(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "order %d not found", orderID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load order", err)
	}

	exists, err := s.invoices.ExistsByOrderID(orderID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to check invoice existence", err)
	}
	if exists {
		return nil, apperrors.Newf(apperrors.CodeConflictState, "order %d already has an invoice", orderID)
	}

	var invoice *models.Invoice
	for attempt := 0; attempt < issueAttempts; attempt++ {
		candidate := &models.Invoice{
			OrderID:  orderID,
			Number:   s.generateNumber(),
			IssuedAt: time.Now(),
		}
		err := s.invoices.Create(candidate)
		if err == nil {
			invoice = candidate
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two unique indexes can produce this: the invoice number and
			// order_id. A concurrent issuance winning the row is a state
			// conflict, not a number collision, and retrying cannot help.
			exists, checkErr := s.invoices.ExistsByOrderID(orderID)
			if checkErr != nil {
				return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to check invoice existence", checkErr)
			}
			if exists {
				return nil, apperrors.Newf(apperrors.CodeConflictState, "order %d already has an invoice", orderID)
			}
			log.Warn().Str("number", candidate.Number).Int("attempt", attempt+1).
				Msg("invoice number collision, retrying")
			continue
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to persist invoice", err)
	}
	if invoice == nil {
		return nil, apperrors.Newf(apperrors.CodeIssueNumber,
			"could not allocate a unique invoice number after %d attempts", issueAttempts)
	}

	path, err := s.renderDocument(invoice, order)
	if err != nil {
		// The invoice row stands with an empty document ref; Regenerate
		// recovers it.
		return invoice, err
	}

	invoice.PDFPath = path
	if err := s.invoices.Save(invoice); err != nil {
		return invoice, apperrors.Wrap(apperrors.CodeInternal, "failed to record document path", err)
	}
	return invoice, nil
}

// Get returns the invoice for an order.
func (s *InvoiceService) Get(orderID uint) (*models.Invoice, error) {
	invoice, err := s.invoices.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "no invoice for order %d", orderID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load invoice", err)
	}
	return invoice, nil
}

// GetResponse returns the invoice summary projection for an order.
func (s *InvoiceService) GetResponse(orderID uint) (*InvoiceResponse, error) {
	invoice, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByIDWithDetails(orderID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load order", err)
	}
	return &InvoiceResponse{
		OrderID:       order.ID,
		InvoiceNumber: invoice.Number,
		InvoiceDate:   invoice.IssuedAt,
		CustomerEmail: order.User.Email,
		Total:         order.Total,
		Cancelled:     invoice.Cancelled,
		OrderDetails:  buildDetailResponses(order.Details),
	}, nil
}

// GetDocument reads the rendered document bytes for an order's invoice.
func (s *InvoiceService) GetDocument(orderID uint) ([]byte, error) {
	invoice, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	if invoice.PDFPath == "" {
		return nil, apperrors.Newf(apperrors.CodeNotFound,
			"invoice %s has no rendered document", invoice.Number)
	}
	data, err := os.ReadFile(invoice.PDFPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "failed to read invoice document", err)
	}
	return data, nil
}

// Regenerate re-renders the invoice document, removes the previous file when
// it lives elsewhere and records the new location.
func (s *InvoiceService) Regenerate(orderID uint) (*models.Invoice, error) {
	invoice, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByIDWithDetails(orderID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load order", err)
	}

	newPath, err := s.renderDocument(invoice, order)
	if err != nil {
		return nil, err
	}

	// The storage name is derived from the invoice number, so the new file
	// usually lands on the old path; only remove the old file when it
	// actually is a different one.
	if invoice.PDFPath != "" && invoice.PDFPath != newPath {
		if err := os.Remove(invoice.PDFPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", invoice.PDFPath).
				Msg("could not remove previous invoice document")
		}
	}

	invoice.PDFPath = newPath
	if err := s.invoices.Save(invoice); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to record document path", err)
	}
	return invoice, nil
}

// Cancel marks the invoice of an order as cancelled. It is idempotent and a
// missing invoice is a no-op.
func (s *InvoiceService) Cancel(orderID uint) error {
	invoice, err := s.invoices.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.CodeInternal, "failed to load invoice", err)
	}
	if invoice.Cancelled {
		return nil
	}
	now := time.Now()
	invoice.Cancelled = true
	invoice.CancelledAt = &now
	if err := s.invoices.Save(invoice); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to cancel invoice", err)
	}
	return nil
}

// SendByEmail mails the invoice document as an attachment to the given
// address.
func (s *InvoiceService) SendByEmail(orderID uint, address string) error {
	invoice, err := s.Get(orderID)
	if err != nil {
		return err
	}
	data, err := s.GetDocument(orderID)
	if err != nil {
		return err
	}

	subject := "Factura #" + invoice.Number
	attachment := "factura_" + invoice.Number + ".pdf"
	body := "Adjunto encontrara su factura."
	if err := s.mailer.Send(address, subject, body, attachment, data); err != nil {
		return apperrors.Wrap(apperrors.CodeMail, "failed to send invoice email", err)
	}
	return nil
}

func (s *InvoiceService) renderDocument(invoice *models.Invoice, order *models.Order) (string, error) {
	data := buildInvoiceData(invoice, order)
	pdfBytes, err := s.renderer.Render(data)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeRender, "failed to render invoice document", err)
	}
	if len(pdfBytes) == 0 {
		return "", apperrors.New(apperrors.CodeRender, "renderer produced an empty document")
	}
	path, err := s.renderer.Store(pdfBytes, invoice.Number)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeRender, "failed to store invoice document", err)
	}
	return path, nil
}
