package services

import "tiendapesca/internal/pdf"

// DocumentRenderer renders invoice documents and persists the bytes under a
// stable name derived from the invoice number.
type DocumentRenderer interface {
	Render(data pdf.InvoiceData) ([]byte, error)
	Store(pdfBytes []byte, invoiceNumber string) (string, error)
}

// Mailer sends a message with one binary attachment, blocking until the
// relay accepts it.
type Mailer interface {
	Send(to, subject, body, attachmentName string, attachment []byte) error
}

// EventPublisher publishes order lifecycle events. Implementations must be
// safe to call after the originating transaction has committed; failures are
// logged, never propagated into the order outcome.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}
