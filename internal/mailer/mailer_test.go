package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tiendapesca/internal/mailer"
)

func TestSendRejectsInvalidAddresses(t *testing.T) {
	m := mailer.NewSMTPMailer(mailer.Config{
		Host: "localhost",
		Port: 587,
		From: "not an address",
	})
	err := m.Send("customer@example.com", "subject", "body", "doc.pdf", []byte("data"))
	assert.ErrorContains(t, err, "invalid sender address")

	m = mailer.NewSMTPMailer(mailer.Config{
		Host: "localhost",
		Port: 587,
		From: "facturacion@example.com",
	})
	err = m.Send("also not an address", "subject", "body", "doc.pdf", []byte("data"))
	assert.ErrorContains(t, err, "invalid recipient address")
}
