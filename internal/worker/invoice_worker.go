package worker

// invoice_worker.go
// Processes invoice jobs from QueueInvoice: renders the PDF, stores its path
// on the invoice row, and emails it to the customer when an address is known.
// Runs outside the sale transaction — a failure here never affects the
// committed sale.

import (
	"context"
	"encoding/json"
	"fmt"

	"bizzops/internal/infra"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InvoiceJobPayload is the job envelope sent to QueueInvoice.
type InvoiceJobPayload struct {
	InvoiceID string `json:"invoice_id"`
	Email     string `json:"email,omitempty"`
}

type InvoiceWorker struct {
	invoices    repository.InvoiceRepository
	owners      repository.OwnerRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewInvoiceWorker(invoices repository.InvoiceRepository, owners repository.OwnerRepository, mailer *infra.Mailer, storagePath string) *InvoiceWorker {
	return &InvoiceWorker{
		invoices:    invoices,
		owners:      owners,
		mailer:      mailer,
		storagePath: storagePath,
	}
}

// Process renders and delivers one invoice.
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	id, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("invoice_worker: invalid invoice id")
		return nil
	}

	inv, err := w.invoices.FindAny(ctx, id)
	if err != nil {
		return fmt.Errorf("invoice_worker: load invoice: %w", err)
	}

	businessName := "Invoice"
	if owner, err := w.owners.FindByID(ctx, inv.OwnerID); err == nil {
		businessName = owner.BusinessName
	}

	pdfPath, err := infra.GenerateInvoicePDF(inv, businessName, w.storagePath)
	if err != nil {
		return fmt.Errorf("invoice_worker: generate PDF: %w", err)
	}
	if err := w.invoices.SetPDFPath(ctx, inv.ID, pdfPath); err != nil {
		return fmt.Errorf("invoice_worker: store PDF path: %w", err)
	}
	log.Info().Str("invoice_no", inv.InvoiceNo).Str("path", pdfPath).Msg("invoice_worker: PDF generated")

	if payload.Email == "" || w.mailer == nil {
		return nil
	}
	subject := fmt.Sprintf("Invoice %s from %s", inv.InvoiceNo, businessName)
	body := fmt.Sprintf("Hi %s,\n\nPlease find attached invoice %s for %s.\n\nThank you!",
		inv.CustomerName, inv.InvoiceNo, inv.GrandTotal.StringFixed(2))
	if err := w.mailer.SendInvoice(payload.Email, subject, body, pdfPath); err != nil {
		// Delivery failures are logged, not retried: the PDF is already
		// stored and downloadable.
		log.Error().Err(err).Str("to", payload.Email).Msg("invoice_worker: email failed")
		return nil
	}
	log.Info().Str("to", payload.Email).Str("invoice_no", inv.InvoiceNo).Msg("invoice_worker: invoice emailed")
	return nil
}
