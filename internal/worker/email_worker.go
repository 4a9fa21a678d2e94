package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aromakopi/pos-backend/internal/mailer"
)

// JobKasirWelcome sends login details to a newly created kasir.
const JobKasirWelcome = "kasir_welcome"

// EmailWorker renders and sends email jobs.
type EmailWorker struct {
	mailer mailer.Mailer
}

func NewEmailWorker(m mailer.Mailer) *EmailWorker {
	return &EmailWorker{mailer: m}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload mailer.KasirWelcome
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email worker: invalid payload: %w", err)
	}
	if payload.Email == "" {
		return fmt.Errorf("email worker: empty recipient")
	}

	msg, err := payload.Build()
	if err != nil {
		return err
	}
	return w.mailer.Send(ctx, msg)
}
