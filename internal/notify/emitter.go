// Package notify creates notification records for roster and registration
// events. Emission is strictly best-effort: a failure here is logged and
// swallowed so it can never undo or fail the operation that triggered it.
package notify

import (
	"context"
	"log"

	"github.com/sportexhq/sportex/internal/email"
	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// Emitter writes notifications into the store and, when a mailer is
// configured, mirrors invite notifications to the recipient's inbox.
type Emitter struct {
	store  store.Store
	mailer *email.Service // nil when SMTP isn't configured
}

// NewEmitter creates an emitter. mailer may be nil.
func NewEmitter(st store.Store, mailer *email.Service) *Emitter {
	return &Emitter{store: st, mailer: mailer}
}

// Send records a notification for its recipient. Errors are logged and
// dropped; the caller's operation has already committed and must not be
// rolled back over a missing notification.
func (e *Emitter) Send(ctx context.Context, n model.Notification) {
	doc, err := model.ToDocument(n)
	if err != nil {
		log.Printf("WARN: could not encode notification for user %s: %v", n.UserID, err)
		return
	}
	if _, err := e.store.Collection(model.CollectionNotifications).Insert(ctx, doc); err != nil {
		log.Printf("WARN: could not store notification for user %s: %v", n.UserID, err)
	}
}

// SendWithEmail records the notification and additionally mails it to
// recipientEmail. The mail goes out on its own goroutine so SMTP latency
// never delays the triggering request.
func (e *Emitter) SendWithEmail(ctx context.Context, n model.Notification, recipientEmail string) {
	e.Send(ctx, n)

	if e.mailer == nil || recipientEmail == "" {
		return
	}
	go func() {
		if err := e.mailer.SendNotification(recipientEmail, n.Title, n.Body); err != nil {
			log.Printf("WARN: could not email notification to %s: %v", recipientEmail, err)
		}
	}()
}
