// Package registration implements the capacity-bounded event sign-up
// workflow. Given an event and a user it produces exactly one registration
// record: confirmed while the event still has room, waitlisted after that,
// and never an outright rejection.
package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/notify"
	"github.com/sportexhq/sportex/internal/store"
)

// ErrEventNotFound is returned when the referenced event doesn't exist.
var ErrEventNotFound = errors.New("event not found")

// Engine decides confirmed vs. waitlisted status for event sign-ups.
//
// The capacity check is a classic check-then-act sequence, so Register
// serializes per event: two concurrent sign-ups for the same event take
// the same mutex and can never both read a count below capacity. Other
// events proceed in parallel. This holds on a single node only, which is
// all the deployment model promises.
type Engine struct {
	store   store.Store
	emitter *notify.Emitter

	lockGuard  sync.Mutex
	eventLocks map[string]*sync.Mutex // one mutex per event id
}

// NewEngine creates a registration engine on top of the given store.
func NewEngine(st store.Store, emitter *notify.Emitter) *Engine {
	return &Engine{
		store:      st,
		emitter:    emitter,
		eventLocks: make(map[string]*sync.Mutex),
	}
}

// getEventLock retrieves or creates the mutex for a single event.
func (e *Engine) getEventLock(eventID string) *sync.Mutex {
	e.lockGuard.Lock()
	defer e.lockGuard.Unlock()

	if _, ok := e.eventLocks[eventID]; !ok {
		e.eventLocks[eventID] = &sync.Mutex{}
	}
	return e.eventLocks[eventID]
}

// Register signs userID up for eventID, idempotently.
//
// A repeat call for the same (event, user) pair returns the stored record
// unchanged: no status re-evaluation, no second notification. On a
// first-time registration the event's organizer is notified best-effort.
func (e *Engine) Register(ctx context.Context, eventID, userID string) (*model.Registration, error) {
	events := e.store.Collection(model.CollectionEvents)
	registrations := e.store.Collection(model.CollectionRegistrations)

	eventDoc, err := events.FindOne(ctx, store.Filter{"id": eventID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	var event model.Event
	if err := model.FromDocument(eventDoc, &event); err != nil {
		return nil, err
	}

	mutex := e.getEventLock(eventID)
	mutex.Lock()
	defer mutex.Unlock()

	// Idempotent re-registration: hand back the existing record as-is.
	existingDoc, err := registrations.FindOne(ctx, store.Filter{"event_id": eventID, "user_id": userID})
	if err == nil {
		var existing model.Registration
		if err := model.FromDocument(existingDoc, &existing); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, store.ErrNoDocuments) {
		return nil, err
	}

	// Only pending and confirmed registrations consume capacity.
	// Waitlisted and cancelled ones never do.
	count, err := registrations.Count(ctx, store.Filter{
		"event_id": eventID,
		"status":   store.In{string(model.StatusPending), string(model.StatusConfirmed)},
	})
	if err != nil {
		return nil, err
	}

	status := model.StatusConfirmed
	if count >= int64(event.Capacity) {
		status = model.StatusWaitlisted
	}

	reg := model.Registration{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	doc, err := model.ToDocument(reg)
	if err != nil {
		return nil, err
	}
	id, err := registrations.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}
	reg.ID = id

	// First-time registrations notify the organizer. The registration is
	// already committed; a notification failure is logged inside the
	// emitter and never surfaces here.
	e.emitter.Send(ctx, model.Notification{
		UserID: event.OrganizerUserID,
		Type:   model.NotificationEventUpdate,
		Title:  "New Registration",
		Body:   fmt.Sprintf("New registration for %s", event.Title),
	})

	return &reg, nil
}
