// Package checkout drives an order submission from the customer's side:
// store the order, then obtain the WhatsApp links that hand it to the store.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"flipsip/internal/models"
)

// State is the position of a workflow in its single forward path.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePersisted
	StateNotified
	StateFailedPersist
	StateFailedNotify
	StateFailedEmpty
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StatePersisted:
		return "persisted"
	case StateNotified:
		return "notified"
	case StateFailedPersist:
		return "failed(persist)"
	case StateFailedNotify:
		return "failed(notify)"
	case StateFailedEmpty:
		return "failed(empty)"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Failed reports whether s ends an attempt unsuccessfully.
func (s State) Failed() bool {
	return s == StateFailedPersist || s == StateFailedNotify || s == StateFailedEmpty
}

// User-visible failure messages, one per failed state.
const (
	MessagePersistFailed = "Could not save order. Try again."
	MessageNotifyFailed  = "Could not generate WhatsApp link. Try again."
	MessageEmptyLinks    = "Order failed. Please try again."
)

var (
	// ErrBusy is returned when Submit is called while a submission runs.
	ErrBusy = errors.New("submission already in progress")
	// ErrInvalidForm is returned when a required field is empty.
	ErrInvalidForm = errors.New("order form is incomplete")
)

// OrderCreator stores an order for the signed-in customer.
type OrderCreator interface {
	CreateOrder(ctx context.Context, fields models.OrderFields) (*models.Order, error)
}

// LinkGenerator returns the administrator deep links for an order.
type LinkGenerator interface {
	GenerateLinks(ctx context.Context, fields models.OrderFields) ([]string, error)
}

// PhoneUpdater stores a changed customer phone.
type PhoneUpdater interface {
	UpdatePhone(ctx context.Context, email, phone string) error
}

// FailedError ends a submission attempt. Message is meant for the customer;
// Err, when set, holds the cause.
type FailedError struct {
	State   State
	Message string
	Err     error
}

func (e *FailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.State, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.State, e.Message, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// Result is the outcome of a submission. Order is set as soon as the order is
// stored, even when a later step fails.
type Result struct {
	Order       *models.Order
	Links       []string
	RedirectURL string
}

// Workflow submits the orders of one form. It is safe for concurrent use;
// callers must not edit the form while Submit runs.
type Workflow struct {
	orders OrderCreator
	links  LinkGenerator
	phones PhoneUpdater

	mu         sync.Mutex
	form       *Form
	knownPhone string
	state      State
	busy       bool
}

// NewWorkflow creates a workflow over form. phones may be nil; knownPhone is
// the phone currently stored for the customer.
func NewWorkflow(orders OrderCreator, links LinkGenerator, phones PhoneUpdater, form *Form, knownPhone string) *Workflow {
	return &Workflow{
		orders:     orders,
		links:      links,
		phones:     phones,
		form:       form,
		knownPhone: knownPhone,
	}
}

// Form returns the form being edited.
func (w *Workflow) Form() *Form { return w.form }

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Busy reports whether a submission is in flight.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// SyncPhone stores the form's phone when it differs from the customer's
// known phone. Failures are logged and otherwise ignored.
func (w *Workflow) SyncPhone(ctx context.Context) {
	w.mu.Lock()
	email, phone, known := w.form.Email, w.form.Phone, w.knownPhone
	w.mu.Unlock()

	if w.phones == nil || phone == "" || phone == known {
		return
	}
	if err := w.phones.UpdatePhone(ctx, email, phone); err != nil {
		log.Printf("Error updating phone: %v", err)
		return
	}

	w.mu.Lock()
	w.knownPhone = phone
	w.mu.Unlock()
}

// Submit stores the order, then generates the notification links. Storing
// always happens first and is never undone: if link generation fails the
// order still exists, and retrying creates a second one. On success the
// per-order form fields are reset and the first link is the redirect target.
func (w *Workflow) Submit(ctx context.Context) (*Result, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if !w.form.Valid() {
		w.mu.Unlock()
		return nil, ErrInvalidForm
	}
	w.busy = true
	w.state = StateSubmitting
	fields := w.form.OrderFields
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	order, err := w.orders.CreateOrder(ctx, fields)
	if err != nil {
		log.Printf("Order DB error: %v", err)
		return nil, w.fail(StateFailedPersist, MessagePersistFailed, err)
	}
	result := &Result{Order: order}
	w.setState(StatePersisted)

	links, err := w.links.GenerateLinks(ctx, fields)
	if err != nil {
		log.Printf("WhatsApp API error: %v", err)
		return result, w.fail(StateFailedNotify, MessageNotifyFailed, err)
	}
	if len(links) == 0 {
		return result, w.fail(StateFailedEmpty, MessageEmptyLinks, nil)
	}

	w.mu.Lock()
	w.state = StateNotified
	w.form.Reset()
	w.mu.Unlock()

	result.Links = links
	result.RedirectURL = links[0]
	return result, nil
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Workflow) fail(s State, message string, err error) error {
	w.setState(s)
	return &FailedError{State: s, Message: message, Err: err}
}
