// Package workflow implements the order-request wizard: a linear state
// machine that validates draft input, drives transitions between form steps,
// and reconciles user actions with asynchronous transport calls.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/joao-fontenele/part-order-service/internal/domain"
	"github.com/joao-fontenele/part-order-service/internal/transport"
)

// State is the wizard step. Exactly one is active at a time and each state
// holds only the data valid for it: a quote exists from Quoted onward, never
// in Initial.
type State string

const (
	StateInitial  State = "initial"
	StateLoading  State = "loading"
	StateQuoted   State = "quoted"
	StateComplete State = "complete"
)

// CancelPolicy picks what happens to the draft when the user cancels a
// quote. CancelPreserveDraft is the default so the user does not have to
// re-enter part, date and quantity.
type CancelPolicy string

const (
	CancelPreserveDraft CancelPolicy = "preserve_draft"
	CancelResetDraft    CancelPolicy = "reset_draft"
)

const defaultCallTimeout = 10 * time.Second

// PartLookup resolves a part id against the loaded catalog. Used to put the
// display name into the final confirmation.
type PartLookup func(id string) (domain.Part, bool)

// Controller owns one wizard session. All methods are safe for concurrent
// use, but the machine allows a single outstanding transport operation:
// submissions are refused while one is in flight.
type Controller struct {
	transport   transport.OrderTransport
	notifier    Notifier
	logger      *slog.Logger
	lookup      PartLookup
	facility    string
	policy      CancelPolicy
	callTimeout time.Duration

	mu           sync.Mutex
	state        State
	draft        domain.OrderDraft
	quote        *domain.Quote
	confirmation *domain.FinalConfirmation
	inFlight     bool
}

type Option func(*Controller)

func WithCancelPolicy(p CancelPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.callTimeout = d
	}
}

func WithFacility(facility string) Option {
	return func(c *Controller) {
		c.facility = facility
	}
}

func WithPartLookup(lookup PartLookup) Option {
	return func(c *Controller) {
		c.lookup = lookup
	}
}

func NewController(t transport.OrderTransport, notifier Notifier, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		transport:   t,
		notifier:    notifier,
		logger:      logger,
		policy:      CancelPreserveDraft,
		callTimeout: defaultCallTimeout,
		state:       StateInitial,
		draft:       domain.NewOrderDraft(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Draft() domain.OrderDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Quote returns the stored quote, or nil outside the Quoted and Complete
// states.
func (c *Controller) Quote() *domain.Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quote == nil {
		return nil
	}
	quote := *c.quote
	return &quote
}

// Confirmation returns the sent final confirmation, or nil before Complete.
func (c *Controller) Confirmation() *domain.FinalConfirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmation == nil {
		return nil
	}
	confirmation := *c.confirmation
	return &confirmation
}

// ParseQuantity parses raw quantity input, coercing anything that is not a
// positive integer to the safe default.
func ParseQuantity(raw string) int {
	q, err := strconv.Atoi(raw)
	if err != nil || q < 1 {
		return domain.DefaultQuantity
	}
	return q
}

func (c *Controller) SetPart(id string) error {
	return c.edit("set part", func() {
		c.draft.PartID = id
	})
}

func (c *Controller) SetDeliveryDate(date domain.Date) error {
	return c.edit("set delivery date", func() {
		c.draft.DeliveryDate = date
	})
}

// SetQuantity updates the draft quantity. Values below 1 are coerced to the
// default so the draft never holds a non-positive quantity.
func (c *Controller) SetQuantity(quantity int) error {
	if quantity < 1 {
		quantity = domain.DefaultQuantity
	}
	return c.edit("set quantity", func() {
		c.draft.Quantity = quantity
	})
}

func (c *Controller) SetExpedite(expedite bool) error {
	return c.edit("set expedite", func() {
		c.draft.Expedite = expedite
	})
}

func (c *Controller) edit(op string, apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInitial {
		return &InvalidStateError{Op: op, State: c.state}
	}

	apply()
	return nil
}

// Submit validates the draft and requests a quote from the transport.
// On success the machine moves Initial -> Loading -> Quoted. On transport
// failure it returns to Initial with the draft intact and the user notified.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	if c.state != StateInitial {
		state := c.state
		c.mu.Unlock()
		if state == StateLoading {
			return &InvalidStateError{Op: "submit", State: state, Reason: "a submission is already in flight"}
		}
		return &InvalidStateError{Op: "submit", State: state}
	}

	if err := validateDraft(c.draft); err != nil {
		c.mu.Unlock()
		c.notify(LevelError, "Please fill out all fields", err.Error())
		return err
	}

	c.state = StateLoading
	c.inFlight = true
	draft := c.draft
	c.mu.Unlock()

	c.logger.Info("order request submitted", "part_id", draft.PartID, "quantity", draft.Quantity)

	quote, err := c.callRequestOrder(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		c.state = StateInitial
		c.logger.Error("order request failed", "error", err, "part_id", draft.PartID)
		c.notify(LevelError, "Error submitting order", "Could not submit your order. Please try again later.")
		return err
	}

	c.quote = quote
	c.state = StateQuoted
	c.logger.Info("quote received", "quote_id", quote.QuoteID, "part_id", quote.PartID, "order_quantity", quote.OrderQuantity)
	return nil
}

// Confirm accepts the stored quote, builds the final confirmation and sends
// it. The total is computed locally from the quoted unit price and order
// quantity; an upstream total is never trusted. A quote with order quantity
// zero has nothing to confirm and only cancellation is permitted.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()

	if c.state != StateQuoted || c.inFlight {
		state := c.state
		c.mu.Unlock()
		return &InvalidStateError{Op: "confirm", State: state}
	}

	if c.quote.OrderQuantity == 0 {
		state := c.state
		c.mu.Unlock()
		err := &InvalidStateError{Op: "confirm", State: state, Reason: "supplier has no quantity available"}
		c.notify(LevelError, "Nothing to confirm", "The supplier has no quantity available. Please cancel and adjust your request.")
		return err
	}

	confirmation := c.buildConfirmation(*c.quote)
	c.inFlight = true
	c.mu.Unlock()

	err := c.callConfirmOrder(ctx, confirmation)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		c.quote = nil
		c.state = StateInitial
		c.logger.Error("order confirmation failed", "error", err, "quote_id", confirmation.QuoteID)
		c.notify(LevelError, "Error confirming order", "Could not confirm your order. Please try again later.")
		return err
	}

	c.confirmation = &confirmation
	c.state = StateComplete
	c.logger.Info("order confirmed",
		"quote_id", confirmation.QuoteID,
		"part_name", confirmation.PartName,
		"total_price", confirmation.TotalPrice.String(),
	)
	c.notify(LevelInfo, "Order Confirmed!", "Your order "+confirmation.QuoteID+" has been placed successfully.")
	return nil
}

// Cancel discards the quote and returns to Initial. Draft handling follows
// the configured CancelPolicy.
func (c *Controller) Cancel() error {
	c.mu.Lock()

	if c.state != StateQuoted || c.inFlight {
		state := c.state
		c.mu.Unlock()
		return &InvalidStateError{Op: "cancel", State: state}
	}

	c.quote = nil
	if c.policy == CancelResetDraft {
		c.draft = domain.NewOrderDraft()
	}
	c.state = StateInitial
	c.mu.Unlock()

	c.logger.Info("order cancelled")
	c.notify(LevelInfo, "Order Cancelled", "Your order has been cancelled.")
	return nil
}

// Reset clears everything after a completed order so another can be placed.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComplete {
		return &InvalidStateError{Op: "reset", State: c.state}
	}

	c.draft = domain.NewOrderDraft()
	c.quote = nil
	c.confirmation = nil
	c.state = StateInitial
	return nil
}

func (c *Controller) buildConfirmation(quote domain.Quote) domain.FinalConfirmation {
	partName := quote.PartID
	if c.lookup != nil {
		if part, ok := c.lookup(quote.PartID); ok {
			partName = part.Name
		}
	}

	return domain.FinalConfirmation{
		QuoteID:          quote.QuoteID,
		PartName:         partName,
		Facility:         c.facility,
		ConfirmationDate: quote.ConfirmedDate,
		OrderQuantity:    quote.OrderQuantity,
		PackCount:        quote.PackCount,
		TotalPrice:       quote.UnitPrice.Mul(quote.OrderQuantity),
		Expedite:         quote.Expedite,
	}
}

func (c *Controller) callRequestOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Quote, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	quote, err := c.transport.RequestOrder(callCtx, draft)
	if err != nil {
		return nil, c.mapTransportErr("order request", ctx, err)
	}
	return quote, nil
}

func (c *Controller) callConfirmOrder(ctx context.Context, confirmation domain.FinalConfirmation) error {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := c.transport.ConfirmOrder(callCtx, confirmation); err != nil {
		return c.mapTransportErr("order confirmation", ctx, err)
	}
	return nil
}

// mapTransportErr turns an expired bounded wait into a TimeoutError. A
// deadline inherited from the caller's context is passed through untouched.
func (c *Controller) mapTransportErr(op string, parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return &TimeoutError{Op: op, Timeout: c.callTimeout, Err: err}
	}
	return err
}

func (c *Controller) notify(level Level, title, message string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(Notification{Level: level, Title: title, Message: message})
}

func validateDraft(draft domain.OrderDraft) error {
	if draft.PartID == "" {
		return &ValidationError{Field: "part_id", Reason: "is required"}
	}
	if draft.DeliveryDate.IsZero() {
		return &ValidationError{Field: "delivery_date", Reason: "is required"}
	}
	if draft.Quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	return nil
}
