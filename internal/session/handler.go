package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/part-order-service/internal/catalog"
	"github.com/joao-fontenele/part-order-service/internal/domain"
	"github.com/joao-fontenele/part-order-service/internal/transport"
	"github.com/joao-fontenele/part-order-service/internal/workflow"
)

type Handler struct {
	manager *Manager
	logger  *slog.Logger

	sessionsCreated metric.Int64Counter
	ordersSubmitted metric.Int64Counter
	ordersConfirmed metric.Int64Counter
}

func NewHandler(manager *Manager, logger *slog.Logger) (*Handler, error) {
	meter := otel.Meter("session/handler")

	sessionsCreated, err := meter.Int64Counter("order_form.sessions.created")
	if err != nil {
		return nil, err
	}
	ordersSubmitted, err := meter.Int64Counter("order_form.orders.submitted")
	if err != nil {
		return nil, err
	}
	ordersConfirmed, err := meter.Int64Counter("order_form.orders.confirmed")
	if err != nil {
		return nil, err
	}

	return &Handler{
		manager:         manager,
		logger:          logger,
		sessionsCreated: sessionsCreated,
		ordersSubmitted: ordersSubmitted,
		ordersConfirmed: ordersConfirmed,
	}, nil
}

type sessionView struct {
	SessionID     string                    `json:"session_id"`
	State         workflow.State            `json:"state"`
	Draft         domain.OrderDraft         `json:"draft"`
	Quote         *domain.Quote             `json:"quote,omitempty"`
	Confirmation  *domain.FinalConfirmation `json:"confirmation,omitempty"`
	Notifications []workflow.Notification   `json:"notifications,omitempty"`
}

func (h *Handler) view(session *Session) sessionView {
	return sessionView{
		SessionID:     session.ID,
		State:         session.Controller.State(),
		Draft:         session.Controller.Draft(),
		Quote:         session.Controller.Quote(),
		Confirmation:  session.Controller.Confirmation(),
		Notifications: session.Notifications(),
	}
}

type createSessionRequest struct {
	WebhookURL string `json:"webhook_url"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	session := h.manager.Create(strings.TrimSpace(req.WebhookURL))
	h.sessionsCreated.Add(r.Context(), 1)
	h.writeJSON(w, http.StatusCreated, h.view(session))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.view(session))
}

type editDraftRequest struct {
	PartID       *string          `json:"part_id"`
	DeliveryDate *domain.Date     `json:"delivery_date"`
	Quantity     *json.RawMessage `json:"quantity"`
	Expedite     *bool            `json:"expedite"`
}

func (h *Handler) HandleEditDraft(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req editDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	controller := session.Controller
	var err error
	if req.PartID != nil {
		err = controller.SetPart(*req.PartID)
	}
	if err == nil && req.DeliveryDate != nil {
		err = controller.SetDeliveryDate(*req.DeliveryDate)
	}
	if err == nil && req.Quantity != nil {
		raw := strings.Trim(string(*req.Quantity), `"`)
		err = controller.SetQuantity(workflow.ParseQuantity(raw))
	}
	if err == nil && req.Expedite != nil {
		err = controller.SetExpedite(*req.Expedite)
	}

	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.view(session))
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.Controller.Submit(r.Context()); err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	h.ordersSubmitted.Add(r.Context(), 1)
	h.manager.PublishSubmitted(r.Context(), session)
	h.writeJSON(w, http.StatusOK, h.view(session))
}

func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.Controller.Confirm(r.Context()); err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	h.ordersConfirmed.Add(r.Context(), 1)
	h.manager.PublishConfirmed(r.Context(), session)
	h.writeJSON(w, http.StatusOK, h.view(session))
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.Controller.Cancel(); err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.view(session))
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.Controller.Reset(); err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.view(session))
}

func (h *Handler) HandleListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.manager.catalog.ListParts(r.Context())
	if err != nil {
		h.logger.Error("failed to load part catalog", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, "part catalog unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, parts)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing session id")
		return nil, false
	}

	session, ok := h.manager.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}

	return session, true
}

// writeWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Transport failures and timeouts arrive after the controller has already
// recovered to Initial, so they report 502 rather than 500.
func (h *Handler) writeWorkflowError(w http.ResponseWriter, err error) {
	var validationErr *workflow.ValidationError
	var stateErr *workflow.InvalidStateError
	var timeoutErr *workflow.TimeoutError
	var transportErr *transport.TransportError

	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.As(err, &stateErr):
		h.writeError(w, http.StatusConflict, stateErr.Error())
	case errors.As(err, &timeoutErr):
		h.writeError(w, http.StatusBadGateway, "order service timed out")
	case errors.As(err, &transportErr):
		h.writeError(w, http.StatusBadGateway, "order service unavailable")
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, "part catalog unavailable")
	default:
		h.logger.Error("unexpected workflow error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
