//go:build integration

package test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/joao-fontenele/part-order-service/internal/catalog"
	"github.com/joao-fontenele/part-order-service/internal/domain"
	"github.com/joao-fontenele/part-order-service/internal/messaging"
	"github.com/joao-fontenele/part-order-service/internal/session"
	"github.com/joao-fontenele/part-order-service/internal/suppliersim"
	"github.com/joao-fontenele/part-order-service/internal/transport"
	"github.com/joao-fontenele/part-order-service/internal/workflow"
)

func TestPartCatalogFromPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	provider := catalog.NewPostgresProvider(db)

	parts, err := provider.ListParts(ctx)
	if err != nil {
		t.Fatalf("failed to list parts: %v", err)
	}
	if len(parts) != 8 {
		t.Fatalf("expected 8 seeded parts, got %d", len(parts))
	}
	if parts[0].ID != "P001" || parts[0].Name != "Aluminum Bracket" {
		t.Fatalf("unexpected first part: %+v", parts[0])
	}

	part, ok := provider.FindPart("P003")
	if !ok {
		t.Fatal("expected P003 in the catalog")
	}
	if part.Name != "Copper Fitting" {
		t.Fatalf("unexpected part name: %q", part.Name)
	}

	if _, ok := provider.FindPart("P999"); ok {
		t.Fatal("expected P999 absent from the catalog")
	}
}

func TestOrderLifecycleEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	publisher := messaging.NewEventPublisher(brokers)
	defer func() { _ = publisher.Close() }()

	submitted := domain.OrderSubmittedEvent{
		SessionID: "sess-1",
		PartID:    "P001",
		Quantity:  3,
		Expedite:  true,
		Timestamp: time.Now().UTC(),
	}
	if err := publisher.OrderSubmitted(ctx, submitted); err != nil {
		t.Fatalf("failed to publish submitted event: %v", err)
	}

	confirmed := domain.OrderConfirmedEvent{
		SessionID:  "sess-1",
		QuoteID:    "ORD-abc123",
		PartName:   "Aluminum Bracket",
		Facility:   "main",
		Quantity:   3,
		TotalPrice: 3750,
		Timestamp:  time.Now().UTC(),
	}
	if err := publisher.OrderConfirmed(ctx, confirmed); err != nil {
		t.Fatalf("failed to publish confirmed event: %v", err)
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    messaging.TopicOrderSubmitted,
		GroupID:  "integration-test",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer func() { _ = reader.Close() }()

	msg, err := reader.ReadMessage(ctx)
	if err != nil {
		t.Fatalf("failed to read submitted event: %v", err)
	}

	if string(msg.Key) != "sess-1" {
		t.Errorf("expected message keyed by session id, got %q", string(msg.Key))
	}

	var got domain.OrderSubmittedEvent
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("failed to decode submitted event: %v", err)
	}
	if got.PartID != "P001" || got.Quantity != 3 || !got.Expedite {
		t.Fatalf("unexpected submitted event: %+v", got)
	}
}

func TestWizardFlowAgainstSupplierSim(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	supplier := suppliersim.NewHandler(logger, nil, rand.NewSource(42))
	supplierMux := http.NewServeMux()
	supplierMux.HandleFunc("POST /orders", supplier.HandleRequestOrder)
	supplierMux.HandleFunc("POST /confirmations", supplier.HandleConfirmOrder)
	supplierServer := httptest.NewServer(supplierMux)
	defer supplierServer.Close()

	httpClient := &http.Client{Timeout: 10 * time.Second}
	factory := func(endpoint string) transport.OrderTransport {
		return transport.NewClient(endpoint, httpClient)
	}

	provider := catalog.NewStaticProvider(catalog.DefaultParts(), 0)
	manager := session.NewManager(factory, provider, logger)
	handler, err := session.NewHandler(manager, logger)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", handler.HandleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", handler.HandleGetSession)
	mux.HandleFunc("PATCH /sessions/{id}/draft", handler.HandleEditDraft)
	mux.HandleFunc("POST /sessions/{id}/submit", handler.HandleSubmit)
	mux.HandleFunc("POST /sessions/{id}/confirm", handler.HandleConfirm)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := server.Client()

	type view struct {
		SessionID    string                    `json:"session_id"`
		State        workflow.State            `json:"state"`
		Quote        *domain.Quote             `json:"quote"`
		Confirmation *domain.FinalConfirmation `json:"confirmation"`
	}

	do := func(method, path, body string) (int, view) {
		t.Helper()

		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, server.URL+path, reader)
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read response: %v", err)
		}

		var v view
		if resp.StatusCode < 300 {
			if err := json.Unmarshal(data, &v); err != nil {
				t.Fatalf("failed to decode response: %v: %s", err, data)
			}
		}
		return resp.StatusCode, v
	}

	status, v := do(http.MethodPost, "/sessions", `{"webhook_url": "`+supplierServer.URL+`"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", status)
	}
	id := v.SessionID

	status, _ = do(http.MethodPatch, "/sessions/"+id+"/draft",
		`{"part_id": "P005", "delivery_date": "2025-07-01", "quantity": 12}`)
	if status != http.StatusOK {
		t.Fatalf("edit failed with %d", status)
	}

	status, v = do(http.MethodPost, "/sessions/"+id+"/submit", "")
	if status != http.StatusOK {
		t.Fatalf("submit failed with %d", status)
	}
	if v.State != workflow.StateQuoted {
		t.Fatalf("expected quoted state, got %s", v.State)
	}
	if v.Quote == nil || v.Quote.PartID != "P005" || v.Quote.OrderQuantity != 12 {
		t.Fatalf("unexpected quote: %+v", v.Quote)
	}
	if v.Quote.UnitPrice < 1099 || v.Quote.UnitPrice > 1599 {
		t.Fatalf("unit price %d outside supplier band", v.Quote.UnitPrice)
	}
	unitPrice := v.Quote.UnitPrice

	status, v = do(http.MethodPost, "/sessions/"+id+"/confirm", "")
	if status != http.StatusOK {
		t.Fatalf("confirm failed with %d", status)
	}
	if v.State != workflow.StateComplete {
		t.Fatalf("expected complete state, got %s", v.State)
	}
	if v.Confirmation == nil || v.Confirmation.PartName != "Plastic Washer Pack" {
		t.Fatalf("unexpected confirmation: %+v", v.Confirmation)
	}
	if v.Confirmation.TotalPrice != unitPrice.Mul(12) {
		t.Fatalf("expected total %d, got %d", unitPrice.Mul(12), v.Confirmation.TotalPrice)
	}
}
