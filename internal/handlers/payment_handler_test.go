package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
)

type stubPaymentService struct {
	secret    string
	intentErr error
	lastPrice float64
	history   []models.Payment
}

func (s *stubPaymentService) CreateIntent(_ context.Context, price float64) (string, error) {
	s.lastPrice = price
	return s.secret, s.intentErr
}

func (s *stubPaymentService) History(context.Context, services.Actor, string) ([]models.Payment, error) {
	return s.history, nil
}

type stubSettlementService struct {
	result     *models.SettlementResult
	err        error
	lastActor  services.Actor
	lastInput  services.SettleInput
	lastStatus string
	lastLimit  int
}

func (s *stubSettlementService) Settle(_ context.Context, actor services.Actor, input services.SettleInput) (*models.SettlementResult, error) {
	s.lastActor = actor
	s.lastInput = input
	return s.result, s.err
}

func (s *stubSettlementService) ListSettlements(_ context.Context, status string, limit int) ([]models.Settlement, error) {
	s.lastStatus = status
	s.lastLimit = limit
	return []models.Settlement{}, nil
}

const settleBody = `{"selected_id": 5, "class_id": 9, "amount": 49.5, "email": "s@example.com", "transaction_id": "pi_1"}`

func TestSettleReturnsCompositeResult(t *testing.T) {
	seats, bookings := 3, 7
	settlements := &stubSettlementService{result: &models.SettlementResult{
		SettlementID:  "abc",
		Status:        models.SettlementCompleted,
		InsertResult:  models.InsertResult{Acknowledged: true, InsertedID: 11},
		ModifiedCount: 1,
		SeatUpdate:    models.SeatUpdateResult{Acknowledged: true, AvailableSeats: &seats, SeatBookings: &bookings},
	}}
	handler := NewPaymentHandler(&stubPaymentService{}, settlements)

	app := newAppAs("s@example.com", models.RoleStudent)
	app.Post("/payments", handler.Settle)

	resp, body := doRequest(t, app, http.MethodPost, "/payments", settleBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["modified_count"] != float64(1) || body["status"] != "completed" {
		t.Fatalf("unexpected body %v", body)
	}
	insert, _ := body["insert_result"].(map[string]any)
	if insert["acknowledged"] != true || insert["inserted_id"] != float64(11) {
		t.Fatalf("unexpected insert result %v", insert)
	}
	if settlements.lastInput.SelectionID != 5 || settlements.lastInput.ClassID != 9 || settlements.lastInput.Amount != 49.5 {
		t.Fatalf("unexpected settle input %+v", settlements.lastInput)
	}
	if settlements.lastInput.TransactionID == nil || *settlements.lastInput.TransactionID != "pi_1" {
		t.Fatalf("expected transaction id to be forwarded")
	}
	if settlements.lastActor.Role != models.RoleStudent {
		t.Fatalf("unexpected actor %+v", settlements.lastActor)
	}
}

func TestSettleReportsUnreservedSeat(t *testing.T) {
	cases := []struct {
		reason string
		status int
	}{
		{reason: models.SeatOutcomeSeatsExhausted, status: http.StatusConflict},
		{reason: models.SeatOutcomeClassNotFound, status: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			settlements := &stubSettlementService{result: &models.SettlementResult{
				SettlementID:  "abc",
				Status:        models.SettlementPartial,
				InsertResult:  models.InsertResult{Acknowledged: true, InsertedID: 12},
				ModifiedCount: 1,
				SeatUpdate:    models.SeatUpdateResult{Reason: tc.reason},
			}}
			handler := NewPaymentHandler(&stubPaymentService{}, settlements)
			app := newAppAs("s@example.com", models.RoleStudent)
			app.Post("/payments", handler.Settle)

			resp, body := doRequest(t, app, http.MethodPost, "/payments", settleBody)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			seat, _ := body["seat_update"].(map[string]any)
			if seat["reason"] != tc.reason || seat["acknowledged"] != false {
				t.Fatalf("unexpected seat update %v", seat)
			}
			insert, _ := body["insert_result"].(map[string]any)
			if insert["acknowledged"] != true {
				t.Fatalf("expected payment to be reported as recorded, got %v", insert)
			}
		})
	}
}

func TestSettleErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{err: services.ErrForbidden, status: http.StatusForbidden},
		{err: services.ErrInvalidInput, status: http.StatusBadRequest},
		{err: services.ErrConflict, status: http.StatusConflict},
		{err: services.ErrSettlementIndeterminate, status: http.StatusGatewayTimeout},
		{err: errors.Join(services.ErrUpstream, errors.New("db down")), status: http.StatusInternalServerError},
		{err: fmt.Errorf("%w: settle abc: %w", services.ErrUpstream, errors.New("connection reset")), status: http.StatusInternalServerError},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		handler := NewPaymentHandler(&stubPaymentService{}, &stubSettlementService{err: tc.err})
		app := newAppAs("s@example.com", models.RoleStudent)
		app.Post("/payments", handler.Settle)

		resp, body := doRequest(t, app, http.MethodPost, "/payments", settleBody)
		if resp.StatusCode != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, resp.StatusCode)
		}
		if body["error"] != true {
			t.Fatalf("%v: expected error body, got %v", tc.err, body)
		}
	}
}

func TestCreateIntent(t *testing.T) {
	payments := &stubPaymentService{secret: "pi_secret"}
	handler := NewPaymentHandler(payments, &stubSettlementService{})
	app := newAppAs("s@example.com", models.RoleStudent)
	app.Post("/create-payment-intent", handler.CreateIntent)

	resp, body := doRequest(t, app, http.MethodPost, "/create-payment-intent", `{"price": 19.99}`)
	if resp.StatusCode != http.StatusOK || body["clientSecret"] != "pi_secret" {
		t.Fatalf("unexpected response %d %v", resp.StatusCode, body)
	}
	if payments.lastPrice != 19.99 {
		t.Fatalf("expected price 19.99, got %v", payments.lastPrice)
	}

	payments.intentErr = services.ErrPaymentsDisabled
	resp, _ = doRequest(t, app, http.MethodPost, "/create-payment-intent", `{"price": 19.99}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestListSettlementsClampsLimit(t *testing.T) {
	settlements := &stubSettlementService{}
	handler := NewPaymentHandler(&stubPaymentService{}, settlements)
	app := newAppAs("admin@example.com", models.RoleAdmin)
	app.Get("/settlements", handler.Settlements)

	resp, _ := doRequest(t, app, http.MethodGet, "/settlements?status=indeterminate&limit=5000", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if settlements.lastStatus != "indeterminate" || settlements.lastLimit != maxListLimit {
		t.Fatalf("unexpected list call %q %d", settlements.lastStatus, settlements.lastLimit)
	}
}
