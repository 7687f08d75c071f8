package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	salesvc "github.com/rfarias/vehicle-sales-backend/internal/sales"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
)

func TestCreateSale(t *testing.T) {
	logg := testLogger()
	vehicleID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubSaleService{sale: &salesvc.SaleDTO{ID: uuid.New(), VehicleID: vehicleID}}
		body := `{"vehicleId":"` + vehicleID.String() + `","buyerCpf":"12345678901","buyerName":"Maria Silva","buyerEmail":"maria@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateSale(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.created == nil || stub.created.VehicleID != vehicleID {
			t.Fatalf("expected create for %s, got %+v", vehicleID, stub.created)
		}
		if stub.created.BuyerCPF != "12345678901" {
			t.Fatalf("unexpected buyer cpf: %q", stub.created.BuyerCPF)
		}
	})

	t.Run("invalid vehicle id", func(t *testing.T) {
		body := `{"vehicleId":"nope","buyerCpf":"12345678901","buyerName":"Maria Silva"}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateSale(&stubSaleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid vehicle id, got %d", rec.Code)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		body := `{"vehicleId":"` + vehicleID.String() + `","buyerCpf":"12345678901","buyerName":"Maria Silva","buyerEmail":"not-an-email"}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateSale(&stubSaleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid email, got %d", rec.Code)
		}
	})

	t.Run("vehicle not available", func(t *testing.T) {
		stub := &stubSaleService{createErr: pkgerrors.New(pkgerrors.CodeNotFound, "vehicle is not available")}
		body := `{"vehicleId":"` + vehicleID.String() + `","buyerCpf":"12345678901","buyerName":"Maria Silva"}`
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateSale(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestGetSale(t *testing.T) {
	logg := testLogger()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubSaleService{sale: &salesvc.SaleDTO{ID: id}}
		req := httptest.NewRequest(http.MethodGet, "/sales/"+id.String(), nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", id.String())
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()

		GetSale(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var envelope struct {
			Data salesvc.SaleDTO `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.ID != id {
			t.Fatalf("expected sale %s, got %s", id, envelope.Data.ID)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sales/nope", nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", "nope")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()

		GetSale(&stubSaleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})
}

func TestSalePaymentWebhook(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubSaleService{sale: &salesvc.SaleDTO{ID: uuid.New()}}
		body := `{"paymentCode":"PAY-20260830-AAAA1111","status":"paid"}`
		req := httptest.NewRequest(http.MethodPost, "/sales/payment-webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SalePaymentWebhook(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.payment == nil || stub.payment.PaymentCode != "PAY-20260830-AAAA1111" {
			t.Fatalf("expected payment callback, got %+v", stub.payment)
		}
	})

	t.Run("unknown payment code", func(t *testing.T) {
		stub := &stubSaleService{paymentErr: pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")}
		body := `{"paymentCode":"PAY-20260830-ZZZZ9999","status":"paid"}`
		req := httptest.NewRequest(http.MethodPost, "/sales/payment-webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SalePaymentWebhook(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("missing payment code", func(t *testing.T) {
		body := `{"status":"paid"}`
		req := httptest.NewRequest(http.MethodPost, "/sales/payment-webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SalePaymentWebhook(&stubSaleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing payment code, got %d", rec.Code)
		}
	})
}

type stubSaleService struct {
	sale       *salesvc.SaleDTO
	created    *salesvc.CreateSaleInput
	payment    *salesvc.ProcessPaymentInput
	createErr  error
	paymentErr error
}

func (s *stubSaleService) Create(ctx context.Context, input salesvc.CreateSaleInput) (*salesvc.SaleDTO, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &input
	return s.sale, nil
}

func (s *stubSaleService) GetByID(ctx context.Context, id uuid.UUID) (*salesvc.SaleDTO, error) {
	if s.sale == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return s.sale, nil
}

func (s *stubSaleService) List(ctx context.Context) ([]salesvc.SaleDTO, error) {
	return nil, nil
}

func (s *stubSaleService) ProcessPayment(ctx context.Context, input salesvc.ProcessPaymentInput) (*salesvc.SaleDTO, error) {
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	s.payment = &input
	return s.sale, nil
}
