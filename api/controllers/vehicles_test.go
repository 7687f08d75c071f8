package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	vehiclesvc "github.com/rfarias/vehicle-sales-backend/internal/vehicles"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withVehicleID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestRegisterVehicle(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubVehicleService{}
		body := `{"brand":"Toyota","model":"Corolla","year":2022,"color":"Branco","price":85000}`
		req := httptest.NewRequest(http.MethodPost, "/vehicles", strings.NewReader(body))
		rec := httptest.NewRecorder()

		RegisterVehicle(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.registered == nil {
			t.Fatalf("expected Register to be invoked")
		}
		if !stub.registered.Price.Equal(decimal.RequireFromString("85000")) {
			t.Fatalf("unexpected price: %s", stub.registered.Price)
		}
	})

	t.Run("missing brand", func(t *testing.T) {
		body := `{"model":"Corolla","year":2022,"color":"Branco","price":85000}`
		req := httptest.NewRequest(http.MethodPost, "/vehicles", strings.NewReader(body))
		rec := httptest.NewRecorder()

		RegisterVehicle(&stubVehicleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing brand, got %d", rec.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		body := `{"brand":"Toyota","model":"Corolla","year":2022,"color":"Branco","price":85000,"vin":"XYZ"}`
		req := httptest.NewRequest(http.MethodPost, "/vehicles", strings.NewReader(body))
		rec := httptest.NewRecorder()

		RegisterVehicle(&stubVehicleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})
}

func TestUpdateVehicle(t *testing.T) {
	logg := testLogger()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubVehicleService{}
		body := `{"id":"` + id.String() + `","brand":"Toyota","model":"Corolla","year":2023,"color":"Preto","price":90000}`
		req := withVehicleID(httptest.NewRequest(http.MethodPut, "/vehicles/"+id.String(), strings.NewReader(body)), id.String())
		rec := httptest.NewRecorder()

		UpdateVehicle(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.updatedID != id {
			t.Fatalf("expected update for %s, got %s", id, stub.updatedID)
		}
	})

	t.Run("body id mismatch", func(t *testing.T) {
		body := `{"id":"` + uuid.NewString() + `","brand":"Toyota","model":"Corolla","year":2023,"color":"Preto","price":90000}`
		req := withVehicleID(httptest.NewRequest(http.MethodPut, "/vehicles/"+id.String(), strings.NewReader(body)), id.String())
		rec := httptest.NewRecorder()

		UpdateVehicle(&stubVehicleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for id mismatch, got %d", rec.Code)
		}
	})

	t.Run("invalid path id", func(t *testing.T) {
		body := `{"brand":"Toyota","model":"Corolla","year":2023,"color":"Preto","price":90000}`
		req := withVehicleID(httptest.NewRequest(http.MethodPut, "/vehicles/nope", strings.NewReader(body)), "nope")
		rec := httptest.NewRecorder()

		UpdateVehicle(&stubVehicleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})
}

func TestDeleteVehicle(t *testing.T) {
	logg := testLogger()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubVehicleService{}
		req := withVehicleID(httptest.NewRequest(http.MethodDelete, "/vehicles/"+id.String(), nil), id.String())
		rec := httptest.NewRecorder()

		DeleteVehicle(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.deletedID != id {
			t.Fatalf("expected delete for %s, got %s", id, stub.deletedID)
		}
	})

	t.Run("sold vehicle conflicts", func(t *testing.T) {
		stub := &stubVehicleService{deleteErr: pkgerrors.New(pkgerrors.CodeConflict, "cannot delete a sold vehicle")}
		req := withVehicleID(httptest.NewRequest(http.MethodDelete, "/vehicles/"+id.String(), nil), id.String())
		rec := httptest.NewRecorder()

		DeleteVehicle(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestGetVehicle(t *testing.T) {
	logg := testLogger()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubVehicleService{vehicle: &vehiclesvc.VehicleDTO{ID: id, Brand: "Toyota"}}
		req := withVehicleID(httptest.NewRequest(http.MethodGet, "/vehicles/"+id.String(), nil), id.String())
		rec := httptest.NewRecorder()

		GetVehicle(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var envelope struct {
			Data vehiclesvc.VehicleDTO `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.ID != id {
			t.Fatalf("expected vehicle %s, got %s", id, envelope.Data.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubVehicleService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")}
		req := withVehicleID(httptest.NewRequest(http.MethodGet, "/vehicles/"+id.String(), nil), id.String())
		rec := httptest.NewRecorder()

		GetVehicle(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSearchVehicles(t *testing.T) {
	logg := testLogger()

	t.Run("filters forwarded", func(t *testing.T) {
		stub := &stubVehicleService{}
		req := httptest.NewRequest(http.MethodGet, "/vehicles/search?brand=Toyota&minPrice=50000&maxPrice=90000&minYear=2020&isAvailable=true", nil)
		rec := httptest.NewRecorder()

		SearchVehicles(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.searched == nil {
			t.Fatalf("expected Search to be invoked")
		}
		if stub.searched.Brand != "Toyota" {
			t.Fatalf("unexpected brand filter: %q", stub.searched.Brand)
		}
		if stub.searched.MinPrice == nil || !stub.searched.MinPrice.Equal(decimal.RequireFromString("50000")) {
			t.Fatalf("unexpected minPrice filter: %v", stub.searched.MinPrice)
		}
		if stub.searched.MinYear == nil || *stub.searched.MinYear != 2020 {
			t.Fatalf("unexpected minYear filter: %v", stub.searched.MinYear)
		}
		if stub.searched.IsAvailable == nil || !*stub.searched.IsAvailable {
			t.Fatalf("unexpected isAvailable filter: %v", stub.searched.IsAvailable)
		}
	})

	t.Run("invalid decimal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/vehicles/search?minPrice=cheap", nil)
		rec := httptest.NewRecorder()

		SearchVehicles(&stubVehicleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid decimal, got %d", rec.Code)
		}
	})
}

func TestVehiclePaymentWebhook(t *testing.T) {
	logg := testLogger()
	id := uuid.New()

	t.Run("success with vehicle id", func(t *testing.T) {
		stub := &stubVehicleService{vehicle: &vehiclesvc.VehicleDTO{ID: id}}
		body := `{"vehicleId":"` + id.String() + `","paymentCode":"PAY-20260830-AAAA1111","status":"paid"}`
		req := httptest.NewRequest(http.MethodPost, "/vehicles/payment-webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()

		VehiclePaymentWebhook(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.webhook == nil || stub.webhook.VehicleID != id {
			t.Fatalf("expected webhook for %s, got %+v", id, stub.webhook)
		}
	})

	t.Run("payment code only", func(t *testing.T) {
		stub := &stubVehicleService{vehicle: &vehiclesvc.VehicleDTO{ID: id}}
		body := `{"paymentCode":"PAY-20260830-AAAA1111","status":"cancelled"}`
		req := httptest.NewRequest(http.MethodPost, "/vehicles/payment-webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()

		VehiclePaymentWebhook(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.webhook == nil || stub.webhook.VehicleID != uuid.Nil {
			t.Fatalf("expected nil vehicle id, got %+v", stub.webhook)
		}
	})

	t.Run("invalid vehicle id", func(t *testing.T) {
		body := `{"vehicleId":"nope","paymentCode":"PAY-20260830-AAAA1111","status":"paid"}`
		req := httptest.NewRequest(http.MethodPost, "/vehicles/payment-webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()

		VehiclePaymentWebhook(&stubVehicleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid vehicle id, got %d", rec.Code)
		}
	})

	t.Run("missing status", func(t *testing.T) {
		body := `{"paymentCode":"PAY-20260830-AAAA1111"}`
		req := httptest.NewRequest(http.MethodPost, "/vehicles/payment-webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()

		VehiclePaymentWebhook(&stubVehicleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing status, got %d", rec.Code)
		}
	})
}

type stubVehicleService struct {
	vehicle    *vehiclesvc.VehicleDTO
	registered *vehiclesvc.RegisterVehicleInput
	updatedID  uuid.UUID
	deletedID  uuid.UUID
	searched   *vehiclesvc.SearchFilters
	webhook    *vehiclesvc.PaymentWebhookInput
	getErr     error
	deleteErr  error
}

func (s *stubVehicleService) Register(ctx context.Context, input vehiclesvc.RegisterVehicleInput) (*vehiclesvc.VehicleDTO, error) {
	s.registered = &input
	return &vehiclesvc.VehicleDTO{ID: uuid.New(), Brand: input.Brand, Model: input.Model}, nil
}

func (s *stubVehicleService) UpdateDetails(ctx context.Context, id uuid.UUID, input vehiclesvc.UpdateVehicleInput) (*vehiclesvc.VehicleDTO, error) {
	s.updatedID = id
	return &vehiclesvc.VehicleDTO{ID: id, Brand: input.Brand}, nil
}

func (s *stubVehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedID = id
	return nil
}

func (s *stubVehicleService) GetAll(ctx context.Context) ([]vehiclesvc.VehicleDTO, error) {
	return nil, nil
}

func (s *stubVehicleService) GetByID(ctx context.Context, id uuid.UUID) (*vehiclesvc.VehicleDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.vehicle, nil
}

func (s *stubVehicleService) GetAvailable(ctx context.Context) ([]vehiclesvc.VehicleDTO, error) {
	return nil, nil
}

func (s *stubVehicleService) GetSold(ctx context.Context) ([]vehiclesvc.SoldVehicleDTO, error) {
	return nil, nil
}

func (s *stubVehicleService) Search(ctx context.Context, filters vehiclesvc.SearchFilters) ([]vehiclesvc.VehicleDTO, error) {
	s.searched = &filters
	return nil, nil
}

func (s *stubVehicleService) ProcessPaymentWebhook(ctx context.Context, input vehiclesvc.PaymentWebhookInput) (*vehiclesvc.VehicleDTO, error) {
	s.webhook = &input
	if s.vehicle != nil {
		return s.vehicle, nil
	}
	return &vehiclesvc.VehicleDTO{ID: input.VehicleID}, nil
}
