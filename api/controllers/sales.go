package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rfarias/vehicle-sales-backend/api/responses"
	"github.com/rfarias/vehicle-sales-backend/api/validators"
	salesvc "github.com/rfarias/vehicle-sales-backend/internal/sales"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
)

// CreateSale opens a purchase for an available vehicle and mints its
// payment code.
func CreateSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		var payload createSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicleID, err := uuid.Parse(strings.TrimSpace(payload.VehicleID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id"))
			return
		}

		sale, err := svc.Create(r.Context(), salesvc.CreateSaleInput{
			VehicleID:  vehicleID,
			BuyerCPF:   strings.TrimSpace(payload.BuyerCPF),
			BuyerName:  strings.TrimSpace(payload.BuyerName),
			BuyerEmail: strings.TrimSpace(payload.BuyerEmail),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// GetSale returns a single sale by id.
func GetSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sale id"))
			return
		}

		sale, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sale)
	}
}

// ListSales returns every sale, newest first.
func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		sales, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sales)
	}
}

// SalePaymentWebhook records a payment-provider callback against the sale
// identified by its payment code.
func SalePaymentWebhook(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		var payload salePaymentWebhookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.ProcessPayment(r.Context(), salesvc.ProcessPaymentInput{
			PaymentCode: strings.TrimSpace(payload.PaymentCode),
			Status:      strings.TrimSpace(payload.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sale)
	}
}

type createSaleRequest struct {
	VehicleID  string `json:"vehicleId" validate:"required"`
	BuyerCPF   string `json:"buyerCpf" validate:"required"`
	BuyerName  string `json:"buyerName" validate:"required"`
	BuyerEmail string `json:"buyerEmail" validate:"omitempty,email"`
}

type salePaymentWebhookRequest struct {
	PaymentCode string `json:"paymentCode" validate:"required"`
	Status      string `json:"status" validate:"required"`
}
