package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfarias/vehicle-sales-backend/api/responses"
	"github.com/rfarias/vehicle-sales-backend/api/validators"
	vehiclesvc "github.com/rfarias/vehicle-sales-backend/internal/vehicles"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
)

// RegisterVehicle handles catalog vehicle creation.
func RegisterVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		var payload vehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Register(r.Context(), vehiclesvc.RegisterVehicleInput{
			Brand: strings.TrimSpace(payload.Brand),
			Model: strings.TrimSpace(payload.Model),
			Year:  payload.Year,
			Color: strings.TrimSpace(payload.Color),
			Price: payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

// UpdateVehicle replaces the descriptive fields of a vehicle. When the body
// carries an id it must match the path.
func UpdateVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		id, err := pathVehicleID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload vehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.ID != nil && *payload.ID != id {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "body id does not match path id"))
			return
		}

		vehicle, err := svc.UpdateDetails(r.Context(), id, vehiclesvc.UpdateVehicleInput{
			Brand: strings.TrimSpace(payload.Brand),
			Model: strings.TrimSpace(payload.Model),
			Year:  payload.Year,
			Color: strings.TrimSpace(payload.Color),
			Price: payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicle)
	}
}

// DeleteVehicle removes an unsold vehicle from the catalog.
func DeleteVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		id, err := pathVehicleID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetVehicle returns a single vehicle by id.
func GetVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		id, err := pathVehicleID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicle)
	}
}

// ListVehicles returns every vehicle ordered by price ascending.
func ListVehicles(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		vehicles, err := svc.GetAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicles)
	}
}

// ListAvailableVehicles returns unsold vehicles ordered by price ascending.
func ListAvailableVehicles(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		vehicles, err := svc.GetAvailable(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicles)
	}
}

// ListSoldVehicles returns sold vehicles with their sale sub-state.
func ListSoldVehicles(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		vehicles, err := svc.GetSold(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicles)
	}
}

// SearchVehicles filters the catalog by the combinable query parameters.
func SearchVehicles(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		filters, err := searchFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicles, err := svc.Search(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicles)
	}
}

// VehiclePaymentWebhook applies a payment-provider callback relayed by the
// sales service.
func VehiclePaymentWebhook(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		var payload vehiclePaymentWebhookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := vehiclesvc.PaymentWebhookInput{
			PaymentCode: strings.TrimSpace(payload.PaymentCode),
			Status:      strings.TrimSpace(payload.Status),
		}
		if payload.VehicleID != "" {
			id, err := uuid.Parse(payload.VehicleID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id"))
				return
			}
			input.VehicleID = id
		}

		vehicle, err := svc.ProcessPaymentWebhook(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicle)
	}
}

type vehicleRequest struct {
	ID    *uuid.UUID      `json:"id,omitempty"`
	Brand string          `json:"brand" validate:"required"`
	Model string          `json:"model" validate:"required"`
	Year  int             `json:"year" validate:"required"`
	Color string          `json:"color" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required"`
}

type vehiclePaymentWebhookRequest struct {
	VehicleID   string `json:"vehicleId,omitempty"`
	PaymentCode string `json:"paymentCode" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

func pathVehicleID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id")
	}
	return id, nil
}

func searchFiltersFromQuery(r *http.Request) (vehiclesvc.SearchFilters, error) {
	filters := vehiclesvc.SearchFilters{
		Brand: strings.TrimSpace(r.URL.Query().Get("brand")),
		Model: strings.TrimSpace(r.URL.Query().Get("model")),
		Color: strings.TrimSpace(r.URL.Query().Get("color")),
	}

	var err error
	if filters.MinPrice, err = validators.ParseQueryDecimalPtr(r, "minPrice"); err != nil {
		return vehiclesvc.SearchFilters{}, err
	}
	if filters.MaxPrice, err = validators.ParseQueryDecimalPtr(r, "maxPrice"); err != nil {
		return vehiclesvc.SearchFilters{}, err
	}
	if filters.Year, err = validators.ParseQueryIntPtr(r, "year"); err != nil {
		return vehiclesvc.SearchFilters{}, err
	}
	if filters.MinYear, err = validators.ParseQueryIntPtr(r, "minYear"); err != nil {
		return vehiclesvc.SearchFilters{}, err
	}
	if filters.MaxYear, err = validators.ParseQueryIntPtr(r, "maxYear"); err != nil {
		return vehiclesvc.SearchFilters{}, err
	}
	if filters.IsAvailable, err = validators.ParseQueryBoolPtr(r, "isAvailable"); err != nil {
		return vehiclesvc.SearchFilters{}, err
	}
	return filters, nil
}
