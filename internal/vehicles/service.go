package vehicles

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfarias/vehicle-sales-backend/pkg/db/models"
	"github.com/rfarias/vehicle-sales-backend/pkg/enums"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
)

// Service exposes the catalog operations.
type Service interface {
	Register(ctx context.Context, input RegisterVehicleInput) (*VehicleDTO, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]VehicleDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
	GetAvailable(ctx context.Context) ([]VehicleDTO, error)
	GetSold(ctx context.Context) ([]SoldVehicleDTO, error)
	Search(ctx context.Context, filters SearchFilters) ([]VehicleDTO, error)
	ProcessPaymentWebhook(ctx context.Context, input PaymentWebhookInput) (*VehicleDTO, error)
}

// RegisterVehicleInput holds the validated payload to register a vehicle.
type RegisterVehicleInput struct {
	Brand string
	Model string
	Year  int
	Color string
	Price decimal.Decimal
}

// UpdateVehicleInput carries the full replacement of descriptive fields.
type UpdateVehicleInput struct {
	Brand string
	Model string
	Year  int
	Color string
	Price decimal.Decimal
}

// SearchFilters are the combinable catalog filters. Nil pointer means the
// filter was not supplied.
type SearchFilters struct {
	Brand       string
	Model       string
	Color       string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Year        *int
	MinYear     *int
	MaxYear     *int
	IsAvailable *bool
}

// Validate rejects inconsistent ranges before any store access.
func (f SearchFilters) Validate() error {
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minPrice cannot be negative")
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "maxPrice cannot be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "minPrice cannot exceed maxPrice")
	}
	if f.MinYear != nil && f.MaxYear != nil && *f.MinYear > *f.MaxYear {
		return pkgerrors.New(pkgerrors.CodeValidation, "minYear cannot exceed maxYear")
	}
	return nil
}

// PaymentWebhookInput is the payment-provider callback relayed by the sales
// service.
type PaymentWebhookInput struct {
	VehicleID   uuid.UUID
	PaymentCode string
	Status      string
}

type repository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByPaymentCode(ctx context.Context, paymentCode string) (*models.Vehicle, error)
	Save(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	ApplySaleState(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Vehicle, error)
	ListBySold(ctx context.Context, sold bool) ([]models.Vehicle, error)
	Search(ctx context.Context, filters SearchFilters) ([]models.Vehicle, error)
}

type service struct {
	repo repository
	logg *logger.Logger
}

// NewService constructs the catalog service.
func NewService(repo repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Register(ctx context.Context, input RegisterVehicleInput) (*VehicleDTO, error) {
	vehicle, err := models.NewVehicle(input.Brand, input.Model, input.Year, input.Color, input.Price)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithVehicleID(ctx, created.ID.String()), "vehicle registered")
	}
	return NewVehicleDTO(created), nil
}

func (s *service) UpdateDetails(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := vehicle.UpdateDetails(input.Brand, input.Model, input.Year, input.Color, input.Price); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	return NewVehicleDTO(saved), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := vehicle.Deletable(); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) GetAll(ctx context.Context) ([]VehicleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newVehicleDTOs(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewVehicleDTO(vehicle), nil
}

func (s *service) GetAvailable(ctx context.Context) ([]VehicleDTO, error) {
	rows, err := s.repo.ListBySold(ctx, false)
	if err != nil {
		return nil, err
	}
	return newVehicleDTOs(rows), nil
}

func (s *service) GetSold(ctx context.Context) ([]SoldVehicleDTO, error) {
	rows, err := s.repo.ListBySold(ctx, true)
	if err != nil {
		return nil, err
	}

	dtos := make([]SoldVehicleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewSoldVehicleDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Search(ctx context.Context, filters SearchFilters) ([]VehicleDTO, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	return newVehicleDTOs(rows), nil
}

// ProcessPaymentWebhook applies a payment-provider callback to the vehicle's
// sale sub-state. The vehicle is looked up by id first, then by payment code
// so retried deliveries still land after a code rewrite.
func (s *service) ProcessPaymentWebhook(ctx context.Context, input PaymentWebhookInput) (*VehicleDTO, error) {
	status, err := enums.ParsePaymentStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
	}

	vehicle, err := s.lookupWebhookTarget(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := vehicle.ApplyPaymentStatus(input.PaymentCode, status); err != nil {
		return nil, err
	}

	if err := s.repo.ApplySaleState(ctx, vehicle); err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithVehicleID(ctx, vehicle.ID.String())
		logCtx = s.logg.WithField(logCtx, "payment_status", status.String())
		s.logg.Info(logCtx, "payment webhook applied")
	}
	return NewVehicleDTO(vehicle), nil
}

func (s *service) lookupWebhookTarget(ctx context.Context, input PaymentWebhookInput) (*models.Vehicle, error) {
	if input.VehicleID != uuid.Nil {
		vehicle, err := s.repo.FindByID(ctx, input.VehicleID)
		if err == nil {
			return vehicle, nil
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return nil, err
		}
	}

	if input.PaymentCode != "" {
		return s.repo.FindByPaymentCode(ctx, input.PaymentCode)
	}

	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
}
