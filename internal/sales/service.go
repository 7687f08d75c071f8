package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rfarias/vehicle-sales-backend/internal/catalog"
	"github.com/rfarias/vehicle-sales-backend/pkg/enums"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
)

// Service exposes the sales operations.
type Service interface {
	Create(ctx context.Context, input CreateSaleInput) (*SaleDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SaleDTO, error)
	List(ctx context.Context) ([]SaleDTO, error)
	ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*SaleDTO, error)
}

// CreateSaleInput holds the validated purchase request.
type CreateSaleInput struct {
	VehicleID  uuid.UUID
	BuyerCPF   string
	BuyerName  string
	BuyerEmail string
}

// ProcessPaymentInput is the payment-provider callback payload.
type ProcessPaymentInput struct {
	PaymentCode string
	Status      string
}

type repository interface {
	Insert(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByPaymentCode(ctx context.Context, paymentCode string) (*Sale, error)
	UpdatePaymentStatus(ctx context.Context, sale *Sale) error
	List(ctx context.Context) ([]Sale, error)
}

type snapshotFetcher interface {
	GetVehicle(ctx context.Context, vehicleID uuid.UUID) (*catalog.Snapshot, error)
}

type soldNotifier interface {
	NotifyVehicleSold(ctx context.Context, vehicleID uuid.UUID, paymentCode, status string) error
}

type idempotencyGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type service struct {
	repo     repository
	catalogc snapshotFetcher
	notifier soldNotifier
	guard    idempotencyGuard
	logg     *logger.Logger
}

// NewService constructs the sales service. The guard is optional; without it
// webhook deliveries are not deduplicated.
func NewService(repo repository, catalogc snapshotFetcher, notifier soldNotifier, guard idempotencyGuard, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if catalogc == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("catalog notifier required")
	}
	return &service{
		repo:     repo,
		catalogc: catalogc,
		notifier: notifier,
		guard:    guard,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateSaleInput) (*SaleDTO, error) {
	snapshot, err := s.catalogc.GetVehicle(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	sale, err := NewSale(input.VehicleID, input.BuyerCPF, input.BuyerName, input.BuyerEmail, *snapshot)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, sale); err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithVehicleID(ctx, sale.VehicleID.String())
		logCtx = s.logg.WithPaymentCode(logCtx, sale.PaymentCode)
		s.logg.Info(logCtx, "sale created")
	}
	return NewSaleDTO(sale), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SaleDTO, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewSaleDTO(sale), nil
}

func (s *service) List(ctx context.Context) ([]SaleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewSaleDTO(&rows[i]))
	}
	return dtos, nil
}

// ProcessPayment records a payment-provider callback. A Paid status is
// relayed to the catalog webhook; delivery failure is logged and swallowed,
// accepting a window where the two services disagree until a retry lands.
func (s *service) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*SaleDTO, error) {
	status, err := enums.ParsePaymentStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
	}

	sale, err := s.repo.FindByPaymentCode(ctx, input.PaymentCode)
	if err != nil {
		return nil, err
	}

	eventID := input.PaymentCode + ":" + status.String()
	if s.guard != nil {
		seen, err := s.guard.CheckAndMark(ctx, eventID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency check")
		}
		if seen {
			if s.logg != nil {
				s.logg.Info(s.logg.WithPaymentCode(ctx, input.PaymentCode), "duplicate payment webhook skipped")
			}
			return NewSaleDTO(sale), nil
		}
	}

	sale.UpdatePaymentStatus(status)
	if err := s.repo.UpdatePaymentStatus(ctx, sale); err != nil {
		if s.guard != nil {
			if delErr := s.guard.Delete(ctx, eventID); delErr != nil && s.logg != nil {
				s.logg.Warn(s.logg.WithPaymentCode(ctx, input.PaymentCode), "failed to release idempotency mark")
			}
		}
		return nil, err
	}

	if status == enums.PaymentStatusPaid {
		if err := s.notifier.NotifyVehicleSold(ctx, sale.VehicleID, sale.PaymentCode, status.String()); err != nil {
			if s.logg != nil {
				logCtx := s.logg.WithVehicleID(ctx, sale.VehicleID.String())
				logCtx = s.logg.WithPaymentCode(logCtx, sale.PaymentCode)
				s.logg.Error(logCtx, "catalog webhook delivery failed", err)
			}
		}
	}

	if s.logg != nil {
		logCtx := s.logg.WithPaymentCode(ctx, sale.PaymentCode)
		logCtx = s.logg.WithField(logCtx, "payment_status", status.String())
		s.logg.Info(logCtx, "payment processed")
	}
	return NewSaleDTO(sale), nil
}
