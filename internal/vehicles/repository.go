package vehicles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfarias/vehicle-sales-backend/pkg/db"
	"github.com/rfarias/vehicle-sales-backend/pkg/db/models"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
)

// Repository persists the vehicle catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new vehicle row.
func (r *Repository) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert vehicle")
	}
	return vehicle, nil
}

// FindByID loads a single vehicle.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return &vehicle, nil
}

// FindByPaymentCode loads the vehicle holding the given payment code.
func (r *Repository) FindByPaymentCode(ctx context.Context, paymentCode string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "payment_code = ?", paymentCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle by payment code")
	}
	return &vehicle, nil
}

// Save persists all fields of an existing vehicle row.
func (r *Repository) Save(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.db.WithContext(ctx).Save(vehicle).Error; err != nil {
		if db.IsUniqueViolation(err, "idx_vehicles_payment_code") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "payment code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save vehicle")
	}
	return vehicle, nil
}

// RegisterSale persists the sold sub-state behind a sold-flag guard so two
// concurrent purchases of the same vehicle cannot both win. The unique index
// on payment_code backstops the race at the storage layer.
func (r *Repository) RegisterSale(ctx context.Context, vehicle *models.Vehicle) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ? AND is_sold = ?", vehicle.ID, false).
		Updates(map[string]any{
			"is_sold":        true,
			"buyer_cpf":      vehicle.BuyerCPF,
			"sale_date":      vehicle.SaleDate,
			"payment_code":   vehicle.PaymentCode,
			"payment_status": vehicle.PaymentStatus,
			"updated_at":     vehicle.UpdatedAt,
		})
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error, "idx_vehicles_payment_code") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, result.Error, "payment code already in use")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "register sale")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "vehicle is already sold")
	}
	return nil
}

// ApplySaleState writes the full sale sub-state, including cleared fields
// after a cancellation reversal.
func (r *Repository) ApplySaleState(ctx context.Context, vehicle *models.Vehicle) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", vehicle.ID).
		Updates(map[string]any{
			"is_sold":        vehicle.IsSold,
			"buyer_cpf":      vehicle.BuyerCPF,
			"sale_date":      vehicle.SaleDate,
			"payment_code":   vehicle.PaymentCode,
			"payment_status": vehicle.PaymentStatus,
			"updated_at":     vehicle.UpdatedAt,
		})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "apply sale state")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return nil
}

// Delete removes a vehicle by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vehicle{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "delete vehicle")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return nil
}

// List returns all vehicles ordered by price ascending.
func (r *Repository) List(ctx context.Context) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return rows, nil
}

// ListBySold returns vehicles filtered by the sold flag, price ascending.
func (r *Repository) ListBySold(ctx context.Context, sold bool) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	if err := r.db.WithContext(ctx).
		Where("is_sold = ?", sold).
		Order("price ASC").
		Find(&rows).
		Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles by sold state")
	}
	return rows, nil
}

// Search applies the catalog filters, price ascending.
func (r *Repository) Search(ctx context.Context, filters SearchFilters) ([]models.Vehicle, error) {
	qb := r.db.WithContext(ctx).Model(&models.Vehicle{})

	if brand := strings.TrimSpace(filters.Brand); brand != "" {
		qb = qb.Where("LOWER(brand) LIKE ?", "%"+strings.ToLower(brand)+"%")
	}
	if model := strings.TrimSpace(filters.Model); model != "" {
		qb = qb.Where("LOWER(model) LIKE ?", "%"+strings.ToLower(model)+"%")
	}
	if color := strings.TrimSpace(filters.Color); color != "" {
		qb = qb.Where("LOWER(color) = ?", strings.ToLower(color))
	}
	if filters.MinPrice != nil {
		qb = qb.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb = qb.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Year != nil {
		qb = qb.Where("year = ?", *filters.Year)
	}
	if filters.MinYear != nil {
		qb = qb.Where("year >= ?", *filters.MinYear)
	}
	if filters.MaxYear != nil {
		qb = qb.Where("year <= ?", *filters.MaxYear)
	}
	if filters.IsAvailable != nil {
		qb = qb.Where("is_sold = ?", !*filters.IsAvailable)
	}

	var rows []models.Vehicle
	if err := qb.Order("price ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search vehicles")
	}
	return rows, nil
}

// Count reports the number of catalog rows. Used by the dev seeder.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count vehicles")
	}
	return count, nil
}
