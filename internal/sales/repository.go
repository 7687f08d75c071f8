package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rfarias/vehicle-sales-backend/pkg/enums"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
	"github.com/rfarias/vehicle-sales-backend/pkg/mongodb"
)

const salesCollection = "sales"

type vehicleDataDocument struct {
	Brand         string `bson:"brand"`
	Model         string `bson:"model"`
	Year          int    `bson:"year"`
	Color         string `bson:"color"`
	OriginalPrice string `bson:"originalPrice"`
}

// saleDocument is the persisted shape. Prices are stored as strings so the
// decimal values round-trip exactly.
type saleDocument struct {
	ID            string              `bson:"_id"`
	VehicleID     string              `bson:"vehicleId"`
	BuyerCPF      string              `bson:"buyerCpf"`
	BuyerName     string              `bson:"buyerName"`
	BuyerEmail    string              `bson:"buyerEmail"`
	SalePrice     string              `bson:"salePrice"`
	PaymentCode   string              `bson:"paymentCode"`
	PaymentStatus string              `bson:"paymentStatus"`
	CreatedAt     time.Time           `bson:"createdAt"`
	UpdatedAt     *time.Time          `bson:"updatedAt,omitempty"`
	VehicleData   vehicleDataDocument `bson:"vehicleData"`
}

// Repository persists sales in MongoDB.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository builds a repository over the sales collection.
func NewRepository(client *mongodb.Client) *Repository {
	return &Repository{collection: client.Collection(salesCollection)}
}

// EnsureIndexes creates the unique payment-code index. Run once at boot.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "paymentCode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment code index")
	}
	return nil
}

// Insert stores a new sale.
func (r *Repository) Insert(ctx context.Context, sale *Sale) error {
	if _, err := r.collection.InsertOne(ctx, toDocument(sale)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "payment code already in use")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert sale")
	}
	return nil
}

// FindByID loads one sale.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	var doc saleDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return fromDocument(doc)
}

// FindByPaymentCode loads the sale holding the given payment code.
func (r *Repository) FindByPaymentCode(ctx context.Context, paymentCode string) (*Sale, error) {
	var doc saleDocument
	err := r.collection.FindOne(ctx, bson.M{"paymentCode": paymentCode}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale by payment code")
	}
	return fromDocument(doc)
}

// UpdatePaymentStatus persists a status change.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, sale *Sale) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": sale.ID.String()},
		bson.M{"$set": bson.M{
			"paymentStatus": sale.PaymentStatus.String(),
			"updatedAt":     sale.UpdatedAt,
		}},
	)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	if result.MatchedCount == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return nil
}

// List returns all sales, newest first.
func (r *Repository) List(ctx context.Context) ([]Sale, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	defer cursor.Close(ctx)

	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sales")
	}

	rows := make([]Sale, 0, len(docs))
	for _, doc := range docs {
		sale, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *sale)
	}
	return rows, nil
}

func toDocument(sale *Sale) saleDocument {
	return saleDocument{
		ID:            sale.ID.String(),
		VehicleID:     sale.VehicleID.String(),
		BuyerCPF:      sale.BuyerCPF,
		BuyerName:     sale.BuyerName,
		BuyerEmail:    sale.BuyerEmail,
		SalePrice:     sale.SalePrice.String(),
		PaymentCode:   sale.PaymentCode,
		PaymentStatus: sale.PaymentStatus.String(),
		CreatedAt:     sale.CreatedAt,
		UpdatedAt:     sale.UpdatedAt,
		VehicleData: vehicleDataDocument{
			Brand:         sale.VehicleData.Brand,
			Model:         sale.VehicleData.Model,
			Year:          sale.VehicleData.Year,
			Color:         sale.VehicleData.Color,
			OriginalPrice: sale.VehicleData.OriginalPrice.String(),
		},
	}
}

func fromDocument(doc saleDocument) (*Sale, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse sale id")
	}
	vehicleID, err := uuid.Parse(doc.VehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse vehicle id")
	}
	salePrice, err := decimal.NewFromString(doc.SalePrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse sale price")
	}
	originalPrice, err := decimal.NewFromString(doc.VehicleData.OriginalPrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse original price")
	}

	return &Sale{
		ID:            id,
		VehicleID:     vehicleID,
		BuyerCPF:      doc.BuyerCPF,
		BuyerName:     doc.BuyerName,
		BuyerEmail:    doc.BuyerEmail,
		SalePrice:     salePrice,
		PaymentCode:   doc.PaymentCode,
		PaymentStatus: enums.PaymentStatus(doc.PaymentStatus),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		VehicleData: VehicleData{
			Brand:         doc.VehicleData.Brand,
			Model:         doc.VehicleData.Model,
			Year:          doc.VehicleData.Year,
			Color:         doc.VehicleData.Color,
			OriginalPrice: originalPrice,
		},
	}, nil
}
