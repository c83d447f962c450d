package postgres

import (
	"context"

	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productRepository implements the domain.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrProductAlreadyExists.WrapMessage("product code and batch already exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindByID retrieves a product by ID.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindByIDForUpdate retrieves a product by ID holding a FOR UPDATE row lock.
func (repo *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}
		if isConcurrencyConflict(err) {
			return nil, domainerrors.NewConcurrencyConflictError("product")
		}

		return nil, errors.Wrap(err, "failed to lock product by id")
	}

	return toProductDomain(&productM), nil
}

// Update persists the product's mutable fields, including the stock counter.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", productM.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(productM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrProductAlreadyExists.WrapMessage("product code and batch already exist")
		}
		if isConcurrencyConflict(err) {
			return domainerrors.NewConcurrencyConflictError("product")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}

	return nil
}

// ListLowStock returns products whose quantity is at or below their low-stock
// threshold, most depleted first.
func (repo *productRepository) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	var productMs []model.ProductModel

	err := repo.db.WithContext(ctx).
		Where("quantity <= low_stock").
		Order("quantity ASC").
		Find(&productMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list low stock products")
	}

	products := make([]*entity.Product, len(productMs))
	for i := range productMs {
		products[i] = toProductDomain(&productMs[i])
	}

	return products, nil
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	return &entity.Product{
		ID:           data.ID,
		Code:         data.Code,
		BatchNumber:  data.BatchNumber,
		Name:         data.Name,
		Category:     data.Category,
		Quantity:     data.Quantity,
		LowStock:     data.LowStock,
		ReorderPoint: data.ReorderPoint,
		BuyingPrice:  data.BuyingPrice,
		SellingPrice: data.SellingPrice,
		Tax:          data.Tax,
		Discount:     data.Discount,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	return &model.ProductModel{
		ID:           data.ID,
		Code:         data.Code,
		BatchNumber:  data.BatchNumber,
		Name:         data.Name,
		Category:     data.Category,
		Quantity:     data.Quantity,
		LowStock:     data.LowStock,
		ReorderPoint: data.ReorderPoint,
		BuyingPrice:  data.BuyingPrice,
		SellingPrice: data.SellingPrice,
		Tax:          data.Tax,
		Discount:     data.Discount,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
