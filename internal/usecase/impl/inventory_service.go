package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliveryContext "posledger/internal/delivery/context"
	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/domain/service"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type inventoryService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	publisher   service.EventPublisher
	logger      *slog.Logger
}

// NewInventoryService creates a new inventory service instance.
func NewInventoryService(
	txManager repository.TransactionManager,
	productRepo repository.ProductRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.InventoryUsecase {
	return &inventoryService{
		txManager:   txManager,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateProduct persists a new product.
func (srv *inventoryService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	var problems []string
	if strings.TrimSpace(input.Code) == "" {
		problems = append(problems, "code is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if input.Quantity < 0 {
		problems = append(problems, "quantity must not be negative")
	}
	if input.LowStock < 0 || input.ReorderPoint < 0 {
		problems = append(problems, "stock thresholds must not be negative")
	}
	if input.BuyingPrice.IsNegative() || input.SellingPrice.IsNegative() {
		problems = append(problems, "prices must not be negative")
	}
	if input.Tax.IsNegative() || input.Discount.IsNegative() {
		problems = append(problems, "tax and discount must not be negative")
	}
	if len(problems) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New(),
		Code:         strings.TrimSpace(input.Code),
		BatchNumber:  input.BatchNumber,
		Name:         strings.TrimSpace(input.Name),
		Category:     input.Category,
		Quantity:     input.Quantity,
		LowStock:     input.LowStock,
		ReorderPoint: input.ReorderPoint,
		BuyingPrice:  input.BuyingPrice,
		SellingPrice: input.SellingPrice,
		Tax:          input.Tax,
		Discount:     input.Discount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	return product, nil
}

// GetProduct retrieves a product by ID.
func (srv *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WithDetails(id.String())
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// IncreaseStock adds stock under a row lock and emits a stock-updated event
// after the transaction commits.
func (srv *inventoryService) IncreaseStock(ctx context.Context, productID uuid.UUID, qty int, action string) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("restock quantity must be positive")
	}
	if action == "" {
		action = usecase.StockActionRestock
	}

	requestID := deliveryContext.GetRequestIDFromContext(ctx)

	var (
		product     *entity.Product
		oldQuantity int
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		locked, err := productRepo.FindByIDForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WithDetails(productID.String())
			}

			return errors.Wrap(err, "failed to lock product")
		}

		oldQuantity = locked.Quantity
		if err := locked.Restock(qty); err != nil {
			return err
		}

		if err := productRepo.Update(ctx, locked); err != nil {
			return errors.Wrap(err, "failed to update product stock")
		}

		product = locked

		return nil
	})
	if err != nil {
		return nil, err
	}

	event := service.StockUpdatedEvent{
		RequestID:   requestID,
		ProductID:   product.ID,
		OldQuantity: oldQuantity,
		NewQuantity: product.Quantity,
		Action:      action,
	}
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.logger.Error("failed to publish event",
			"event", event.EventName(), "error", err)
	}

	return product, nil
}

// ListLowStock returns products at or below their low-stock threshold.
func (srv *inventoryService) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list low stock products")
	}

	return products, nil
}
