package db

import (
	"context"
	"errors"
	"time"

	"github.com/maheshd/pricely/internal/domain"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	var models []productModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapProductsToDomain(models), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID uint) (*domain.Product, error) {
	var model productModel
	if err := r.db.WithContext(ctx).First(&model, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	product := mapProductToDomain(model)
	return &product, nil
}

func (r *ProductRepository) UpsertByName(ctx context.Context, initial *domain.Product) (*domain.Product, error) {
	model := mapProductToModel(*initial)
	err := r.db.WithContext(ctx).
		Where("name = ?", initial.Name).
		Attrs(model).
		FirstOrCreate(&model).Error
	if err != nil {
		// Unique index race: another writer created the same name between
		// the lookup and the insert. Re-read the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if lookupErr := r.db.WithContext(ctx).Where("name = ?", initial.Name).First(&model).Error; lookupErr != nil {
				return nil, lookupErr
			}
		} else {
			return nil, err
		}
	}
	product := mapProductToDomain(model)
	return &product, nil
}

func (r *ProductRepository) UpdatePrice(ctx context.Context, productID uint, update domain.PriceUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("id = ? AND price = ?", productID, update.ExpectedPrice).
		Updates(map[string]any{
			"price":          update.Price,
			"previous_price": update.PreviousPrice,
			"lower":          update.Lower,
			"upper":          update.Upper,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func mapProductsToDomain(models []productModel) []domain.Product {
	products := make([]domain.Product, 0, len(models))
	for _, model := range models {
		products = append(products, mapProductToDomain(model))
	}
	return products
}

func mapProductToDomain(model productModel) domain.Product {
	var deleted *time.Time
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		deleted = &t
	}
	return domain.Product{
		ID:            model.ID,
		Name:          model.Name,
		URL:           model.URL,
		Platform:      domain.Platform(model.Platform),
		Price:         model.Price,
		PreviousPrice: model.PreviousPrice,
		Lower:         model.Lower,
		Upper:         model.Upper,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
		DeletedAt:     deleted,
	}
}

func mapProductToModel(product domain.Product) productModel {
	return productModel{
		ID:            product.ID,
		Name:          product.Name,
		URL:           product.URL,
		Platform:      string(product.Platform),
		Price:         product.Price,
		PreviousPrice: product.PreviousPrice,
		Lower:         product.Lower,
		Upper:         product.Upper,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
