package repository

import (
	"marketplace/internal/models"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetBySupplierAndID(id, supplierID uint) (*models.Product, error)
	GetBySupplier(supplierID uint) ([]models.Product, error)
	Update(product *models.Product) error
	CreateCategory(category *models.Category) error
	GetCategories() ([]models.Category, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySupplierAndID(id, supplierID uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("id = ? AND supplier_id = ? AND is_active = ?", id, supplierID, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySupplier(supplierID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("supplier_id = ?", supplierID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *productRepository) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("is_active = ?", true).Order("name").Find(&categories).Error
	return categories, err
}
