package services

import (
	"marketplace/internal/apperrors"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type CreateProductInput struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Price            float64            `json:"price"`
	Unit             models.ProductUnit `json:"unit"`
	CategoryID       *uint              `json:"category_id"`
	MinOrderQuantity int                `json:"min_order_quantity"`
}

type ProductService interface {
	CreateProduct(user *models.User, input CreateProductInput) (*models.Product, error)
	GetSupplierProducts(supplierID uint) ([]models.Product, error)
	// GetSupplierProduct is the snapshot read used at deal-item creation: it
	// resolves a product only when owned by the given supplier.
	GetSupplierProduct(productID, supplierID uint) (*models.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(user *models.User, input CreateProductInput) (*models.Product, error) {
	if !user.IsSupplier() || user.SupplierProfile == nil {
		return nil, apperrors.Forbidden("only suppliers can create products")
	}
	if input.Name == "" {
		return nil, apperrors.NewValidation("product name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.NewValidation("product price must be greater than 0")
	}
	unit := input.Unit
	if unit == "" {
		unit = models.UnitKg
	}
	minOrder := input.MinOrderQuantity
	if minOrder < 1 {
		minOrder = 1
	}

	product := &models.Product{
		SupplierID:       user.SupplierProfile.ID,
		CategoryID:       input.CategoryID,
		Name:             input.Name,
		Description:      input.Description,
		Price:            input.Price,
		Unit:             unit,
		MinOrderQuantity: minOrder,
		IsActive:         true,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetSupplierProducts(supplierID uint) ([]models.Product, error) {
	return s.productRepo.GetBySupplier(supplierID)
}

func (s *productService) GetSupplierProduct(productID, supplierID uint) (*models.Product, error) {
	product, err := s.productRepo.GetBySupplierAndID(productID, supplierID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}
