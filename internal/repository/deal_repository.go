package repository

import (
	"marketplace/internal/models"

	"gorm.io/gorm"
)

type DealRepository interface {
	// Create persists the deal together with its items as one transaction.
	Create(deal *models.Deal) error
	GetByID(id uint) (*models.Deal, error)
	// GetFresh re-reads the deal from the transactional source of truth with
	// no associations. Authorization-sensitive checks use this instead of
	// trusting object graphs loaded earlier in the request.
	GetFresh(id uint) (*models.Deal, error)
	Update(deal *models.Deal) error
	GetBySeller(sellerID uint) ([]models.Deal, error)
	GetBySupplier(supplierID uint) ([]models.Deal, error)

	GetItemByID(id uint) (*models.DealItem, error)
	// SaveItemWithDeal persists an item edit and the approval-clearing on the
	// deal in the same transaction, so an approval never survives an edit.
	SaveItemWithDeal(item *models.DealItem, deal *models.Deal) error
	DeleteItemWithDeal(item *models.DealItem, deal *models.Deal) error
}

type dealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(deal *models.Deal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(deal).Error
	})
}

func (r *dealRepository) GetByID(id uint) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.
		Preload("Seller").
		Preload("Supplier").
		Preload("Driver").
		Preload("Items").
		Preload("Items.Product").
		First(&deal, id).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) GetFresh(id uint) (*models.Deal, error) {
	var deal models.Deal
	if err := r.db.First(&deal, id).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) Update(deal *models.Deal) error {
	return r.db.Omit("Items", "Seller", "Supplier", "Driver").Save(deal).Error
}

func (r *dealRepository) GetBySeller(sellerID uint) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.
		Preload("Seller").Preload("Supplier").Preload("Driver").
		Preload("Items").Preload("Items.Product").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

func (r *dealRepository) GetBySupplier(supplierID uint) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.
		Preload("Seller").Preload("Supplier").Preload("Driver").
		Preload("Items").Preload("Items.Product").
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

func (r *dealRepository) GetItemByID(id uint) (*models.DealItem, error) {
	var item models.DealItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *dealRepository) SaveItemWithDeal(item *models.DealItem, deal *models.Deal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return tx.Omit("Items", "Seller", "Supplier", "Driver").Save(deal).Error
	})
}

func (r *dealRepository) DeleteItemWithDeal(item *models.DealItem, deal *models.Deal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.DealItem{}, item.ID).Error; err != nil {
			return err
		}
		return tx.Omit("Items", "Seller", "Supplier", "Driver").Save(deal).Error
	})
}
