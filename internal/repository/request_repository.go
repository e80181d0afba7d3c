package repository

import (
	"marketplace/internal/models"

	"gorm.io/gorm"
)

type RequestToDriverRepository interface {
	Create(request *models.RequestToDriver) error
	GetByID(id uint) (*models.RequestToDriver, error)
	Update(request *models.RequestToDriver) error
	// AcceptWithDeal persists the accepted request and the driver binding on
	// the deal as one transaction.
	AcceptWithDeal(request *models.RequestToDriver, deal *models.Deal) error
	ExistsForDealAndDriver(dealID, driverID uint) (bool, error)
	GetAcceptedForDeal(dealID uint) (*models.RequestToDriver, error)
	GetByDriver(driverID uint) ([]models.RequestToDriver, error)
	GetBySeller(sellerID uint) ([]models.RequestToDriver, error)
	GetBySupplier(supplierID uint) ([]models.RequestToDriver, error)
}

type requestToDriverRepository struct {
	db *gorm.DB
}

func NewRequestToDriverRepository(db *gorm.DB) RequestToDriverRepository {
	return &requestToDriverRepository{db: db}
}

func (r *requestToDriverRepository) Create(request *models.RequestToDriver) error {
	return r.db.Create(request).Error
}

func (r *requestToDriverRepository) GetByID(id uint) (*models.RequestToDriver, error) {
	var request models.RequestToDriver
	if err := r.db.Preload("Driver").First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestToDriverRepository) Update(request *models.RequestToDriver) error {
	return r.db.Omit("Deal", "Driver").Save(request).Error
}

func (r *requestToDriverRepository) AcceptWithDeal(request *models.RequestToDriver, deal *models.Deal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Deal", "Driver").Save(request).Error; err != nil {
			return err
		}
		return tx.Omit("Items", "Seller", "Supplier", "Driver").Save(deal).Error
	})
}

func (r *requestToDriverRepository) ExistsForDealAndDriver(dealID, driverID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.RequestToDriver{}).
		Where("deal_id = ? AND driver_id = ?", dealID, driverID).
		Count(&count).Error
	return count > 0, err
}

func (r *requestToDriverRepository) GetAcceptedForDeal(dealID uint) (*models.RequestToDriver, error) {
	var request models.RequestToDriver
	err := r.db.Preload("Driver").
		Where("deal_id = ? AND status = ?", dealID, models.RequestStatusAccepted).
		First(&request).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *requestToDriverRepository) GetByDriver(driverID uint) ([]models.RequestToDriver, error) {
	var requests []models.RequestToDriver
	err := r.db.Preload("Driver").
		Joins("JOIN deals ON deals.id = driver_requests.deal_id").
		Where("driver_requests.driver_id = ? AND deals.delivery_handler = ?", driverID, models.HandlerSystemDriver).
		Order("driver_requests.created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *requestToDriverRepository) GetBySeller(sellerID uint) ([]models.RequestToDriver, error) {
	var requests []models.RequestToDriver
	err := r.db.Preload("Driver").
		Joins("JOIN deals ON deals.id = driver_requests.deal_id").
		Where("deals.seller_id = ? AND deals.delivery_handler = ?", sellerID, models.HandlerSystemDriver).
		Order("driver_requests.created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *requestToDriverRepository) GetBySupplier(supplierID uint) ([]models.RequestToDriver, error) {
	var requests []models.RequestToDriver
	err := r.db.Preload("Driver").
		Joins("JOIN deals ON deals.id = driver_requests.deal_id").
		Where("deals.supplier_id = ? AND deals.delivery_handler = ?", supplierID, models.HandlerSystemDriver).
		Order("driver_requests.created_at DESC").
		Find(&requests).Error
	return requests, err
}
