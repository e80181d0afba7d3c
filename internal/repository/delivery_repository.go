package repository

import (
	"marketplace/internal/models"

	"gorm.io/gorm"
)

type DeliveryRepository interface {
	// CreateBatch persists a set of deliveries with their items as one
	// all-or-nothing transaction.
	CreateBatch(deliveries []*models.Delivery) error
	GetByID(id uint) (*models.Delivery, error)
	Update(delivery *models.Delivery) error
	CountByDeal(dealID uint) (int64, error)
	GetBySupplier(supplierID uint) ([]models.Delivery, error)
	GetBySeller(sellerID uint) ([]models.Delivery, error)
	GetByDriver(driverID uint) ([]models.Delivery, error)
	// GetAvailable lists unassigned READY deliveries. A non-empty city
	// filters to deals whose seller or supplier city contains it,
	// case-insensitively.
	GetAvailable(city string) ([]models.Delivery, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) CreateBatch(deliveries []*models.Delivery) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, delivery := range deliveries {
			if err := tx.Omit("Deal", "DriverProfile").Create(delivery).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *deliveryRepository) GetByID(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.
		Preload("Deal").
		Preload("Deal.Seller").
		Preload("Deal.Supplier").
		Preload("DriverProfile").
		Preload("Items").
		Preload("Items.DealItem").
		Preload("Items.DealItem.Product").
		First(&delivery, id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepository) Update(delivery *models.Delivery) error {
	return r.db.Omit("Deal", "DriverProfile", "Items").Save(delivery).Error
}

func (r *deliveryRepository) CountByDeal(dealID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Delivery{}).Where("deal_id = ?", dealID).Count(&count).Error
	return count, err
}

func (r *deliveryRepository) GetBySupplier(supplierID uint) ([]models.Delivery, error) {
	return r.findWithDeal("deals.supplier_id = ?", supplierID)
}

func (r *deliveryRepository) GetBySeller(sellerID uint) ([]models.Delivery, error) {
	return r.findWithDeal("deals.seller_id = ?", sellerID)
}

func (r *deliveryRepository) GetByDriver(driverID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := r.preloadAll().
		Where("deliveries.driver_profile_id = ?", driverID).
		Order("deliveries.created_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) GetAvailable(city string) ([]models.Delivery, error) {
	query := r.preloadAll().
		Joins("JOIN deals ON deals.id = deliveries.deal_id").
		Where("deliveries.driver_profile_id IS NULL").
		Where("deliveries.driver_name IS NULL OR deliveries.driver_name = ''").
		Where("deliveries.status = ?", models.DeliveryStatusReady)

	if city != "" {
		pattern := "%" + city + "%"
		query = query.
			Joins("JOIN seller_profiles ON seller_profiles.id = deals.seller_id").
			Joins("JOIN supplier_profiles ON supplier_profiles.id = deals.supplier_id").
			Where("seller_profiles.city ILIKE ? OR supplier_profiles.city ILIKE ?", pattern, pattern)
	}

	var deliveries []models.Delivery
	err := query.Order("deliveries.created_at DESC").Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) findWithDeal(condition string, arg interface{}) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := r.preloadAll().
		Joins("JOIN deals ON deals.id = deliveries.deal_id").
		Where(condition, arg).
		Order("deliveries.created_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) preloadAll() *gorm.DB {
	return r.db.
		Preload("Deal").
		Preload("Deal.Seller").
		Preload("Deal.Supplier").
		Preload("DriverProfile").
		Preload("Items").
		Preload("Items.DealItem").
		Preload("Items.DealItem.Product")
}
