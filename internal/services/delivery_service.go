package services

import (
	"log"
	"strings"

	"marketplace/internal/apperrors"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

// DeliveryCache is the discovery-feed cache. A nil cache disables caching.
type DeliveryCache interface {
	GetAvailableDeliveries(city string) ([]models.Delivery, bool)
	SetAvailableDeliveries(city string, deliveries []models.Delivery)
	InvalidateAvailableDeliveries()
}

type ManualDriverInput struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	VehicleType   string `json:"vehicle_type"`
	VehiclePlate  string `json:"vehicle_plate"`
	LicenseNumber string `json:"license_number"`
}

type DeliveryService interface {
	GetUserDeliveries(user *models.User) ([]models.Delivery, error)
	GetDelivery(user *models.User, deliveryID uint) (*models.Delivery, error)
	UpdateDeliveryStatus(user *models.User, deliveryID uint, newStatus models.DeliveryStatus) (*models.Delivery, error)
	AssignDriverToDelivery(user *models.User, deliveryID, driverID uint) (*models.Delivery, error)
	SetManualDriver(user *models.User, deliveryID uint, input ManualDriverInput) (*models.Delivery, error)
	GetAvailableDeliveries(user *models.User) ([]models.Delivery, error)
	AcceptDelivery(user *models.User, deliveryID uint) (*models.Delivery, error)
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	userRepo     repository.UserRepository
	cache        DeliveryCache
}

func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	cache DeliveryCache,
) DeliveryService {
	return &deliveryService{deliveryRepo: deliveryRepo, userRepo: userRepo, cache: cache}
}

func (s *deliveryService) GetUserDeliveries(user *models.User) ([]models.Delivery, error) {
	switch {
	case user.IsSupplier() && user.SupplierProfile != nil:
		return s.deliveryRepo.GetBySupplier(user.SupplierProfile.ID)
	case user.IsSeller() && user.SellerProfile != nil:
		return s.deliveryRepo.GetBySeller(user.SellerProfile.ID)
	case user.IsDriver() && user.DriverProfile != nil:
		return s.deliveryRepo.GetByDriver(user.DriverProfile.ID)
	}
	return []models.Delivery{}, nil
}

func (s *deliveryService) GetDelivery(user *models.User, deliveryID uint) (*models.Delivery, error) {
	delivery, err := s.getDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if !canUserAccessDelivery(delivery, user) {
		return nil, apperrors.Forbidden("this delivery does not belong to you")
	}
	return delivery, nil
}

func (s *deliveryService) UpdateDeliveryStatus(user *models.User, deliveryID uint, newStatus models.DeliveryStatus) (*models.Delivery, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidation("invalid delivery status")
	}
	delivery, err := s.getDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if err := checkDeliveryPermission(delivery, user); err != nil {
		return nil, err
	}
	if delivery.Status.IsTerminal() {
		return nil, apperrors.BadRequest("delivery status %s is terminal", delivery.Status)
	}

	delivery.Status = newStatus
	if err := s.saveDelivery(delivery); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return delivery, nil
}

func (s *deliveryService) AssignDriverToDelivery(user *models.User, deliveryID, driverID uint) (*models.Delivery, error) {
	delivery, err := s.getDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if !user.IsSupplier() || user.SupplierProfile == nil ||
		delivery.Deal.SupplierID != user.SupplierProfile.ID {
		return nil, apperrors.Forbidden("this delivery does not belong to you")
	}
	driver, err := s.userRepo.GetDriverProfile(driverID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidation("driver not found")
		}
		return nil, err
	}

	delivery.DriverProfileID = &driver.ID
	delivery.ClearManualDriver()
	delivery.Status = models.DeliveryStatusReady
	if err := s.saveDelivery(delivery); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return delivery, nil
}

func (s *deliveryService) SetManualDriver(user *models.User, deliveryID uint, input ManualDriverInput) (*models.Delivery, error) {
	if input.Name == "" || input.Phone == "" || input.VehicleType == "" ||
		input.VehiclePlate == "" || input.LicenseNumber == "" {
		return nil, apperrors.NewValidation("manual driver fields must be provided together")
	}
	delivery, err := s.getDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if err := checkDeliveryOwnership(delivery, user); err != nil {
		return nil, err
	}
	if delivery.DriverProfileID != nil {
		return nil, apperrors.BadRequest("a system driver is already assigned to this delivery")
	}

	delivery.DriverName = &input.Name
	delivery.DriverPhone = &input.Phone
	delivery.DriverVehicleType = &input.VehicleType
	delivery.DriverVehiclePlate = &input.VehiclePlate
	delivery.DriverLicenseNumber = &input.LicenseNumber
	if err := s.saveDelivery(delivery); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return delivery, nil
}

func (s *deliveryService) GetAvailableDeliveries(user *models.User) ([]models.Delivery, error) {
	city := ""
	if user.IsDriver() && user.DriverProfile != nil {
		city = strings.TrimSpace(user.DriverProfile.City)
	}
	if s.cache != nil {
		if deliveries, ok := s.cache.GetAvailableDeliveries(city); ok {
			return deliveries, nil
		}
	}
	deliveries, err := s.deliveryRepo.GetAvailable(city)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetAvailableDeliveries(city, deliveries)
	}
	return deliveries, nil
}

func (s *deliveryService) AcceptDelivery(user *models.User, deliveryID uint) (*models.Delivery, error) {
	if !user.IsDriver() || user.DriverProfile == nil {
		return nil, apperrors.Forbidden("only drivers can accept deliveries")
	}
	delivery, err := s.getDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.IsAssigned() {
		return nil, apperrors.BadRequest("delivery is already assigned")
	}
	if delivery.Status != models.DeliveryStatusReady {
		return nil, apperrors.BadRequest("delivery is not ready for acceptance")
	}

	delivery.DriverProfileID = &user.DriverProfile.ID
	delivery.ClearManualDriver()
	delivery.Status = models.DeliveryStatusPickedUp
	if err := s.saveDelivery(delivery); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return delivery, nil
}

func (s *deliveryService) getDelivery(deliveryID uint) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.BadRequest("delivery not found")
		}
		return nil, err
	}
	return delivery, nil
}

func (s *deliveryService) saveDelivery(delivery *models.Delivery) error {
	if err := delivery.Validate(); err != nil {
		return err
	}
	return s.deliveryRepo.Update(delivery)
}

func (s *deliveryService) invalidateCache() {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateAvailableDeliveries()
	log.Println("Invalidated available-deliveries cache")
}

func canUserAccessDelivery(delivery *models.Delivery, user *models.User) bool {
	switch {
	case user.IsSupplier() && user.SupplierProfile != nil:
		return delivery.Deal.SupplierID == user.SupplierProfile.ID
	case user.IsSeller() && user.SellerProfile != nil:
		return delivery.Deal.SellerID == user.SellerProfile.ID
	case user.IsDriver() && user.DriverProfile != nil:
		return delivery.DriverProfileID != nil && *delivery.DriverProfileID == user.DriverProfile.ID
	}
	return false
}

// checkDeliveryPermission gates status changes: the supplier owning the
// parent deal, or the currently-bound driver.
func checkDeliveryPermission(delivery *models.Delivery, user *models.User) error {
	if !user.IsSupplier() && !user.IsDriver() {
		return apperrors.Forbidden("unauthorized access")
	}
	if !canUserAccessDelivery(delivery, user) {
		return apperrors.Forbidden("this delivery does not belong to you")
	}
	return nil
}

// checkDeliveryOwnership gates third-party driver entry: either trading
// party of the parent deal.
func checkDeliveryOwnership(delivery *models.Delivery, user *models.User) error {
	if !user.IsSupplier() && !user.IsSeller() {
		return apperrors.Forbidden("unauthorized access")
	}
	if !canUserAccessDelivery(delivery, user) {
		return apperrors.Forbidden("this delivery does not belong to you")
	}
	return nil
}
