package models

import (
	"time"

	"marketplace/internal/apperrors"
)

type DeliveryStatus string

const (
	DeliveryStatusEstimated DeliveryStatus = "ESTIMATED"
	DeliveryStatusConfirmed DeliveryStatus = "CONFIRMED"
	DeliveryStatusPreparing DeliveryStatus = "PREPARING"
	DeliveryStatusReady     DeliveryStatus = "READY"
	DeliveryStatusPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryStatusInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusCancelled DeliveryStatus = "CANCELLED"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusEstimated, DeliveryStatusConfirmed, DeliveryStatusPreparing,
		DeliveryStatusReady, DeliveryStatusPickedUp, DeliveryStatusInTransit,
		DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusCancelled
}

// Delivery is one realized shipment fulfilling part (or all) of a completed
// deal. The driver is either a system driver profile or a fully-populated
// manual third-party tuple, never both and never a partial manual set.
type Delivery struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	DealID          uint           `json:"deal_id" gorm:"not null;index"`
	Deal            Deal           `json:"deal" gorm:"constraint:OnDelete:CASCADE"`
	SupplierShare   int            `json:"supplier_share" gorm:"default:100"` // % of the delivery owned by the supplier
	DriverProfileID *uint          `json:"driver_profile_id"`
	DriverProfile   *DriverProfile `json:"driver_profile,omitempty"`

	// Manual third-party driver fields, used when DriverProfileID is nil.
	DriverName          *string `json:"driver_name"`
	DriverPhone         *string `json:"driver_phone"`
	DriverVehicleType   *string `json:"driver_vehicle_type"`
	DriverVehiclePlate  *string `json:"driver_vehicle_plate"`
	DriverLicenseNumber *string `json:"driver_license_number"`

	Status          DeliveryStatus `json:"status" gorm:"type:varchar(20);default:'ESTIMATED'"`
	DeliveryAddress string         `json:"delivery_address" gorm:"not null"`
	DeliveryNote    string         `json:"delivery_note"`
	Items           []DeliveryItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

func (d *Delivery) manualFields() []*string {
	return []*string{
		d.DriverName, d.DriverPhone, d.DriverVehicleType,
		d.DriverVehiclePlate, d.DriverLicenseNumber,
	}
}

// HasManualDriver reports whether any manual third-party driver field is set.
func (d *Delivery) HasManualDriver() bool {
	for _, f := range d.manualFields() {
		if f != nil && *f != "" {
			return true
		}
	}
	return false
}

// IsAssigned reports whether a driver is bound, system or manual.
func (d *Delivery) IsAssigned() bool {
	return d.DriverProfileID != nil || d.HasManualDriver()
}

// ClearManualDriver removes the third-party driver tuple; called whenever a
// system driver is bound.
func (d *Delivery) ClearManualDriver() {
	d.DriverName = nil
	d.DriverPhone = nil
	d.DriverVehicleType = nil
	d.DriverVehiclePlate = nil
	d.DriverLicenseNumber = nil
}

// Validate is the single cross-field invariant gate for deliveries. It is
// invoked on every construction and update path before persistence.
func (d *Delivery) Validate() error {
	if d.DealID == 0 {
		return apperrors.NewValidation("delivery must be linked to a deal")
	}
	if d.SupplierShare < 0 || d.SupplierShare > 100 {
		return apperrors.NewValidation("supplier share must be between 0 and 100")
	}
	if d.DeliveryAddress == "" {
		return apperrors.NewValidation("delivery address is required")
	}
	if d.DriverProfileID != nil && d.HasManualDriver() {
		return apperrors.NewValidation("cannot use both a system driver and manual driver fields")
	}
	if d.HasManualDriver() {
		for _, f := range d.manualFields() {
			if f == nil || *f == "" {
				return apperrors.NewValidation("manual driver fields must be provided together")
			}
		}
	}
	return nil
}

// DriverInfo is the unified view over system and manual drivers.
type DriverInfo struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	VehicleType    string `json:"vehicle_type"`
	VehiclePlate   string `json:"vehicle_plate"`
	LicenseNumber  string `json:"license_number"`
	IsSystemDriver bool   `json:"is_system_driver"`
}

// GetDriverInfo returns the bound driver's details, or nil when the
// supplier/seller self-handles the delivery.
func (d *Delivery) GetDriverInfo() *DriverInfo {
	if d.DriverProfile != nil {
		return &DriverInfo{
			VehicleType:    string(d.DriverProfile.VehicleType),
			VehiclePlate:   d.DriverProfile.VehiclePlate,
			LicenseNumber:  d.DriverProfile.LicenseNumber,
			IsSystemDriver: true,
		}
	}
	if d.HasManualDriver() {
		deref := func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		}
		return &DriverInfo{
			Name:          deref(d.DriverName),
			Phone:         deref(d.DriverPhone),
			VehicleType:   deref(d.DriverVehicleType),
			VehiclePlate:  deref(d.DriverVehiclePlate),
			LicenseNumber: deref(d.DriverLicenseNumber),
		}
	}
	return nil
}

// DeliveryItem is one line within a realized delivery. It references the
// originating deal item for product identity and unit price; no independent
// price is stored.
type DeliveryItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DeliveryID uint      `json:"delivery_id" gorm:"not null;index"`
	DealItemID *uint     `json:"deal_item_id"`
	DealItem   *DealItem `json:"deal_item,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DeliveryItem) TableName() string {
	return "delivery_items"
}

// TotalPrice derives from the linked deal item's snapshotted unit price.
// Returns nil when the link is absent.
func (i *DeliveryItem) TotalPrice() *float64 {
	if i.DealItem == nil {
		return nil
	}
	total := RoundCents(float64(i.Quantity) * i.DealItem.UnitPrice)
	return &total
}
