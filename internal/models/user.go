package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleSupplier UserRole = "SUPPLIER"
	RoleSeller   UserRole = "SELLER"
	RoleDriver   UserRole = "DRIVER"
)

// User is the authenticated identity resolved by the party directory. Each
// user carries exactly one role and at most one matching profile.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"unique;not null"`
	Email        string         `json:"email"`
	PhoneNumber  string         `json:"phone_number"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         UserRole       `json:"role" gorm:"type:varchar(20);default:'SELLER'"` // SUPPLIER, SELLER, DRIVER
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	SupplierProfile *SupplierProfile `json:"supplier_profile,omitempty" gorm:"foreignKey:UserID"`
	SellerProfile   *SellerProfile   `json:"seller_profile,omitempty" gorm:"foreignKey:UserID"`
	DriverProfile   *DriverProfile   `json:"driver_profile,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) IsSupplier() bool {
	return u.Role == RoleSupplier
}

func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

func (u *User) IsDriver() bool {
	return u.Role == RoleDriver
}

// SupplierProfile belongs to a user with the SUPPLIER role.
type SupplierProfile struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	CompanyName string    `json:"company_name" gorm:"not null"`
	TaxNumber   string    `json:"tax_number"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SellerProfile belongs to a user with the SELLER role (market, restaurant, etc.).
type SellerProfile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	BusinessName string    `json:"business_name" gorm:"not null"`
	BusinessType string    `json:"business_type"`
	TaxNumber    string    `json:"tax_number"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type VehicleType string

const (
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	VehicleCar        VehicleType = "CAR"
	VehicleVan        VehicleType = "VAN"
	VehicleTruck      VehicleType = "TRUCK"
)

// DriverProfile belongs to a user with the DRIVER role.
type DriverProfile struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	UserID        uint        `json:"user_id" gorm:"uniqueIndex;not null"`
	LicenseNumber string      `json:"license_number" gorm:"not null"`
	VehicleType   VehicleType `json:"vehicle_type" gorm:"type:varchar(20);default:'CAR'"`
	VehiclePlate  string      `json:"vehicle_plate"`
	City          string      `json:"city"`
	IsAvailable   bool        `json:"is_available" gorm:"default:true"`
	IsActive      bool        `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
