package repository

import (
	"errors"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error

	CreateSupplierProfile(profile *models.SupplierProfile) error
	CreateSellerProfile(profile *models.SellerProfile) error
	CreateDriverProfile(profile *models.DriverProfile) error
	GetSupplierProfile(id uint) (*models.SupplierProfile, error)
	GetSellerProfile(id uint) (*models.SellerProfile, error)
	GetDriverProfile(id uint) (*models.DriverProfile, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.
		Preload("SupplierProfile").
		Preload("SellerProfile").
		Preload("DriverProfile").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.
		Preload("SupplierProfile").
		Preload("SellerProfile").
		Preload("DriverProfile").
		Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) CreateSupplierProfile(profile *models.SupplierProfile) error {
	return r.db.Create(profile).Error
}

func (r *userRepository) CreateSellerProfile(profile *models.SellerProfile) error {
	return r.db.Create(profile).Error
}

func (r *userRepository) CreateDriverProfile(profile *models.DriverProfile) error {
	return r.db.Create(profile).Error
}

func (r *userRepository) GetSupplierProfile(id uint) (*models.SupplierProfile, error) {
	var profile models.SupplierProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) GetSellerProfile(id uint) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) GetDriverProfile(id uint) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// IsNotFound reports whether an error is the storage layer's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
