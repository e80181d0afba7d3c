package services

import (
	"marketplace/internal/apperrors"
	"marketplace/internal/models"
	"marketplace/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type RegisterUserInput struct {
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Password    string          `json:"password"`
	Role        models.UserRole `json:"role"`

	// Role-specific profile fields.
	CompanyName   string             `json:"company_name"`
	BusinessName  string             `json:"business_name"`
	BusinessType  string             `json:"business_type"`
	City          string             `json:"city"`
	Address       string             `json:"address"`
	LicenseNumber string             `json:"license_number"`
	VehicleType   models.VehicleType `json:"vehicle_type"`
	VehiclePlate  string             `json:"vehicle_plate"`
}

type UserService interface {
	RegisterUser(input RegisterUserInput) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	SetDriverAvailability(user *models.User, available bool) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// RegisterUser creates the user and its role profile. The party directory is
// an external collaborator; the core only needs the thin surface below.
func (s *userService) RegisterUser(input RegisterUserInput) (*models.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, apperrors.NewValidation("username and password are required")
	}
	switch input.Role {
	case models.RoleSupplier:
		if input.CompanyName == "" {
			return nil, apperrors.NewValidation("company_name is required for suppliers")
		}
	case models.RoleSeller:
		if input.BusinessName == "" {
			return nil, apperrors.NewValidation("business_name is required for sellers")
		}
	case models.RoleDriver:
		if input.LicenseNumber == "" {
			return nil, apperrors.NewValidation("license_number is required for drivers")
		}
	default:
		return nil, apperrors.NewValidation("invalid role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashed),
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	switch input.Role {
	case models.RoleSupplier:
		err = s.userRepo.CreateSupplierProfile(&models.SupplierProfile{
			UserID:      user.ID,
			CompanyName: input.CompanyName,
			Address:     input.Address,
			City:        input.City,
			IsActive:    true,
		})
	case models.RoleSeller:
		err = s.userRepo.CreateSellerProfile(&models.SellerProfile{
			UserID:       user.ID,
			BusinessName: input.BusinessName,
			BusinessType: input.BusinessType,
			Address:      input.Address,
			City:         input.City,
			IsActive:     true,
		})
	case models.RoleDriver:
		vehicleType := input.VehicleType
		if vehicleType == "" {
			vehicleType = models.VehicleCar
		}
		err = s.userRepo.CreateDriverProfile(&models.DriverProfile{
			UserID:        user.ID,
			LicenseNumber: input.LicenseNumber,
			VehicleType:   vehicleType,
			VehiclePlate:  input.VehiclePlate,
			City:          input.City,
			IsAvailable:   true,
			IsActive:      true,
		})
	}
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(user.ID)
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.GetByUsername(username)
}

func (s *userService) SetDriverAvailability(user *models.User, available bool) (*models.User, error) {
	if !user.IsDriver() || user.DriverProfile == nil {
		return nil, apperrors.Forbidden("only drivers can change availability")
	}
	user.DriverProfile.IsAvailable = available
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
