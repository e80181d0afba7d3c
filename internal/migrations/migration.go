package migrations

import (
	"log"

	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/services"

	"gorm.io/gorm"
)

// RunMigrations recreates the schema from scratch and seeds demo data.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	log.Println("Dropping existing tables...")
	err := db.Migrator().DropTable(
		&models.DeliveryItem{},
		&models.Delivery{},
		&models.RequestToDriver{},
		&models.DealItem{},
		&models.Deal{},
		&models.Product{},
		&models.Category{},
		&models.DriverProfile{},
		&models.SellerProfile{},
		&models.SupplierProfile{},
		&models.User{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	log.Println("Creating tables...")
	err = db.AutoMigrate(
		&models.User{},
		&models.SupplierProfile{},
		&models.SellerProfile{},
		&models.DriverProfile{},
		&models.Category{},
		&models.Product{},
		&models.Deal{},
		&models.DealItem{},
		&models.RequestToDriver{},
		&models.Delivery{},
		&models.DeliveryItem{},
	)
	if err != nil {
		return err
	}

	// Create default data
	if err := createDefaultData(db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData seeds one user per role plus a small starter catalog.
func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	userService := services.NewUserService(userRepo)

	if existing, err := userService.GetUserByUsername("demo_supplier"); err == nil && existing != nil {
		log.Println("Demo users already exist")
		return nil
	}

	supplier, err := userService.RegisterUser(services.RegisterUserInput{
		Username:    "demo_supplier",
		Email:       "supplier@example.com",
		PhoneNumber: "6281100000001",
		Password:    "supplier123",
		Role:        models.RoleSupplier,
		CompanyName: "Sumber Pangan Sejahtera",
		City:        "Jakarta",
		Address:     "Jl. Pasar Induk No. 1",
	})
	if err != nil {
		return err
	}

	_, err = userService.RegisterUser(services.RegisterUserInput{
		Username:     "demo_seller",
		Email:        "seller@example.com",
		PhoneNumber:  "6281100000002",
		Password:     "seller123",
		Role:         models.RoleSeller,
		BusinessName: "Warung Bu Sari",
		BusinessType: "restaurant",
		City:         "Jakarta",
		Address:      "Jl. Kebon Jeruk No. 12",
	})
	if err != nil {
		return err
	}

	_, err = userService.RegisterUser(services.RegisterUserInput{
		Username:      "demo_driver",
		Email:         "driver@example.com",
		PhoneNumber:   "6281100000003",
		Password:      "driver123",
		Role:          models.RoleDriver,
		LicenseNumber: "SIM-A-0001",
		VehicleType:   models.VehicleVan,
		VehiclePlate:  "B 1234 XYZ",
		City:          "Jakarta",
	})
	if err != nil {
		return err
	}

	category := &models.Category{Name: "Vegetables", Slug: "vegetables", Description: "Fresh produce", IsActive: true}
	if err := productRepo.CreateCategory(category); err != nil {
		return err
	}

	products := []models.Product{
		{
			SupplierID:       supplier.SupplierProfile.ID,
			CategoryID:       &category.ID,
			Name:             "Tomatoes",
			Description:      "Grade A tomatoes",
			Price:            25.50,
			Unit:             models.UnitKg,
			MinOrderQuantity: 1,
			IsActive:         true,
		},
		{
			SupplierID:       supplier.SupplierProfile.ID,
			CategoryID:       &category.ID,
			Name:             "Shallots",
			Description:      "Local shallots",
			Price:            48.00,
			Unit:             models.UnitKg,
			MinOrderQuantity: 1,
			IsActive:         true,
		},
	}
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			return err
		}
	}

	log.Println("Default data created successfully!")
	log.Println("Users: demo_supplier / demo_seller / demo_driver")
	return nil
}
