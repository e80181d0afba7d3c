package services

import (
	"net/http"
	"testing"

	"marketplace/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUserHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.RegisterUser(RegisterUserInput{
		Username:    "toko_sari",
		Password:    "secret123",
		Role:        models.RoleSupplier,
		CompanyName: "Toko Sari",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestRegisterUserProfileRequirements(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	cases := []struct {
		name  string
		input RegisterUserInput
	}{
		{"missing credentials", RegisterUserInput{Role: models.RoleSeller}},
		{"supplier without company", RegisterUserInput{Username: "a", Password: "b", Role: models.RoleSupplier}},
		{"seller without business", RegisterUserInput{Username: "a", Password: "b", Role: models.RoleSeller}},
		{"driver without license", RegisterUserInput{Username: "a", Password: "b", Role: models.RoleDriver}},
		{"unknown role", RegisterUserInput{Username: "a", Password: "b", Role: "ADMIN"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterUser(tc.input)
			assertStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestSetDriverAvailability(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	driver := repo.addUser(testDriver(1))

	updated, err := svc.SetDriverAvailability(driver, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DriverProfile.IsAvailable {
		t.Fatal("availability must be off")
	}

	seller := repo.addUser(testSeller(2))
	_, err = svc.SetDriverAvailability(seller, false)
	assertStatus(t, err, http.StatusForbidden)
}

func TestCreateProduct(t *testing.T) {
	products := newFakeProductRepo()
	svc := NewProductService(products)
	supplier := testSupplier(1)

	product, err := svc.CreateProduct(supplier, CreateProductInput{Name: "Tomatoes", Price: 25.50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.SupplierID != supplier.SupplierProfile.ID {
		t.Error("product must belong to the creating supplier")
	}
	if product.Unit != models.UnitKg || product.MinOrderQuantity != 1 {
		t.Errorf("defaults not applied: %+v", product)
	}

	_, err = svc.CreateProduct(supplier, CreateProductInput{Name: "", Price: 10})
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.CreateProduct(supplier, CreateProductInput{Name: "x", Price: 0})
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.CreateProduct(testSeller(2), CreateProductInput{Name: "x", Price: 10})
	assertStatus(t, err, http.StatusForbidden)
}

func TestGetSupplierProductFiltersOwnership(t *testing.T) {
	products := newFakeProductRepo()
	svc := NewProductService(products)
	products.Create(&models.Product{SupplierID: 1, Name: "Tomatoes", Price: 10, IsActive: true})

	product, err := svc.GetSupplierProduct(1, 1)
	if err != nil || product == nil {
		t.Fatalf("expected owned product, got %v, %v", product, err)
	}

	product, err = svc.GetSupplierProduct(1, 2)
	if err != nil || product != nil {
		t.Fatalf("foreign product must resolve to nil, got %v, %v", product, err)
	}
}
