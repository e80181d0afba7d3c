package services

import (
	"strings"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// In-memory repository fakes. They return gorm.ErrRecordNotFound for missing
// rows so the services' repository.IsNotFound checks behave as in production.

type fakeDealRepo struct {
	deals  map[uint]*models.Deal
	items  map[uint]*models.DealItem
	nextID uint
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: map[uint]*models.Deal{}, items: map[uint]*models.DealItem{}}
}

func (r *fakeDealRepo) add(deal *models.Deal) *models.Deal {
	if deal.ID == 0 {
		r.nextID++
		deal.ID = r.nextID
	}
	for i := range deal.Items {
		if deal.Items[i].ID == 0 {
			r.nextID++
			deal.Items[i].ID = r.nextID
		}
		deal.Items[i].DealID = deal.ID
		item := deal.Items[i]
		r.items[item.ID] = &item
	}
	r.deals[deal.ID] = deal
	return deal
}

func (r *fakeDealRepo) Create(deal *models.Deal) error {
	r.add(deal)
	return nil
}

func (r *fakeDealRepo) GetByID(id uint) (*models.Deal, error) {
	deal, ok := r.deals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return deal, nil
}

func (r *fakeDealRepo) GetFresh(id uint) (*models.Deal, error) {
	return r.GetByID(id)
}

func (r *fakeDealRepo) Update(deal *models.Deal) error {
	r.deals[deal.ID] = deal
	return nil
}

func (r *fakeDealRepo) GetBySeller(sellerID uint) ([]models.Deal, error) {
	var deals []models.Deal
	for _, d := range r.deals {
		if d.SellerID == sellerID {
			deals = append(deals, *d)
		}
	}
	return deals, nil
}

func (r *fakeDealRepo) GetBySupplier(supplierID uint) ([]models.Deal, error) {
	var deals []models.Deal
	for _, d := range r.deals {
		if d.SupplierID == supplierID {
			deals = append(deals, *d)
		}
	}
	return deals, nil
}

func (r *fakeDealRepo) GetItemByID(id uint) (*models.DealItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeDealRepo) SaveItemWithDeal(item *models.DealItem, deal *models.Deal) error {
	if item.ID == 0 {
		r.nextID++
		item.ID = r.nextID
	}
	r.items[item.ID] = item
	stored := r.deals[deal.ID]
	found := false
	for i := range stored.Items {
		if stored.Items[i].ID == item.ID {
			stored.Items[i] = *item
			found = true
		}
	}
	if !found {
		stored.Items = append(stored.Items, *item)
	}
	r.deals[deal.ID] = deal
	deal.Items = stored.Items
	return nil
}

func (r *fakeDealRepo) DeleteItemWithDeal(item *models.DealItem, deal *models.Deal) error {
	delete(r.items, item.ID)
	stored := r.deals[deal.ID]
	items := stored.Items[:0]
	for i := range stored.Items {
		if stored.Items[i].ID != item.ID {
			items = append(items, stored.Items[i])
		}
	}
	deal.Items = items
	r.deals[deal.ID] = deal
	return nil
}

type fakeRequestRepo struct {
	requests map[uint]*models.RequestToDriver
	deals    *fakeDealRepo
	nextID   uint
}

func newFakeRequestRepo(deals *fakeDealRepo) *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[uint]*models.RequestToDriver{}, deals: deals}
}

func (r *fakeRequestRepo) Create(request *models.RequestToDriver) error {
	for _, existing := range r.requests {
		if existing.DealID == request.DealID && existing.DriverID == request.DriverID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	request.ID = r.nextID
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) GetByID(id uint) (*models.RequestToDriver, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (r *fakeRequestRepo) Update(request *models.RequestToDriver) error {
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) AcceptWithDeal(request *models.RequestToDriver, deal *models.Deal) error {
	r.requests[request.ID] = request
	r.deals.deals[deal.ID] = deal
	return nil
}

func (r *fakeRequestRepo) ExistsForDealAndDriver(dealID, driverID uint) (bool, error) {
	for _, request := range r.requests {
		if request.DealID == dealID && request.DriverID == driverID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) GetAcceptedForDeal(dealID uint) (*models.RequestToDriver, error) {
	for _, request := range r.requests {
		if request.DealID == dealID && request.Status == models.RequestStatusAccepted {
			return request, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) GetByDriver(driverID uint) ([]models.RequestToDriver, error) {
	var requests []models.RequestToDriver
	for _, request := range r.requests {
		deal := r.deals.deals[request.DealID]
		if request.DriverID == driverID && deal != nil && deal.DeliveryHandler == models.HandlerSystemDriver {
			requests = append(requests, *request)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) GetBySeller(sellerID uint) ([]models.RequestToDriver, error) {
	var requests []models.RequestToDriver
	for _, request := range r.requests {
		deal := r.deals.deals[request.DealID]
		if deal != nil && deal.SellerID == sellerID && deal.DeliveryHandler == models.HandlerSystemDriver {
			requests = append(requests, *request)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) GetBySupplier(supplierID uint) ([]models.RequestToDriver, error) {
	var requests []models.RequestToDriver
	for _, request := range r.requests {
		deal := r.deals.deals[request.DealID]
		if deal != nil && deal.SupplierID == supplierID && deal.DeliveryHandler == models.HandlerSystemDriver {
			requests = append(requests, *request)
		}
	}
	return requests, nil
}

type fakeDeliveryRepo struct {
	deliveries map[uint]*models.Delivery
	nextID     uint
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{deliveries: map[uint]*models.Delivery{}}
}

func (r *fakeDeliveryRepo) add(delivery *models.Delivery) *models.Delivery {
	if delivery.ID == 0 {
		r.nextID++
		delivery.ID = r.nextID
	}
	r.deliveries[delivery.ID] = delivery
	return delivery
}

func (r *fakeDeliveryRepo) CreateBatch(deliveries []*models.Delivery) error {
	for _, delivery := range deliveries {
		r.add(delivery)
	}
	return nil
}

func (r *fakeDeliveryRepo) GetByID(id uint) (*models.Delivery, error) {
	delivery, ok := r.deliveries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return delivery, nil
}

func (r *fakeDeliveryRepo) Update(delivery *models.Delivery) error {
	r.deliveries[delivery.ID] = delivery
	return nil
}

func (r *fakeDeliveryRepo) CountByDeal(dealID uint) (int64, error) {
	var count int64
	for _, delivery := range r.deliveries {
		if delivery.DealID == dealID {
			count++
		}
	}
	return count, nil
}

func (r *fakeDeliveryRepo) GetBySupplier(supplierID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	for _, delivery := range r.deliveries {
		if delivery.Deal.SupplierID == supplierID {
			deliveries = append(deliveries, *delivery)
		}
	}
	return deliveries, nil
}

func (r *fakeDeliveryRepo) GetBySeller(sellerID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	for _, delivery := range r.deliveries {
		if delivery.Deal.SellerID == sellerID {
			deliveries = append(deliveries, *delivery)
		}
	}
	return deliveries, nil
}

func (r *fakeDeliveryRepo) GetByDriver(driverID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	for _, delivery := range r.deliveries {
		if delivery.DriverProfileID != nil && *delivery.DriverProfileID == driverID {
			deliveries = append(deliveries, *delivery)
		}
	}
	return deliveries, nil
}

func (r *fakeDeliveryRepo) GetAvailable(city string) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	for _, delivery := range r.deliveries {
		if delivery.IsAssigned() || delivery.Status != models.DeliveryStatusReady {
			continue
		}
		if city != "" {
			needle := strings.ToLower(city)
			sellerCity := strings.ToLower(delivery.Deal.Seller.City)
			supplierCity := strings.ToLower(delivery.Deal.Supplier.City)
			if !strings.Contains(sellerCity, needle) && !strings.Contains(supplierCity, needle) {
				continue
			}
		}
		deliveries = append(deliveries, *delivery)
	}
	return deliveries, nil
}

type fakeUserRepo struct {
	users     map[uint]*models.User
	suppliers map[uint]*models.SupplierProfile
	sellers   map[uint]*models.SellerProfile
	drivers   map[uint]*models.DriverProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     map[uint]*models.User{},
		suppliers: map[uint]*models.SupplierProfile{},
		sellers:   map[uint]*models.SellerProfile{},
		drivers:   map[uint]*models.DriverProfile{},
	}
}

func (r *fakeUserRepo) addUser(user *models.User) *models.User {
	r.users[user.ID] = user
	if user.SupplierProfile != nil {
		r.suppliers[user.SupplierProfile.ID] = user.SupplierProfile
	}
	if user.SellerProfile != nil {
		r.sellers[user.SellerProfile.ID] = user.SellerProfile
	}
	if user.DriverProfile != nil {
		r.drivers[user.DriverProfile.ID] = user.DriverProfile
	}
	return user
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) CreateSupplierProfile(profile *models.SupplierProfile) error {
	r.suppliers[profile.ID] = profile
	return nil
}

func (r *fakeUserRepo) CreateSellerProfile(profile *models.SellerProfile) error {
	r.sellers[profile.ID] = profile
	return nil
}

func (r *fakeUserRepo) CreateDriverProfile(profile *models.DriverProfile) error {
	r.drivers[profile.ID] = profile
	return nil
}

func (r *fakeUserRepo) GetSupplierProfile(id uint) (*models.SupplierProfile, error) {
	profile, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (r *fakeUserRepo) GetSellerProfile(id uint) (*models.SellerProfile, error) {
	profile, ok := r.sellers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (r *fakeUserRepo) GetDriverProfile(id uint) (*models.DriverProfile, error) {
	profile, ok := r.drivers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

type fakeProductRepo struct {
	products map[uint]*models.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]*models.Product{}}
}

func (r *fakeProductRepo) Create(product *models.Product) error {
	if product.ID == 0 {
		r.nextID++
		product.ID = r.nextID
	}
	if product.MinOrderQuantity == 0 {
		product.MinOrderQuantity = 1
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) GetBySupplierAndID(id, supplierID uint) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok || product.SupplierID != supplierID || !product.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) GetBySupplier(supplierID uint) ([]models.Product, error) {
	var products []models.Product
	for _, product := range r.products {
		if product.SupplierID == supplierID {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) Update(product *models.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) CreateCategory(category *models.Category) error { return nil }

func (r *fakeProductRepo) GetCategories() ([]models.Category, error) { return nil, nil }

type fakeDeliveryCache struct {
	entries       map[string][]models.Delivery
	invalidations int
}

func newFakeDeliveryCache() *fakeDeliveryCache {
	return &fakeDeliveryCache{entries: map[string][]models.Delivery{}}
}

func (c *fakeDeliveryCache) GetAvailableDeliveries(city string) ([]models.Delivery, bool) {
	deliveries, ok := c.entries[city]
	return deliveries, ok
}

func (c *fakeDeliveryCache) SetAvailableDeliveries(city string, deliveries []models.Delivery) {
	c.entries[city] = deliveries
}

func (c *fakeDeliveryCache) InvalidateAvailableDeliveries() {
	c.entries = map[string][]models.Delivery{}
	c.invalidations++
}

// Test user builders. Profile ids are deliberately distinct from user ids so
// identity mix-ups surface in tests.

func testSupplier(profileID uint) *models.User {
	return &models.User{
		ID:   profileID + 100,
		Role: models.RoleSupplier,
		SupplierProfile: &models.SupplierProfile{
			ID: profileID, UserID: profileID + 100, CompanyName: "Supplier Co", City: "Jakarta", IsActive: true,
		},
	}
}

func testSeller(profileID uint) *models.User {
	return &models.User{
		ID:   profileID + 200,
		Role: models.RoleSeller,
		SellerProfile: &models.SellerProfile{
			ID: profileID, UserID: profileID + 200, BusinessName: "Seller Shop", City: "Jakarta", IsActive: true,
		},
	}
}

func testDriver(profileID uint) *models.User {
	return &models.User{
		ID:   profileID + 300,
		Role: models.RoleDriver,
		DriverProfile: &models.DriverProfile{
			ID: profileID, UserID: profileID + 300, LicenseNumber: "SIM-1",
			VehicleType: models.VehicleVan, City: "Jakarta",
			IsAvailable: true, IsActive: true,
		},
	}
}
