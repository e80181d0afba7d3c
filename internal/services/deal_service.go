package services

import (
	"marketplace/internal/apperrors"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type DealItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateDealInput struct {
	SupplierID        uint                   `json:"supplier_id"`
	SellerID          uint                   `json:"seller_id"`
	DriverID          *uint                  `json:"driver_id"`
	DeliveryHandler   models.DeliveryHandler `json:"delivery_handler"`
	DeliveryCostSplit *int                   `json:"delivery_cost_split"`
	Items             []DealItemInput        `json:"items"`
}

type UpdateDealInput struct {
	DeliveryHandler   *models.DeliveryHandler `json:"delivery_handler"`
	DeliveryCostSplit *int                    `json:"delivery_cost_split"`
	DeliveryCount     *int                    `json:"delivery_count"`
}

type CompleteDealInput struct {
	DeliveryAddress string `json:"delivery_address"`
	DeliveryNote    string `json:"delivery_note"`
	SupplierShare   *int   `json:"supplier_share"`
}

type DealService interface {
	CreateDeal(user *models.User, input CreateDealInput) (*models.Deal, error)
	GetUserDeals(user *models.User) ([]models.Deal, error)
	GetDeal(user *models.User, dealID uint) (*models.Deal, error)
	UpdateDeal(user *models.User, dealID uint, input UpdateDealInput) (*models.Deal, error)
	ApproveDeal(user *models.User, dealID uint) (*models.Deal, error)
	UpdateDealStatus(user *models.User, dealID uint, newStatus models.DealStatus) (*models.Deal, error)
	AssignDriverToDeal(user *models.User, dealID, driverID uint) (*models.Deal, error)
	RequestDriverForDeal(user *models.User, dealID, driverID uint, requestedPrice float64) (*models.RequestToDriver, error)
	CompleteDeal(user *models.User, dealID uint, input CompleteDealInput) ([]*models.Delivery, error)
	DeliveryFeeSplit(deal *models.Deal) (*models.FeeSplit, error)

	AddDealItem(user *models.User, dealID, productID uint, quantity int) (*models.Deal, error)
	UpdateDealItem(user *models.User, itemID uint, quantity int) (*models.Deal, error)
	RemoveDealItem(user *models.User, itemID uint) (*models.Deal, error)
}

type dealService struct {
	dealRepo     repository.DealRepository
	requestRepo  repository.RequestToDriverRepository
	deliveryRepo repository.DeliveryRepository
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
}

func NewDealService(
	dealRepo repository.DealRepository,
	requestRepo repository.RequestToDriverRepository,
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
) DealService {
	return &dealService{
		dealRepo:     dealRepo,
		requestRepo:  requestRepo,
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		productRepo:  productRepo,
	}
}

func (s *dealService) CreateDeal(user *models.User, input CreateDealInput) (*models.Deal, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidation("a deal requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, apperrors.NewValidation("item quantity must be at least 1")
		}
	}
	costSplit := models.DefaultCostSplit
	if input.DeliveryCostSplit != nil {
		costSplit = *input.DeliveryCostSplit
	}
	if costSplit < 0 || costSplit > 100 {
		return nil, apperrors.NewValidation("delivery cost split must be between 0 and 100")
	}
	handler := input.DeliveryHandler
	if handler == "" {
		handler = models.HandlerSystemDriver
	}
	if !handler.Valid() {
		return nil, apperrors.NewValidation("invalid delivery handler")
	}

	// The creator supplies the counterparty; their own side comes from their
	// profile.
	var sellerID, supplierID uint
	switch {
	case user.IsSeller():
		if user.SellerProfile == nil {
			return nil, apperrors.Forbidden("seller profile not found")
		}
		if input.SupplierID == 0 {
			return nil, apperrors.NewValidation("supplier_id is required for sellers")
		}
		sellerID = user.SellerProfile.ID
		supplierID = input.SupplierID
	case user.IsSupplier():
		if user.SupplierProfile == nil {
			return nil, apperrors.Forbidden("supplier profile not found")
		}
		if input.SellerID == 0 {
			return nil, apperrors.NewValidation("seller_id is required for suppliers")
		}
		supplierID = user.SupplierProfile.ID
		sellerID = input.SellerID
	default:
		return nil, apperrors.Forbidden("only sellers or suppliers can create deals")
	}

	if err := validateHandlerForRole(user, handler); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetSupplierProfile(supplierID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidation("supplier not found")
		}
		return nil, err
	}
	if _, err := s.userRepo.GetSellerProfile(sellerID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidation("seller not found")
		}
		return nil, err
	}

	driverID := input.DriverID
	status := models.DealStatusDealing
	if handler == models.HandlerSystemDriver {
		if driverID != nil {
			if _, err := s.userRepo.GetDriverProfile(*driverID); err != nil {
				if repository.IsNotFound(err) {
					return nil, apperrors.NewValidation("driver not found")
				}
				return nil, err
			}
			status = models.DealStatusDealing
		} else {
			status = models.DealStatusLookingForDriver
		}
	} else {
		// Cost split is inert for third-party handling; pin it so it reads as
		// a neutral value everywhere.
		costSplit = models.DefaultCostSplit
		driverID = nil
	}

	items := make([]models.DealItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.productRepo.GetBySupplierAndID(item.ProductID, supplierID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apperrors.NewValidation("product %d does not belong to the deal's supplier", item.ProductID)
			}
			return nil, err
		}
		items = append(items, models.DealItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price, // snapshot, never re-read
		})
	}

	deal := &models.Deal{
		SellerID:          sellerID,
		SupplierID:        supplierID,
		DriverID:          driverID,
		Status:            status,
		DeliveryHandler:   handler,
		DeliveryCostSplit: costSplit,
		DeliveryCount:     1,
		Items:             items,
	}
	if err := s.dealRepo.Create(deal); err != nil {
		return nil, err
	}
	return s.dealRepo.GetByID(deal.ID)
}

func (s *dealService) GetUserDeals(user *models.User) ([]models.Deal, error) {
	switch {
	case user.IsSupplier() && user.SupplierProfile != nil:
		return s.dealRepo.GetBySupplier(user.SupplierProfile.ID)
	case user.IsSeller() && user.SellerProfile != nil:
		return s.dealRepo.GetBySeller(user.SellerProfile.ID)
	}
	return []models.Deal{}, nil
}

func (s *dealService) GetDeal(user *models.User, dealID uint) (*models.Deal, error) {
	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if !canUserAccessDeal(deal, user) {
		return nil, apperrors.Forbidden("this deal does not belong to you")
	}
	return deal, nil
}

func (s *dealService) UpdateDeal(user *models.User, dealID uint, input UpdateDealInput) (*models.Deal, error) {
	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if err := checkDealPermission(deal, user); err != nil {
		return nil, err
	}
	if deal.Status != models.DealStatusDealing {
		return nil, apperrors.BadRequest("deal terms can only be changed while status is DEALING")
	}

	if input.DeliveryHandler != nil {
		handler := *input.DeliveryHandler
		if !handler.Valid() {
			return nil, apperrors.NewValidation("invalid delivery handler")
		}
		if err := validateHandlerForRole(user, handler); err != nil {
			return nil, err
		}
		deal.DeliveryHandler = handler
	}
	if input.DeliveryCostSplit != nil {
		if *input.DeliveryCostSplit < 0 || *input.DeliveryCostSplit > 100 {
			return nil, apperrors.NewValidation("delivery cost split must be between 0 and 100")
		}
		deal.DeliveryCostSplit = *input.DeliveryCostSplit
	}
	if input.DeliveryCount != nil {
		if *input.DeliveryCount < 1 {
			return nil, apperrors.NewValidation("delivery count must be at least 1")
		}
		actual, err := s.deliveryRepo.CountByDeal(deal.ID)
		if err != nil {
			return nil, err
		}
		if int64(*input.DeliveryCount) < actual {
			return nil, apperrors.BadRequest("delivery count cannot be below the %d deliveries already created", actual)
		}
		deal.DeliveryCount = *input.DeliveryCount
	}
	if deal.DeliveryHandler != models.HandlerSystemDriver {
		deal.DeliveryCostSplit = models.DefaultCostSplit
	}

	clearCounterpartyApproval(deal, user)
	if err := s.dealRepo.Update(deal); err != nil {
		return nil, err
	}
	return s.dealRepo.GetByID(deal.ID)
}

func (s *dealService) ApproveDeal(user *models.User, dealID uint) (*models.Deal, error) {
	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if err := checkDealPermission(deal, user); err != nil {
		return nil, err
	}
	if user.IsSeller() {
		deal.SellerApproved = true
	} else {
		deal.SupplierApproved = true
	}
	if err := s.dealRepo.Update(deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *dealService) UpdateDealStatus(user *models.User, dealID uint, newStatus models.DealStatus) (*models.Deal, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidation("invalid deal status")
	}
	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if err := checkDealPermission(deal, user); err != nil {
		return nil, err
	}
	if deal.Status.IsTerminal() {
		return nil, apperrors.BadRequest("deal status %s is terminal", deal.Status)
	}

	switch newStatus {
	case models.DealStatusDealing:
		// Back to negotiation, always permitted from a non-terminal state.
	case models.DealStatusLookingForDriver:
		if deal.DeliveryHandler != models.HandlerSystemDriver {
			return nil, apperrors.BadRequest("only system-driver deals can look for a driver")
		}
		if deal.DriverID != nil {
			return nil, apperrors.BadRequest("driver is already assigned to this deal")
		}
		if !deal.BothPartiesApproved() {
			return nil, apperrors.BadRequest("both seller and supplier must approve the deal first")
		}
	case models.DealStatusDone:
		if !deal.BothPartiesApproved() {
			return nil, apperrors.BadRequest("both seller and supplier must approve the deal first")
		}
	case models.DealStatusCancelled:
		// Reachable from any non-terminal state.
	}

	deal.Status = newStatus
	if err := s.dealRepo.Update(deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *dealService) AssignDriverToDeal(user *models.User, dealID, driverID uint) (*models.Deal, error) {
	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if err := checkDealPermission(deal, user); err != nil {
		return nil, err
	}
	driver, err := s.userRepo.GetDriverProfile(driverID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidation("driver not found")
		}
		return nil, err
	}

	deal.DriverID = &driver.ID
	if deal.Status == models.DealStatusLookingForDriver {
		deal.Status = models.DealStatusDealing
	}
	if err := s.dealRepo.Update(deal); err != nil {
		return nil, err
	}
	return s.dealRepo.GetByID(deal.ID)
}

func (s *dealService) RequestDriverForDeal(user *models.User, dealID, driverID uint, requestedPrice float64) (*models.RequestToDriver, error) {
	if requestedPrice <= 0 {
		return nil, apperrors.NewValidation("requested price must be greater than 0")
	}
	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status != models.DealStatusLookingForDriver {
		return nil, apperrors.BadRequest("driver requests can only be made when deal status is LOOKING_FOR_DRIVER")
	}
	if err := checkDealPermission(deal, user); err != nil {
		return nil, err
	}
	if deal.DeliveryHandler != models.HandlerSystemDriver {
		return nil, apperrors.BadRequest("cannot request a driver for third-party deliveries")
	}
	if deal.DriverID != nil {
		return nil, apperrors.BadRequest("driver is already assigned to this deal")
	}

	driver, err := s.userRepo.GetDriverProfile(driverID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidation("driver not found")
		}
		return nil, err
	}
	if !driver.IsActive || !driver.IsAvailable {
		return nil, apperrors.NewValidation("driver is not available")
	}

	exists, err := s.requestRepo.ExistsForDealAndDriver(deal.ID, driver.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.BadRequest("request to this driver already exists")
	}

	request := &models.RequestToDriver{
		DealID:         deal.ID,
		DriverID:       driver.ID,
		RequestedPrice: requestedPrice,
		Status:         models.RequestStatusPending,
	}
	// The unique (deal, driver) index backs the existence pre-check, closing
	// the race between two concurrent requests.
	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *dealService) CompleteDeal(user *models.User, dealID uint, input CompleteDealInput) ([]*models.Delivery, error) {
	if input.DeliveryAddress == "" {
		return nil, apperrors.NewValidation("delivery address is required")
	}
	supplierShare := 100
	if input.SupplierShare != nil {
		supplierShare = *input.SupplierShare
	}
	if supplierShare < 0 || supplierShare > 100 {
		return nil, apperrors.NewValidation("supplier share must be between 0 and 100")
	}

	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status != models.DealStatusDone {
		return nil, apperrors.BadRequest("deal can only be completed when status is DONE")
	}
	if err := checkDealPermission(deal, user); err != nil {
		return nil, err
	}

	existing, err := s.deliveryRepo.CountByDeal(deal.ID)
	if err != nil {
		return nil, err
	}
	remaining := deal.DeliveryCount - int(existing)
	if remaining <= 0 {
		return nil, apperrors.BadRequest("all planned deliveries (%d) have already been created", deal.DeliveryCount)
	}

	var driverProfileID *uint
	if deal.DeliveryHandler == models.HandlerSystemDriver && deal.DriverID != nil {
		driverProfileID = deal.DriverID
	}

	// Each remaining delivery is a full copy of the deal's current items:
	// planned deliveries are independently-full shipments, not partial
	// splits.
	deliveries := make([]*models.Delivery, 0, remaining)
	for i := 0; i < remaining; i++ {
		items := make([]models.DeliveryItem, 0, len(deal.Items))
		for j := range deal.Items {
			dealItemID := deal.Items[j].ID
			items = append(items, models.DeliveryItem{
				DealItemID: &dealItemID,
				Quantity:   deal.Items[j].Quantity,
			})
		}
		delivery := &models.Delivery{
			DealID:          deal.ID,
			SupplierShare:   supplierShare,
			DriverProfileID: driverProfileID,
			Status:          models.DeliveryStatusEstimated,
			DeliveryAddress: input.DeliveryAddress,
			DeliveryNote:    input.DeliveryNote,
			Items:           items,
		}
		if err := delivery.Validate(); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}

	if err := s.deliveryRepo.CreateBatch(deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// DeliveryFeeSplit is price two of the two-price model: the accepted driver
// request's final price divided by the deal's cost split. Returns nil when
// the deal is third-party handled or no accepted request exists.
func (s *dealService) DeliveryFeeSplit(deal *models.Deal) (*models.FeeSplit, error) {
	if deal.DeliveryHandler != models.HandlerSystemDriver {
		return nil, nil
	}
	accepted, err := s.requestRepo.GetAcceptedForDeal(deal.ID)
	if err != nil {
		return nil, err
	}
	if accepted == nil || accepted.FinalPrice == nil {
		return nil, nil
	}
	split := deal.SplitDeliveryFee(*accepted.FinalPrice)
	return &split, nil
}

func (s *dealService) AddDealItem(user *models.User, dealID, productID uint, quantity int) (*models.Deal, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidation("item quantity must be at least 1")
	}
	deal, err := s.getDeal(dealID)
	if err != nil {
		return nil, err
	}
	if err := s.checkItemEdit(deal, user); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetBySupplierAndID(productID, deal.SupplierID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidation("product %d does not belong to the deal's supplier", productID)
		}
		return nil, err
	}

	item := &models.DealItem{
		DealID:    deal.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}
	clearCounterpartyApproval(deal, user)
	if err := s.dealRepo.SaveItemWithDeal(item, deal); err != nil {
		return nil, err
	}
	return s.dealRepo.GetByID(deal.ID)
}

func (s *dealService) UpdateDealItem(user *models.User, itemID uint, quantity int) (*models.Deal, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidation("item quantity must be at least 1")
	}
	item, err := s.dealRepo.GetItemByID(itemID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.BadRequest("deal item not found")
		}
		return nil, err
	}
	deal, err := s.getDeal(item.DealID)
	if err != nil {
		return nil, err
	}
	if err := s.checkItemEdit(deal, user); err != nil {
		return nil, err
	}

	item.Quantity = quantity // unit price stays snapshotted
	clearCounterpartyApproval(deal, user)
	if err := s.dealRepo.SaveItemWithDeal(item, deal); err != nil {
		return nil, err
	}
	return s.dealRepo.GetByID(deal.ID)
}

func (s *dealService) RemoveDealItem(user *models.User, itemID uint) (*models.Deal, error) {
	item, err := s.dealRepo.GetItemByID(itemID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.BadRequest("deal item not found")
		}
		return nil, err
	}
	deal, err := s.getDeal(item.DealID)
	if err != nil {
		return nil, err
	}
	if err := s.checkItemEdit(deal, user); err != nil {
		return nil, err
	}

	clearCounterpartyApproval(deal, user)
	if err := s.dealRepo.DeleteItemWithDeal(item, deal); err != nil {
		return nil, err
	}
	return s.dealRepo.GetByID(deal.ID)
}

func (s *dealService) getDeal(dealID uint) (*models.Deal, error) {
	deal, err := s.dealRepo.GetByID(dealID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.BadRequest("deal not found")
		}
		return nil, err
	}
	return deal, nil
}

func (s *dealService) checkItemEdit(deal *models.Deal, user *models.User) error {
	if err := checkDealPermission(deal, user); err != nil {
		return err
	}
	if deal.Status != models.DealStatusDealing {
		return apperrors.BadRequest("deal items can only be changed while status is DEALING")
	}
	return nil
}

func canUserAccessDeal(deal *models.Deal, user *models.User) bool {
	// Identity comparison by profile id, never by object equality.
	if user.IsSupplier() && user.SupplierProfile != nil {
		return deal.SupplierID == user.SupplierProfile.ID
	}
	if user.IsSeller() && user.SellerProfile != nil {
		return deal.SellerID == user.SellerProfile.ID
	}
	return false
}

func checkDealPermission(deal *models.Deal, user *models.User) error {
	if !user.IsSupplier() && !user.IsSeller() {
		return apperrors.Forbidden("unauthorized access")
	}
	if !canUserAccessDeal(deal, user) {
		return apperrors.Forbidden("this deal does not belong to you")
	}
	return nil
}

// validateHandlerForRole prevents one party from unilaterally assigning
// fulfillment duty to the other.
func validateHandlerForRole(user *models.User, handler models.DeliveryHandler) error {
	if user.IsSeller() && handler == models.HandlerSupplier {
		return apperrors.BadRequest("seller cannot set delivery handler to SUPPLIER")
	}
	if user.IsSupplier() && handler == models.HandlerSeller {
		return apperrors.BadRequest("supplier cannot set delivery handler to SELLER")
	}
	return nil
}

// clearCounterpartyApproval invalidates the other party's approval after an
// edit. The editor's own flag is never touched.
func clearCounterpartyApproval(deal *models.Deal, user *models.User) {
	if user.IsSeller() {
		deal.SupplierApproved = false
	} else if user.IsSupplier() {
		deal.SellerApproved = false
	}
}
