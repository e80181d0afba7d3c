package services

import (
	"marketplace/internal/apperrors"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type RequestToDriverService interface {
	GetUserRequests(user *models.User) ([]models.RequestToDriver, error)
	GetRequest(user *models.User, requestID uint) (*models.RequestToDriver, error)
	ProposePrice(user *models.User, requestID uint, proposedPrice float64) (*models.RequestToDriver, error)
	ApproveRequest(user *models.User, requestID uint, finalPrice *float64) (*models.RequestToDriver, error)
	RejectRequest(user *models.User, requestID uint) (*models.RequestToDriver, error)
}

type requestToDriverService struct {
	requestRepo repository.RequestToDriverRepository
	dealRepo    repository.DealRepository
}

func NewRequestToDriverService(
	requestRepo repository.RequestToDriverRepository,
	dealRepo repository.DealRepository,
) RequestToDriverService {
	return &requestToDriverService{requestRepo: requestRepo, dealRepo: dealRepo}
}

func (s *requestToDriverService) GetUserRequests(user *models.User) ([]models.RequestToDriver, error) {
	switch {
	case user.IsDriver() && user.DriverProfile != nil:
		return s.requestRepo.GetByDriver(user.DriverProfile.ID)
	case user.IsSupplier() && user.SupplierProfile != nil:
		return s.requestRepo.GetBySupplier(user.SupplierProfile.ID)
	case user.IsSeller() && user.SellerProfile != nil:
		return s.requestRepo.GetBySeller(user.SellerProfile.ID)
	}
	return []models.RequestToDriver{}, nil
}

func (s *requestToDriverService) GetRequest(user *models.User, requestID uint) (*models.RequestToDriver, error) {
	request, deal, err := s.getRequestWithFreshDeal(requestID)
	if err != nil {
		return nil, err
	}
	if !isRequestParty(request, deal, user) {
		return nil, apperrors.Forbidden("this request does not belong to you")
	}
	return request, nil
}

func (s *requestToDriverService) ProposePrice(user *models.User, requestID uint, proposedPrice float64) (*models.RequestToDriver, error) {
	if proposedPrice <= 0 {
		return nil, apperrors.NewValidation("proposed price must be greater than 0")
	}
	request, err := s.getRequest(requestID)
	if err != nil {
		return nil, err
	}
	if !user.IsDriver() || user.DriverProfile == nil || request.DriverID != user.DriverProfile.ID {
		return nil, apperrors.Forbidden("only the requested driver can propose a price")
	}
	if !request.Status.IsNegotiable() {
		return nil, apperrors.BadRequest("can only propose a price for pending or driver-proposed requests")
	}

	request.DriverProposedPrice = &proposedPrice
	request.Status = models.RequestStatusDriverProposed
	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestToDriverService) ApproveRequest(user *models.User, requestID uint, finalPrice *float64) (*models.RequestToDriver, error) {
	request, deal, err := s.getRequestWithFreshDeal(requestID)
	if err != nil {
		return nil, err
	}
	if !canApprove(request, deal, user) {
		return nil, apperrors.Forbidden("you are not authorized to approve this request")
	}
	if !request.Status.IsNegotiable() {
		return nil, apperrors.BadRequest("can only approve pending or driver-proposed requests")
	}

	switch {
	case user.IsSupplier():
		request.SupplierApproved = true
	case user.IsSeller():
		request.SellerApproved = true
	case user.IsDriver():
		request.DriverApproved = true
	default:
		return nil, apperrors.BadRequest("invalid role for approval")
	}
	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	// The third approval triggers acceptance exactly once.
	if request.IsFullyApproved(deal) {
		if err := s.accept(request, deal, request.ResolveFinalPrice(finalPrice)); err != nil {
			return nil, err
		}
	}
	return request, nil
}

// accept finalizes a fully-approved request: it binds the driver to the deal
// and pushes the deal back to DEALING. Calling it without full approval is a
// contract violation, not a user error.
func (s *requestToDriverService) accept(request *models.RequestToDriver, deal *models.Deal, finalPrice float64) error {
	if !request.IsFullyApproved(deal) {
		return apperrors.NewPrecondition("request must be fully approved before acceptance")
	}
	request.Status = models.RequestStatusAccepted
	request.FinalPrice = &finalPrice
	deal.DriverID = &request.DriverID
	deal.Status = models.DealStatusDealing
	return s.requestRepo.AcceptWithDeal(request, deal)
}

func (s *requestToDriverService) RejectRequest(user *models.User, requestID uint) (*models.RequestToDriver, error) {
	request, deal, err := s.getRequestWithFreshDeal(requestID)
	if err != nil {
		return nil, err
	}
	if !isRequestParty(request, deal, user) {
		return nil, apperrors.Forbidden("you are not authorized to reject this request")
	}
	if request.Status.IsTerminal() {
		return nil, apperrors.BadRequest("request is already %s", request.Status)
	}

	request.Status = models.RequestStatusRejected
	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestToDriverService) getRequest(requestID uint) (*models.RequestToDriver, error) {
	request, err := s.requestRepo.GetByID(requestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.BadRequest("driver request not found")
		}
		return nil, err
	}
	return request, nil
}

// getRequestWithFreshDeal loads the request and re-reads its deal from the
// repository. The fresh read is deliberate: the deal's delivery handler or
// parties may have changed since the request was issued, and authorization
// must be decided against current state.
func (s *requestToDriverService) getRequestWithFreshDeal(requestID uint) (*models.RequestToDriver, *models.Deal, error) {
	request, err := s.getRequest(requestID)
	if err != nil {
		return nil, nil, err
	}
	deal, err := s.dealRepo.GetFresh(request.DealID)
	if err != nil {
		return nil, nil, err
	}
	return request, deal, nil
}

// canApprove gates approval on the deal's current delivery handler and the
// actor's identity, compared by profile id.
func canApprove(request *models.RequestToDriver, deal *models.Deal, user *models.User) bool {
	if deal.DeliveryHandler != models.HandlerSystemDriver {
		return false
	}
	return isRequestParty(request, deal, user)
}

func isRequestParty(request *models.RequestToDriver, deal *models.Deal, user *models.User) bool {
	switch {
	case user.IsDriver():
		return user.DriverProfile != nil && request.DriverID == user.DriverProfile.ID
	case user.IsSupplier():
		return user.SupplierProfile != nil && deal.SupplierID == user.SupplierProfile.ID
	case user.IsSeller():
		return user.SellerProfile != nil && deal.SellerID == user.SellerProfile.ID
	}
	return false
}
