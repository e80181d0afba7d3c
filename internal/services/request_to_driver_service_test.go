package services

import (
	"net/http"
	"testing"

	"marketplace/internal/models"
)

type requestFixture struct {
	deals    *fakeDealRepo
	requests *fakeRequestRepo
	svc      RequestToDriverService

	supplier *models.User
	seller   *models.User
	driver   *models.User
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{deals: newFakeDealRepo()}
	f.requests = newFakeRequestRepo(f.deals)
	f.svc = NewRequestToDriverService(f.requests, f.deals)

	f.supplier = testSupplier(1)
	f.seller = testSeller(2)
	f.driver = testDriver(3)
	return f
}

func (f *requestFixture) addRequest(price float64) (*models.RequestToDriver, *models.Deal) {
	deal := f.deals.add(&models.Deal{
		SellerID:          f.seller.SellerProfile.ID,
		SupplierID:        f.supplier.SupplierProfile.ID,
		Status:            models.DealStatusLookingForDriver,
		DeliveryHandler:   models.HandlerSystemDriver,
		DeliveryCostSplit: models.DefaultCostSplit,
		DeliveryCount:     1,
	})
	request := &models.RequestToDriver{
		DealID:         deal.ID,
		DriverID:       f.driver.DriverProfile.ID,
		RequestedPrice: price,
		Status:         models.RequestStatusPending,
	}
	f.requests.Create(request)
	return request, deal
}

func TestProposePrice(t *testing.T) {
	f := newRequestFixture()
	request, _ := f.addRequest(100)

	updated, err := f.svc.ProposePrice(f.driver, request.ID, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.RequestStatusDriverProposed {
		t.Errorf("got status %s, want DRIVER_PROPOSED", updated.Status)
	}
	if updated.DriverProposedPrice == nil || *updated.DriverProposedPrice != 80 {
		t.Errorf("proposed price not recorded: %v", updated.DriverProposedPrice)
	}

	// Re-proposing from DRIVER_PROPOSED is allowed.
	updated, err = f.svc.ProposePrice(f.driver, request.ID, 85)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *updated.DriverProposedPrice != 85 {
		t.Errorf("second proposal not recorded: %v", *updated.DriverProposedPrice)
	}
}

func TestProposePriceOnlyDriver(t *testing.T) {
	f := newRequestFixture()
	request, _ := f.addRequest(100)

	_, err := f.svc.ProposePrice(f.seller, request.ID, 80)
	assertStatus(t, err, http.StatusForbidden)

	otherDriver := testDriver(9)
	_, err = f.svc.ProposePrice(otherDriver, request.ID, 80)
	assertStatus(t, err, http.StatusForbidden)
}

func TestProposePriceValidation(t *testing.T) {
	f := newRequestFixture()
	request, _ := f.addRequest(100)

	_, err := f.svc.ProposePrice(f.driver, request.ID, 0)
	assertStatus(t, err, http.StatusBadRequest)

	request.Status = models.RequestStatusRejected
	_, err = f.svc.ProposePrice(f.driver, request.ID, 80)
	assertStatus(t, err, http.StatusBadRequest)
}

// The three approvals may arrive in any order; acceptance fires exactly once,
// on the third one.
func TestApproveInAnyOrder(t *testing.T) {
	f := newRequestFixture()

	orders := [][]*models.User{
		{f.supplier, f.seller, f.driver},
		{f.driver, f.supplier, f.seller},
		{f.seller, f.driver, f.supplier},
	}
	for _, order := range orders {
		request, deal := f.addRequest(150)

		for i, user := range order {
			updated, err := f.svc.ApproveRequest(user, request.ID, nil)
			if err != nil {
				t.Fatalf("approval by %s failed: %v", user.Role, err)
			}
			if i < 2 && updated.Status != models.RequestStatusPending {
				t.Fatalf("after %d approvals: got status %s, want PENDING", i+1, updated.Status)
			}
		}

		if request.Status != models.RequestStatusAccepted {
			t.Fatalf("got status %s, want ACCEPTED after third approval", request.Status)
		}
		if request.FinalPrice == nil || *request.FinalPrice != 150 {
			t.Fatalf("final price: got %v, want 150", request.FinalPrice)
		}
		if deal.DriverID == nil || *deal.DriverID != f.driver.DriverProfile.ID {
			t.Fatal("driver must be bound to the deal on acceptance")
		}
		if deal.Status != models.DealStatusDealing {
			t.Fatalf("deal status: got %s, want DEALING after acceptance", deal.Status)
		}
	}
}

func TestApproveFinalPricePrecedence(t *testing.T) {
	f := newRequestFixture()

	// Driver counter-offer becomes the final price when no override is given.
	request, _ := f.addRequest(100)
	if _, err := f.svc.ProposePrice(f.driver, request.ID, 80); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.svc.ApproveRequest(f.supplier, request.ID, nil)
	f.svc.ApproveRequest(f.seller, request.ID, nil)
	if _, err := f.svc.ApproveRequest(f.driver, request.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.FinalPrice == nil || *request.FinalPrice != 80 {
		t.Fatalf("final price: got %v, want driver counter 80", request.FinalPrice)
	}

	// An explicit price on the closing approval overrides everything.
	request, _ = f.addRequest(100)
	f.svc.ProposePrice(f.driver, request.ID, 80)
	f.svc.ApproveRequest(f.supplier, request.ID, nil)
	f.svc.ApproveRequest(f.driver, request.ID, nil)
	explicit := 90.0
	if _, err := f.svc.ApproveRequest(f.seller, request.ID, &explicit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.FinalPrice == nil || *request.FinalPrice != 90 {
		t.Fatalf("final price: got %v, want explicit 90", request.FinalPrice)
	}
}

// A handler renegotiated away from SYSTEM_DRIVER makes the request dead for
// approval purposes, even for parties that already approved.
func TestApproveAfterHandlerChange(t *testing.T) {
	f := newRequestFixture()
	request, deal := f.addRequest(100)
	f.svc.ApproveRequest(f.supplier, request.ID, nil)
	f.svc.ApproveRequest(f.seller, request.ID, nil)

	deal.DeliveryHandler = models.HandlerSupplier

	_, err := f.svc.ApproveRequest(f.driver, request.ID, nil)
	assertStatus(t, err, http.StatusForbidden)
	if request.Status != models.RequestStatusPending {
		t.Fatalf("request must stay PENDING, got %s", request.Status)
	}
}

func TestApproveByStranger(t *testing.T) {
	f := newRequestFixture()
	request, _ := f.addRequest(100)

	_, err := f.svc.ApproveRequest(testSeller(55), request.ID, nil)
	assertStatus(t, err, http.StatusForbidden)
}

func TestApproveTerminalRequest(t *testing.T) {
	f := newRequestFixture()
	request, _ := f.addRequest(100)
	request.Status = models.RequestStatusRejected

	_, err := f.svc.ApproveRequest(f.supplier, request.ID, nil)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestRejectRequest(t *testing.T) {
	f := newRequestFixture()
	request, _ := f.addRequest(100)

	updated, err := f.svc.RejectRequest(f.driver, request.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.RequestStatusRejected {
		t.Fatalf("got status %s, want REJECTED", updated.Status)
	}

	_, err = f.svc.RejectRequest(f.seller, request.ID)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestRejectByStranger(t *testing.T) {
	f := newRequestFixture()
	request, _ := f.addRequest(100)

	_, err := f.svc.RejectRequest(testDriver(66), request.ID)
	assertStatus(t, err, http.StatusForbidden)
}

func TestGetUserRequestsFiltersByHandler(t *testing.T) {
	f := newRequestFixture()
	_, deal := f.addRequest(100)

	requests, err := f.svc.GetUserRequests(f.driver)
	if err != nil || len(requests) != 1 {
		t.Fatalf("expected 1 request for driver, got %d (%v)", len(requests), err)
	}

	// Requests on deals that moved to third-party handling drop out of
	// every party's listing.
	deal.DeliveryHandler = models.HandlerSeller
	requests, err = f.svc.GetUserRequests(f.driver)
	if err != nil || len(requests) != 0 {
		t.Fatalf("expected 0 requests after handler change, got %d (%v)", len(requests), err)
	}
}
