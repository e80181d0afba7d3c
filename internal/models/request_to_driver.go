package models

import "time"

type RequestStatus string

const (
	RequestStatusPending        RequestStatus = "PENDING"
	RequestStatusDriverProposed RequestStatus = "DRIVER_PROPOSED"
	RequestStatusAccepted       RequestStatus = "ACCEPTED"
	RequestStatusRejected       RequestStatus = "REJECTED"
	// COUNTER_OFFERED is reserved; no operation currently transitions into it.
	RequestStatusCounterOffered RequestStatus = "COUNTER_OFFERED"
)

// IsTerminal reports whether the request can no longer be mutated.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// IsNegotiable reports whether price proposals and approvals are still
// allowed.
func (s RequestStatus) IsNegotiable() bool {
	return s == RequestStatusPending || s == RequestStatusDriverProposed
}

// RequestToDriver is a priced offer from a deal's parties to one candidate
// driver. All three parties (supplier, seller, driver) must approve before it
// can be accepted. At most one request exists per (deal, driver) pair; the
// composite unique index closes the race between concurrent solicitations.
type RequestToDriver struct {
	ID                  uint          `json:"id" gorm:"primaryKey"`
	DealID              uint          `json:"deal_id" gorm:"not null;uniqueIndex:idx_request_deal_driver"`
	Deal                Deal          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	DriverID            uint          `json:"driver_id" gorm:"not null;uniqueIndex:idx_request_deal_driver"`
	Driver              DriverProfile `json:"driver" gorm:"constraint:OnDelete:CASCADE"`
	RequestedPrice      float64       `json:"requested_price" gorm:"not null"`
	DriverProposedPrice *float64      `json:"driver_proposed_price"`
	FinalPrice          *float64      `json:"final_price"`
	Status              RequestStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	SupplierApproved    bool          `json:"supplier_approved" gorm:"default:false"`
	SellerApproved      bool          `json:"seller_approved" gorm:"default:false"`
	DriverApproved      bool          `json:"driver_approved" gorm:"default:false"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (RequestToDriver) TableName() string {
	return "driver_requests"
}

// IsFullyApproved requires all three approval flags plus a deal that still
// uses the system-driver handler. The deal must be freshly loaded from the
// repository, not taken from a cached association: the handler may have
// changed since the request was issued.
func (r *RequestToDriver) IsFullyApproved(deal *Deal) bool {
	if deal == nil || deal.DeliveryHandler != HandlerSystemDriver {
		return false
	}
	return r.SupplierApproved && r.SellerApproved && r.DriverApproved
}

// PendingApprovals lists the parties that have not yet approved.
func (r *RequestToDriver) PendingApprovals() []string {
	var pending []string
	if !r.SupplierApproved {
		pending = append(pending, "supplier")
	}
	if !r.SellerApproved {
		pending = append(pending, "seller")
	}
	if !r.DriverApproved {
		pending = append(pending, "driver")
	}
	return pending
}

// ResolveFinalPrice applies the acceptance price precedence: explicit
// override, then the driver's last counter-offer, then the original ask.
func (r *RequestToDriver) ResolveFinalPrice(explicit *float64) float64 {
	if explicit != nil {
		return *explicit
	}
	if r.DriverProposedPrice != nil {
		return *r.DriverProposedPrice
	}
	return r.RequestedPrice
}
