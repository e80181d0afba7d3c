package models

import "time"

type DealStatus string

const (
	DealStatusDealing          DealStatus = "DEALING"
	DealStatusLookingForDriver DealStatus = "LOOKING_FOR_DRIVER"
	DealStatusDone             DealStatus = "DONE"
	DealStatusCancelled        DealStatus = "CANCELLED"
)

func (s DealStatus) Valid() bool {
	switch s {
	case DealStatusDealing, DealStatusLookingForDriver, DealStatusDone, DealStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is permitted.
func (s DealStatus) IsTerminal() bool {
	return s == DealStatusDone || s == DealStatusCancelled
}

type DeliveryHandler string

const (
	HandlerSystemDriver DeliveryHandler = "SYSTEM_DRIVER"
	HandlerSupplier     DeliveryHandler = "SUPPLIER"
	HandlerSeller       DeliveryHandler = "SELLER"
)

func (h DeliveryHandler) Valid() bool {
	switch h {
	case HandlerSystemDriver, HandlerSupplier, HandlerSeller:
		return true
	}
	return false
}

// DefaultCostSplit is stored on deals whose handler is not SYSTEM_DRIVER;
// the split is economically inert for third-party handling.
const DefaultCostSplit = 50

// Deal is a proposed trade between one seller and one supplier. The pair is
// fixed at creation; items and terms are negotiated while status is DEALING.
type Deal struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	SellerID          uint            `json:"seller_id" gorm:"not null;index"`
	Seller            SellerProfile   `json:"seller" gorm:"constraint:OnDelete:CASCADE"`
	SupplierID        uint            `json:"supplier_id" gorm:"not null;index"`
	Supplier          SupplierProfile `json:"supplier" gorm:"constraint:OnDelete:CASCADE"`
	DriverID          *uint           `json:"driver_id"`
	Driver            *DriverProfile  `json:"driver,omitempty"`
	Status            DealStatus      `json:"status" gorm:"type:varchar(30);default:'DEALING'"`
	DeliveryHandler   DeliveryHandler `json:"delivery_handler" gorm:"type:varchar(20);default:'SYSTEM_DRIVER'"`
	DeliveryCostSplit int             `json:"delivery_cost_split" gorm:"default:50"` // % of delivery fee paid by supplier
	DeliveryCount     int             `json:"delivery_count" gorm:"default:1"`       // planned deliveries, not actual
	SellerApproved    bool            `json:"seller_approved" gorm:"default:false"`
	SupplierApproved  bool            `json:"supplier_approved" gorm:"default:false"`
	Items             []DealItem      `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (Deal) TableName() string {
	return "deals"
}

// BothPartiesApproved is the gate for the LOOKING_FOR_DRIVER and DONE
// transitions.
func (d *Deal) BothPartiesApproved() bool {
	return d.SellerApproved && d.SupplierApproved
}

// GoodsTotal is price one of the two-price model: the goods value summed
// over the deal items. Recomputed on every call, never cached.
func (d *Deal) GoodsTotal() float64 {
	var total float64
	for i := range d.Items {
		total += d.Items[i].TotalPrice()
	}
	return RoundCents(total)
}

// SplitDeliveryFee divides a delivery fee by the deal's cost split. Both
// sides are rounded to cents independently.
func (d *Deal) SplitDeliveryFee(fee float64) FeeSplit {
	supplier := RoundCents(fee * float64(d.DeliveryCostSplit) / 100)
	seller := RoundCents(fee * float64(100-d.DeliveryCostSplit) / 100)
	return FeeSplit{Fee: fee, SupplierAmount: supplier, SellerAmount: seller}
}

// DealItem is one product line within a deal. The unit price is snapshotted
// from the catalog when the item is created and is immutable afterwards.
type DealItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	DealID    uint      `json:"deal_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null"`
	Product   Product   `json:"product" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DealItem) TableName() string {
	return "deal_items"
}

func (i *DealItem) TotalPrice() float64 {
	return RoundCents(float64(i.Quantity) * i.UnitPrice)
}
