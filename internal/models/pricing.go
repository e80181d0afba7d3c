package models

import "math"

// RoundCents rounds a monetary amount to two decimal places, half away from
// zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FeeSplit is the delivery fee of an accepted driver request divided between
// the deal's parties. Each side is rounded independently, so on non-round
// fees the two amounts may differ from the fee by one cent.
type FeeSplit struct {
	Fee            float64 `json:"fee"`
	SupplierAmount float64 `json:"supplier_amount"`
	SellerAmount   float64 `json:"seller_amount"`
}
