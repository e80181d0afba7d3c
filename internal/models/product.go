package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"unique;not null"`
	Description string    `json:"description"`
	ParentID    *uint     `json:"parent_id"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductUnit string

const (
	UnitKg      ProductUnit = "KG"
	UnitGram    ProductUnit = "GRAM"
	UnitPiece   ProductUnit = "PIECE"
	UnitLiter   ProductUnit = "LITER"
	UnitBox     ProductUnit = "BOX"
	UnitPackage ProductUnit = "PACKAGE"
)

// Product is owned by a supplier. Deal items snapshot its price at creation
// time; the catalog price is never re-read for an existing deal.
type Product struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	SupplierID       uint           `json:"supplier_id" gorm:"not null;index"`
	Supplier         SupplierProfile `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID       *uint          `json:"category_id"`
	Name             string         `json:"name" gorm:"not null"`
	Description      string         `json:"description"`
	Price            float64        `json:"price" gorm:"not null"`
	Unit             ProductUnit    `json:"unit" gorm:"type:varchar(20);default:'KG'"`
	MinOrderQuantity int            `json:"min_order_quantity" gorm:"default:1"`
	IsActive         bool           `json:"is_active" gorm:"default:true"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
