package handlers

import (
	"marketplace/internal/apperrors"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input services.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c)
		return
	}

	product, err := h.productService.CreateProduct(currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Product created", product)
}

func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	user := currentUser(c)
	if !user.IsSupplier() || user.SupplierProfile == nil {
		respondError(c, apperrors.Forbidden("only suppliers have a product catalog"))
		return
	}

	products, err := h.productService.GetSupplierProducts(user.SupplierProfile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Products retrieved", products)
}
