package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/shop-backoffice/internal/domain"
	"github.com/you/shop-backoffice/internal/service"
	"github.com/you/shop-backoffice/internal/storage"
)

const maxProductImages = 4

type ProductHandler struct {
	svc    *service.ProductSvc
	images storage.ImageStore
}

func NewProductHandler(svc *service.ProductSvc, images storage.ImageStore) *ProductHandler {
	return &ProductHandler{svc: svc, images: images}
}

func (h *ProductHandler) uploadImages(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		url, err := h.images.Upload(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// POST /add-product (multipart, field "images", up to 4 files)
func (h *ProductHandler) Add(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["images"]
	if len(files) > maxProductImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most 4 images allowed"})
		return
	}
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	quantity, _ := strconv.ParseInt(c.PostForm("quantity"), 10, 64)
	in := domain.Product{
		SKU:      c.PostForm("productId"),
		Name:     c.PostForm("name"),
		Category: c.PostForm("category"),
		Price:    price,
		Quantity: quantity,
	}

	urls, err := h.uploadImages(c, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
		return
	}
	in.ImageURLs = urls

	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "product": p})
}

// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /product/:id (catalog id)
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /products/:id (multipart; new images replace the old set when given)
func (h *ProductHandler) Update(c *gin.Context) {
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	quantity, _ := strconv.ParseInt(c.PostForm("quantity"), 10, 64)
	in := domain.Product{
		SKU:      c.Param("id"),
		Name:     c.PostForm("name"),
		Category: c.PostForm("category"),
		Price:    price,
		Quantity: quantity,
	}
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["images"]
		if len(files) > maxProductImages {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at most 4 images allowed"})
			return
		}
		if len(files) > 0 {
			urls, err := h.uploadImages(c, files)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
				return
			}
			in.ImageURLs = urls
		}
	}
	p, err := h.svc.Update(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": p})
}

// POST /remove
func (h *ProductHandler) Remove(c *gin.Context) {
	var in struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), in.ProductID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed successfully"})
}

// PATCH /products/:id/update-stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var in struct {
		ProductID string `json:"productId"`
		Quantity  int64  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	sku := in.ProductID
	if sku == "" {
		sku = c.Param("id")
	}
	p, err := h.svc.DecrementStock(c.Request.Context(), sku, in.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "product": p})
}
