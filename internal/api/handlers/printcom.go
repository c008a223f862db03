package handlers

import (
	"net/http"

	"printpod/internal/logger"
	"printpod/internal/printcom"

	"github.com/gin-gonic/gin"
)

type PrintcomHandler struct {
	client *printcom.Client
	logger *logger.Logger
}

func NewPrintcomHandler(client *printcom.Client, logger *logger.Logger) *PrintcomHandler {
	return &PrintcomHandler{client: client, logger: logger}
}

// ListProducts returns the remote product catalog for the admin picklist.
func (h *PrintcomHandler) ListProducts(c *gin.Context) {
	products, err := h.client.SearchProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products from Print.com"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListPresets returns the presets available for one product SKU.
func (h *PrintcomHandler) ListPresets(c *gin.Context) {
	sku := c.Query("sku")
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "pdc_missing_sku",
			"error": "Product SKU is required.",
		})
		return
	}

	presets, err := h.client.GetPresets(c.Request.Context(), sku)
	if err != nil {
		h.logger.Error("Failed to fetch presets for %s: %v", sku, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "pdc_presets_fetch_failed",
			"error": "Could not retrieve presets: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// Verify probes the Print.com API with the configured credentials.
func (h *PrintcomHandler) Verify(c *gin.Context) {
	if !h.client.IsAuthenticated(c.Request.Context()) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":  "pdc_pod_not_authenticated",
			"error": "Invalid credentials.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}
