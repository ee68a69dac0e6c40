package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/goodslab/goods-ledger/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Administrative endpoints (requires API key authentication)
		v1.POST("/setup", middleware.APIKeyAuth(authCfg), handler.Setup)
		v1.POST("/accounts", middleware.APIKeyAuth(authCfg), handler.ProvisionAccount)

		// Type management (requires authentication, caller is the issuer)
		v1.POST("/types", middleware.Auth(authCfg), handler.CreateType)
		v1.POST("/types/:category/:name/freeze", middleware.Auth(authCfg), handler.FreezeMaxSupply)

		// Issuance (requires authentication)
		v1.POST("/issue", middleware.Auth(authCfg), handler.Issue)

		// Transfers (requires authentication)
		v1.POST("/transfers/nft", middleware.Auth(authCfg), handler.TransferNFT)
		v1.POST("/transfers/ft", middleware.Auth(authCfg), handler.TransferFT)

		// Burns (requires authentication)
		v1.POST("/burns/nft", middleware.Auth(authCfg), handler.BurnNFT)
		v1.POST("/burns/ft", middleware.Auth(authCfg), handler.BurnFT)

		// Marketplace listings (requires authentication)
		v1.POST("/sales", middleware.Auth(authCfg), handler.ListForSale)
		v1.DELETE("/sales/:batch_id", middleware.Auth(authCfg), handler.CloseSale)

		// Read endpoints (public read access)
		v1.GET("/types/:category/:name", handler.GetType)
		v1.GET("/items/:id", handler.GetItem)
		v1.GET("/accounts/:owner/items", handler.GetOwnerItems)
		v1.GET("/accounts/:owner/balances", handler.GetOwnerBalances)
		v1.GET("/accounts/:owner/sales", handler.GetSellerListings)
		v1.GET("/sales/:batch_id", handler.GetListing)
	}
}
