package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/goodslab/goods-ledger/internal/accounts"
	"github.com/goodslab/goods-ledger/internal/api/middleware"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/ledger"
	"github.com/goodslab/goods-ledger/internal/market"
	"github.com/goodslab/goods-ledger/internal/store"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// Setup creates or updates the ledger config (admin, API key)
	// POST /api/v1/setup
	Setup(c *gin.Context)

	// ProvisionAccount provisions a ledger account (admin, API key)
	// POST /api/v1/accounts
	ProvisionAccount(c *gin.Context)

	// CreateType registers a new token type; the caller is the issuer
	// POST /api/v1/types
	CreateType(c *gin.Context)

	// FreezeMaxSupply seals a time-boxed drop at its issued supply
	// POST /api/v1/types/:category/:name/freeze
	FreezeMaxSupply(c *gin.Context)

	// Issue mints quantity of a type to a recipient
	// POST /api/v1/issue
	Issue(c *gin.Context)

	// TransferNFT moves items from the caller to another account
	// POST /api/v1/transfers/nft
	TransferNFT(c *gin.Context)

	// TransferFT moves a fungible quantity from the caller to another account
	// POST /api/v1/transfers/ft
	TransferFT(c *gin.Context)

	// BurnNFT destroys items owned by the caller
	// POST /api/v1/burns/nft
	BurnNFT(c *gin.Context)

	// BurnFT destroys a fungible quantity held by the caller
	// POST /api/v1/burns/ft
	BurnFT(c *gin.Context)

	// ListForSale lists a batch of the caller's items
	// POST /api/v1/sales
	ListForSale(c *gin.Context)

	// CloseSale cancels or reclaims a listing
	// DELETE /api/v1/sales/:batch_id
	CloseSale(c *gin.Context)

	// GetType retrieves a type definition by (category, token name)
	// GET /api/v1/types/:category/:name
	GetType(c *gin.Context)

	// GetItem retrieves an item by its global id
	// GET /api/v1/items/:id
	GetItem(c *gin.Context)

	// GetOwnerItems retrieves all items held by an owner
	// GET /api/v1/accounts/:owner/items
	GetOwnerItems(c *gin.Context)

	// GetOwnerBalances retrieves all balances held by an owner
	// GET /api/v1/accounts/:owner/balances
	GetOwnerBalances(c *gin.Context)

	// GetListing retrieves a listing by its batch id
	// GET /api/v1/sales/:batch_id
	GetListing(c *gin.Context)

	// GetSellerListings retrieves all listings for a seller
	// GET /api/v1/accounts/:owner/sales
	GetSellerListings(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	ledger   *ledger.Service
	market   *market.Service
	registry accounts.Registry
	reader   store.Reader
}

// NewHandler creates a new REST API handler
func NewHandler(ledgerSvc *ledger.Service, marketSvc *market.Service, registry accounts.Registry, reader store.Reader) Handler {
	return &handler{
		ledger:   ledgerSvc,
		market:   marketSvc,
		registry: registry,
		reader:   reader,
	}
}

func caller(c *gin.Context) (domain.Account, bool) {
	account, ok := middleware.CallerAccount(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, errCodeForbidden, "Caller account not resolved")
	}
	return account, ok
}

// Setup creates or updates the ledger config singleton
func (h *handler) Setup(c *gin.Context) {
	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := h.ledger.Setup(c.Request.Context(), req.Symbol, req.Version); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ProvisionAccount provisions a ledger account
func (h *handler) ProvisionAccount(c *gin.Context) {
	var req ProvisionAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := h.registry.Provision(c.Request.Context(), domain.Account(req.Name)); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// CreateType registers a new token type
func (h *handler) CreateType(c *gin.Context) {
	issuer, ok := caller(c)
	if !ok {
		return
	}

	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	maxSupply := domain.Quantity{Precision: req.Precision}
	if req.MaxSupply != "" {
		parsed, err := domain.ParseQuantity(req.MaxSupply)
		if err != nil {
			respondValidationError(c, err.Error())
			return
		}
		maxSupply = parsed
	}

	def, err := h.ledger.CreateType(c.Request.Context(), issuer, ledger.CreateTypeParams{
		Issuer:          issuer,
		RevenuePartner:  domain.Account(req.RevenuePartner),
		Category:        req.Category,
		TokenName:       req.TokenName,
		Fungible:        req.Fungible,
		Burnable:        req.Burnable,
		Sellable:        req.Sellable,
		Transferable:    req.Transferable,
		RevenueSplitBps: req.RevenueSplitBps,
		MaxSupply:       maxSupply,
		IssueWindowDays: req.IssueWindowDays,
		MetadataURI:     req.MetadataURI,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTypeDefinitionResponse(def))
}

// FreezeMaxSupply seals a time-boxed drop at its issued supply
func (h *handler) FreezeMaxSupply(c *gin.Context) {
	account, ok := caller(c)
	if !ok {
		return
	}

	err := h.ledger.FreezeMaxSupply(c.Request.Context(), account, c.Param("category"), c.Param("name"))
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Issue mints quantity of a type to a recipient
func (h *handler) Issue(c *gin.Context) {
	account, ok := caller(c)
	if !ok {
		return
	}

	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	quantity, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err = h.ledger.Issue(c.Request.Context(), account, domain.Account(req.To),
		req.Category, req.TokenName, quantity, req.MetadataURI, req.Memo)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TransferNFT moves items from the caller to another account
func (h *handler) TransferNFT(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}

	var req TransferNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	err := h.ledger.TransferNFT(c.Request.Context(), from, domain.Account(req.To), req.ItemIDs, req.Memo)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TransferFT moves a fungible quantity from the caller to another account
func (h *handler) TransferFT(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}

	var req TransferFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	quantity, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err = h.ledger.TransferFT(c.Request.Context(), from, domain.Account(req.To),
		req.Category, req.TokenName, quantity, req.Memo)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BurnNFT destroys items owned by the caller
func (h *handler) BurnNFT(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	var req BurnNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := h.ledger.BurnNFT(c.Request.Context(), owner, req.ItemIDs); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BurnFT destroys a fungible quantity held by the caller
func (h *handler) BurnFT(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	var req BurnFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	quantity, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.ledger.BurnFT(c.Request.Context(), owner, req.TypeID, quantity); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListForSale lists a batch of the caller's items
func (h *handler) ListForSale(c *gin.Context) {
	seller, ok := caller(c)
	if !ok {
		return
	}

	var req ListSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	price, err := domain.ParseQuantityWithPrecision(req.Price, domain.SettlementPrecision)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	listing, err := h.market.ListForSale(c.Request.Context(), seller, req.ItemIDs, req.SellByDays, price)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toListingResponse(listing))
}

// CloseSale cancels or reclaims a listing
func (h *handler) CloseSale(c *gin.Context) {
	account, ok := caller(c)
	if !ok {
		return
	}

	batchID, err := strconv.ParseUint(c.Param("batch_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid batch id")
		return
	}

	if err := h.market.CloseSale(c.Request.Context(), account, batchID); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetType retrieves a type definition by (category, token name)
func (h *handler) GetType(c *gin.Context) {
	def, err := h.reader.GetTypeDefinition(c.Request.Context(), c.Param("category"), c.Param("name"))
	if err != nil {
		respondInternalError(c, err, "Failed to get type definition")
		return
	}
	if def == nil {
		respondNotFound(c, "Type definition not found")
		return
	}

	c.JSON(http.StatusOK, toTypeDefinitionResponse(def))
}

// GetItem retrieves an item by its global id
func (h *handler) GetItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid item id")
		return
	}

	item, err := h.reader.GetItem(c.Request.Context(), itemID)
	if err != nil {
		respondInternalError(c, err, "Failed to get item")
		return
	}
	if item == nil {
		respondNotFound(c, "Item not found")
		return
	}

	c.JSON(http.StatusOK, toItemResponse(item))
}

// GetOwnerItems retrieves all items held by an owner
func (h *handler) GetOwnerItems(c *gin.Context) {
	items, err := h.reader.GetItemsByOwner(c.Request.Context(), c.Param("owner"))
	if err != nil {
		respondInternalError(c, err, "Failed to list items")
		return
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetOwnerBalances retrieves all balances held by an owner
func (h *handler) GetOwnerBalances(c *gin.Context) {
	balances, err := h.reader.GetBalancesByOwner(c.Request.Context(), c.Param("owner"))
	if err != nil {
		respondInternalError(c, err, "Failed to list balances")
		return
	}

	responses := make([]BalanceResponse, 0, len(balances))
	for i := range balances {
		responses = append(responses, toBalanceResponse(&balances[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetListing retrieves a listing by its batch id
func (h *handler) GetListing(c *gin.Context) {
	batchID, err := strconv.ParseUint(c.Param("batch_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid batch id")
		return
	}

	listing, err := h.reader.GetListing(c.Request.Context(), batchID)
	if err != nil {
		respondInternalError(c, err, "Failed to get listing")
		return
	}
	if listing == nil {
		respondNotFound(c, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, toListingResponse(listing))
}

// GetSellerListings retrieves all listings for a seller
func (h *handler) GetSellerListings(c *gin.Context) {
	listings, err := h.reader.GetListingsBySeller(c.Request.Context(), c.Param("owner"))
	if err != nil {
		respondInternalError(c, err, "Failed to list listings")
		return
	}

	responses := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, toListingResponse(&listings[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
