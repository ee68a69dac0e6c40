package rest

import (
	"time"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/store/schema"
)

func quantityString(amount uint64, precision uint8) string {
	return domain.Quantity{Amount: amount, Precision: precision}.String()
}

// SetupRequest creates or updates the ledger config singleton.
type SetupRequest struct {
	Symbol  string `json:"symbol" binding:"required"`
	Version string `json:"version" binding:"required"`
}

// ProvisionAccountRequest provisions a ledger account.
type ProvisionAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTypeRequest registers a new token type. MaxSupply is a decimal string
// whose fraction digits declare the type's precision ("100.00" gives a cap of
// 100 at precision 2). An empty MaxSupply leaves the type uncapped, which is
// only valid together with a non-zero issuance window.
type CreateTypeRequest struct {
	RevenuePartner  string `json:"revenue_partner" binding:"required"`
	Category        string `json:"category" binding:"required"`
	TokenName       string `json:"token_name" binding:"required"`
	Fungible        bool   `json:"fungible"`
	Burnable        bool   `json:"burnable"`
	Sellable        bool   `json:"sellable"`
	Transferable    bool   `json:"transferable"`
	RevenueSplitBps uint32 `json:"revenue_split_bps"`
	MaxSupply       string `json:"max_supply"`
	Precision       uint8  `json:"precision"`
	IssueWindowDays uint32 `json:"issue_window_days"`
	MetadataURI     string `json:"metadata_uri"`
}

// IssueRequest mints quantity of a type to a recipient.
type IssueRequest struct {
	To          string `json:"to" binding:"required"`
	Category    string `json:"category" binding:"required"`
	TokenName   string `json:"token_name" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	MetadataURI string `json:"metadata_uri"`
	Memo        string `json:"memo"`
}

// TransferNFTRequest moves items from the caller to another account.
type TransferNFTRequest struct {
	To      string   `json:"to" binding:"required"`
	ItemIDs []uint64 `json:"item_ids" binding:"required"`
	Memo    string   `json:"memo"`
}

// TransferFTRequest moves a fungible quantity from the caller to another account.
type TransferFTRequest struct {
	To        string `json:"to" binding:"required"`
	Category  string `json:"category" binding:"required"`
	TokenName string `json:"token_name" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
	Memo      string `json:"memo"`
}

// BurnNFTRequest destroys items owned by the caller.
type BurnNFTRequest struct {
	ItemIDs []uint64 `json:"item_ids" binding:"required"`
}

// BurnFTRequest destroys a fungible quantity held by the caller.
type BurnFTRequest struct {
	TypeID   uint64 `json:"type_id"`
	Quantity string `json:"quantity" binding:"required"`
}

// ListSaleRequest lists a batch of the caller's items for sale. Price is a
// decimal string in the settlement asset; SellByDays of zero means the
// listing never expires.
type ListSaleRequest struct {
	ItemIDs    []uint64 `json:"item_ids" binding:"required"`
	SellByDays uint32   `json:"sell_by_days"`
	Price      string   `json:"price" binding:"required"`
}

// TypeDefinitionResponse is the REST shape of a token type.
type TypeDefinitionResponse struct {
	TypeID          uint64     `json:"type_id"`
	Category        string     `json:"category"`
	TokenName       string     `json:"token_name"`
	Issuer          string     `json:"issuer"`
	RevenuePartner  string     `json:"revenue_partner"`
	RevenueSplitBps uint32     `json:"revenue_split_bps"`
	Fungible        bool       `json:"fungible"`
	Burnable        bool       `json:"burnable"`
	Sellable        bool       `json:"sellable"`
	Transferable    bool       `json:"transferable"`
	MaxSupply       string     `json:"max_supply,omitempty"`
	Precision       uint8      `json:"precision"`
	IssueWindowEnd  *time.Time `json:"issue_window_end,omitempty"`
	CurrentSupply   string     `json:"current_supply"`
	IssuedSupply    string     `json:"issued_supply"`
	MetadataURI     string     `json:"metadata_uri,omitempty"`
}

// ItemResponse is the REST shape of a non-fungible item.
type ItemResponse struct {
	ID           uint64  `json:"id"`
	SerialNumber uint64  `json:"serial_number"`
	Owner        string  `json:"owner"`
	Category     string  `json:"category"`
	TokenName    string  `json:"token_name"`
	TypeID       uint64  `json:"type_id"`
	MetadataURI  *string `json:"metadata_uri,omitempty"`
}

// BalanceResponse is the REST shape of a balance row.
type BalanceResponse struct {
	Owner     string `json:"owner"`
	TypeID    uint64 `json:"type_id"`
	Category  string `json:"category"`
	TokenName string `json:"token_name"`
	Amount    string `json:"amount"`
}

// ListingResponse is the REST shape of a sale listing.
type ListingResponse struct {
	BatchID   uint64     `json:"batch_id"`
	ItemIDs   []uint64   `json:"item_ids"`
	Seller    string     `json:"seller"`
	Price     string     `json:"price"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func toTypeDefinitionResponse(def *schema.TokenDefinition) TypeDefinitionResponse {
	resp := TypeDefinitionResponse{
		TypeID:          def.TypeID,
		Category:        def.Category,
		TokenName:       def.TokenName,
		Issuer:          def.Issuer,
		RevenuePartner:  def.RevenuePartner,
		RevenueSplitBps: def.RevenueSplitBps,
		Fungible:        def.Fungible,
		Burnable:        def.Burnable,
		Sellable:        def.Sellable,
		Transferable:    def.Transferable,
		Precision:       def.Precision,
		IssueWindowEnd:  def.IssueWindowEnd,
		CurrentSupply:   quantityString(def.CurrentSupplyAmount, def.Precision),
		IssuedSupply:    quantityString(def.IssuedSupplyAmount, def.Precision),
		MetadataURI:     def.MetadataURI,
	}
	if def.Capped() {
		resp.MaxSupply = quantityString(def.MaxSupplyAmount, def.Precision)
	}
	return resp
}

func toItemResponse(item *schema.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		SerialNumber: item.SerialNumber,
		Owner:        item.Owner,
		Category:     item.Category,
		TokenName:    item.TokenName,
		TypeID:       item.TypeID,
		MetadataURI:  item.MetadataURI,
	}
}

func toBalanceResponse(balance *schema.Balance) BalanceResponse {
	return BalanceResponse{
		Owner:     balance.Owner,
		TypeID:    balance.TypeID,
		Category:  balance.Category,
		TokenName: balance.TokenName,
		Amount:    quantityString(balance.Amount, balance.Precision),
	}
}

func toListingResponse(listing *schema.Listing) ListingResponse {
	return ListingResponse{
		BatchID:   listing.BatchID,
		ItemIDs:   listing.ItemIDs,
		Seller:    listing.Seller,
		Price:     quantityString(listing.PriceAmount, listing.PricePrecision),
		ExpiresAt: listing.ExpiresAt,
	}
}
