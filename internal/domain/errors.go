package domain

import "errors"

var (
	// ErrSetupRequired is returned when an operation runs before the ledger config exists
	ErrSetupRequired = errors.New("run setup first")

	// ErrNegativeAmount is returned when a quantity string carries a negative sign
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrZeroAmount is returned when a parsed or constructed quantity is not positive
	ErrZeroAmount = errors.New("supply must be positive")

	// ErrMissingFraction is returned when a quantity string ends with a bare decimal point
	ErrMissingFraction = errors.New("missing decimal fraction after decimal point")

	// ErrPrecisionTooLarge is returned when a precision above 18 is requested
	ErrPrecisionTooLarge = errors.New("precision must be 18 or less")

	// ErrAmountTooLarge is returned when an amount does not fit the 2^62-1 bound
	ErrAmountTooLarge = errors.New("amount must be less than 2^62 - 1")

	// ErrPrecisionMismatch is returned when a quantity's precision differs from the type's declared precision
	ErrPrecisionMismatch = errors.New("precision of quantity must match token precision")

	// ErrInvalidAccountName is returned when an account identifier is malformed
	ErrInvalidAccountName = errors.New("invalid account name")

	// ErrAccountNotFound is returned when an account is not provisioned
	ErrAccountNotFound = errors.New("account does not exist")

	// ErrInvalidSymbol is returned when the settlement-asset symbol is malformed
	ErrInvalidSymbol = errors.New("not valid symbol")

	// ErrInvalidRevenueSplit is returned when a revenue split is outside [0,1]
	ErrInvalidRevenueSplit = errors.New("revenue split must be between 0 and 1")

	// ErrTypeExists is returned when a (category, token name) pair is already defined
	ErrTypeExists = errors.New("token with category and token name exists")

	// ErrTypeNotFound is returned when a (category, token name) pair has no definition
	ErrTypeNotFound = errors.New("token with category and token name does not exist")

	// ErrItemNotFound is returned when an item id has no row
	ErrItemNotFound = errors.New("token does not exist")

	// ErrNotOwner is returned when the caller does not own the item
	ErrNotOwner = errors.New("must be token owner")

	// ErrNotTransferable is returned when the type forbids user transfers
	ErrNotTransferable = errors.New("not transferable")

	// ErrNotBurnable is returned when the type forbids burning
	ErrNotBurnable = errors.New("not burnable")

	// ErrNotSellable is returned when the type forbids marketplace listings
	ErrNotSellable = errors.New("not sellable")

	// ErrNotFungible is returned when a fungible-only operation hits a non-fungible type
	ErrNotFungible = errors.New("must be fungible token")

	// ErrFungibleBurn is returned when burn-nft is called on a fungible type
	ErrFungibleBurn = errors.New("cannot burn fungible token by item id")

	// ErrItemLocked is returned when an item under an active listing is transferred or burned
	ErrItemLocked = errors.New("token locked, cannot transfer")

	// ErrInsufficientBalance is returned when a debit exceeds the owner's balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrSupplyCapExceeded is returned when issuing past max supply
	ErrSupplyCapExceeded = errors.New("cannot issue more than max supply")

	// ErrIssueWindowClosed is returned when issuing after the issuance deadline
	ErrIssueWindowClosed = errors.New("issuance window has closed")

	// ErrNoOpenWindow is returned when freezing a type that has no issuance window
	ErrNoOpenWindow = errors.New("token has no open issuance window")

	// ErrNothingIssued is returned when freezing a type before any supply was issued
	ErrNothingIssued = errors.New("cannot freeze before any supply is issued")

	// ErrBatchTooLarge is returned when a batch operation exceeds its cap
	ErrBatchTooLarge = errors.New("too many tokens in one call")

	// ErrMemoTooLong is returned when a memo exceeds its byte bound
	ErrMemoTooLong = errors.New("memo has more than 256 bytes")

	// ErrSelfTransfer is returned on transfers from an account to itself
	ErrSelfTransfer = errors.New("cannot transfer to self")

	// ErrUnauthorized is returned when the verified caller may not perform the operation
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBelowMinimumPrice is returned when a listing price is under the configured minimum
	ErrBelowMinimumPrice = errors.New("price below configured minimum")

	// ErrNotListed is returned when a batch id has no listing
	ErrNotListed = errors.New("not listed")

	// ErrSaleExpired is returned when buying after the listing expiration
	ErrSaleExpired = errors.New("sale has expired")

	// ErrWrongPayment is returned when the paid amount differs from the asking price
	ErrWrongPayment = errors.New("send the correct amount")

	// ErrInvalidSaleMemo is returned when a buy memo does not parse as "<batch_id>,<account>"
	ErrInvalidSaleMemo = errors.New("invalid sale memo")
)
