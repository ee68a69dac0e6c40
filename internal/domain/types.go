package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Batch caps bound the cost of a single unit of work; there is no way to
// yield partway through a call.
const (
	// MaxBatchSize caps transfer, burn, and list-for-sale batches.
	MaxBatchSize = 20
	// MaxIssueBatch caps the number of non-fungible units minted in one issue call.
	MaxIssueBatch = 100
	// MaxMemoBytes caps transfer/issue memo length.
	MaxMemoBytes = 256
	// MaxSaleMemoBytes caps the inbound payment memo carrying "<batch_id>,<account>".
	MaxSaleMemoBytes = 32
)

// DepositMemo marks an inbound payment that is a plain deposit, not a purchase.
const DepositMemo = "deposit"

// SettlementPrecision is the decimal precision of the single settlement asset
// every listing price and payment is denominated in.
const SettlementPrecision uint8 = 4

// Account identifies a ledger account.
type Account string

var accountNameRe = regexp.MustCompile(`^[a-z][a-z0-9.\-]{0,31}$`)

// Valid reports whether the account name is well formed.
func (a Account) Valid() bool {
	return accountNameRe.MatchString(string(a))
}

// String returns the account name.
func (a Account) String() string {
	return string(a)
}

// ValidName reports whether a category or token name is well formed. Names
// follow the same shape as account names.
func ValidName(s string) bool {
	return accountNameRe.MatchString(s)
}

var symbolRe = regexp.MustCompile(`^[A-Z]{1,7}$`)

// ValidSymbol reports whether s is a well-formed settlement-asset symbol.
func ValidSymbol(s string) bool {
	return symbolRe.MatchString(s)
}

// ParseSaleMemo parses an inbound payment memo of the form
// "<batch_id>,<destination_account>".
func ParseSaleMemo(memo string) (uint64, Account, error) {
	if len(memo) > MaxSaleMemoBytes {
		return 0, "", ErrInvalidSaleMemo
	}
	parts := strings.SplitN(memo, ",", 2)
	if len(parts) != 2 {
		return 0, "", ErrInvalidSaleMemo
	}
	batchID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, "", ErrInvalidSaleMemo
	}
	account := Account(strings.TrimSpace(parts[1]))
	if !account.Valid() {
		return 0, "", ErrInvalidSaleMemo
	}
	return batchID, account, nil
}

// EventType classifies ledger notification events.
type EventType string

const (
	EventTypeMint     EventType = "mint"
	EventTypeTransfer EventType = "transfer"
	EventTypeBurn     EventType = "burn"
	EventTypeSale     EventType = "sale"
)

// LedgerEvent is the notification payload published after a committed call so
// external watchers can correlate a call with the state it produced.
type LedgerEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Category  string    `json:"category,omitempty"`
	TokenName string    `json:"token_name,omitempty"`
	ItemIDs   []uint64  `json:"item_ids,omitempty"`
	From      Account   `json:"from,omitempty"`
	To        Account   `json:"to,omitempty"`
	Quantity  string    `json:"quantity,omitempty"`
	Memo      string    `json:"memo,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// InboundPayment is the wire form of a settlement-asset payment received by
// the ledger account. The marketplace reacts to it; payments it does not
// recognize are ignored, never failed.
type InboundPayment struct {
	Payer Account `json:"payer"`
	Payee Account `json:"payee"`
	// Amount is the paid amount as a decimal string at the settlement precision
	Amount string `json:"amount"`
	Memo   string `json:"memo"`
}

// PaymentInstruction is the outbound settlement-asset transfer scheduled by
// the marketplace fee distribution.
type PaymentInstruction struct {
	ID        string    `json:"id"`
	Payer     Account   `json:"payer"`
	Payee     Account   `json:"payee"`
	Amount    Quantity  `json:"amount"`
	Memo      string    `json:"memo"`
	Timestamp time.Time `json:"timestamp"`
}
