package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const TransactionIDPrefix = "TRX"

type TransactionType string

const (
	TransactionTypePLN  TransactionType = "PLN"
	TransactionTypePDAM TransactionType = "PDAM"
	TransactionTypeBPJS TransactionType = "BPJS"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction is a payment record shown on the dashboard. ID is the
// human readable display id (TRX001, TRX002, ...), not a storage key.
type Transaction struct {
	ID             string            `json:"id"`
	CustomerNumber string            `json:"customerNumber"`
	CustomerName   string            `json:"customerName"`
	Type           TransactionType   `json:"type"`
	Amount         int64             `json:"amount"`
	Status         TransactionStatus `json:"status"`
	Date           string            `json:"date"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// TransactionDisplayID formats the n-th transaction id, zero padded to at
// least three digits.
func TransactionDisplayID(n int64) string {
	return fmt.Sprintf("%s%03d", TransactionIDPrefix, n)
}

// ParseTransactionDisplayID returns n for an id made by TransactionDisplayID.
func ParseTransactionDisplayID(id string) (int64, bool) {
	digits, ok := strings.CutPrefix(id, TransactionIDPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MaxDisplayNumber returns the highest n among ids, ignoring ids that were
// not made by TransactionDisplayID.
func MaxDisplayNumber(ids []string) int64 {
	var highest int64
	for _, id := range ids {
		if n, ok := ParseTransactionDisplayID(id); ok && n > highest {
			highest = n
		}
	}
	return highest
}

type TransactionCreateRequest struct {
	CustomerNumber string            `json:"customerNumber" validate:"required"`
	CustomerName   string            `json:"customerName" validate:"required"`
	Type           TransactionType   `json:"type" validate:"required,oneof=PLN PDAM BPJS"`
	Amount         int64             `json:"amount" validate:"required,gt=0"`
	Status         TransactionStatus `json:"status" validate:"omitempty,oneof=success pending failed"`
}

func (p TransactionCreateRequest) Validate() error {
	return validateStruct(p, "Missing required fields")
}

// TransactionFilter controls List queries. Query matches the display id or
// customer name case-insensitively, or a substring of the customer number.
type TransactionFilter struct {
	Query string
}

type TransactionStats struct {
	TotalTransactions   int64 `json:"totalTransactions"`
	SuccessTransactions int64 `json:"successTransactions"`
	TotalRevenue        int64 `json:"totalRevenue"`
	PendingTransactions int64 `json:"pendingTransactions"`
}
