package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the closed set of transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single financial event recorded by a user.
// Amount is an unsigned magnitude; the direction comes from Type.
type Transaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Category    string          `json:"category" gorm:"size:255;not null;index"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Type        TransactionType `json:"transaction_type" gorm:"type:varchar(10);not null;index"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:UserID"`
}

// TransactionPatch is a partial update: only non-nil fields are applied.
type TransactionPatch struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Type        *TransactionType `json:"transaction_type,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
}

// Apply merges the patch into the transaction, leaving absent fields untouched.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
}
