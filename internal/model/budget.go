// Package model defines the records zenith stores and mirrors.
package model

// TxType classifies a spend event.
type TxType string

const (
	TxFood    TxType = "food"
	TxCheat   TxType = "cheat"
	TxExpense TxType = "expense"
	TxOther   TxType = "other"
)

// ParseTxType maps free text onto a TxType, falling back to TxOther.
func ParseTxType(s string) TxType {
	switch TxType(s) {
	case TxFood, TxCheat, TxExpense:
		return TxType(s)
	}
	return TxOther
}

// Transaction is one spend event. Records are immutable once created.
type Transaction struct {
	ID       string            `json:"id"`
	Date     string            `json:"date"`
	Label    string            `json:"label"`
	Amount   float64           `json:"amount"`
	Type     TxType            `json:"type"`
	Deducted bool              `json:"deducted"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// Wallet is the spendable balance and the day it has to last until.
type Wallet struct {
	Balance      float64 `json:"balance"`
	MonthEndDate string  `json:"monthEndDate"`
}

// QuickButton is a one-tap preset that logs a food transaction.
type QuickButton struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// DefaultQuickButtons are the presets shown before any customization.
func DefaultQuickButtons() []QuickButton {
	return []QuickButton{
		{Key: "chicken", Label: "Chicken Tikka", Price: 105},
		{Key: "eggs", Label: "Boiled Eggs (2)", Price: 24},
		{Key: "idly", Label: "Idly", Price: 20},
		{Key: "yogurt", Label: "Greek Yogurt", Price: 60},
	}
}
