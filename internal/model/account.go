package model

import "time"

// Account holds the metadata needed to anchor an account's balance
// series: the balance before the first recorded transaction, in the
// smallest unit of the account's currency.
type Account struct {
	LastUpdated     time.Time
	AccountID       string
	Currency        string
	StartingBalance int64
}
