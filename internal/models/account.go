package models

// Account represents one brokerage account the dispatcher places orders
// against. Loaded from the flat account book; only live accounts
// participate in dispatch.
type Account struct {
	ClientName  string       `csv:"client_name" json:"client_name"`
	Capital     float64      `csv:"capital" json:"capital"`
	AccessToken string       `csv:"access_token" json:"-"`
	State       AccountState `csv:"state" json:"state"`
}

// IsLive returns true if the account participates in dispatch.
func (a *Account) IsLive() bool {
	return a.State == AccountLive
}
