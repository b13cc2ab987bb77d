package models

// Card is a single owner-scoped balance record.
// ID is assigned by the store on insert and Owner is always the authenticated
// caller that created it; neither changes afterwards.
type Card struct {
	ID     int64  `json:"id"`
	Amount Amount `json:"amount"`
	Owner  string `json:"owner"`
}
