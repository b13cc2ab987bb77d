package cqrs

// GetCardQuery fetches a single card, scoped to its owner.
type GetCardQuery struct {
	ID    int64
	Owner string
}

// ListCardsQuery fetches one page of the owner's cards. Page, Size and Sort
// are the raw request values; the query service resolves them.
type ListCardsQuery struct {
	Owner string
	Page  string
	Size  string
	Sort  []string
}
