package models

// Contributor credits a named party with adding or adjusting stock.
// Date is the most recent contribution timestamp (RFC3339) for that
// contributor; it may be empty when the client did not supply one.
type Contributor struct {
	Name string `bson:"name" json:"name"`
	Date string `bson:"date,omitempty" json:"date,omitempty"`
}

// Component is one ledger entry. The document id is derived from the
// name (trimmed, lowercased, whitespace collapsed to hyphens) so the
// same part always maps to the same entry regardless of casing.
type Component struct {
	ID           string        `bson:"_id" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Price        float64       `bson:"price" json:"price"`
	Quantity     int           `bson:"quantity" json:"quantity"`
	Contributors []Contributor `bson:"contributors" json:"contributors"`

	// Version guards read-merge-write cycles; writes carry the version
	// they read and fail when another writer got there first.
	Version int64 `bson:"version" json:"-"`
}

// HistoryRecord is one immutable audit entry describing a ledger
// mutation. Quantity holds either the new total ("80") or, for edits
// that changed a saved value, the transition string "70 > 80 (E)".
type HistoryRecord struct {
	ID       string  `bson:"_id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Quantity string  `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
	AddedBy  string  `bson:"addedBy" json:"addedBy"`
	Date     string  `bson:"date" json:"date"`
	Edit     bool    `bson:"edit" json:"edit"`
}

// UsedItem is one line of stock consumed by a finalized quotation.
type UsedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
