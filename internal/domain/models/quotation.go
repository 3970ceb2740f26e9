package models

// QuotationItem is one priced line of a quotation.
type QuotationItem struct {
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
	Total    float64 `bson:"total" json:"total"`
}

// Quotation is a saved quotation for a project. Line totals and the
// grand total are computed server-side from quantity and unit price.
type Quotation struct {
	ID         string          `bson:"_id" json:"id"`
	ProjectID  string          `bson:"projectId" json:"projectId"`
	Date       string          `bson:"date" json:"date"`
	Items      []QuotationItem `bson:"items" json:"items"`
	Total      float64         `bson:"total" json:"total"`
	PreparedBy string          `bson:"preparedBy,omitempty" json:"preparedBy,omitempty"`
}

// Comment is a free-form note attached to a project.
type Comment struct {
	ID        string `bson:"_id" json:"id"`
	ProjectID string `bson:"projectId" json:"projectId"`
	Text      string `bson:"text" json:"text"`
	Admin     string `bson:"admin" json:"admin"`
	Date      string `bson:"date" json:"date"`
}
