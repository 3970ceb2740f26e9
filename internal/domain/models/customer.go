package models

// Payment is one entry in a customer's payment history. Appends are
// atomic on the storage side so two admins recording payments at the
// same time never overwrite each other.
type Payment struct {
	ID     string  `bson:"id" json:"id"`
	Amount float64 `bson:"amount" json:"amount"`
	Method string  `bson:"method" json:"method"` // "cash" or "online"
	Admin  string  `bson:"admin" json:"admin"`
	Date   string  `bson:"date" json:"date"`
}

// Customer is a customer/project document. The id is the supplied
// projectId or, failing that, derived from the project name.
type Customer struct {
	ID              string    `bson:"_id" json:"id"`
	ProjectName     string    `bson:"projectName" json:"projectName"`
	CustomerName    string    `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	Address         string    `bson:"address,omitempty" json:"address,omitempty"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Payments        []Payment `bson:"payments" json:"payments"`
	PaymentsDeleted bool      `bson:"paymentsDeleted,omitempty" json:"paymentsDeleted,omitempty"`
}

// CustomerPatch carries a partial update; nil fields are left untouched
// on the stored document.
type CustomerPatch struct {
	ProjectName  *string `json:"projectName"`
	CustomerName *string `json:"customerName"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}
