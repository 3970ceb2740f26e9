package models

// Admin is an operator account. Passwords are stored and compared in
// plaintext, faithful to the system this replaces; do not reuse these
// credentials anywhere that matters.
type Admin struct {
	ID                 string `bson:"_id" json:"id"`
	Username           string `bson:"username" json:"username"`
	Password           string `bson:"password" json:"-"`
	PhoneNo            string `bson:"phoneNo" json:"phoneNo"`
	Mail               string `bson:"mail,omitempty" json:"mail,omitempty"`
	LastPasswordChange string `bson:"lastPasswordChange" json:"lastPasswordChange"`
}
