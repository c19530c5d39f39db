package domain

// User is the single entity managed by the service. Records form a flat
// collection keyed by ID with no relationships between them.
//
// ID and CreatedAt are assigned at creation and never change afterwards.
// Password only carries inbound credentials; what gets persisted is
// PasswordHash, and neither is ever serialized into a response.
type User struct {
	ID           string `json:"userId"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"-"`
	Email        string `json:"email,omitempty"`
	CreatedAt    string `json:"createdAt"`
}
