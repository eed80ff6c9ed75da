package customer

import "time"

// Address is the value object embedded in a customer. Street, Neighborhood,
// City and Region may be backfilled from the postal-code lookup when the
// caller leaves them blank.
type Address struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	Region       string
	PostalCode   string
}

// Customer identity: unique email and unique tax id are the natural keys.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	TaxID     string
	Address   Address
	CreatedAt time.Time
}
