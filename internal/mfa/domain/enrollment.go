package domain

// Enrollment is an authenticator setup offered by the backend.
type Enrollment struct {
	URI     string
	Issuer  string
	Account string
	Secret  string
	Digits  int
	Period  uint64
}

// Status is the account's current second-factor state.
type Status struct {
	Email   string
	Enabled bool
}
