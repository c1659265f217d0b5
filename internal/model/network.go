// Package model defines the core domain models used throughout the application.
package model

// Network identifies the card scheme a BIN prefix belongs to.
type Network string

// Card network constants.
const (
	NetworkAmex       Network = "American Express"
	NetworkDiners     Network = "Diners Club"
	NetworkJCB        Network = "JCB"
	NetworkVisa       Network = "Visa"
	NetworkMastercard Network = "Mastercard"
	NetworkDiscover   Network = "Discover"
	NetworkUnknown    Network = "Unknown"
)

// String returns the display label of the network.
func (n Network) String() string {
	if n == "" {
		return string(NetworkUnknown)
	}
	return string(n)
}

// Money is the optional currency/balance annotation attached to rendered cards.
type Money struct {
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

// Present reports whether both currency and balance carry a value.
func (m *Money) Present() bool {
	if m == nil {
		return false
	}
	return trimmed(m.Currency) != "" && trimmed(m.Balance) != ""
}
