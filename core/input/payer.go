package input

import "strings"

// PayerDetails identifies who a receipt is issued to
type PayerDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Normalized returns the details with surrounding whitespace removed
func (p PayerDetails) Normalized() PayerDetails {
	return PayerDetails{
		Name:    strings.TrimSpace(p.Name),
		Address: strings.TrimSpace(p.Address),
	}
}

// Validate requires both a name and an address
func (p PayerDetails) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrPayerNameRequired
	}
	if strings.TrimSpace(p.Address) == "" {
		return ErrPayerAddressRequired
	}
	return nil
}
