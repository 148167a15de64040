package enums

import "fmt"

// PaymentMethod describes how a buyer intends to settle an order. The two
// bank-transfer rails are distinct banks with identical manual handling: the
// buyer wires the money out of band and reports the transaction id back.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery     PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransferHBL    PaymentMethod = "bank_transfer_hbl"
	PaymentMethodBankTransferMeezan PaymentMethod = "bank_transfer_meezan"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCashOnDelivery,
	PaymentMethodBankTransferHBL,
	PaymentMethodBankTransferMeezan,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsBankTransfer reports whether the method requires an out-of-band
// transaction id before the order becomes actionable.
func (p PaymentMethod) IsBankTransfer() bool {
	return p == PaymentMethodBankTransferHBL || p == PaymentMethodBankTransferMeezan
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
