package enums

import "fmt"

// PaymentMethod records how a card purchase was paid. Payments are recorded
// only; no gateway verification happens in this service.
type PaymentMethod string

const (
	PaymentMethodWechatPay PaymentMethod = "wechat_pay"
	PaymentMethodAlipay    PaymentMethod = "alipay"
	PaymentMethodOffline   PaymentMethod = "offline"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodWechatPay,
	PaymentMethodAlipay,
	PaymentMethodOffline,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
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
