package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how the customer pays at the till
type PaymentMethod int

const (
	PaymentMethodCash          PaymentMethod = 0
	PaymentMethodCard          PaymentMethod = 1
	PaymentMethodMobileBanking PaymentMethod = 2
)

func (m PaymentMethod) String() string {
	names := [...]string{"Cash", "Card", "MobileBanking"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Cash"
	}
	return names[m]
}

// ParsePaymentMethod maps a string to a PaymentMethod; unknown values
// fall back to cash, the till default.
func ParsePaymentMethod(s string) PaymentMethod {
	switch s {
	case "Card", "card":
		return PaymentMethodCard
	case "MobileBanking", "mobile_banking", "mobile-banking":
		return PaymentMethodMobileBanking
	default:
		return PaymentMethodCash
	}
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	*m = ParsePaymentMethod(str)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
