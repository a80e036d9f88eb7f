package lib

import (
	"math/rand"
)

// GatewayError is a terminal charge failure reported by the payment
// gateway. Code is the short machine-readable discriminator recorded
// verbatim on the failed transaction.
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	return e.Message
}

var (
	ErrCurrency = &GatewayError{Code: "currency_error", Message: "currency is not supported by the payment gateway"}
	ErrPayment  = &GatewayError{Code: "payment_error", Message: "payment could not be processed"}
	ErrCard     = &GatewayError{Code: "card_error", Message: "card was declined"}
)

// PaymentGateway charges the given amount against an external payment
// provider. Exactly one of four outcomes occurs per call: nil, or one of
// the three GatewayError values. A call never leaves partial effect.
type PaymentGateway interface {
	Charge(amount float64) error
}

// SimulatedGateway stands in for a real payment provider and resolves each
// charge to a random outcome, success being the most likely.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Charge(amount float64) error {
	tokens := []string{
		"transaction_ok",
		"transaction_ok",
		"transaction_ok",
		"card_error",
		"payment_error",
		"currency_error",
	}
	token := tokens[rand.Intn(len(tokens))]
	switch token {
	case "card_error":
		return ErrCard
	case "payment_error":
		return ErrPayment
	case "currency_error":
		return ErrCurrency
	}
	return nil
}
