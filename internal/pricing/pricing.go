// Package pricing computes discounted package prices in whole currency units.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FinalPrice returns round(price * (1 - discount/100)), rounding half up.
// Discounts outside [0,100] are clamped.
func FinalPrice(price int64, discount int) int64 {
	if discount <= 0 {
		return price
	}
	if discount > 100 {
		discount = 100
	}

	// decimal.Round rounds half away from zero, which is half up for prices >= 0
	final := decimal.NewFromInt(price).
		Mul(decimal.NewFromInt(int64(100 - discount))).
		Div(hundred).
		Round(0)

	return final.IntPart()
}

func TotalForBooking(price int64, discount, travelers int) int64 {
	return FinalPrice(price, discount) * int64(travelers)
}

func Savings(price int64, discount, travelers int) int64 {
	return price*int64(travelers) - TotalForBooking(price, discount, travelers)
}
