package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/model"
)

// BankAccount is the center's transfer destination.
type BankAccount struct {
	AccountHolder string
	IBAN          string
}

// TransferInstructions is everything the therapist needs to pay the center.
type TransferInstructions struct {
	AccountHolder string
	IBAN          string
	Amount        decimal.Decimal
	Reference     string
}

// Reference builds the payment purpose line for a bank transfer.
func Reference(userName, date string, location model.Location) string {
	return fmt.Sprintf("Rent Payment %s, %s, %s", userName, date, location)
}

// Instructions returns transfer details for paying amount from userName's shift.
func (b BankAccount) Instructions(amount decimal.Decimal, userName, date string, location model.Location) TransferInstructions {
	return TransferInstructions{
		AccountHolder: b.AccountHolder,
		IBAN:          b.IBAN,
		Amount:        amount,
		Reference:     Reference(userName, date, location),
	}
}
