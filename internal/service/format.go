package service

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

// CurrencyFormatter renders amounts with the tenant locale's grouping and the
// tenant's currency symbol. No conversion happens: amounts are already in the
// tenant's principal currency.
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
}

func NewCurrencyFormatter(locale, symbol string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}
	return &CurrencyFormatter{printer: message.NewPrinter(tag), symbol: symbol}
}

func (f *CurrencyFormatter) Symbol() string { return f.symbol }

// Format prints whole amounts without decimals and others with two.
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	digits := 2
	if amount.Equal(amount.Truncate(0)) {
		digits = 0
	}
	n := number.Decimal(amount.InexactFloat64(), number.MinFractionDigits(digits), number.MaxFractionDigits(digits))
	if f.symbol == "" {
		return f.printer.Sprint(n)
	}
	return f.printer.Sprintf("%v %s", n, f.symbol)
}

// FormatSettings holds the tenant-wide display preferences from config.
type FormatSettings struct {
	Locale        string
	DisplaySymbol string
}

// Formatter resolves the currency symbol from the display preference, falling
// back to the regional parameters.
func (s FormatSettings) Formatter(params *model.RegionalPaymentParams) *CurrencyFormatter {
	symbol := s.DisplaySymbol
	if symbol == "" && params != nil {
		symbol = params.CurrencySymbol
	}
	return NewCurrencyFormatter(s.Locale, symbol)
}
