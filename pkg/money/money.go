// Package money formatea importes según el idioma y la moneda configurados.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter imprime importes con símbolo de moneda y separadores del idioma.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter crea un formateador para locale (BCP 47, ej. "pt-BR") y currency (ISO 4217).
func NewFormatter(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("money: locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("money: moneda %q: %w", code, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// MustFormatter como NewFormatter; entra en pánico si los parámetros son inválidos.
func MustFormatter(locale, code string) *Formatter {
	f, err := NewFormatter(locale, code)
	if err != nil {
		panic(err)
	}
	return f
}

// Format importe con dos decimales, ej. "R$ 12,50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.printer.Sprintf("%v %v", currency.Symbol(f.unit), number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}

// Percent tasa entera como porcentaje, ej. "10%".
func (f *Formatter) Percent(p int) string {
	return f.printer.Sprintf("%d%%", p)
}

// Code código ISO de la moneda.
func (f *Formatter) Code() string { return f.unit.String() }
