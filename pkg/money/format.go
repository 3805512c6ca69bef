package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCode moneda del negocio cuando el cliente o la caja no tienen una asignada.
const DefaultCode = "TRY"

// Símbolos de las monedas que maneja la aplicación. Otros códigos ISO válidos
// se resuelven con el símbolo estrecho de golang.org/x/text/currency.
var glyphs = map[string]string{
	"TRY": "₺",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Formatter representa montos con el símbolo de su moneda.
type Formatter struct {
	DefaultCode string
	printer     *message.Printer
}

// NewFormatter construye un Formatter; defaultCode vacío usa DefaultCode.
func NewFormatter(defaultCode string) *Formatter {
	code := NormalizeCode(defaultCode)
	if _, ok := lookupGlyph(code); !ok {
		code = DefaultCode
	}
	return &Formatter{
		DefaultCode: code,
		printer:     message.NewPrinter(language.English),
	}
}

var defaultFormatter = NewFormatter(DefaultCode)

// Format representa amount con el símbolo de code usando el formateador por defecto.
func Format(amount decimal.Decimal, code string) string {
	return defaultFormatter.Format(amount, code)
}

// Symbol devuelve el símbolo de code (o el de la moneda por defecto si el código es desconocido).
func Symbol(code string) string {
	return defaultFormatter.Symbol(code)
}

// Format devuelve "₺1,234.50"; los negativos llevan el signo antes del símbolo.
func (f *Formatter) Format(amount decimal.Decimal, code string) string {
	sign := ""
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	digits := f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(2)))
	return sign + f.Symbol(code) + digits
}

// Symbol resuelve el símbolo; nunca falla, cae al símbolo por defecto.
func (f *Formatter) Symbol(code string) string {
	if g, ok := lookupGlyph(NormalizeCode(code)); ok {
		return g
	}
	g, _ := lookupGlyph(f.DefaultCode)
	return g
}

// NormalizeCode limpia un código ISO 4217 ("try " -> "TRY").
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsKnownCode indica si code es un código ISO 4217 reconocido.
func IsKnownCode(code string) bool {
	_, ok := lookupGlyph(NormalizeCode(code))
	return ok
}

func lookupGlyph(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	if g, ok := glyphs[code]; ok {
		return g, true
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", false
	}
	return fmt.Sprint(currency.NarrowSymbol(unit)), true
}
