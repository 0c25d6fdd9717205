package telegram

// Currency describes one settlement currency the payments API accepts.
// Exp is the decimal exponent used to convert major-unit decimal amounts
// into the API's integer minor units (2 for cent-based currencies).
type Currency struct {
	Code string
	Exp  int
}

// currencies is the fixed table of gateway-supported currencies, from the
// Bot API currencies list. A currency absent here cannot be invoiced:
// lookups fail loudly rather than guess an exponent.
var currencies = map[string]Currency{
	"AED": {"AED", 2},
	"ARS": {"ARS", 2},
	"AUD": {"AUD", 2},
	"BRL": {"BRL", 2},
	"CAD": {"CAD", 2},
	"CHF": {"CHF", 2},
	"CLP": {"CLP", 0},
	"CNY": {"CNY", 2},
	"COP": {"COP", 2},
	"CZK": {"CZK", 2},
	"DKK": {"DKK", 2},
	"EGP": {"EGP", 2},
	"EUR": {"EUR", 2},
	"GBP": {"GBP", 2},
	"HKD": {"HKD", 2},
	"HUF": {"HUF", 2},
	"IDR": {"IDR", 2},
	"ILS": {"ILS", 2},
	"INR": {"INR", 2},
	"ISK": {"ISK", 0},
	"JPY": {"JPY", 0},
	"KRW": {"KRW", 0},
	"KZT": {"KZT", 2},
	"MXN": {"MXN", 2},
	"MYR": {"MYR", 2},
	"NOK": {"NOK", 2},
	"NZD": {"NZD", 2},
	"PHP": {"PHP", 2},
	"PLN": {"PLN", 2},
	"RUB": {"RUB", 2},
	"SAR": {"SAR", 2},
	"SEK": {"SEK", 2},
	"SGD": {"SGD", 2},
	"THB": {"THB", 2},
	"TRY": {"TRY", 2},
	"TWD": {"TWD", 2},
	"UAH": {"UAH", 2},
	"USD": {"USD", 2},
	"VND": {"VND", 0},
	"ZAR": {"ZAR", 2},
}

// LookupCurrency returns the gateway currency entry for a backend currency
// code. ok is false for currencies the gateway cannot settle.
func LookupCurrency(code string) (Currency, bool) {
	c, ok := currencies[code]
	return c, ok
}
