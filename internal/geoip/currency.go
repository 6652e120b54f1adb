package geoip

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF",
	"CNY": "¥",
	"INR": "₹",
	"BRL": "R$",
	"MXN": "$",
	"ZAR": "R",
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"PLN": "zł",
	"TRY": "₺",
	"RUB": "₽",
	"KRW": "₩",
	"SGD": "S$",
	"HKD": "HK$",
	"NZD": "NZ$",
}

var countryCurrencies = map[string]string{
	"US": "USD",
	"GB": "GBP",
	"CA": "CAD",
	"AU": "AUD",
	"DE": "EUR",
	"FR": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"NL": "EUR",
	"BE": "EUR",
	"AT": "EUR",
	"PT": "EUR",
	"IE": "EUR",
	"FI": "EUR",
	"GR": "EUR",
	"JP": "JPY",
	"CN": "CNY",
	"IN": "INR",
	"BR": "BRL",
	"MX": "MXN",
	"ZA": "ZAR",
	"SE": "SEK",
	"NO": "NOK",
	"DK": "DKK",
	"PL": "PLN",
	"TR": "TRY",
	"RU": "RUB",
	"KR": "KRW",
	"SG": "SGD",
	"HK": "HKD",
	"NZ": "NZD",
	"CH": "CHF",
}

// CurrencySymbol returns the display symbol for a currency code, or the
// code itself when no symbol is known.
func CurrencySymbol(currency string) string {
	if sym, ok := currencySymbols[currency]; ok {
		return sym
	}
	return currency
}

// CurrencyForCountry maps an ISO country code to its currency, defaulting
// to USD.
func CurrencyForCountry(countryCode string) string {
	if cur, ok := countryCurrencies[countryCode]; ok {
		return cur
	}
	return "USD"
}
