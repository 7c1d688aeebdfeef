package domain

// Seed returns the built-in currency reference rows. The migration layer
// inserts these on first boot; tests load them directly.
func Seed() []Currency {
	return []Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$", Precision: 2, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "EUR", Name: "Euro", Symbol: "€", Precision: 2, ThousandSeparator: ".", DecimalSeparator: ","},
		{Code: "GBP", Name: "British Pound", Symbol: "£", Precision: 2, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Precision: 0, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "KRW", Name: "South Korean Won", Symbol: "₩", Precision: 0, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp", Precision: 0, ThousandSeparator: ".", DecimalSeparator: ","},
		{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Precision: 2, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Precision: 2, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Precision: 2, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Precision: 2, ThousandSeparator: "'", DecimalSeparator: "."},
		{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Precision: 2, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "BHD", Name: "Bahraini Dinar", Symbol: "BD", Precision: 3, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "KWD", Name: "Kuwaiti Dinar", Symbol: "KD", Precision: 3, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "OMR", Name: "Omani Rial", Symbol: "OMR", Precision: 3, ThousandSeparator: ",", DecimalSeparator: "."},
		{Code: "CLF", Name: "Unidad de Fomento", Symbol: "UF", Precision: 4, ThousandSeparator: ".", DecimalSeparator: ","},
	}
}
