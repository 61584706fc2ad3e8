package sheet

// numberStyle determines how amount cells are read.
type numberStyle int

const (
	// decimalPoint reads "1,234.56": comma groups thousands, dot separates cents.
	decimalPoint numberStyle = iota
	// decimalComma reads "1.234,56": dot groups thousands, comma separates cents.
	decimalComma
)

// Profile describes the headers of one spreadsheet language.
// Adding a language is just adding a Profile to the profiles slice.
type Profile struct {
	Name        string
	DateCol     string
	DescCol     string
	AmountCol   string
	CurrencyCol string // optional
	PaidByCol   string // optional
	SplitCol    string // optional
	Numbers     numberStyle
	DateLayouts []string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.DescCol, p.AmountCol}
}

// profiles is the ordered list of layouts tried during auto-detection.
var profiles = []Profile{
	{
		Name:        "english",
		DateCol:     "date",
		DescCol:     "description",
		AmountCol:   "amount",
		CurrencyCol: "currency",
		PaidByCol:   "paid by",
		SplitCol:    "split among",
		Numbers:     decimalPoint,
		DateLayouts: []string{"2006-01-02", "02/01/2006", "2/1/2006"},
	},
	{
		Name:        "spanish",
		DateCol:     "fecha",
		DescCol:     "descripción",
		AmountCol:   "monto",
		CurrencyCol: "moneda",
		PaidByCol:   "pagado por",
		SplitCol:    "dividido entre",
		Numbers:     decimalComma,
		DateLayouts: []string{"02-01-2006", "02/01/2006", "2006-01-02"},
	},
}
