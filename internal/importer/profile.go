package importer

import "strings"

// amountMode determines how the amount and direction are read from a row.
type amountMode int

const (
	// amountTyped is a positive amount with a separate income/expense column.
	amountTyped amountMode = iota
	// amountSigned is one signed column, negative for money going out.
	amountSigned
	// amountSplit is a debit column and a credit column.
	amountSplit
)

const (
	FormatFinanceflow = "financeflow"
	FormatSigned      = "signed"
	FormatDebitCredit = "debit-credit"
	FormatMutasi      = "mutasi"
)

// Profile describes the header layout of one supported CSV format. Column names are
// matched case-insensitively.
type Profile struct {
	Name        string
	DateCol     string
	NoteCol     string
	AmountMode  amountMode
	AmountCol   string // amountTyped and amountSigned
	TypeCol     string // amountTyped
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
	CategoryCol string // optional
	PaymentCol  string // optional
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.NoteCol}

	switch p.AmountMode {
	case amountTyped:
		cols = append(cols, p.AmountCol, p.TypeCol)
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles are tried in order, so layouts with more required columns come first.
var profiles = []Profile{
	{
		Name:        FormatFinanceflow,
		DateCol:     "Date",
		NoteCol:     "Note",
		AmountMode:  amountTyped,
		AmountCol:   "Amount",
		TypeCol:     "Type",
		CategoryCol: "Category",
		PaymentCol:  "Payment Method",
	},
	{
		Name:       FormatMutasi,
		DateCol:    "Tanggal",
		NoteCol:    "Keterangan",
		AmountMode: amountSplit,
		DebitCol:   "Debet",
		CreditCol:  "Kredit",
	},
	{
		Name:       FormatDebitCredit,
		DateCol:    "Date",
		NoteCol:    "Description",
		AmountMode: amountSplit,
		DebitCol:   "Debit",
		CreditCol:  "Credit",
	},
	{
		Name:       FormatSigned,
		DateCol:    "Date",
		NoteCol:    "Description",
		AmountMode: amountSigned,
		AmountCol:  "Amount",
	},
}

// colIndex maps lowercased header names to their position.
type colIndex map[string]int

func (c colIndex) lookup(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[strings.ToLower(name)]; ok {
		return i
	}

	return -1
}

func (c colIndex) has(name string) bool {
	return c.lookup(name) >= 0
}

func (p *Profile) matches(cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if !cols.has(name) {
			return false
		}
	}

	return true
}

// detectProfile scans rows for a header that matches a known profile. Banks often put an
// account summary above the header, so it does not have to be the first row.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, dup := cols[name]; name != "" && !dup {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}
