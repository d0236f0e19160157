// Package importer turns uploaded CSV statements into transactions. It reads the app's own
// CSV export as well as the common bank layouts listed in profiles.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
	enc "github.com/MrJamesThe3rd/financeflow/internal/encoding"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var ErrInvalid = apperr.Invalid("import file")

var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006", "2006/01/02", "02.01.2006"}

// Row is one parsed line. Category is the name as written in the file.
type Row struct {
	Line          int
	Date          time.Time
	Type          transaction.Type
	Category      string
	Amount        decimal.Decimal
	Note          string
	PaymentMethod transaction.PaymentMethod
}

type Statement struct {
	Format  string
	Charset string
	Rows    []Row
	// Skipped counts lines after the header that carried no transaction, such as footers
	// and zero amounts.
	Skipped int
}

// Parse detects the encoding, delimiter and layout of r and returns its rows.
func Parse(r io.Reader) (*Statement, error) {
	utf8r, charset, err := enc.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	comma := sniffDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, lines, err := readAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: no known header found", ErrInvalid)
	}

	st := &Statement{Format: profile.Name, Charset: charset}

	p := rowParser{profile: profile, cols: cols, decimalComma: comma == ';'}

	for i := headerIdx + 1; i < len(rows); i++ {
		parsed, ok, err := p.parse(rows[i])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalid, lines[i], err)
		}

		if !ok {
			st.Skipped++
			continue
		}

		parsed.Line = lines[i]
		st.Rows = append(st.Rows, parsed)
	}

	return st, nil
}

// readAll returns every record with the file line it started on. Blank lines are skipped by
// the csv reader, so positions cannot be derived from the record index.
func readAll(reader *csv.Reader) ([][]string, []int, error) {
	var (
		rows  [][]string
		lines []int
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, lines, nil
		}

		if err != nil {
			return nil, nil, err
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
}

// sniffDelimiter picks ';' when it outnumbers ',' in the first lines.
func sniffDelimiter(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))

	var commas, semicolons int

	for n := 0; n < 20 && sc.Scan(); n++ {
		line := sc.Text()
		commas += strings.Count(line, ",")
		semicolons += strings.Count(line, ";")
	}

	if semicolons > commas {
		return ';'
	}

	return ','
}

type rowParser struct {
	profile      *Profile
	cols         colIndex
	decimalComma bool
}

// parse returns ok=false for lines that are not transactions. Lines with a valid date but
// an unreadable amount or type are errors.
func (p rowParser) parse(row []string) (Row, bool, error) {
	date, ok := parseDate(p.cell(row, p.profile.DateCol))
	if !ok {
		return Row{}, false, nil
	}

	out := Row{
		Date:     date,
		Note:     p.cell(row, p.profile.NoteCol),
		Category: p.cell(row, p.profile.CategoryCol),
	}

	if p.profile.PaymentCol != "" {
		out.PaymentMethod = parsePaymentMethod(p.cell(row, p.profile.PaymentCol))
	}

	amount, typ, err := p.amount(row)
	if err != nil {
		return Row{}, false, err
	}

	if amount.IsZero() {
		return Row{}, false, nil
	}

	out.Amount = amount
	out.Type = typ

	return out, true, nil
}

func (p rowParser) amount(row []string) (decimal.Decimal, transaction.Type, error) {
	switch p.profile.AmountMode {
	case amountTyped:
		typ := transaction.Type(strings.ToLower(p.cell(row, p.profile.TypeCol)))
		if typ != transaction.TypeIncome && typ != transaction.TypeExpense {
			return decimal.Zero, "", fmt.Errorf("unknown type %q", typ)
		}

		amount, err := p.number(p.cell(row, p.profile.AmountCol))
		if err != nil {
			return decimal.Zero, "", err
		}

		return amount.Abs(), typ, nil

	case amountSigned:
		amount, err := p.number(p.cell(row, p.profile.AmountCol))
		if err != nil {
			return decimal.Zero, "", err
		}

		if amount.IsNegative() {
			return amount.Neg(), transaction.TypeExpense, nil
		}

		return amount, transaction.TypeIncome, nil

	case amountSplit:
		if s := p.cell(row, p.profile.DebitCol); s != "" {
			amount, err := p.number(s)
			if err != nil {
				return decimal.Zero, "", err
			}

			if !amount.IsZero() {
				return amount.Abs(), transaction.TypeExpense, nil
			}
		}

		if s := p.cell(row, p.profile.CreditCol); s != "" {
			amount, err := p.number(s)
			if err != nil {
				return decimal.Zero, "", err
			}

			return amount.Abs(), transaction.TypeIncome, nil
		}
	}

	return decimal.Zero, "", nil
}

func (p rowParser) number(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := parseAmount(s, p.decimalComma)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	return d, nil
}

func (p rowParser) cell(row []string, col string) string {
	idx := p.cols.lookup(col)
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parsePaymentMethod(s string) transaction.PaymentMethod {
	switch pm := transaction.PaymentMethod(strings.ToLower(s)); pm {
	case transaction.PaymentCash, transaction.PaymentBank, transaction.PaymentEWallet:
		return pm
	}

	return ""
}
