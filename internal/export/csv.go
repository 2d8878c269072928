// Package export moves customers in and out of spreadsheets.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chitsmart/models"

	"github.com/jszwec/csvutil"
)

// CustomerRow is one CSV line. Scheme is kept as text so that grouped
// amounts such as "1,00,000" can be read back.
type CustomerRow struct {
	Name          string `csv:"name"`
	Number        string `csv:"number"`
	Scheme        string `csv:"scheme"`
	LiftStatus    string `csv:"liftStatus,omitempty"`
	DisbursedDate string `csv:"disbursedDate,omitempty"`
}

// RowError reports a CSV line that could not be turned into a customer.
// Line counts the header as line 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// ParseAmount accepts plain or comma-grouped whole rupees.
func ParseAmount(v string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 10, 64)
}

// DecodeCustomersCSV reads every row. Invalid rows are returned as
// RowErrors next to the valid customers so that an import can continue.
func DecodeCustomersCSV(r io.Reader) ([]models.Customer, []error, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	var rows []CustomerRow
	if err := dec.Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	var customers []models.Customer
	var rowErrs []error
	for i, row := range rows {
		c, err := row.customer()
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: i + 2, Err: err})
			continue
		}
		customers = append(customers, c)
	}
	return customers, rowErrs, nil
}

func (row CustomerRow) customer() (models.Customer, error) {
	c := models.Customer{
		Name:          strings.TrimSpace(row.Name),
		Number:        strings.TrimSpace(row.Number),
		DisbursedDate: strings.TrimSpace(row.DisbursedDate),
	}
	if c.Name == "" {
		return c, errors.New("name is empty")
	}
	if c.Number == "" {
		return c, errors.New("number is empty")
	}
	amount, err := ParseAmount(row.Scheme)
	if err != nil {
		return c, fmt.Errorf("invalid scheme amount %q", row.Scheme)
	}
	c.Scheme = amount
	if row.LiftStatus != "" {
		st, ok := models.ParseLiftStatus(row.LiftStatus)
		if !ok {
			return c, fmt.Errorf("unknown lift status %q", row.LiftStatus)
		}
		c.LiftStatus = st
	}
	return c, nil
}

// EncodeCustomersCSV writes a header line followed by one line per customer.
func EncodeCustomersCSV(w io.Writer, customers []models.Customer) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(CustomerRow{}); err != nil {
		return err
	}
	for _, c := range customers {
		row := CustomerRow{
			Name:          c.Name,
			Number:        c.Number,
			Scheme:        strconv.FormatInt(c.Scheme, 10),
			LiftStatus:    string(c.LiftStatus),
			DisbursedDate: c.DisbursedDate,
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode %s: %w", c.Number, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
