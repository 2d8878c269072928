package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"chitsmart/models"

	"github.com/xuri/excelize/v2"
)

func TestDecodeCustomersCSV(t *testing.T) {
	in := "name,number,scheme,liftStatus,disbursedDate\n" +
		"Suresh Patel,9876543210,\"1,00,000\",running,\n" +
		"Deepika Singh,+919123456780,200000,Lifted,15-Jan-2024\n" +
		",9000000000,50000,,\n" +
		"Ravi,9000000001,lots,,\n"

	customers, rowErrs, err := DecodeCustomersCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].Scheme != 100000 || customers[0].LiftStatus != models.LiftStatusRunning {
		t.Errorf("first row: %+v", customers[0])
	}
	if customers[1].DisbursedDate != "15-Jan-2024" {
		t.Errorf("second row: %+v", customers[1])
	}
	if len(rowErrs) != 2 {
		t.Fatalf("expected 2 row errors, got %v", rowErrs)
	}
	var re *RowError
	if !errors.As(rowErrs[0], &re) || re.Line != 4 {
		t.Errorf("row error line: %v", rowErrs[0])
	}
}

func TestDecodeEmptyCSV(t *testing.T) {
	customers, rowErrs, err := DecodeCustomersCSV(strings.NewReader(""))
	if err != nil || customers != nil || rowErrs != nil {
		t.Fatalf("got %v %v %v", customers, rowErrs, err)
	}
}

func TestEncodeCustomersCSV(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeCustomersCSV(&buf, []models.Customer{
		{Name: "Suresh Patel", Number: "9876543210", Scheme: 100000, LiftStatus: models.LiftStatusRunning},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "name,number,scheme,liftStatus,disbursedDate\nSuresh Patel,9876543210,100000,Running,\n"
	if buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}

	back, _, err := DecodeCustomersCSV(&buf)
	if err != nil || len(back) != 1 || back[0].Scheme != 100000 {
		t.Fatalf("read back: %v %+v", err, back)
	}
}

func TestCustomersXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := CustomersXLSX(&buf, []models.Customer{
		{Name: "Suresh Patel", Number: "9876543210", Scheme: 100000, LiftStatus: models.LiftStatusRunning},
		{Name: "Anon", Number: "9000000001", Scheme: 50000},
	})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[1][0] != "Suresh Patel" || rows[1][2] != "100000" {
		t.Errorf("unexpected rows: %v", rows)
	}
	if rows[2][3] != "Unknown" || rows[2][4] != "N/A" {
		t.Errorf("defaults not applied: %v", rows[2])
	}
}
