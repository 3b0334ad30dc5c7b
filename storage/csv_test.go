package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vehicle-reconciler/models"
)

const sampleCSV = `Make,Model,Year,StockNo,Price,KM,Tansmission,Fuel,Seats,Doors,Colour
Toyota,Corolla,2021,U4821,"20,000","45,000",Automatic,Petrol,5,4,White
Mazda,CX-5,,U5110,31000,12000,Automatic,Petrol,5,4,Red
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRecords(t *testing.T) {
	records, headers, err := ReadRecords(writeTempCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	if len(headers) != 11 || headers[0] != "Make" || headers[10] != "Colour" {
		t.Errorf("headers: got %v", headers)
	}

	rec := records[0]
	if rec.Make != "Toyota" || rec.Model != "Corolla" || rec.Year != "2021" || rec.StockNo != "U4821" {
		t.Errorf("typed fields: got %+v", rec)
	}
	if rec.Price != "20,000" || rec.KM != "45,000" {
		t.Errorf("price/km: got %q, %q", rec.Price, rec.KM)
	}
	if rec.StockKey() != "2021U4821" {
		t.Errorf("stock key: got %q", rec.StockKey())
	}
	if rec.Raw["Colour"] != "White" {
		t.Errorf("unknown column not preserved: %v", rec.Raw)
	}
}

func TestReadRecordsTransmissionAlias(t *testing.T) {
	records, _, err := ReadRecords(writeTempCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The historical "Tansmission" header populates the canonical field.
	if records[0].Transmission != "Automatic" {
		t.Errorf("transmission via alias: got %q", records[0].Transmission)
	}
}

func TestReadRecordsIncompleteKey(t *testing.T) {
	records, _, err := ReadRecords(writeTempCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[1].StockKey() != "" {
		t.Errorf("stock key with missing Year: got %q, want empty", records[1].StockKey())
	}
}

func TestCSVWriterAppendsResultColumns(t *testing.T) {
	records, headers, err := ReadRecords(writeTempCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records[0].SetResult("Autotrader", models.ProviderResult{
		Status: models.StatusFound,
		URL:    "https://www.autotrader.com.au/cars/1",
	})
	records[0].SetResult("Carsguide", models.ProviderResult{
		Status: models.StatusMismatched,
		Notes:  "Price: CSV=20000, API=20500",
	})
	records[1].SetResult("Autotrader", models.ProviderResult{Status: models.StatusNotSearched, Notes: "Missing Year or StockNo"})
	records[1].SetResult("Carsguide", models.ProviderResult{Status: models.StatusNotSearched, Notes: "Missing Year or StockNo"})

	out := filepath.Join(t.TempDir(), "out.csv")
	w := NewCSVWriter(out, headers, []string{"Autotrader", "Carsguide"})
	if err := w.Write(records); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("output lines: got %d, want 3 (header + one row per input record)", len(lines))
	}

	wantHeader := "Make,Model,Year,StockNo,Price,KM,Tansmission,Fuel,Seats,Doors,Colour," +
		"Autotrader,Autotrader Notes,Autotrader URL,Carsguide,Carsguide Notes,Carsguide URL"
	if lines[0] != wantHeader {
		t.Errorf("header:\n got %q\nwant %q", lines[0], wantHeader)
	}
	if !strings.Contains(lines[1], "Found") || !strings.Contains(lines[1], "https://www.autotrader.com.au/cars/1") {
		t.Errorf("row 1: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Not Searched") {
		t.Errorf("row 2: %q", lines[2])
	}
}

func TestCSVWriterIdempotentRewrite(t *testing.T) {
	records, headers, err := ReadRecords(writeTempCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range records {
		rec.SetResult("Autotrader", models.ProviderResult{Status: models.StatusFound})
		rec.SetResult("Carsguide", models.ProviderResult{Status: models.StatusNotFound, Notes: "Vehicle not found in Carsguide API"})
	}

	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	providers := []string{"Autotrader", "Carsguide"}
	if err := NewCSVWriter(first, headers, providers).Write(records); err != nil {
		t.Fatalf("first write: %v", err)
	}

	// Reprocess the augmented output with identical results: the result
	// columns already exist, so the column set must not grow and values
	// must be reproduced exactly.
	again, headers2, err := ReadRecords(first)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	for _, rec := range again {
		rec.SetResult("Autotrader", models.ProviderResult{Status: models.StatusFound})
		rec.SetResult("Carsguide", models.ProviderResult{Status: models.StatusNotFound, Notes: "Vehicle not found in Carsguide API"})
	}

	second := filepath.Join(dir, "second.csv")
	if err := NewCSVWriter(second, headers2, providers).Write(again); err != nil {
		t.Fatalf("second write: %v", err)
	}

	b1, _ := os.ReadFile(first)
	b2, _ := os.ReadFile(second)
	if string(b1) != string(b2) {
		t.Errorf("reprocessing changed the output:\nfirst:\n%s\nsecond:\n%s", b1, b2)
	}
}

func TestReadRecordsMissingFile(t *testing.T) {
	if _, _, err := ReadRecords(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected an error for a missing input file")
	}
}
