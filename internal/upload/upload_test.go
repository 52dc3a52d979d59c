package upload

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/store"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	header := make([]any, len(domain.Fields))
	for i, name := range domain.Fields {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func dataRow(vendor, amount, date string) []any {
	row := make([]any, len(domain.Fields))
	for i := range row {
		row[i] = ""
	}
	row[2] = date   // DocumentDate
	row[8] = vendor // JournalEntryVendorName
	row[12] = amount
	return row
}

func TestValidateFilename(t *testing.T) {
	if err := ValidateFilename("entries.xlsx"); err != nil {
		t.Fatalf("xlsx rejected: %v", err)
	}
	if err := ValidateFilename("Entries.XLSX"); err != nil {
		t.Fatalf("extension must be case-insensitive: %v", err)
	}
	for _, name := range []string{"entries.csv", "entries.xls", "entries"} {
		if err := ValidateFilename(name); err == nil {
			t.Fatalf("%s accepted", name)
		}
	}
}

func TestProcessInsertsAllRows(t *testing.T) {
	rows := make([][]any, 7)
	for i := range rows {
		rows[i] = dataRow(fmt.Sprintf("Vendor %d", i), "100", "2024-01-10")
	}
	buf := buildWorkbook(t, rows)

	st := store.NewMemory()
	broker := NewBroker()
	svc := NewService(st, broker, 3, zerolog.Nop())

	id := broker.Open()
	n, err := svc.Process(context.Background(), id, buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("processed = %d, want 7", n)
	}

	entries, err := st.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 7 {
		t.Fatalf("stored = %d, want 7", len(entries))
	}
	// Spreadsheet row numbers start at 2; the header is row 1.
	if entries[0].ExcelRowNumber != 2 {
		t.Fatalf("first ExcelRowNumber = %d, want 2", entries[0].ExcelRowNumber)
	}
	if entries[0].JournalEntryVendorName != "Vendor 0" {
		t.Fatalf("vendor = %q", entries[0].JournalEntryVendorName)
	}
	if entries[0].JournalEntryAmount != "100" {
		t.Fatalf("amount kept as raw text, got %q", entries[0].JournalEntryAmount)
	}
}

func TestProcessPublishesProgress(t *testing.T) {
	rows := make([][]any, 6)
	for i := range rows {
		rows[i] = dataRow("V", "1", "2024-01-01")
	}
	buf := buildWorkbook(t, rows)

	broker := NewBroker()
	svc := NewService(store.NewMemory(), broker, 2, zerolog.Nop())

	id := broker.Open()
	ch, cancel, err := broker.Subscribe(id)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	if _, err := svc.Process(context.Background(), id, buf); err != nil {
		t.Fatal(err)
	}

	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	if len(events) == 0 {
		t.Fatal("no progress events")
	}
	last := events[len(events)-1]
	if last.Status != "completed" || last.Percent != 100 || last.Processed != 6 {
		t.Fatalf("final event = %+v", last)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("percent regressed: %+v", events)
		}
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	broker := NewBroker()
	svc := NewService(store.NewMemory(), broker, 0, zerolog.Nop())

	id := broker.Open()
	if _, err := svc.Process(context.Background(), id, bytes.NewBufferString("not a workbook")); err == nil {
		t.Fatal("garbage input accepted")
	}
}

func TestBrokerUnknownSession(t *testing.T) {
	broker := NewBroker()
	if _, _, err := broker.Subscribe("nope"); err == nil {
		t.Fatal("unknown session subscribed")
	}
}

func TestBrokerReplaysLastEvent(t *testing.T) {
	broker := NewBroker()
	id := broker.Open()
	broker.Publish(id, Event{Status: "processing", Processed: 10, TotalRows: 20, Percent: 50})

	ch, cancel, err := broker.Subscribe(id)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	ev := <-ch
	if ev.Percent != 50 || ev.Processed != 10 {
		t.Fatalf("replayed event = %+v", ev)
	}
}

func TestBrokerMonotonicPercent(t *testing.T) {
	broker := NewBroker()
	id := broker.Open()
	ch, cancel, err := broker.Subscribe(id)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	broker.Publish(id, Event{Percent: 60, Processed: 12})
	broker.Publish(id, Event{Percent: 40, Processed: 8})

	first := <-ch
	second := <-ch
	if first.Percent != 60 {
		t.Fatalf("first = %+v", first)
	}
	if second.Percent != 60 || second.Processed != 12 {
		t.Fatalf("second = %+v, regressing update must keep the high-water mark", second)
	}
}

func TestEntryFromRowShortRow(t *testing.T) {
	e := entryFromRow([]string{"z1", "w1"}, 5)
	if e.ZvolvWID != "z1" || e.WID != "w1" {
		t.Fatalf("entry = %+v", e)
	}
	if e.DocumentDate != "" {
		t.Fatalf("missing cells must stay empty, got %q", e.DocumentDate)
	}
	if e.ExcelRowNumber != 5 {
		t.Fatalf("row = %d", e.ExcelRowNumber)
	}
}
