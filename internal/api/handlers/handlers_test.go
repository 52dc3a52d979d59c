package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dkapoor/ledgerlens/internal/catalogue"
	"github.com/dkapoor/ledgerlens/internal/classifier"
	"github.com/dkapoor/ledgerlens/internal/dispatch"
	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/query"
	"github.com/dkapoor/ledgerlens/internal/store"
	"github.com/dkapoor/ledgerlens/internal/upload"
)

func testHandler(primary classifier.Classifier, entries []domain.Entry) *Handler {
	st := store.NewMemory()
	st.Seed(entries)
	log := zerolog.Nop()
	return New(
		dispatch.New(primary, catalogue.New(), st, log),
		upload.NewService(st, upload.NewBroker(), 0, log),
		query.NewService(st),
		log,
	)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAskEndpoint(t *testing.T) {
	decision := &domain.Decision{
		Intent:         "top vendors",
		Message:        "Here are the vendors with the most entries.",
		QueryType:      domain.QueryAggregate,
		HelperFunction: "topVendors",
		Parameters:     map[string]any{},
		Graph:          true,
		GraphType:      "bar",
		Confidence:     0.9,
	}
	stub := classifier.Func(func(context.Context, string) (*domain.Decision, error) {
		return decision, nil
	})
	h := testHandler(stub, []domain.Entry{
		{JournalEntryVendorName: "Acme"},
		{JournalEntryVendorName: "Acme"},
	})

	rec := doJSON(t, h.Routes(), http.MethodPost, "/api/ask", map[string]string{"question": "top vendors"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Answer         string `json:"answer"`
		PresentType    string `json:"presentType"`
		HelperFunction string `json:"helperFunction"`
		Graph          *domain.Graph
		Data           []struct {
			VendorName string `json:"vendorName"`
			Count      int    `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.HelperFunction != "topVendors" {
		t.Fatalf("helper = %q", resp.HelperFunction)
	}
	if len(resp.Data) != 1 || resp.Data[0].Count != 2 {
		t.Fatalf("data = %+v", resp.Data)
	}
	if resp.Answer != "Here are the vendors with the most entries." {
		t.Fatalf("answer = %q", resp.Answer)
	}
	if resp.PresentType != "bar" {
		t.Fatalf("presentType = %q, want bar", resp.PresentType)
	}

	// The client contract keys must be present verbatim.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"answer", "data", "graph", "presentType"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("response missing %q key: %s", key, rec.Body)
		}
	}
}

func TestAskRejectionIsOK(t *testing.T) {
	stub := classifier.Func(func(context.Context, string) (*domain.Decision, error) {
		return &domain.Decision{Message: "guidance", Confidence: 0.4}, nil
	})
	h := testHandler(stub, nil)

	rec := doJSON(t, h.Routes(), http.MethodPost, "/api/ask", map[string]string{"question": "nonsense"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rejection status = %d, want 200", rec.Code)
	}
	var resp struct {
		Answer      string `json:"answer"`
		PresentType string `json:"presentType"`
		Data        []any  `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "guidance" || len(resp.Data) != 0 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.PresentType != "table" {
		t.Fatalf("presentType = %q, want table", resp.PresentType)
	}
}

func TestAskValidation(t *testing.T) {
	h := testHandler(nil, nil)
	rec := doJSON(t, h.Routes(), http.MethodPost, "/api/ask", map[string]string{"question": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPaginateEndpoint(t *testing.T) {
	entries := make([]domain.Entry, 3)
	for i := range entries {
		entries[i] = domain.Entry{ExcelRowNumber: i + 2}
	}
	h := testHandler(nil, entries)

	rec := doJSON(t, h.Routes(), http.MethodPost, "/api/query/paginate", map[string]any{"page": 1, "limit": 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp query.PageResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 || resp.Pagination.Total != 3 || resp.Pagination.TotalPages != 2 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestFilterEndpoint(t *testing.T) {
	h := testHandler(nil, []domain.Entry{
		{ExcelRowNumber: 2, JournalEntryAmount: "100"},
		{ExcelRowNumber: 3, JournalEntryAmount: "900"},
	})

	rec := doJSON(t, h.Routes(), http.MethodPost, "/api/query/filter", map[string]any{"minAmount": 500})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp query.PageResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 1 || resp.Data[0].ExcelRowNumber != 3 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestColumnsEndpoint(t *testing.T) {
	h := testHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/query/columns", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	var resp struct {
		Columns []string `json:"columns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Columns) != 23 {
		t.Fatalf("columns = %d, want 23", len(resp.Columns))
	}
}

func TestUploadRejectsWrongExtension(t *testing.T) {
	h := testHandler(nil, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "entries.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("a,b,c")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "xlsx") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestUploadProgressUnknownSession(t *testing.T) {
	h := testHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/upload/progress?uploadId=missing", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestOpenUploadSession(t *testing.T) {
	h := testHandler(nil, nil)

	rec := doJSON(t, h.Routes(), http.MethodPost, "/api/upload/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["uploadId"] == "" {
		t.Fatal("no uploadId returned")
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := testHandler(nil, []domain.Entry{
		{JournalEntryVendorName: "Acme", JournalEntryAmount: "100"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/query/stats", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	var resp query.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalEntries != 1 || resp.UniqueCounts.Vendors != 1 {
		t.Fatalf("resp = %+v", resp)
	}
}
