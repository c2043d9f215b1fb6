package gsheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

type request struct {
	method string
	path   string
	query  string
	body   string
}

// newTestSheet returns a spreadsheet backed by a fake Sheets API, and the
// list of requests it received.
func newTestSheet(t *testing.T, handler http.HandlerFunc) (*Spreadsheet, *[]request) {
	t.Helper()
	var reqs []request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, request{r.Method, r.URL.Path, r.URL.RawQuery, string(b)})
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	s, err := New(context.Background(), "sheet-id",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return s, &reqs
}

func TestNew_MissingID(t *testing.T) {
	if _, err := New(context.Background(), "", option.WithHTTPClient(http.DefaultClient)); err == nil {
		t.Error("New() expected an error for an empty id, got nil")
	}
}

func TestSpreadsheet_Read(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"value", `{"range":"Sheet1!B1","majorDimension":"ROWS","values":[["AAPL"]]}`, "AAPL"},
		{"empty", `{"range":"Sheet1!B1","majorDimension":"ROWS"}`, ""},
		{"number", `{"range":"Sheet1!B1","values":[[42]]}`, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, reqs := newTestSheet(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			got, err := s.Read(context.Background(), "Sheet1!B1")
			if err != nil {
				t.Fatalf("Read() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Read() = %q, want %q", got, tt.want)
			}
			if len(*reqs) != 1 {
				t.Fatalf("got %d requests, want 1", len(*reqs))
			}
			r := (*reqs)[0]
			if r.method != http.MethodGet || r.path != "/v4/spreadsheets/sheet-id/values/Sheet1!B1" {
				t.Errorf("request = %s %s", r.method, r.path)
			}
		})
	}
}

func TestSpreadsheet_Read_Error(t *testing.T) {
	s, _ := newTestSheet(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`)
	})
	_, err := s.Read(context.Background(), "Sheet1!B1")
	if err == nil || !strings.Contains(err.Error(), "Sheet1!B1") {
		t.Errorf("Read() error = %v, want an error naming the range", err)
	}
}

func TestSpreadsheet_Write(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string // JSON of the written cell
	}{
		{"decimal", decimal.RequireFromString("2645000000"), `2645000000`},
		{"fraction", decimal.RequireFromString("0.04123"), `0.04123`},
		{"clear", "", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, reqs := newTestSheet(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"spreadsheetId":"sheet-id","updatedRange":"Sheet1!B3","updatedCells":1}`)
			})
			if err := s.Write(context.Background(), "Sheet1!B3", tt.value); err != nil {
				t.Fatalf("Write() unexpected error: %v", err)
			}
			if len(*reqs) != 1 {
				t.Fatalf("got %d requests, want 1", len(*reqs))
			}
			r := (*reqs)[0]
			if r.method != http.MethodPut || r.path != "/v4/spreadsheets/sheet-id/values/Sheet1!B3" {
				t.Errorf("request = %s %s", r.method, r.path)
			}
			if !strings.Contains(r.query, "valueInputOption=USER_ENTERED") {
				t.Errorf("query %q does not use USER_ENTERED", r.query)
			}
			var body struct {
				Values [][]json.RawMessage `json:"values"`
			}
			if err := json.Unmarshal([]byte(r.body), &body); err != nil {
				t.Fatalf("invalid body %q: %v", r.body, err)
			}
			if len(body.Values) != 1 || len(body.Values[0]) != 1 || string(body.Values[0][0]) != tt.want {
				t.Errorf("body = %s, want values [[%s]]", r.body, tt.want)
			}
		})
	}
}

func TestSpreadsheet_Write_Error(t *testing.T) {
	s, _ := newTestSheet(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"Unable to parse range: Sheet9!B3","status":"INVALID_ARGUMENT"}}`)
	})
	if err := s.Write(context.Background(), "Sheet9!B3", "x"); err == nil {
		t.Error("Write() expected an error, got nil")
	}
}
