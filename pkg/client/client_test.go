package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/juries/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"jury_id":5,"promotions":[{"promotion":"Licence 3","semestres":[{"semestre":"S5","unites":[{"id":1,"code":"UE1","credits":5,"elements":[{"id":11,"credit":5}]}],"etudiants":[{"id":1,"matricule":"M001"}]}]}]}}`))
	})
	mux.HandleFunc("/api/v1/juries/5/grid/principal/S5/rows", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"build_id":"b1","jury_id":5,"semester":"S5","session":"principal","positions":9,"rows":[{"matricule":"M001","UE1_moyenne":12.5,"decision_finale":"Double"}]}}`))
	})
	mux.HandleFunc("/api/v1/juries/5/grid/principal/S5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write([]byte("PK\x03\x04workbook"))
	})
	mux.HandleFunc("/api/v1/juries/9", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"jury_not_found","message":"jury not found"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetJury(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL + "/")

	jury, err := c.GetJury(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetJury failed: %v", err)
	}
	if jury.ID != 5 || len(jury.Promotions) != 1 {
		t.Fatalf("unexpected jury: %+v", jury)
	}
	sem := jury.Promotions[0].Semesters[0]
	if sem.Code != "S5" || sem.Units[0].Credits != 5 || sem.Students[0].Matricule != "M001" {
		t.Errorf("unexpected semester: %+v", sem)
	}
}

func TestGetJuryNotFound(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	_, err := c.GetJury(context.Background(), 9)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	apiErr := err.(*APIError)
	if apiErr.Code != "jury_not_found" {
		t.Errorf("unexpected error code: %s", apiErr.Code)
	}
}

func TestGridRows(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	rows, err := c.GridRows(context.Background(), 5, "principal", "S5")
	if err != nil {
		t.Fatalf("GridRows failed: %v", err)
	}
	if rows.BuildID != "b1" || rows.Positions != 9 || len(rows.Rows) != 1 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows.Rows[0]["UE1_moyenne"] != 12.5 {
		t.Errorf("unexpected average: %v", rows.Rows[0]["UE1_moyenne"])
	}
}

func TestDownloadGrid(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	var buf bytes.Buffer
	n, err := c.DownloadGrid(context.Background(), 5, "principal", "S5", &buf)
	if err != nil {
		t.Fatalf("DownloadGrid failed: %v", err)
	}
	if n != int64(buf.Len()) || !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Errorf("unexpected download: %d bytes, %q", n, buf.String())
	}
}
