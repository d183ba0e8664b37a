package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	mid "github.com/parlagraph/parlagraph/internal/server/middleware"
	"github.com/parlagraph/parlagraph/internal/server/routes"
	"github.com/parlagraph/parlagraph/pkg/graph"
	"github.com/parlagraph/parlagraph/pkg/store"
	"github.com/parlagraph/parlagraph/pkg/store/gexffile"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i any) error {
	return v.validator.Struct(i)
}

func newTestServer(t *testing.T) (*echo.Echo, store.GraphStore) {
	t.Helper()

	graphStore, err := gexffile.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	e.Use(mid.AppContextMiddleware(graphStore))

	api := e.Group("/api")
	api.GET("/graphs", routes.GetGraphsHandler)
	api.POST("/graphs", routes.CreateGraphHandler)
	api.GET("/graphs/:id", routes.GetGraphHandler)
	api.GET("/graphs/:id/stats", routes.GetGraphStatsHandler)
	return e, graphStore
}

func seedGraph(t *testing.T, graphStore store.GraphStore) store.GraphRecord {
	t.Helper()

	g := graph.NewMentionGraph()
	g.AddMention("Jaques Wagner", "Soraya Thronicke")
	g.AddMention("Jaques Wagner", "Soraya Thronicke")

	record, err := graphStore.Save(context.Background(), "senado 2023", g)
	if err != nil {
		t.Fatal(err)
	}
	return record
}

func TestGetGraphsListsRecords(t *testing.T) {
	e, graphStore := newTestServer(t)
	record := seedGraph(t, graphStore)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var records []store.GraphRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID != record.ID {
		t.Errorf("records = %v, want one with ID %s", records, record.ID)
	}
}

func TestGetGraphFormats(t *testing.T) {
	e, graphStore := newTestServer(t)
	record := seedGraph(t, graphStore)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphs/"+record.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var body struct {
		Nodes []any `json:"nodes"`
		Edges []any `json:"edges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Nodes) != 2 || len(body.Edges) != 1 {
		t.Errorf("got %d nodes, %d edges, want 2 and 1", len(body.Nodes), len(body.Edges))
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphs/"+record.ID+"?format=gexf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("gexf status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "<gexf") {
		t.Errorf("gexf body = %s", rec.Body)
	}
}

func TestGetGraphNotFound(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphs/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetGraphStats(t *testing.T) {
	e, graphStore := newTestServer(t)
	record := seedGraph(t, graphStore)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphs/"+record.ID+"/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var stats struct {
		Vertices    int `json:"vertices"`
		Edges       int `json:"edges"`
		TotalWeight int `json:"total_weight"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Vertices != 2 || stats.Edges != 1 || stats.TotalWeight != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCreateGraph(t *testing.T) {
	e, _ := newTestServer(t)

	annotated := "<PESSOA:João Silva>O SR. PRESIDENTE (João Silva. PT - SP)</PESSOA> " +
		"cumprimentou <PESSOA:Jaques Wagner>Jaques Wagner</PESSOA>."
	payload, err := json.Marshal(map[string]any{
		"name":      "sessao teste",
		"documents": []string{annotated},
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/graphs", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var record store.GraphRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatal(err)
	}
	if record.ID == "" || record.Name != "sessao teste" {
		t.Errorf("record = %+v", record)
	}
}

func TestCreateGraphRejectsEmptyBody(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/graphs", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
