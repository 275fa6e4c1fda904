package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logicsim/internal/analysis"
	"logicsim/internal/domain"
	"logicsim/internal/metrics"
	"logicsim/internal/repository/sqlite"
	"logicsim/internal/service"
)

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	editor *service.Editor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	collector := metrics.NewCollector("logicsim")
	editor := service.NewEditor(service.WithMetrics(collector))
	h := New(editor, nil,
		WithSchemes(service.NewSchemeService(repo, editor, nil)),
		WithMetrics(collector.Handler()),
	)

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, editor: editor}
}

func (ts *testServer) do(method, path, body string) *http.Response {
	ts.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	require.NoError(ts.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	ts.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// op performs a mutation and decodes its OperationResponse
func (ts *testServer) op(method, path, body string) OperationResponse {
	ts.t.Helper()
	resp := ts.do(method, path, body)
	require.Equal(ts.t, http.StatusOK, resp.StatusCode)
	var out OperationResponse
	require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func findNode(t *testing.T, st service.State, id domain.NodeID) domain.Node {
	t.Helper()
	n, ok := st.Graph.Node(id)
	require.True(t, ok, "node %d missing", id)
	return n
}

func TestAndGateOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	a := ts.op("POST", "/api/nodes", `{"type":"INPUT","label":"A","x":0,"y":0}`)
	require.True(t, a.Applied)
	require.NotNil(t, a.NodeID)
	b := ts.op("POST", "/api/nodes", `{"type":"input","label":"B","x":0,"y":100}`)
	and := ts.op("POST", "/api/nodes", `{"type":"AND","x":100,"y":0}`)

	ts.op("POST", "/api/nodes/"+itoa(*a.NodeID)+"/toggle", "")
	ts.op("POST", "/api/connections", `{"from":1,"to":3}`)
	ts.op("POST", "/api/connections", `{"from":2,"to":3}`)

	st := ts.op("POST", "/api/simulate", "").State
	assert.False(t, findNode(t, st, *and.NodeID).State)

	ts.op("POST", "/api/nodes/"+itoa(*b.NodeID)+"/toggle", "")
	st = ts.op("POST", "/api/simulate", "").State
	assert.True(t, findNode(t, st, *and.NodeID).State)
}

func itoa(id domain.NodeID) string {
	return strconv.Itoa(int(id))
}

func TestRejectionsAreReportedInBody(t *testing.T) {
	ts := newTestServer(t)
	ts.op("POST", "/api/nodes", `{"type":"AND","x":0,"y":0}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"overlapping add", "POST", "/api/nodes", `{"type":"OR","x":10,"y":10}`},
		{"unknown type", "POST", "/api/nodes", `{"type":"XOR","x":500,"y":500}`},
		{"toggle gate", "POST", "/api/nodes/1/toggle", ""},
		{"label gate", "PUT", "/api/nodes/1/label", `{"label":"x"}`},
		{"self connection", "POST", "/api/connections", `{"from":1,"to":1}`},
		{"missing node", "DELETE", "/api/nodes/9", ""},
		{"finish without start", "POST", "/api/connect/finish", `{"id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ts.op(tt.method, tt.path, tt.body)
			assert.False(t, out.Applied)
			assert.NotEmpty(t, out.Reason)
			assert.Len(t, out.State.Graph.Nodes, 1)
		})
	}
}

func TestMalformedRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"missing coordinates", "POST", "/api/nodes", `{"type":"AND"}`},
		{"not json", "POST", "/api/nodes", `{`},
		{"unknown field", "POST", "/api/connections", `{"from":1,"to":2,"via":3}`},
		{"non-numeric id", "POST", "/api/nodes/abc/toggle", ""},
		{"finish with half a point", "POST", "/api/connect/finish", `{"x":1}`},
		{"label too long", "PUT", "/api/nodes/1/label", `{"label":"` + strings.Repeat("x", 65) + `"}`},
		{"unsupported export", "GET", "/api/export?format=xml", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUndoRedoOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	out := ts.op("POST", "/api/undo", "")
	assert.False(t, out.Applied)

	ts.op("POST", "/api/nodes", `{"type":"INPUT","x":0,"y":0}`)
	out = ts.op("POST", "/api/undo", "")
	assert.True(t, out.Applied)
	assert.Empty(t, out.State.Graph.Nodes)
	assert.True(t, out.State.CanRedo)

	out = ts.op("POST", "/api/redo", "")
	assert.True(t, out.Applied)
	assert.Len(t, out.State.Graph.Nodes, 1)
}

func TestTwoClickConnection(t *testing.T) {
	ts := newTestServer(t)
	require.True(t, ts.op("POST", "/api/select-type", `{"type":"input"}`).Applied)
	ts.op("POST", "/api/nodes", `{"x":0,"y":0}`)
	require.True(t, ts.op("POST", "/api/select-type", `{"type":"OUTPUT"}`).Applied)
	ts.op("POST", "/api/nodes", `{"x":200,"y":0}`)

	out := ts.op("POST", "/api/connect/start", `{"id":1}`)
	require.NotNil(t, out.State.PendingSource)
	assert.Equal(t, domain.NodeID(1), *out.State.PendingSource)

	out = ts.op("POST", "/api/connect/finish", `{"x":210,"y":10}`)
	assert.True(t, out.Applied)
	assert.Nil(t, out.State.PendingSource)
	assert.Equal(t, []domain.Connection{{From: 1, To: 2}}, out.State.Graph.Connections)

	g := out.State.Graph
	assert.Equal(t, domain.NodeTypeOutput, findNode(t, out.State, 2).Type)
	assert.Len(t, g.Nodes, 2)
}

func TestNodeAt(t *testing.T) {
	ts := newTestServer(t)
	ts.op("POST", "/api/nodes", `{"type":"NOT","x":100,"y":100}`)

	resp := ts.do("GET", "/api/nodes/at?x=160&y=140", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var n domain.Node
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&n))
	assert.Equal(t, domain.NodeTypeNot, n.Type)

	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/api/nodes/at?x=161&y=140", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, ts.do("GET", "/api/nodes/at?x=a", "").StatusCode)
}

func TestExportImport(t *testing.T) {
	ts := newTestServer(t)
	ts.op("POST", "/api/nodes", `{"type":"INPUT","label":"A","x":0,"y":0}`)
	ts.op("POST", "/api/nodes", `{"type":"OUTPUT","label":"Q","x":100,"y":0}`)
	ts.op("POST", "/api/connections", `{"from":1,"to":2}`)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			resp := ts.do("GET", "/api/export?format="+format, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "scheme.")
			doc, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			before := ts.editor.Graph()
			ts.op("POST", "/api/reset", "")
			out := ts.op("POST", "/api/import?format="+format, string(doc))
			assert.True(t, out.Applied)
			assert.Equal(t, before, out.State.Graph)
		})
	}

	t.Run("malformed document", func(t *testing.T) {
		before := ts.editor.State()
		resp := ts.do("POST", "/api/import", `{"nodes":[{"id":1,"type":"NAND"}],"connections":[]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, before, ts.editor.State())
	})
}

func TestSchemeRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.op("POST", "/api/nodes", `{"type":"INPUT","label":"A","x":0,"y":0}`)

	resp := ts.do("POST", "/api/schemes", `{"name":"one"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saved domain.Scheme
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, "one", saved.Name)
	assert.Equal(t, 1, saved.NodeCount)

	assert.Equal(t, http.StatusBadRequest, ts.do("POST", "/api/schemes", `{"name":""}`).StatusCode)

	resp = ts.do("GET", "/api/schemes", "")
	var list []domain.Scheme
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)

	ts.op("POST", "/api/reset", "")
	out := ts.op("POST", "/api/schemes/one/load", "")
	assert.Len(t, out.State.Graph.Nodes, 1)

	assert.Equal(t, http.StatusNotFound, ts.do("POST", "/api/schemes/two/load", "").StatusCode)
	assert.Equal(t, http.StatusNoContent, ts.do("DELETE", "/api/schemes/one", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, ts.do("DELETE", "/api/schemes/one", "").StatusCode)
}

func TestAnalysisRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.op("POST", "/api/nodes", `{"type":"INPUT","label":"A","x":0,"y":0}`)
	ts.op("POST", "/api/nodes", `{"type":"NOT","x":100,"y":0}`)
	ts.op("POST", "/api/nodes", `{"type":"OUTPUT","label":"Q","x":200,"y":0}`)
	ts.op("POST", "/api/connections", `{"from":1,"to":2}`)
	ts.op("POST", "/api/connections", `{"from":2,"to":3}`)

	resp := ts.do("GET", "/api/analysis/truth-table", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var table analysis.Table
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []bool{true}, table.Rows[0].Outputs)
	assert.Equal(t, []bool{false}, table.Rows[1].Outputs)

	resp = ts.do("GET", "/api/analysis/satisfy/3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var witness analysis.Witness
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&witness))
	require.Len(t, witness.Inputs, 1)
	assert.False(t, witness.Inputs[0].Value)

	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/api/analysis/satisfy/42", "").StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.op("POST", "/api/simulate", "")

	resp := ts.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `logicsim_editor_operations_total{op="simulate",result="applied"} 1`)
}
