package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const titanic = `PassengerId,Pclass,Age,Embarked
1,1,38,C
2,1,,S
3,3,22,S
4,3,26,
5,3,,Q
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(Options{Logger: zap.NewNop()}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "text/csv", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	return resp, doc
}

func TestImpute(t *testing.T) {
	ts := newTestServer(t)
	resp, doc := post(t, ts, "/v1/impute?target=Pclass", titanic)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	assert.Equal(t, resp.Header.Get(RequestIDHeader), doc["request_id"])
	assert.EqualValues(t, 5, doc["rows"])
	assert.EqualValues(t, 3, doc["filled"])

	values := doc["imputation_values"].(map[string]any)
	age := values["Age"].(map[string]any)
	assert.EqualValues(t, 38, age["1"])
	assert.EqualValues(t, 24, age["3"])
	emb := values["Embarked"].(map[string]any)
	assert.Equal(t, "S", emb["3"])

	data := doc["data"].(string)
	assert.True(t, strings.HasPrefix(data, "PassengerId,Pclass,Age,Embarked\n"))
	assert.Contains(t, data, "2,1,38,S\n")
	assert.Contains(t, data, "5,3,24,Q\n")
}

func TestImputeProblems(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		name   string
		path   string
		body   string
		status int
		typ    string
	}{
		{"missing target", "/v1/impute", titanic, http.StatusBadRequest, TypeValidation},
		{"bad policy", "/v1/impute?target=Pclass&policy=maybe", titanic, http.StatusBadRequest, TypeValidation},
		{"unknown target", "/v1/impute?target=Foo", titanic, http.StatusUnprocessableEntity, TypeInvalidTarget},
		{"malformed csv", "/v1/impute?target=a", "a,b\n\"x,1\n", http.StatusBadRequest, TypeParseFailure},
		{"degenerate", "/v1/impute?target=c&policy=error", "c,v\na,1\nb,\n", http.StatusUnprocessableEntity, TypeDegenerateClass},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, doc := post(t, ts, tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.typ, doc["type"])
			assert.EqualValues(t, tc.status, doc["status"])
			assert.NotEmpty(t, doc["detail"])
		})
	}
}

func TestDegenerateLeaveNullIsOK(t *testing.T) {
	ts := newTestServer(t)
	resp, doc := post(t, ts, "/v1/impute?target=c", "c,v\na,1\nb,\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, doc["unfilled"])
	v := doc["imputation_values"].(map[string]any)["v"].(map[string]any)
	assert.Nil(t, v["b"])
}

func TestMissing(t *testing.T) {
	ts := newTestServer(t)
	resp, doc := post(t, ts, "/v1/missing", titanic)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	missing := doc["missing"].([]any)
	require.Len(t, missing, 2)
	first := missing[0].(map[string]any)
	assert.Equal(t, "Age", first["column"])
	assert.EqualValues(t, 2, first["count"])
	assert.EqualValues(t, 40, first["percent"])
}

func TestPayloadTooLarge(t *testing.T) {
	ts := httptest.NewServer(New(Options{MaxBodyBytes: 16}).Handler())
	defer ts.Close()
	resp, doc := post(t, ts, "/v1/impute?target=Pclass", titanic)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, TypePayloadTooLarge, doc["type"])
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	post(t, ts, "/v1/impute?target=Pclass", titanic)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(b)
	assert.Contains(t, body, `classimpute_http_requests_total{route="/v1/impute",status="200"} 1`)
	assert.Contains(t, body, "classimpute_cells_filled_total 3")
	assert.Contains(t, body, `classimpute_runs_total{outcome="ok"} 1`)
}

func TestRequestIDIsKept(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	id := "6f1c1e52-2b8e-4d43-9a51-3f0f5a2d9c11"
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}
