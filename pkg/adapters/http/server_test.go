package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keysort/internal/runtime"
	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/metrics"
)

var (
	arrangement = domain.Trait{Name: "arrangement", TrueLabel: "opposite", FalseLabel: "alternate"}
	leafType    = domain.Trait{Name: "leaf_type", TrueLabel: "compound", FalseLabel: "simple"}
)

func plant(genus, species, arr, leaf string) domain.Item {
	return domain.NewItem(genus, species).
		With("arrangement", domain.Label(arr)).
		With("leaf_type", domain.Label(leaf))
}

func treeKey(t *testing.T) *domain.Key {
	t.Helper()
	key, err := runtime.NewBuilder().Build(context.Background(), []domain.Item{
		plant("Prunus", "serotina", "alternate", "simple"),
		plant("Carya", "ovata", "alternate", "compound"),
		plant("Fraxinus", "americana", "opposite", "compound"),
		plant("Acer", "rubrum", "opposite", "simple"),
	}, []domain.Trait{arrangement, leafType})
	require.NoError(t, err)
	return key
}

func newHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(treeKey(t), opts...)
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/identify"))
	assert.NotNil(t, doc.Paths.Find("/key"))
}

func TestNewHandler_EmptyKey(t *testing.T) {
	_, err := NewHandler(domain.NewKey())
	assert.Error(t, err)
}

func TestGetKey(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodGet, "/key", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.True(t, strings.HasPrefix(w.Body.String(), "arrangement: opposite\n"))

	w = do(h, http.MethodGet, "/key?format=markdown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "*Acer rubrum*")

	w = do(h, http.MethodGet, "/key?format=json", "")
	require.Equal(t, http.StatusOK, w.Code)
	loaded := domain.NewKey()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), loaded))
	assert.Equal(t, 7, loaded.Len())

	w = do(h, http.MethodGet, "/key?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGraph(t *testing.T) {
	w := do(newHandler(t), http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))
}

func TestIdentify(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantItem   string
	}{
		{"answers", `{"answers": {"arrangement": true, "leaf_type": false}}`, http.StatusOK, "Acer rubrum"},
		{"labels", `{"labels": {"arrangement": "alternate", "leaf_type": "compound"}}`, http.StatusOK, "Carya ovata"},
		{"sanitized label", `{"labels": {"arrangement": " alternate\u0007", "leaf_type": "simple"}}`, http.StatusOK, "Prunus serotina"},
		{"missing answer", `{"answers": {"arrangement": true}}`, http.StatusUnprocessableEntity, ""},
		{"unrecognized label", `{"labels": {"arrangement": "whorled"}}`, http.StatusBadRequest, ""},
		{"both", `{"answers": {}, "labels": {}}`, http.StatusBadRequest, ""},
		{"neither", `{}`, http.StatusBadRequest, ""},
		{"unknown field", `{"answer": {}}`, http.StatusBadRequest, ""},
		{"malformed", `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/identify", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantItem == "" {
				return
			}
			var resp struct {
				Resolved bool        `json:"resolved"`
				Item     domain.Item `json:"item"`
				Path     []domain.Step
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Resolved)
			assert.Equal(t, tt.wantItem, resp.Item.Name())
			assert.Len(t, resp.Path, 2)
		})
	}
}

func TestIdentify_MissingAnswerKeepsPartialPath(t *testing.T) {
	w := do(newHandler(t), http.MethodPost, "/identify", `{"answers": {"arrangement": false}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var p struct {
		Error          string `json:"error"`
		Identification struct {
			Path []domain.Step `json:"path"`
		} `json:"identification"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Contains(t, p.Error, "leaf_type")
	require.Len(t, p.Identification.Path, 1)
	assert.Equal(t, "alternate", p.Identification.Path[0].Label)
}

func TestIdentify_NoMatch(t *testing.T) {
	key, err := runtime.NewBuilder().Build(context.Background(), []domain.Item{
		plant("Prunus", "serotina", "alternate", "simple"),
		plant("Carya", "ovata", "alternate", "compound"),
	}, []domain.Trait{arrangement, leafType})
	require.NoError(t, err)
	h, err := NewHandler(key)
	require.NoError(t, err)

	w := do(h, http.MethodPost, "/identify", `{"answers": {"arrangement": true}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "no item matches")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)
	h := newHandler(t, WithMetrics(c), WithGatherer(reg))

	do(h, http.MethodPost, "/identify", `{"answers": {"arrangement": true, "leaf_type": true}}`)
	do(h, http.MethodPost, "/identify", `{"answers": {}}`)

	w := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `keysort_identifications_total{result="resolved"} 1`)
	assert.Contains(t, w.Body.String(), `keysort_identifications_total{result="missing_answer"} 1`)

	count, err := testutil.GatherAndCount(reg, "keysort_identifications_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NotMountedWithoutGatherer(t *testing.T) {
	w := do(newHandler(t), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenAPIAndHealth(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, http.MethodOptions, "/identify", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConcurrentIdentify(t *testing.T) {
	h := newHandler(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := do(h, http.MethodPost, "/identify", `{"labels": {"arrangement": "opposite", "leaf_type": "compound"}}`)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()
}
