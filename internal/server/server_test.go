package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsyncr/dbsyncr"
)

const mappingDoc = `
names:
  sourceA: Warehouse
  sourceB: Storefront
mappings:
  - sourceA: SKU
    sourceB: Product Code
    role: identity
  - sourceA: Price
    sourceB: Unit Price
    role: data
`

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	sx, err := dbsyncr.New(dbsyncr.WithMappingDocument([]byte(mappingDoc)))
	require.NoError(t, err)

	srv := New(sx, DefaultConfig())
	return srv, srv.Router()
}

func uploadFile(t *testing.T, router http.Handler, slot, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/"+slot, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadCascade(t *testing.T) {
	_, router := newTestServer(t)

	rec := uploadFile(t, router, "a", "warehouse.csv", "SKU,Price\nX1,10\nX2,20\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var first struct {
		UploadID string `json:"uploadId"`
		Cascaded bool   `json:"cascaded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.NotEmpty(t, first.UploadID)
	assert.False(t, first.Cascaded)

	rec = uploadFile(t, router, "b", "storefront.csv", "Product Code,Unit Price\nX1,12\nX3,30\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var second struct {
		Cascaded bool `json:"cascaded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Cascaded)
}

func TestUploadUnknownSlot(t *testing.T) {
	_, router := newTestServer(t)

	rec := uploadFile(t, router, "c", "x.csv", "SKU\nX1\n")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadUnsupportedExtension(t *testing.T) {
	_, router := newTestServer(t)

	rec := uploadFile(t, router, "a", "x.parquet", "SKU\nX1\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadMalformedCSV(t *testing.T) {
	_, router := newTestServer(t)

	rec := uploadFile(t, router, "a", "x.csv", "SKU,Price\nX1\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMappings(t *testing.T) {
	_, router := newTestServer(t)

	rec := get(router, "/mappings")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Names map[string]string `json:"names"`
		Pairs []struct {
			SourceA string `json:"sourceA"`
			Role    string `json:"role"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Warehouse", resp.Names["sourceA"])
	require.Len(t, resp.Pairs, 2)
	assert.Equal(t, "SKU", resp.Pairs[0].SourceA)
	assert.Equal(t, "identity", resp.Pairs[0].Role)
}

func TestPutMappings(t *testing.T) {
	_, router := newTestServer(t)

	doc := "mappings:\n  - sourceA: SKU\n    sourceB: Code\n    role: identity\n"
	req := httptest.NewRequest(http.MethodPut, "/mappings", strings.NewReader(doc))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPutMappingsInvalid(t *testing.T) {
	_, router := newTestServer(t)

	// Two identity pairs.
	doc := "mappings:\n" +
		"  - sourceA: SKU\n    sourceB: Code\n    role: identity\n" +
		"  - sourceA: Name\n    sourceB: Title\n    role: identity\n"
	req := httptest.NewRequest(http.MethodPut, "/mappings", strings.NewReader(doc))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDatasetNotLoaded(t *testing.T) {
	_, router := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(router, "/datasets/a").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/datasets/combined").Code)
}

func TestDatasetRoundTrip(t *testing.T) {
	_, router := newTestServer(t)

	require.Equal(t, http.StatusOK, uploadFile(t, router, "a", "w.csv", "SKU,Price\nX1,10\n").Code)

	rec := get(router, "/datasets/a")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Fields  []string          `json:"fields"`
		Records []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"SKU", "Price"}, resp.Fields)
	assert.Len(t, resp.Records, 1)
}

func TestExportCombined(t *testing.T) {
	_, router := newTestServer(t)

	require.Equal(t, http.StatusOK, uploadFile(t, router, "a", "w.csv", "SKU,Price\nX1,10\nX2,20\n").Code)
	require.Equal(t, http.StatusOK, uploadFile(t, router, "b", "s.csv", "Product Code,Unit Price\nX1,12\nX3,30\n").Code)

	rec := get(router, "/export/combined")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "dataset-combined.csv")
	assert.Equal(t, "SKU,Price,match_status\nX1,10,matched\nX2,20,left_only\nX3,30,right_only\n", rec.Body.String())
}

func TestExportXLSXContentType(t *testing.T) {
	_, router := newTestServer(t)

	require.Equal(t, http.StatusOK, uploadFile(t, router, "a", "w.csv", "SKU,Price\nX1,10\n").Code)

	rec := get(router, "/export/a?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestExportBadFormat(t *testing.T) {
	_, router := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, get(router, "/export/a?format=parquet").Code)
}

func TestExportNotLoaded(t *testing.T) {
	_, router := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(router, "/export/combined").Code)
}

func TestSummary(t *testing.T) {
	_, router := newTestServer(t)

	rec := get(router, "/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary dbsyncr.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.True(t, summary.MappingConfigured)
	assert.False(t, summary.SourceA.Loaded)
}

func TestUnmatched(t *testing.T) {
	_, router := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(router, "/unmatched").Code)

	require.Equal(t, http.StatusOK, uploadFile(t, router, "a", "w.csv", "SKU,Price\nX1,10\nX2,20\n").Code)
	require.Equal(t, http.StatusOK, uploadFile(t, router, "b", "s.csv", "Product Code,Unit Price\nX1,12\n").Code)

	rec := get(router, "/unmatched")
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis struct {
		Matched   int      `json:"matched"`
		OnlyAKeys []string `json:"onlyAKeys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, 1, analysis.Matched)
	assert.Equal(t, []string{"x2"}, analysis.OnlyAKeys)
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)

	rec := get(router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
