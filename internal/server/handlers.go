package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dbsyncr/dbsyncr"
	"github.com/dbsyncr/dbsyncr/pkg/loader"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
	"github.com/dbsyncr/dbsyncr/pkg/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// parseSlot resolves the {slot} path segment. Input slots only unless
// allowCombined is set.
func parseSlot(r *http.Request, allowCombined bool) (store.Slot, bool) {
	switch strings.ToLower(chi.URLParam(r, "slot")) {
	case "a":
		return dbsyncr.SlotA, true
	case "b":
		return dbsyncr.SlotB, true
	case "combined":
		return dbsyncr.SlotCombined, allowCombined
	default:
		return "", false
	}
}

// handleUpload stores a multipart file upload into an input slot. The file
// format is detected from the uploaded filename.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	slot, ok := parseSlot(r, false)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown upload slot")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	format, ok := loader.DetectFormat(header.Filename)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported file format")
		return
	}

	result, err := s.syncr.LoadInto(slot, file, format)
	if err != nil {
		writeErr(w, err)
		return
	}

	logging.Info().
		Str("slot", string(slot)).
		Str("filename", header.Filename).
		Str("upload_id", result.UploadID.String()).
		Bool("cascaded", result.Cascaded).
		Msg("Dataset uploaded")

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMappings(w http.ResponseWriter, r *http.Request) {
	m, err := s.syncr.Mapping()
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"names": map[string]string{
			"sourceA": m.DisplayNameA(),
			"sourceB": m.DisplayNameB(),
		},
		"mappings": m.Pairs,
	})
}

// handlePutMappings installs a mapping from its YAML document form. A valid
// mapping that cannot reconcile the loaded datasets is still installed; the
// conflict is reported so the caller can fix either side.
func (s *Server) handlePutMappings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}

	m, err := mappings.ParseDocument(body)
	if err != nil {
		writeErr(w, err)
		return
	}

	if err := s.syncr.SetMapping(m); err != nil {
		writeErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	slot, ok := parseSlot(r, true)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown dataset slot")
		return
	}

	if slot == dbsyncr.SlotCombined {
		result, err := s.syncr.Combined()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	ds, err := s.syncr.Dataset(slot)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fields":  ds.FieldNames(),
		"records": ds.Records(),
	})
}

// handleExport streams a slot as a CSV or XLSX download. The body is built
// before any header is written so errors still produce a clean JSON status.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	slot, ok := parseSlot(r, true)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown export slot")
		return
	}

	format := loader.FormatCSV
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "csv":
	case "xlsx":
		format = loader.FormatXLSX
	default:
		writeError(w, http.StatusBadRequest, "unsupported export format")
		return
	}

	var buf bytes.Buffer
	if err := s.syncr.Export(slot, &buf, format); err != nil {
		writeErr(w, err)
		return
	}

	filename := "dataset-" + strings.ToLower(string(slot)) + "." + string(format)
	contentType := "text/csv"
	if format == loader.FormatXLSX {
		contentType = xlsxContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Err(err).Str("slot", string(slot)).Msg("Writing export response failed")
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.syncr.Summary())
}

func (s *Server) handleUnmatched(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.syncr.Analyze()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}
