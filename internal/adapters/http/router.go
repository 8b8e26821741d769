package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/printdesk/labelpress/internal/core/domain"
	"github.com/printdesk/labelpress/internal/core/ports"
	"github.com/printdesk/labelpress/internal/observability/metrics"
)

// maxUploadBytes bounds one multipart request. Two-up label sheets from
// carrier portals stay well under this.
const maxUploadBytes = 64 << 20

// Merges are CPU-bound; shed load instead of queueing without bound.
const (
	maxInFlightRequests = 32
	backpressureWait    = 100 * time.Millisecond
)

type Router struct {
	merger    ports.LabelMerger
	metadata  ports.MetadataService
	submitter ports.JobSubmitter
	jobs      ports.JobReader

	service string
	metrics *metrics.HTTPServerMetrics

	rateLimitRPS   float64
	rateLimitBurst int
}

func NewRouter(
	merger ports.LabelMerger,
	metadata ports.MetadataService,
	submitter ports.JobSubmitter,
	jobs ports.JobReader,
	service string,
	m *metrics.HTTPServerMetrics,
	rateLimitRPS float64,
	rateLimitBurst int,
) *Router {
	return &Router{
		merger:         merger,
		metadata:       metadata,
		submitter:      submitter,
		jobs:           jobs,
		service:        service,
		metrics:        m,
		rateLimitRPS:   rateLimitRPS,
		rateLimitBurst: rateLimitBurst,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/merge", rt.mergeOne)
	mux.HandleFunc("/v1/extract/metadata", rt.extractMetadata)
	mux.HandleFunc("/v1/extract/identifiers", rt.extractIdentifiers)
	mux.HandleFunc("/v1/extract/slip-marker", rt.extractSlipMarker)
	mux.HandleFunc("/v1/jobs/bulk", rt.submitBulkJob)
	mux.HandleFunc("/v1/jobs/", rt.getJobByID)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, maxInFlightRequests, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst, rt.onRateLimited)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) onRateLimited() {
	if rt.metrics != nil {
		rt.metrics.RecordRateLimited(rt.service)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) mergeOne(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	label, slip, ok := rt.readSheetPair(w, r, "label", "slip")
	if !ok {
		return
	}
	opts, err := mergeOptionsFromForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := rt.merger.MergeOne(r.Context(), label, slip, opts)
	if rt.metrics != nil {
		var sheet, placement string
		if result != nil {
			sheet = string(result.Layout.Sheet)
			placement = string(result.Layout.Placement)
		}
		rt.metrics.RecordMerge(rt.service, sheet, placement, err, time.Since(start))
	}
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Bytes)))
	if result.Metadata.OrderID != "" {
		w.Header().Set("X-Order-Id", result.Metadata.OrderID)
		w.Header().Set("X-Order-Source", string(result.Metadata.Source))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Bytes)
}

func (rt *Router) extractMetadata(w http.ResponseWriter, r *http.Request) {
	data, ok := rt.readSingleSheet(w, r)
	if !ok {
		return
	}

	meta, err := rt.metadata.ExtractMetadata(r.Context(), data)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if meta == nil {
		// No identifier at all is an answer, not an error.
		writeJSON(w, http.StatusOK, map[string]any{"metadata": nil})
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordExtraction(rt.service, "metadata", string(meta.Source))
	}
	writeJSON(w, http.StatusOK, map[string]any{"metadata": meta})
}

func (rt *Router) extractIdentifiers(w http.ResponseWriter, r *http.Request) {
	data, ok := rt.readSingleSheet(w, r)
	if !ok {
		return
	}

	ids, err := rt.metadata.FindAllIdentifiers(r.Context(), data)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"identifiers": ids})
}

func (rt *Router) extractSlipMarker(w http.ResponseWriter, r *http.Request) {
	data, ok := rt.readSingleSheet(w, r)
	if !ok {
		return
	}

	isSlip, err := rt.metadata.LooksLikeSlipMarker(r.Context(), data)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"slip_marker": isSlip})
}

func (rt *Router) submitBulkJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	labelFile, labelHeader, err := r.FormFile("labels")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'labels' is required"})
		return
	}
	defer labelFile.Close()
	slipFile, slipHeader, err := r.FormFile("slips")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'slips' is required"})
		return
	}
	defer slipFile.Close()

	job, err := rt.submitter.Submit(r.Context(), labelHeader.Filename, labelFile, slipHeader.Filename, slipFile)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordJobSubmitted(rt.service)
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) getJobByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "job id is required"})
		return
	}

	job, err := rt.jobs.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// readSheetPair pulls two named PDF uploads out of a multipart request.
func (rt *Router) readSheetPair(w http.ResponseWriter, r *http.Request, firstField, secondField string) (first, second []byte, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return nil, nil, false
	}

	first, ok = rt.readFormPDF(w, r, firstField)
	if !ok {
		return nil, nil, false
	}
	second, ok = rt.readFormPDF(w, r, secondField)
	if !ok {
		return nil, nil, false
	}
	return first, second, true
}

func (rt *Router) readSingleSheet(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return nil, false
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return nil, false
	}
	return rt.readFormPDF(w, r, "file")
}

func (rt *Router) readFormPDF(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	file, _, err := r.FormFile(field)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("multipart field '%s' is required", field)})
		return nil, false
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("read multipart field '%s'", field)})
		return nil, false
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("multipart field '%s' is empty", field)})
		return nil, false
	}
	return data, true
}

func mergeOptionsFromForm(r *http.Request) (*domain.MergeOptions, error) {
	forceBulkRaw := strings.TrimSpace(r.FormValue("force_bulk"))
	positionRaw := strings.TrimSpace(r.FormValue("position"))
	if forceBulkRaw == "" && positionRaw == "" {
		return nil, nil
	}

	opts := &domain.MergeOptions{}
	if forceBulkRaw != "" {
		forceBulk, err := strconv.ParseBool(forceBulkRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid force_bulk value %q", forceBulkRaw)
		}
		opts.ForceBulk = forceBulk
	}
	switch positionRaw {
	case "":
	case string(domain.PositionTop):
		opts.Position = domain.PositionTop
	case string(domain.PositionBottom):
		opts.Position = domain.PositionBottom
	default:
		return nil, fmt.Errorf("invalid position value %q", positionRaw)
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
