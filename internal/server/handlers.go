package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/seqsee/pkg/buildinfo"
	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
	pkgio "github.com/matzehuels/seqsee/pkg/io"
	"github.com/matzehuels/seqsee/pkg/observability"
	"github.com/matzehuels/seqsee/pkg/pipeline"
)

// Response headers set by the render endpoint.
const (
	HeaderCache        = "X-Seqsee-Cache"
	HeaderFailedCharts = "X-Seqsee-Failed-Charts"
)

var contentTypes = map[string]string{
	pipeline.FormatHTML:   "text/html; charset=utf-8",
	pipeline.FormatSVG:    "image/svg+xml",
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatDOTSVG: "image/svg+xml",
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

type chartStatus struct {
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	OK       bool      `json:"ok"`
	CacheHit bool      `json:"cache_hit,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
	Error    *apiError `json:"error,omitempty"`
}

type layoutResponse struct {
	Document json.RawMessage `json:"document"`
	Charts   []chartStatus   `json:"charts"`
}

type validateResponse struct {
	Valid  bool          `json:"valid"`
	Charts []chartStatus `json:"charts"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r, []string{format})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	coll, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), coll, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set(HeaderCache, cacheStatus(result))
	if n := result.Stats.FailedCount; n > 0 {
		w.Header().Set(HeaderFailedCharts, strconv.Itoa(n))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r, []string{pipeline.FormatJSON})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	coll, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), coll, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Document: result.Artifacts[pipeline.FormatJSON],
		Charts:   s.statuses(r, result.Charts),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	coll, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results, err := pipeline.PrepareCollection(r.Context(), coll, s.cfg.Workers, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := validateResponse{Valid: true, Charts: s.statuses(r, results)}
	for _, c := range results {
		if c.Err != nil {
			resp.Valid = false
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Request decoding
// =============================================================================

func (s *Server) options(r *http.Request, formats []string) (pipeline.Options, error) {
	q := r.URL.Query()
	grid, err := queryBool(q.Get("grid"), true)
	if err != nil {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "grid: %v", err)
	}
	labels, err := queryBool(q.Get("labels"), true)
	if err != nil {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "labels: %v", err)
	}
	refresh, err := queryBool(q.Get("refresh"), false)
	if err != nil {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "refresh: %v", err)
	}
	return pipeline.Options{
		Formats:  formats,
		NoGrid:   !grid,
		NoLabels: !labels,
		Refresh:  refresh,
		Workers:  s.cfg.Workers,
		Logger:   s.logger.With("request_id", RequestID(r.Context())),
	}, nil
}

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*chart.Collection, error) {
	format, err := inputFormat(r)
	if err != nil {
		return nil, err
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	return pkgio.ReadDocument(body, format)
}

// inputFormat picks the document syntax from the "input" query parameter or
// the Content-Type header, defaulting to JSON.
func inputFormat(r *http.Request) (pkgio.Format, error) {
	if name := r.URL.Query().Get("input"); name != "" {
		return pkgio.ParseFormat(name)
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return pkgio.FormatJSON, nil
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return pkgio.FormatYAML, nil
	case "application/toml", "text/toml":
		return pkgio.FormatTOML, nil
	}
	return pkgio.FormatJSON, nil
}

func queryBool(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) statuses(r *http.Request, results []pipeline.ChartResult) []chartStatus {
	out := make([]chartStatus, len(results))
	for i, c := range results {
		st := chartStatus{Index: c.Index, Name: c.Name, OK: c.Err == nil, CacheHit: c.CacheHit}
		if c.Err != nil {
			e := toAPIError(c.Err)
			e.RequestID = RequestID(r.Context())
			st.Error = &e
		} else if c.Layout != nil {
			st.Warnings = c.Layout.Warnings
		}
		out[i] = st
	}
	return out
}

func cacheStatus(result *pipeline.Result) string {
	if result.CacheInfo.RenderHit {
		return "hit"
	}
	return "miss"
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.IsFatalInput(err) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeUnsupported, errors.ErrCodeFileNotFound:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func toAPIError(err error) apiError {
	code := errors.GetCode(err)
	if code == "" {
		return apiError{Code: string(errors.ErrCodeInternal), Message: "internal error"}
	}
	return apiError{Code: string(code), Message: errors.UserMessage(err)}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	e := toAPIError(err)
	if status == http.StatusRequestEntityTooLarge {
		e = apiError{Code: string(errors.ErrCodeInvalidInput), Message: "request body too large"}
	}
	e.RequestID = RequestID(r.Context())

	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), e.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", e.RequestID, "err", err)
	} else {
		s.logger.Debug("request rejected", "id", e.RequestID, "code", e.Code, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: e})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
