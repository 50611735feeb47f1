package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/diaconv/pkg/buildinfo"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/graph"
	"github.com/matzehuels/diaconv/pkg/observability"
	"github.com/matzehuels/diaconv/pkg/pipeline"
)

// contentTypes maps pipeline formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatODG:   "application/vnd.oasis.opendocument.graphics-flat-xml",
	pipeline.FormatGraph: "application/json",
	pipeline.FormatDOT:   "text/vnd.graphviz",
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatPNG:   "image/png",
}

// uploadExts are the file name extensions accepted for multipart uploads.
var uploadExts = []string{".dia", ".shape", ".gz", ".xml"}

// Response headers carrying conversion statistics.
const (
	HeaderShapes      = "X-Diaconv-Shapes"
	HeaderDiagnostics = "X-Diaconv-Diagnostics"
	HeaderCache       = "X-Diaconv-Cache"
)

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// AnalyzeResponse is the body of POST /v1/analyze.
type AnalyzeResponse struct {
	ID          string      `json:"id"`
	RequestID   string      `json:"request_id"`
	Kind        string      `json:"kind"`
	InputHash   string      `json:"input_hash"`
	Shapes      int         `json:"shapes"`
	Routed      int         `json:"routed"`
	Degraded    int         `json:"degraded"`
	PageWidth   float64     `json:"page_width_mm,omitempty"`
	PageHeight  float64     `json:"page_height_mm,omitempty"`
	Diagnostics []string    `json:"diagnostics"`
	Graph       graph.Graph `json:"graph"`
	Cached      bool        `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleShapes(w http.ResponseWriter, _ *http.Request) {
	names := s.templates.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"shapes": names})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatODG}

	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setStats(w, res)
	if opts.Name != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": outputName(opts.Name),
		}))
	}
	writeArtifact(w, pipeline.FormatODG, res.Artifacts[pipeline.FormatODG])
}

// outputName replaces the Dia extensions of name with .fodg.
func outputName(name string) string {
	name = strings.TrimSuffix(name, ".gz")
	for _, ext := range []string{".dia", ".shape", ".xml"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	return name + ".fodg"
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatGraph
	}
	if format == pipeline.FormatODG {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "use /v1/convert for %s", format))
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setStats(w, res)
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatODG}

	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	diags := res.Diagnostics
	if diags == nil {
		diags = []string{}
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		ID:          res.ID,
		RequestID:   RequestID(r.Context()),
		Kind:        res.Kind.String(),
		InputHash:   res.InputHash,
		Shapes:      res.Stats.Shapes,
		Routed:      res.Stats.Routed,
		Degraded:    res.Stats.Degraded,
		PageWidth:   res.Stats.PageWidth,
		PageHeight:  res.Stats.PageHeight,
		Diagnostics: diags,
		Graph:       res.Graph,
		Cached:      res.CacheInfo.ConvertHit,
	})
}

func (s *Server) execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.runner.Execute(ctx, opts)
	if err == nil {
		return res, nil
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "conversion timed out")
	}
	return nil, err
}

// options reads the upload and the query parameters.
func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Name:      q.Get("name"),
		Indent:    boolParam(q.Get("indent")),
		Refresh:   boolParam(q.Get("refresh")),
		Detailed:  boolParam(q.Get("detailed")),
		Router:    s.router,
		Templates: s.templates,
		Fonts:     s.fonts,
		Logger:    s.logger.With("request_id", RequestID(r.Context())),
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	data, name, err := readUpload(r, s.maxUpload)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "upload larger than %d bytes", s.maxUpload)
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read upload")
	}
	if name != "" {
		if err := errors.ValidateExtension(name, uploadExts...); err != nil {
			return opts, err
		}
	}
	if opts.Name == "" {
		opts.Name = name
	}
	if opts.Name != "" {
		if err := errors.ValidateFilename(opts.Name); err != nil {
			return opts, err
		}
	}
	opts.Data = data
	return opts, nil
}

// readUpload returns the body, or the "file" part of a multipart form
// with its file name.
func readUpload(r *http.Request, limit int64) ([]byte, string, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		return data, "", err
	}
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, "", err
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	return data, header.Filename, err
}

func boolParam(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func setStats(w http.ResponseWriter, res *pipeline.Result) {
	h := w.Header()
	h.Set(HeaderShapes, strconv.Itoa(res.Stats.Shapes))
	h.Set(HeaderDiagnostics, strconv.Itoa(len(res.Diagnostics)))
	if res.CacheInfo.ConvertHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeUnsupportedDocument:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	} else {
		s.logger.Debug("request rejected", "id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: errors.UserMessage(err)},
		RequestID: RequestID(r.Context()),
	})
}
