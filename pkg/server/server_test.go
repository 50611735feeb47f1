package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/pipeline"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

const twoBoxes = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<dia:diagram xmlns:dia="http://www.lysator.liu.se/~alla/dia/"><dia:layer name="Background" visible="true">` +
	`<dia:object type="Standard - Box" version="0" id="O0">` +
	`<dia:attribute name="elem_corner"><dia:point val="-2,-1"/></dia:attribute>` +
	`<dia:attribute name="elem_width"><dia:real val="2"/></dia:attribute>` +
	`<dia:attribute name="elem_height"><dia:real val="2"/></dia:attribute></dia:object>` +
	`<dia:object type="Standard - Box" version="0" id="O1">` +
	`<dia:attribute name="elem_corner"><dia:point val="4,2"/></dia:attribute>` +
	`<dia:attribute name="elem_width"><dia:real val="2"/></dia:attribute>` +
	`<dia:attribute name="elem_height"><dia:real val="2"/></dia:attribute></dia:object>` +
	`<dia:object type="Standard - ZigZagLine" version="1" id="O2">` +
	`<dia:attribute name="orth_points"><dia:point val="0,0"/><dia:point val="2.5,0"/>` +
	`<dia:point val="2.5,3"/><dia:point val="4,3"/></dia:attribute>` +
	`<dia:attribute name="autorouting"><dia:boolean val="false"/></dia:attribute>` +
	`<dia:connections><dia:connection handle="0" to="O0" connection="4"/>` +
	`<dia:connection handle="1" to="O1" connection="3"/></dia:connections></dia:object>` +
	`</dia:layer></dia:diagram>`

func newTestServer(opts ...Option) *Server {
	return New(pipeline.NewRunner(nil, nil, nil), opts...)
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s, want status ok", rec.Body.String())
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Errorf("%s header is empty", HeaderRequestID)
	}
}

func TestConvertRawBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?name=net.dia", strings.NewReader(twoBoxes))
	rec := do(t, newTestServer(), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != contentTypes[pipeline.FormatODG] {
		t.Errorf("Content-Type = %q, want %q", got, contentTypes[pipeline.FormatODG])
	}
	if got := rec.Header().Get(HeaderShapes); got != "3" {
		t.Errorf("%s = %q, want %q", HeaderShapes, got, "3")
	}
	if got := rec.Header().Get(HeaderCache); got != "miss" {
		t.Errorf("%s = %q, want %q", HeaderCache, got, "miss")
	}
	body := rec.Body.String()
	for _, want := range []string{"<office:document", "<draw:connector", "<dc:title>net.dia</dc:title>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func TestConvertMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "office.dia")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(twoBoxes))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/convert", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := do(t, newTestServer(), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "<dc:title>office.dia</dc:title>") {
		t.Error("title is not taken from the file name")
	}
	if got, want := rec.Header().Get("Content-Disposition"), `attachment; filename=office.fodg`; got != want {
		t.Errorf("Content-Disposition = %q, want %q", got, want)
	}
}

func TestConvertMultipartRejectsExtension(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(twoBoxes))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/convert", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := do(t, newTestServer(), req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if body := decodeError(t, rec); body.Error.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %q, want %q", body.Error.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"net.dia", "net.fodg"},
		{"net.DIA", "net.fodg"},
		{"net.dia.gz", "net.fodg"},
		{"router.shape", "router.fodg"},
		{"diagram", "diagram.fodg"},
	}
	for _, tt := range tests {
		if got := outputName(tt.in); got != tt.want {
			t.Errorf("outputName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGraph(t *testing.T) {
	tests := []struct {
		format      string
		status      int
		contentType string
		contains    string
	}{
		{"", http.StatusOK, "application/json", `"O1"`},
		{"json", http.StatusOK, "application/json", `"edges"`},
		{"dot", http.StatusOK, "text/vnd.graphviz", "digraph"},
		{"fodg", http.StatusBadRequest, "application/json", string(errors.ErrCodeInvalidFormat)},
		{"pdf", http.StatusBadRequest, "application/json", string(errors.ErrCodeInvalidFormat)},
	}
	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/graph?format="+tt.format, strings.NewReader(twoBoxes))
			rec := do(t, s, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body = %s, want it to contain %q", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(twoBoxes))
	rec := do(t, newTestServer(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != "diagram" {
		t.Errorf("Kind = %q, want %q", resp.Kind, "diagram")
	}
	if resp.Shapes != 3 || resp.Routed != 1 {
		t.Errorf("Shapes, Routed = %d, %d, want 3, 1", resp.Shapes, resp.Routed)
	}
	if len(resp.Graph.Edges) != 1 {
		t.Errorf("graph edges = %d, want 1", len(resp.Graph.Edges))
	}
	if resp.RequestID != rec.Header().Get(HeaderRequestID) {
		t.Errorf("RequestID = %q, want %q", resp.RequestID, rec.Header().Get(HeaderRequestID))
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		body   string
		opts   []Option
		status int
		code   errors.Code
	}{
		{"empty", "", "", nil, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput},
		{"not dia", "", `<html><body/></html>`, nil, http.StatusUnprocessableEntity, errors.ErrCodeUnsupportedDocument},
		{"malformed", "", `<dia:diagram>`, nil, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"too large", "", twoBoxes, []Option{WithMaxUpload(16)}, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput},
		{"name with path", "?name=..%2Fnet.dia", twoBoxes, nil, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"hidden name", "?name=.net.dia", twoBoxes, nil, http.StatusBadRequest, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/convert"+tt.query, strings.NewReader(tt.body))
			rec := do(t, newTestServer(tt.opts...), req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			body := decodeError(t, rec)
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
			if body.RequestID == "" {
				t.Error("request_id is empty")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusUnprocessableEntity},
		{errors.ErrCodeUnsupportedDocument, http.StatusUnprocessableEntity},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeInvalidPath, http.StatusBadRequest},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.code); got != tt.want {
			t.Errorf("StatusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestShapes(t *testing.T) {
	root, err := markup.Parse(strings.NewReader(`<shape><name>Net - Hub</name><svg><rect width="1" height="1"/></svg></shape>`))
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := stencil.Parse(root)
	if err != nil {
		t.Fatal(err)
	}
	lib := stencil.NewLibrary()
	if err := lib.Add(tmpl); err != nil {
		t.Fatal(err)
	}

	rec := do(t, newTestServer(WithTemplates(lib)), httptest.NewRequest(http.MethodGet, "/v1/shapes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got, want := strings.TrimSpace(rec.Body.String()), `{"shapes":["Net - Hub"]}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}

	rec = do(t, newTestServer(), httptest.NewRequest(http.MethodGet, "/v1/shapes", nil))
	if got, want := strings.TrimSpace(rec.Body.String()), `{"shapes":[]}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	const id = "0b0f7c0e-52a4-4b8e-9d0f-3c8f6b0e2a11"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	rec := do(t, newTestServer(), req)
	if got := rec.Header().Get(HeaderRequestID); got != id {
		t.Errorf("%s = %q, want %q", HeaderRequestID, got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	rec = do(t, newTestServer(), req)
	if got := rec.Header().Get(HeaderRequestID); got == "not-a-uuid" || got == "" {
		t.Errorf("%s = %q, want a fresh uuid", HeaderRequestID, got)
	}
}
