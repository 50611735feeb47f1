package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{
			New(ErrCodeUnsupportedDocument, "root element is <%s>", "svg"),
			"UNSUPPORTED_DOCUMENT: root element is <svg>",
		},
		{
			Wrap(ErrCodeInvalidFormat, errors.New("gzip: invalid header"), "decompress %s", "net.dia"),
			"INVALID_FORMAT: decompress net.dia: gzip: invalid header",
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "shape directory %s", "/usr/share/dia/shapes")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
	if got := errors.Unwrap(err); got != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v, want %v", got, fs.ErrNotExist)
	}
}

func TestCodes(t *testing.T) {
	missing := New(ErrCodeTemplateNotFound, "no shape template named %q", "Cisco - Router")
	wrapped := Wrap(ErrCodeInvalidInput, missing, "convert office.dia")
	stdWrapped := fmt.Errorf("serve: %w", missing)
	plain := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		code     Code
		wantIs   bool
		wantCode Code
		wantMsg  string
	}{
		{"coded", missing, ErrCodeTemplateNotFound, true, ErrCodeTemplateNotFound, `no shape template named "Cisco - Router"`},
		{"outer code wins", wrapped, ErrCodeTemplateNotFound, false, ErrCodeInvalidInput, "convert office.dia"},
		{"through fmt wrap", stdWrapped, ErrCodeTemplateNotFound, true, ErrCodeTemplateNotFound, `no shape template named "Cisco - Router"`},
		{"plain", plain, ErrCodeInternal, false, "", "connection reset"},
	}
	for _, tt := range tests {
		if got := Is(tt.err, tt.code); got != tt.wantIs {
			t.Errorf("%s: Is(%s) = %v, want %v", tt.name, tt.code, got, tt.wantIs)
		}
		if got := GetCode(tt.err); got != tt.wantCode {
			t.Errorf("%s: GetCode() = %q, want %q", tt.name, got, tt.wantCode)
		}
		if got := UserMessage(tt.err); got != tt.wantMsg {
			t.Errorf("%s: UserMessage() = %q, want %q", tt.name, got, tt.wantMsg)
		}
	}

	if Is(nil, ErrCodeInternal) || GetCode(nil) != "" {
		t.Error("nil error has a code")
	}
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}

	e := d.Add(ErrCodeUnknownElement, "unknown object type %q", "UML - Class")
	d.Add(ErrCodeMalformedGeometry, "bad points")
	d.Add(ErrCodeUnknownElement, "unknown attribute %q", "foo")

	if e.Message != `unknown object type "UML - Class"` {
		t.Errorf("Message = %v, want %v", e.Message, `unknown object type "UML - Class"`)
	}
	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Len())
	}
	if got := d.Count(ErrCodeUnknownElement); got != 2 {
		t.Errorf("Count(UNKNOWN_ELEMENT) = %d, want 2", got)
	}

	items := d.Items()
	items[0] = nil
	if d.Items()[0] == nil {
		t.Error("Items() returned the internal slice")
	}
}
