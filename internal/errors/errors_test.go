package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("E001")
	if err.Code != "E001" || err.Category != CategoryUsage {
		t.Errorf("expected registered usage error, got %+v", err)
	}
	if !strings.Contains(err.Error(), "E001") {
		t.Errorf("expected the code in the message, got %q", err.Error())
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Code != "E999" || err.Message != "Unknown error" {
		t.Errorf("unexpected fallback %+v", err)
	}
}

func TestWrapSupportsErrorsIs(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := New("E100").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}

	var coded *Error
	if !stderrors.As(err, &coded) || coded.Code != "E100" {
		t.Error("expected errors.As to recover the coded error")
	}
}

func TestBuilders(t *testing.T) {
	if err := SelfListen(42); err.Code != "E001" || !strings.Contains(err.Detail, "42") {
		t.Errorf("unexpected self-listen error %+v", err)
	}
	if err := Destroyed("set"); err.Code != "E002" {
		t.Errorf("unexpected destroyed error %+v", err)
	}
	if err := SpliceBounds(4, 2, 3); err.Code != "E003" || !strings.Contains(err.Detail, "splice(4, 2)") {
		t.Errorf("unexpected splice error %+v", err)
	}
}

func TestFormatWithoutColors(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E003").WithSuggestion("clamp the index").Format()
	for _, want := range []string{"ERROR E003", "Splice out of range", "Hint:", "clamp the index"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in formatted output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("expected no ANSI escapes with colors disabled")
	}
}
