package util_test

import (
	"strings"
	"testing"

	"stachec/internal/util"
)

func TestLocationAt_FirstLine(t *testing.T) {
	loc := util.LocationAt("hello world", 6)
	if loc.Line != 1 || loc.Column != 6 {
		t.Errorf("loc = %+v, want Line 1 Column 6", loc)
	}
}

func TestLocationAt_AfterNewlines(t *testing.T) {
	input := "ab\ncd\nef"
	loc := util.LocationAt(input, 6) // 'e' is at index 6, start of third line
	if loc.Line != 3 || loc.Column != 0 {
		t.Errorf("loc = %+v, want Line 3 Column 0", loc)
	}
}

func TestLocationAt_ClampsOutOfRangeOffsets(t *testing.T) {
	loc := util.LocationAt("abc", 100)
	if loc.Offset != 3 {
		t.Errorf("Offset = %d, want clamped to input length", loc.Offset)
	}
	loc = util.LocationAt("abc", -5)
	if loc.Offset != 0 {
		t.Errorf("Offset = %d, want clamped to 0", loc.Offset)
	}
}

func TestNewParseError_WithSourceName(t *testing.T) {
	err := util.NewParseError("a\nb", "widget.html", "boom", 2)
	msg := err.Error()
	if !strings.Contains(msg, "boom") || !strings.Contains(msg, "widget.html") || !strings.Contains(msg, "line 2") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestNewParseError_WithoutSourceName(t *testing.T) {
	err := util.NewParseError("a", "", "boom", 0)
	if strings.Contains(err.Error(), " in ") {
		t.Errorf("Error() = %q, want no 'in <source>' clause", err.Error())
	}
}
