package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/odoo/o-spreadsheet-formula/pkg/compiler"
	"github.com/odoo/o-spreadsheet-formula/pkg/printer"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

func newTestSession(out *bytes.Buffer) *session {
	return &session{
		out:      out,
		width:    printer.DefaultWidth,
		locale:   types.DefaultLocale,
		compiler: compiler.New(),
		printer:  printer.New(),
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		line     string
		contains []string
	}{
		{"=1+2", []string{"=1 + 2"}},
		{":pretty =SUM(A1,2)", []string{"=SUM(A1, 2)"}},
		{":tokens =A1:B2", []string{"REFERENCE", `"A1"`, `":"`}},
		{":ranges =A1:B2", []string{`"A1:B2"`}},
		{":ast =-A1", []string{"UNARY_OPERATION -", "  REFERENCE A1 [2..2]"}},
		{":compile =A1+1", []string{"key:     =|C|+|N|", "_2 = ADD(_1, NUMBER[0])"}},
		{":deps =B2+A1:A3", []string{"B2\nA1:A3\n"}},
		{":help", []string{":quit"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out bytes.Buffer
			if err := newTestSession(&out).handle(tt.line); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q does not contain %q", out.String(), want)
				}
			}
		})
	}
}

func TestHandleErrors(t *testing.T) {
	for _, line := range []string{"=SUM(", ":compile =FOO(1)", ":width abc", ":width 0", ":nope x"} {
		t.Run(line, func(t *testing.T) {
			var out bytes.Buffer
			if err := newTestSession(&out).handle(line); err == nil {
				t.Errorf("expected an error for %q", line)
			}
		})
	}
}

func TestHandleWidth(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)
	if err := s.handle(":width 20"); err != nil {
		t.Fatal(err)
	}
	if s.width != 20 {
		t.Fatalf("width = %d, want 20", s.width)
	}
	if err := s.handle("=IF(A1>0,SUM(B1:B10),0)"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "=IF(\n  A1 > 0,") {
		t.Errorf("expected a broken layout, got %q", out.String())
	}
}

func TestHandleCache(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)
	for _, line := range []string{":compile =A1+1", ":compile =SUM(A1:B2)", ":forget =B2+7"} {
		if err := s.handle(line); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.compiler.Cache().Len(); got != 1 {
		t.Fatalf("expected 1 cached routine after :forget, got %d", got)
	}
	if err := s.handle(":forget =B2+7"); err == nil {
		t.Error("expected an error forgetting an uncached shape")
	}

	out.Reset()
	if err := s.handle(":cache"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "1 cached routines\n" {
		t.Errorf(":cache printed %q", out.String())
	}
	if err := s.handle(":clear"); err != nil {
		t.Fatal(err)
	}
	if got := s.compiler.Cache().Len(); got != 0 {
		t.Errorf("expected an empty cache after :clear, got %d", got)
	}
}

func TestRunOneShot(t *testing.T) {
	if code := run([]string{"-e", ":deps =A1"}); code != 0 {
		t.Errorf("exit code %d, want 0", code)
	}
	if code := run([]string{"-e", "=SUM("}); code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if code := run([]string{"-locale", "xx", "-e", "=1"}); code != 2 {
		t.Errorf("exit code %d, want 2", code)
	}
}
