package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  filename  ", Value: "  cv.pdf  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "filename" || fields[0].String != "cv.pdf" {
		t.Fatalf("unexpected filename field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestDocumentFields(t *testing.T) {
	fields := DocumentFields("  jane.docx  ", "docx")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldFilename || fields[0].String != "jane.docx" {
		t.Fatalf("unexpected filename field: %+v", fields[0])
	}

	if fields[1].Key != FieldFormat || fields[1].String != "docx" {
		t.Fatalf("unexpected format field: %+v", fields[1])
	}

	noExt := DocumentFields("README", "")
	if len(noExt) != 1 {
		t.Fatalf("expected format to be omitted, got %d fields", len(noExt))
	}
}

func TestWithDocumentAndRun(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithDocument(WithRun(logger, "run-1"), "jane.pdf", "pdf")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldRunID] != "run-1" {
		t.Fatalf("expected run id run-1, got %q", ctx[FieldRunID])
	}

	if ctx[FieldFilename] != "jane.pdf" {
		t.Fatalf("expected filename jane.pdf, got %q", ctx[FieldFilename])
	}

	if ctx[FieldFormat] != "pdf" {
		t.Fatalf("expected format pdf, got %q", ctx[FieldFormat])
	}

	enriched = WithRun(nil, "run-2")
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	enriched.Info("another log")
}
