package logger

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillquiz/internal/skills"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
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

	if ctx := entries[0].ContextMap(); ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	enriched.Info("another log")
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "model-x").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "model-x" {
		t.Fatalf("expected model field to be model-x, got %q", ctx[FieldModel])
	}

	if empty := CommonFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestJobSkillFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	id := uuid.New()
	zap.New(core).Debug("skill", JobSkillFields(skills.JobSkill{
		SkillID:   id,
		SkillName: "React",
		Weight:    2.4,
	})...)

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldSkillID] != id.String() {
		t.Fatalf("unexpected skill id: %v", ctx[FieldSkillID])
	}
	if ctx[FieldSkillName] != "React" {
		t.Fatalf("unexpected skill name: %v", ctx[FieldSkillName])
	}
	if ctx[FieldWeight] != 2.4 {
		t.Fatalf("unexpected weight: %v", ctx[FieldWeight])
	}
	if ctx["manually_added"] != false {
		t.Fatalf("unexpected manually_added: %v", ctx["manually_added"])
	}
}

func TestQuestionFields(t *testing.T) {
	fields := QuestionFields("Go", "", 1.5)
	if len(fields) != 2 {
		t.Fatalf("expected empty question id to be dropped, got %d fields", len(fields))
	}
	if fields[0].Key != FieldSkillName || fields[1].Key != FieldWeight {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}
