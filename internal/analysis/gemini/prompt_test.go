package gemini

import (
	"strings"
	"testing"

	"cloud.google.com/go/vertexai/genai"
)

func TestStudySchemaShape(t *testing.T) {
	schema := StudySchema()
	if schema.Type != genai.TypeObject {
		t.Fatalf("schema type = %v, want object", schema.Type)
	}
	if len(schema.Properties) != 13 {
		t.Fatalf("expected 13 properties, got %d", len(schema.Properties))
	}
	if len(schema.Required) != 13 {
		t.Fatalf("expected 13 required fields, got %d", len(schema.Required))
	}
	for _, name := range StudyFieldNames {
		prop, ok := schema.Properties[name]
		if !ok {
			t.Fatalf("missing property %s", name)
		}
		if prop.Type != genai.TypeString {
			t.Fatalf("property %s type = %v, want string", name, prop.Type)
		}
		if prop.Description == "" {
			t.Fatalf("property %s has no description", name)
		}
	}
}

func TestStudyFieldNamesOrder(t *testing.T) {
	if StudyFieldNames[0] != "title" || StudyFieldNames[12] != "suggestions" {
		t.Fatalf("field order wrong: %v", StudyFieldNames)
	}
}

func TestExtractionPromptNamesEveryColumn(t *testing.T) {
	for _, label := range []string{
		"اسم الدراسة", "مكان النشر", "تاريخ النشر", "مشكلة الدراسة",
		"أهداف الدراسة", "أسئلة الدراسة", "حدود الدراسة الزمانية",
		"منهج الدراسة", "أداة الدراسة", "حدود الدراسة المكانية",
		"أهم النتائج", "التوصيات", "المقترحات",
	} {
		if !strings.Contains(ExtractionPrompt, label) {
			t.Fatalf("prompt missing column %q", label)
		}
	}
}
