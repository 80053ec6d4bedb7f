package gemini

import "cloud.google.com/go/vertexai/genai"

// ExtractionPrompt instructs the model to read the attached PDF and fill
// the study matrix. Studies written in English are translated to Arabic;
// unavailable information is reported with the fixed placeholder phrase.
const ExtractionPrompt = `أنت خبير في البحث العلمي وتحليل الدراسات الأكاديمية. مهمتك هي تحليل الملف المرفق واستخراج البيانات بدقة متناهية لتكوين "مصفوفة الدراسات".
إذا كانت الدراسة بالإنجليزية، قم بترجمة المحتوى إلى العربية بدقة.
إذا كانت المعلومة غير متوفرة، اكتب "غير محدد في النص".

استخرج المعلومات التالية بالضبط:
1. اسم الدراسة
2. مكان النشر
3. تاريخ النشر
4. مشكلة الدراسة
5. أهداف الدراسة
6. أسئلة الدراسة
7. حدود الدراسة الزمانية
8. منهج الدراسة
9. أداة الدراسة
10. حدود الدراسة المكانية
11. أهم النتائج
12. التوصيات
13. المقترحات`

// StudyFieldNames lists the thirteen analytic fields, in matrix column
// order. The response schema names exactly these, all typed as strings.
var StudyFieldNames = []string{
	"title", "publicationVenue", "publicationYear", "researchProblem",
	"objectives", "questions", "temporalLimits", "methodology",
	"tools", "spatialLimits", "keyResults", "recommendations", "suggestions",
}

var fieldDescriptions = map[string]string{
	"title":            "اسم الدراسة (العنوان كاملاً)",
	"publicationVenue": "مكان النشر (المجلة أو المؤتمر أو الجامعة)",
	"publicationYear":  "تاريخ النشر (السنة)",
	"researchProblem":  "مشكلة الدراسة (بصياغة مركزة)",
	"objectives":       "أهداف الدراسة (نقاط واضحة)",
	"questions":        "أسئلة الدراسة",
	"temporalLimits":   "حدود الدراسة الزمانية",
	"methodology":      "منهج الدراسة (وصفي، تحليلي، تجريبي... إلخ)",
	"tools":            "أداة الدراسة (استبيان، مقابلة، ملاحظة... إلخ)",
	"spatialLimits":    "حدود الدراسة المكانية",
	"keyResults":       "أهم النتائج (النتائج الجوهرية فقط)",
	"recommendations":  "التوصيات",
	"suggestions":      "المقترحات (الدراسات المستقبلية المقترحة)",
}

// StudySchema is the response-shape constraint passed to the model.
func StudySchema() *genai.Schema {
	properties := make(map[string]*genai.Schema, len(StudyFieldNames))
	for _, name := range StudyFieldNames {
		properties[name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: fieldDescriptions[name],
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   append([]string(nil), StudyFieldNames...),
	}
}
