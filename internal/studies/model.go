package studies

const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateError      = "error"
)

// NotSpecified is the placeholder stored for any analytic field the
// analysis service left empty. Kept in Arabic to match the matrix
// display language.
const NotSpecified = "غير محدد"

// StudyRecord is one finalized row of the study matrix. Records are
// immutable after construction; removal is the only mutation.
type StudyRecord struct {
	ID               string `json:"id"`
	SourceFileName   string `json:"fileName"`
	Title            string `json:"title"`
	PublicationVenue string `json:"publicationVenue"`
	PublicationYear  string `json:"publicationYear"`
	ResearchProblem  string `json:"researchProblem"`
	Objectives       string `json:"objectives"`
	Questions        string `json:"questions"`
	TemporalLimits   string `json:"temporalLimits"`
	Methodology      string `json:"methodology"`
	Tools            string `json:"tools"`
	SpatialLimits    string `json:"spatialLimits"`
	KeyResults       string `json:"keyResults"`
	Recommendations  string `json:"recommendations"`
	Suggestions      string `json:"suggestions"`
}

// FieldSet is the partial field set returned by the analysis service.
// Every field is optional on the wire; defaults are applied by NewRecord.
type FieldSet struct {
	Title            string `json:"title"`
	PublicationVenue string `json:"publicationVenue"`
	PublicationYear  string `json:"publicationYear"`
	ResearchProblem  string `json:"researchProblem"`
	Objectives       string `json:"objectives"`
	Questions        string `json:"questions"`
	TemporalLimits   string `json:"temporalLimits"`
	Methodology      string `json:"methodology"`
	Tools            string `json:"tools"`
	SpatialLimits    string `json:"spatialLimits"`
	KeyResults       string `json:"keyResults"`
	Recommendations  string `json:"recommendations"`
	Suggestions      string `json:"suggestions"`
}

// NewRecord builds a StudyRecord from an analysis result, filling every
// absent field with the NotSpecified placeholder. Defaulting happens
// here, once, so readers never have to handle missing fields.
func NewRecord(id, fileName string, fields FieldSet) StudyRecord {
	return StudyRecord{
		ID:               id,
		SourceFileName:   fileName,
		Title:            orDefault(fields.Title),
		PublicationVenue: orDefault(fields.PublicationVenue),
		PublicationYear:  orDefault(fields.PublicationYear),
		ResearchProblem:  orDefault(fields.ResearchProblem),
		Objectives:       orDefault(fields.Objectives),
		Questions:        orDefault(fields.Questions),
		TemporalLimits:   orDefault(fields.TemporalLimits),
		Methodology:      orDefault(fields.Methodology),
		Tools:            orDefault(fields.Tools),
		SpatialLimits:    orDefault(fields.SpatialLimits),
		KeyResults:       orDefault(fields.KeyResults),
		Recommendations:  orDefault(fields.Recommendations),
		Suggestions:      orDefault(fields.Suggestions),
	}
}

func orDefault(value string) string {
	if value == "" {
		return NotSpecified
	}
	return value
}

// FileStatus tracks the lifecycle of one uploaded file's analysis attempt.
// Its FileID doubles as the resulting StudyRecord's ID when the analysis
// succeeds, joining the two lists.
type FileStatus struct {
	FileID      string  `json:"fileId"`
	FileName    string  `json:"fileName"`
	State       string  `json:"status"`
	Progress    float64 `json:"progress"`
	ErrorDetail string  `json:"error,omitempty"`
}

// Terminal reports whether the status can no longer change.
func (s FileStatus) Terminal() bool {
	return s.State == StateCompleted || s.State == StateError
}

// UploadFile is one raw file handed to the processing pipeline.
type UploadFile struct {
	FileID   string
	FileName string
	Data     []byte
}
