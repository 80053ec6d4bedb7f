package studies

// ListResponse is the outward-facing view of the store.
type ListResponse struct {
	Records    []StudyRecord `json:"records"`
	Statuses   []FileStatus  `json:"statuses"`
	Processing bool          `json:"processing"`
	ReadOnly   bool          `json:"readOnly"`
}

// UploadResponse acknowledges an accepted batch.
type UploadResponse struct {
	BatchID    string       `json:"batchId"`
	Statuses   []FileStatus `json:"statuses"`
	Processing bool         `json:"processing"`
}
