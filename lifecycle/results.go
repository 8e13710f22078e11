package lifecycle

// Deletion and check statuses reported to callers.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
)

// DeleteResult describes the outcome of deleting one document by id.
type DeleteResult struct {
	Status        string `json:"status"`
	DocumentID    string `json:"document_id"`
	ChunksDeleted int    `json:"chunks_deleted"`
}

// PathDeleteResult describes the outcome of deleting by file path. A path
// can map to several documents when the basename fallback matched files in
// different directories.
type PathDeleteResult struct {
	Status        string   `json:"status"`
	FilePath      string   `json:"file_path"`
	DocumentIDs   []string `json:"document_ids"`
	ChunksDeleted int      `json:"chunks_deleted"`
}

// CheckResult reports whether a document is present in the collection.
type CheckResult struct {
	Exists      bool   `json:"exists"`
	DocumentID  string `json:"document_id"`
	ChunksCount int    `json:"chunks_count"`
}
