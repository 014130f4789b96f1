package models

// DuplicateBlock is a 3-line block seen more than once across the scanned tree.
type DuplicateBlock struct {
	Count int    `json:"count"`
	Text  string `json:"text"`
}

// DuplicateReport is the result of a duplicate-block pass.
type DuplicateReport struct {
	Blocks            []DuplicateBlock `json:"blocks"`
	TotalFilesScanned int              `json:"total_files_scanned"`
	DistinctBlocks    int              `json:"distinct_blocks"`
	Diagnostics       []Diagnostic     `json:"diagnostics,omitempty"`
}
