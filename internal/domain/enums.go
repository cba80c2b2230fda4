package domain

// FileType represents the roster and template formats accepted for upload.
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLSM FileType = "xlsm"
	FileTypeCSV  FileType = "csv"
	FileTypeTXT  FileType = "txt"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FileTypeXLSM: "application/vnd.ms-excel.sheet.macroEnabled.12",
	FileTypeCSV:  "text/csv",
	FileTypeTXT:  "text/plain",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"xlsx": FileTypeXLSX,
	"xlsm": FileTypeXLSM,
	"csv":  FileTypeCSV,
	"txt":  FileTypeTXT,
}

// IsSpreadsheet reports whether the file type is an OOXML workbook.
func (t FileType) IsSpreadsheet() bool {
	return t == FileTypeXLSX || t == FileTypeXLSM
}

// ImportBatchStatus represents the lifecycle of a persisted import run.
type ImportBatchStatus string

const (
	ImportBatchRunning   ImportBatchStatus = "running"
	ImportBatchCompleted ImportBatchStatus = "completed"
)
