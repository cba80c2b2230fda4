package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrSessionNotFound     = errors.New("import session not found")
	ErrObraSocialNotFound  = errors.New("obra social not found")
	ErrInvalidMapping      = errors.New("mapping references unknown fields or columns")
	ErrNotConverted        = errors.New("import session has not been converted yet")
	ErrImportRunning       = errors.New("import is already running")
	ErrImportCompleted     = errors.New("import has already completed")
	ErrInvalidImportMode   = errors.New("invalid import mode")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateDNI        = errors.New("an active patient with this dni already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
