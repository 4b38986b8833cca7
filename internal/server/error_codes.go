package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument   = 1000
	ErrCodeInvalidJSON       = 1001
	ErrCodeRequestTooLarge   = 1002
	ErrCodeInvalidQuery      = 1003
	ErrCodeInvalidID         = 1004
	ErrCodeInvalidFileKind   = 1005
	ErrCodeInvalidFileType   = 1006
	ErrCodeMissingRequired   = 1007
	ErrCodeInvalidExportKind = 1008
	ErrCodeMediaTypeMismatch = 1009

	// Domain state (2xxx)
	ErrCodeProductNotFound      = 2001
	ErrCodeFileNotFound         = 2002
	ErrCodeDocumentMissing      = 2003
	ErrCodeCertificationMissing = 2004
	ErrCodeNoRecordsSelected    = 2005

	// Limits (3xxx)
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeExportFailed = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeProductNotFound
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
