package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
	ErrCodeNotImplemented     ErrorCode = "COMMON_013"
)

// Short aliases used throughout the codebase.
const (
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeTimeout      = ErrCodeTimeout

	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeStorageError      = ErrCodeInternal
	CodeMessageQueueError = ErrCodeInternal
	CodeSearchError       = ErrCodeInternal

	CodeSubstanceNotFound = ErrCodeRegistryNotRegistered
	CodeDuplicateCAS      = ErrCodeInventoryDuplicateCAS
)

// Registry Client Error Codes
const (
	ErrCodeRegistryUnavailable   ErrorCode = "REG_001"
	ErrCodeRegistryTimeout       ErrorCode = "REG_002"
	ErrCodeRegistryMalformedBody ErrorCode = "REG_003"
	ErrCodeRegistryNotRegistered ErrorCode = "REG_004"
	ErrCodeRegistryAuthFailed    ErrorCode = "REG_005"
	ErrCodeRegistryBadStatus     ErrorCode = "REG_006"
)

// Field Extraction Error Codes
const (
	ErrCodeExtractionSpecInvalid  ErrorCode = "EXT_001"
	ErrCodeExtractionPatternError ErrorCode = "EXT_002"
)

// Emission Calculation Error Codes
const (
	ErrCodeEmissionUnknownTier  ErrorCode = "CALC_001"
	ErrCodeEmissionInvalidInput ErrorCode = "CALC_002"
)

// Inventory Error Codes
const (
	ErrCodeInventoryDuplicateCAS ErrorCode = "INV_001"
	ErrCodeInventoryRowNotFound  ErrorCode = "INV_002"
	ErrCodeInventoryMissingCAS   ErrorCode = "INV_003"
)

// Batch Job Error Codes
const (
	ErrCodeBatchJobNotFound  ErrorCode = "JOB_001"
	ErrCodeBatchJobMalformed ErrorCode = "JOB_002"
)

// Export Error Codes
const (
	ErrCodeExportRenderFailed ErrorCode = "EXP_001"
	ErrCodeExportUploadFailed ErrorCode = "EXP_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeRegistryUnavailable:   http.StatusBadGateway,
	ErrCodeRegistryTimeout:       http.StatusGatewayTimeout,
	ErrCodeRegistryMalformedBody: http.StatusBadGateway,
	ErrCodeRegistryNotRegistered: http.StatusNotFound,
	ErrCodeRegistryAuthFailed:    http.StatusBadGateway,
	ErrCodeRegistryBadStatus:     http.StatusBadGateway,

	ErrCodeExtractionSpecInvalid:  http.StatusInternalServerError,
	ErrCodeExtractionPatternError: http.StatusInternalServerError,

	ErrCodeEmissionUnknownTier:  http.StatusBadRequest,
	ErrCodeEmissionInvalidInput: http.StatusBadRequest,

	ErrCodeInventoryDuplicateCAS: http.StatusConflict,
	ErrCodeInventoryRowNotFound:  http.StatusNotFound,
	ErrCodeInventoryMissingCAS:   http.StatusBadRequest,

	ErrCodeBatchJobNotFound:  http.StatusNotFound,
	ErrCodeBatchJobMalformed: http.StatusBadRequest,

	ErrCodeExportRenderFailed: http.StatusInternalServerError,
	ErrCodeExportUploadFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeRegistryUnavailable:   "registry unreachable",
	ErrCodeRegistryTimeout:       "registry request timed out",
	ErrCodeRegistryMalformedBody: "failed to parse registry response",
	ErrCodeRegistryNotRegistered: "substance not registered",
	ErrCodeRegistryAuthFailed:    "registry rejected the service key",
	ErrCodeRegistryBadStatus:     "registry returned a non-success status",

	ErrCodeExtractionSpecInvalid:  "invalid field specification",
	ErrCodeExtractionPatternError: "field pattern failed to compile",

	ErrCodeEmissionUnknownTier:  "unknown emission estimation tier",
	ErrCodeEmissionInvalidInput: "invalid emission input",

	ErrCodeInventoryDuplicateCAS: "CAS number already registered in inventory",
	ErrCodeInventoryRowNotFound:  "inventory row not found",
	ErrCodeInventoryMissingCAS:   "CAS number is required",

	ErrCodeBatchJobNotFound:  "batch job not found",
	ErrCodeBatchJobMalformed: "malformed batch job payload",

	ErrCodeExportRenderFailed: "failed to render ledger export",
	ErrCodeExportUploadFailed: "failed to upload ledger export",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
