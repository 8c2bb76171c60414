package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailNotAllowed    ErrCode = "EMAIL_NOT_ALLOWED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidTerm    ErrCode = "INVALID_TERM"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Advising ──────────────────────────────────────────────────────
	ErrCatalogUnavailable ErrCode = "CATALOG_UNAVAILABLE"
	ErrUnknownCourse      ErrCode = "UNKNOWN_COURSE"
	ErrUnknownDegree      ErrCode = "UNKNOWN_DEGREE_TYPE"

	// ─── Export ────────────────────────────────────────────────────────
	ErrUnsupportedFormat ErrCode = "UNSUPPORTED_FORMAT"
	ErrExportUnavailable ErrCode = "EXPORT_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrEmailNotAllowed:
		return "This email is not authorized for the admin console."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidTerm:
		return "Terms look like \"Fall 2026\" or \"fa26\"."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Advising ──────────────────────────────────────────────────────
	case ErrCatalogUnavailable:
		return "Course data is not loaded yet. Please try again shortly."
	case ErrUnknownCourse:
		return "Course is not in the catalog."
	case ErrUnknownDegree:
		return "Degree type must be major or minor."

	// ─── Export ────────────────────────────────────────────────────────
	case ErrUnsupportedFormat:
		return "Unsupported export format."
	case ErrExportUnavailable:
		return "This export format is not available on the server."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
