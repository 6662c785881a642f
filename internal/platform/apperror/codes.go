package apperror

// ErrorCode is the system-level error category. It decides how a failure is
// classified and which HTTP status it maps to.
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// BusinessCode names the specific business reason behind a failure.
type BusinessCode string

const (
	BusinessCodeGeneral BusinessCode = "GENERAL"

	// Lookup failures
	BusinessCodeUserNotFound     BusinessCode = "USER_NOT_FOUND"
	BusinessCodePostNotFound     BusinessCode = "POST_NOT_FOUND"
	BusinessCodeCategoryNotFound BusinessCode = "CATEGORY_NOT_FOUND"
	BusinessCodeTagNotFound      BusinessCode = "TAG_NOT_FOUND"
	BusinessCodeCommentNotFound  BusinessCode = "COMMENT_NOT_FOUND"

	// Validation failures
	BusinessCodeInvalidFormat BusinessCode = "INVALID_FORMAT"
	BusinessCodeInvalidRole   BusinessCode = "INVALID_ROLE"
	BusinessCodeInvalidStatus BusinessCode = "INVALID_STATUS"
	BusinessCodeEmptyUpdate   BusinessCode = "EMPTY_UPDATE"

	// Conflicts
	BusinessCodeEmailTaken        BusinessCode = "EMAIL_TAKEN"
	BusinessCodeNameAlreadyExists BusinessCode = "NAME_ALREADY_EXISTS"
	BusinessCodeSlugAlreadyExists BusinessCode = "SLUG_ALREADY_EXISTS"

	// Authentication / authorization
	BusinessCodeInvalidCredentials BusinessCode = "INVALID_CREDENTIALS"
	BusinessCodeInvalidToken       BusinessCode = "INVALID_TOKEN"
	BusinessCodePermissionDenied   BusinessCode = "PERMISSION_DENIED"
	BusinessCodeSelfRoleChange     BusinessCode = "SELF_ROLE_CHANGE"
	BusinessCodeSelfDelete         BusinessCode = "SELF_DELETE"
)
