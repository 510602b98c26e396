package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrTenantAccessDenied  = NewDomainError("TENANT_ACCESS_DENIED", "No access to the requested tenant")
	ErrNoActiveTenant      = NewDomainError("NO_ACTIVE_TENANT", "No tenant access. Please contact your administrator")
	ErrOutletHasRegisters  = NewDomainError("OUTLET_HAS_REGISTERS", "Outlet cannot be deleted while it owns registers")
	ErrBarcodeTaken        = NewDomainError("BARCODE_TAKEN", "Barcode is already in use")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)
