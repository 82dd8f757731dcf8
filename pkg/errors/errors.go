package custom_error

import "fmt"

type CustomError interface {
	Error() string
}

// ValidationError reports malformed or missing input. No mutation has
// happened when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports an absent asset, base or category reference.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// InsufficientQuantityError reports a movement that would overdraw an
// asset's on-hand quantity.
type InsufficientQuantityError struct {
	AssetID   int
	Requested int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity of asset %d for requested amount %d", e.AssetID, e.Requested)
}

// LocationMismatchError reports an asset that is not at the base the
// movement named as its source.
type LocationMismatchError struct {
	AssetID int
	BaseID  int
}

func (e *LocationMismatchError) Error() string {
	return fmt.Sprintf("asset %d is not currently at base %d", e.AssetID, e.BaseID)
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is referenced by other resources: " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
