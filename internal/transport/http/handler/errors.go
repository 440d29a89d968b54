package handler

const (
	errInternalServer    = "Internal server error"
	errNoToken           = "No token provided"
	errTokenInvalid      = "Token is invalid or expired"
	errTokenInconsistent = "Verification record is inconsistent"
	errCouldNotValidate  = "Could not validate session"
)
