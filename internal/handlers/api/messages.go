package api

const (
	MsgInvalidRequest     = "Invalid request body"
	MsgValidationFailed   = "Validation failed"
	MsgMissingCredentials = "Please provide an email and password"
	MsgInvalidCredentials = "Invalid credentials"
	MsgEmailRegistered    = "Email already registered"
	MsgInvalidRole        = "Role must be employee or manager"
	MsgNameEmpty          = "Name cannot be empty"
	MsgPasswordTooLong    = "Password must be at most 72 bytes"
	MsgInvalidUserID      = "Invalid userId"
	MsgInvalidStatus      = "Status must be success or failed"
	MsgInvalidLimit       = "Invalid limit"
	MsgCheckedIn          = "Checked in successfully"
	MsgCheckedOut         = "Checked out successfully"
	MsgAlreadyCheckedIn   = "Already checked in today"
	MsgNotCheckedIn       = "You have not checked in today"
	MsgAlreadyCheckedOut  = "Already checked out today"
	MsgInvalidDate        = "Date must be in YYYY-MM-DD format"
	MsgTooManyRequests    = "Too many login attempts, please try again later"
)
