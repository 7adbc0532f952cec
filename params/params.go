package params

import "time"

const (
	ServerBodyLimit        = 1048576 // 1 MiB
	ServerIdleTimeout      = 30 * time.Second
	ServerReadTimeout      = 10 * time.Second
	ServerWriteTimeout     = 10 * time.Second
	HealthCheckServerAddr  = ":3001"            // health check and metrics server address
	TokenExpiration        = 7 * 24 * time.Hour // default bearer token lifetime
	TokenIssuer            = "kattend"          // default iss claim
	MinSecretLength        = 32                 // minimum jwt secret length in bytes
	LoginRateLimitMax      = 20                 // login requests per ip per window, 0 disables
	LoginRateLimitWindow   = 1 * time.Minute    // login rate limit window
	LoginHistoryLimit      = 50                 // default page size for manager login history
	LoginHistoryMaxLimit   = 500                // upper bound for the limit query parameter
	MyLoginHistoryLimit    = 20                 // records returned by my-login-history
	AttendanceHistoryLimit = 30                 // default page size for attendance history
	AttendanceHistoryMax   = 366                // upper bound for attendance history page size
	AttendanceLateAfter    = "09:30"            // check-ins after this local clock time are late
	AttendanceHalfDayHours = 4.0                // check-outs below this many hours are half days
	EmployeeIDPrefix       = "EMP"              // prefix of generated employee identifiers
	EmployeeIDMaxRetries   = 5                  // retries when a generated employee id collides
	UnknownValue           = "Unknown"          // placeholder for unresolvable attribution fields
)
