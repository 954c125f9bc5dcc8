package auth

// Claim names consumed from session tokens.
const (
	ClaimSubject    = "nameid"
	ClaimLogin      = "unique_name"
	ClaimEmail      = "email"
	ClaimFullName   = "FullName"
	ClaimExpiry     = "exp"
	ClaimIssuer     = "iss"
	ClaimAudience   = "aud"
	ClaimRole       = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	ClaimRoleSimple = "role"
)

// Role fallback reasons, used in logs and metrics.
const (
	FallbackMissingRole = "missing"
	FallbackUnknownRole = "unknown"
)
