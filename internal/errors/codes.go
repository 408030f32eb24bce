package errors

// Error code constants, format CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // unknown reset token
	AuthResetTokenExpired  = "AUTH_RESET_TOKEN_EXPIRED" // reset token expired
	AuthResetTokenUsed     = "AUTH_RESET_TOKEN_USED"    // reset token consumed

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role missing from context
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin-gated action

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed payload
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad path/query ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong field format
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field
	ValidationInvalidRut    = "VALIDATION_INVALID_RUT"    // mod-11 check failed
	ValidationInvalidEmail  = "VALIDATION_INVALID_EMAIL"  // bad email syntax

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // no such row
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate
	ResourceConflict      = "RESOURCE_CONFLICT"       // state conflict

	// ==================== Tiendas (TIENDA_) ====================
	TiendaNotFound     = "TIENDA_NOT_FOUND"      // unknown store
	TiendaLimitReached = "TIENDA_LIMIT_REACHED"  // 4-store cap hit
	TiendaRutExists    = "TIENDA_RUT_EXISTS"     // duplicate store RUT

	// ==================== Clientes (CLIENTE_) ====================
	ClienteNotFound   = "CLIENTE_NOT_FOUND"   // unknown client
	ClienteRfidExists = "CLIENTE_RFID_EXISTS" // RFID already assigned

	// ==================== Asociaciones (ASOCIACION_) ====================
	AsociacionNotFound = "ASOCIACION_NOT_FOUND" // no such link
	AsociacionExists   = "ASOCIACION_EXISTS"    // client already linked

	// ==================== VIP registration (VIP_) ====================
	VipTokenMissing           = "VIP_TOKEN_MISSING"            // no token parameter
	VipRegistrationNotFound   = "VIP_REGISTRATION_NOT_FOUND"   // unknown token
	VipTokenExpired           = "VIP_TOKEN_EXPIRED"            // past 48h window
	VipAlreadyConfirmed       = "VIP_ALREADY_CONFIRMED"        // idempotent terminal
	VipEmailDispatchFailed    = "VIP_EMAIL_DISPATCH_FAILED"    // registration kept, email failed
	VipRegistrationPersistErr = "VIP_REGISTRATION_PERSIST_ERR" // storage write failure

	// ==================== Export (EXPORT_) ====================
	ExportFailed = "EXPORT_FAILED" // workbook generation failure

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unclassified failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // storage failure
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // configuration failure
)
