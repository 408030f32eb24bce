package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with its user-facing message.
type ErrorInfo struct {
	Code    string // code constant from codes.go
	Message string // user-facing message
}

// ParseError converts storage and infrastructure errors into a code/message
// pair safe to show the user. Sensitive internals stay in the server log.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Ocurrió un error en el servidor",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint violations

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 2-2. Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "El registro está asociado a otros datos y no puede modificarse",
		}
	}

	// 2-3. Not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Faltan campos obligatorios",
		}
	}

	// 3. Network/connection failures
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "No se pudo conectar con el servicio. Inténtalo de nuevo más tarde",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Ocurrió un error en el servidor. Inténtalo de nuevo más tarde",
	}
}

func parseDuplicateKeyError(errStrLower string) ErrorInfo {
	switch {
	case strings.Contains(errStrLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "El email ya está registrado"}
	case strings.Contains(errStrLower, "rfid"):
		return ErrorInfo{Code: ClienteRfidExists, Message: "El código RFID ya está asignado"}
	case strings.Contains(errStrLower, "rut"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El RUT ya está registrado"}
	case strings.Contains(errStrLower, "cliente_tienda"):
		return ErrorInfo{Code: AsociacionExists, Message: "El cliente ya está asociado a esta tienda"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El registro ya existe"}
	}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "tienda":
		return "Tienda no encontrada"
	case "cliente":
		return "Cliente no encontrado"
	case "vip registration":
		return "Registro no encontrado o token inválido"
	default:
		return "Registro no encontrado"
	}
}

// ParseAndRespond parses the error and writes the standard error body.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
