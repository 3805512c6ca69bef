package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Trabajos
	ErrJobReferenced  = errors.New("el trabajo está referenciado por un movimiento")
	ErrClockRunning   = errors.New("el cronómetro ya está en marcha")
	ErrClockStopped   = errors.New("el cronómetro no está en marcha")
	ErrNotClockMode   = errors.New("el trabajo no se cobra por cronómetro")
	ErrAlreadyPaid    = errors.New("el trabajo ya está pagado")
	ErrCustomerNeeded = errors.New("el trabajo requiere un cliente")

	// Movimientos
	ErrGeneratedTransaction = errors.New("el movimiento fue generado al liquidar un trabajo")
	ErrVaultRequired        = errors.New("el pago requiere una caja")
	ErrCurrencyMismatch     = errors.New("la moneda de la caja no coincide con la del cliente")

	// Cajas
	ErrVaultInUse  = errors.New("la caja tiene movimientos asociados")
	ErrVaultActive = errors.New("la caja activa no se puede eliminar")
)
