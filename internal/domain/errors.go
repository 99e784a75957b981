package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Errores del motor de sincronización de stock.
var (
	// ErrConfiguration identidad o secreto del marketplace ausente. Fatal al arrancar.
	ErrConfiguration = errors.New("configuración inválida")
	// ErrValidation cantidad u otro dato mal formado; se rechaza antes de cualquier efecto.
	ErrValidation = errors.New("validación fallida")
	// ErrLocalStore el commit local falló o no afectó ninguna fila.
	ErrLocalStore = errors.New("fallo en el almacén local")
	// ErrRemoteTransport la petición nunca llegó (red, timeout, respuesta ilegible).
	ErrRemoteTransport = errors.New("fallo de transporte con el marketplace")
	// ErrRemoteTimeout se agotó el tiempo máximo de la llamada remota (siempre junto a ErrRemoteTransport).
	ErrRemoteTimeout = errors.New("timeout")
	// ErrRemoteRejected el marketplace respondió con error o con status no 2xx.
	ErrRemoteRejected = errors.New("el marketplace rechazó la petición")
	// ErrConcurrentUpdate ya hay una sincronización en curso para el SKU.
	ErrConcurrentUpdate = errors.New("sincronización en curso para el SKU")
)
