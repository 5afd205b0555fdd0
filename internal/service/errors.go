package service

import (
	"errors"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/normalize"
	"amber-storefront/internal/order"
	"amber-storefront/internal/session"
	"amber-storefront/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = session.ErrNotAuthenticated
	ErrNotAdmin           = errors.New("admin role required")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductNotFound    = errors.New("product not found")
	ErrPackUnavailable    = errors.New("pack not available")
	ErrUnknownRange       = errors.New("unknown report range")
)

// Notice is an alert as shown to the customer
type Notice struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// AlertError is a failure that carries its own customer-facing alert.
type AlertError struct {
	Notice
	Err error
}

func (e *AlertError) Error() string {
	return e.Body
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

// Describe turns an error into the alert a client should display.
func Describe(err error) Notice {
	var alert *AlertError
	if errors.As(err, &alert) {
		return alert.Notice
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return Notice{Title: "Error", Body: verr.First()}
	}

	if apiErr, ok := backend.AsAPIError(err); ok {
		return Notice{Title: "Error", Body: apiErr.Message}
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return Notice{Title: "Error", Body: "Correo o contraseña incorrectos."}
	case errors.Is(err, ErrNotAuthenticated):
		return Notice{Title: "Inicio de sesión requerido", Body: "Debes iniciar sesión para continuar."}
	case errors.Is(err, ErrNotAdmin):
		return Notice{Title: "Error", Body: "No tienes autorización para realizar esta acción"}
	case errors.Is(err, ErrEmptyCart):
		return Notice{Title: "Carrito vacío", Body: "Agrega productos antes de realizar un pedido."}
	case errors.Is(err, ErrProductNotFound):
		return Notice{Title: "Error", Body: "Producto no encontrado"}
	case errors.Is(err, ErrPackUnavailable):
		return Notice{Title: "Error", Body: "Presentación no disponible"}
	case errors.Is(err, ErrUnknownRange):
		return Notice{Title: "Error", Body: "Rango de fechas no válido"}
	case errors.Is(err, order.ErrTransitionNotAllowed):
		return Notice{Title: "Error", Body: "Transición de estado no permitida"}
	case errors.Is(err, order.ErrUnknownStatus):
		return Notice{Title: "Error", Body: "Estado de pedido no válido"}
	case errors.Is(err, backend.ErrMalformedResponse), errors.Is(err, normalize.ErrUnrecognizedShape):
		return Notice{Title: "Error", Body: "Formato de respuesta inesperado del servidor"}
	case errors.Is(err, backend.ErrConnection):
		return Notice{Title: "Error", Body: "Error de conexión. Verifica tu internet e intenta nuevamente."}
	}
	return Notice{Title: "Error", Body: "Ocurrió un error inesperado"}
}
