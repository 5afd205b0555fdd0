package order

import (
	"errors"
	"fmt"
	"strings"

	"amber-storefront/internal/domain"
)

var (
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrUnknownStatus        = errors.New("unknown order status")
)

// validTransitions lists the statuses an admin may move an order to.
// entregado and cancelado have no outgoing edges.
var validTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.StatusPending:   {domain.StatusConfirmed, domain.StatusCancelled},
	domain.StatusConfirmed: {domain.StatusPreparing},
	domain.StatusPreparing: {domain.StatusReady},
	domain.StatusReady:     {domain.StatusDelivered},
}

var labels = map[domain.OrderStatus]string{
	domain.StatusPending:   "Pendiente",
	domain.StatusConfirmed: "Confirmado",
	domain.StatusPreparing: "Preparando",
	domain.StatusReady:     "Listo",
	domain.StatusDelivered: "Entregado",
	domain.StatusCancelled: "Cancelado",
}

// button text for moving an order into the given status
var actionLabels = map[domain.OrderStatus]string{
	domain.StatusConfirmed: "Confirmar",
	domain.StatusCancelled: "Cancelar",
	domain.StatusPreparing: "Preparando",
	domain.StatusReady:     "Listo",
	domain.StatusDelivered: "Entregado",
}

var aliases = map[string]domain.OrderStatus{
	"pendiente":  domain.StatusPending,
	"pending":    domain.StatusPending,
	"confirmado": domain.StatusConfirmed,
	"confirmed":  domain.StatusConfirmed,
	"preparando": domain.StatusPreparing,
	"preparing":  domain.StatusPreparing,
	"listo":      domain.StatusReady,
	"ready":      domain.StatusReady,
	"entregado":  domain.StatusDelivered,
	"delivered":  domain.StatusDelivered,
	"cancelado":  domain.StatusCancelled,
	"cancelled":  domain.StatusCancelled,
	"canceled":   domain.StatusCancelled,
}

// Action is a status change offered to an administrator
type Action struct {
	Target domain.OrderStatus `json:"target"`
	Label  string             `json:"label"`
}

// ParseStatus maps a backend status string, Spanish or English, to an OrderStatus.
func ParseStatus(raw string) (domain.OrderStatus, error) {
	status, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return status, nil
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to domain.OrderStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrTransitionNotAllowed when the move is not in the table.
func CheckTransition(from, to domain.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
	}
	return nil
}

// Actions returns the buttons shown for an order in the given status.
func Actions(status domain.OrderStatus) []Action {
	targets := validTransitions[status]
	actions := make([]Action, 0, len(targets))
	for _, target := range targets {
		actions = append(actions, Action{Target: target, Label: actionLabels[target]})
	}
	return actions
}

// IsTerminal reports whether no further transitions exist.
func IsTerminal(status domain.OrderStatus) bool {
	return len(validTransitions[status]) == 0
}

// Label returns the display text for a status. Unknown values are shown as-is.
func Label(status domain.OrderStatus) string {
	if l, ok := labels[status]; ok {
		return l
	}
	return string(status)
}
