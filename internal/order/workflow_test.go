package order

import (
	"errors"
	"strings"
	"testing"

	"amber-storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActions(t *testing.T) {
	tests := []struct {
		status domain.OrderStatus
		want   []Action
	}{
		{domain.StatusPending, []Action{
			{Target: domain.StatusConfirmed, Label: "Confirmar"},
			{Target: domain.StatusCancelled, Label: "Cancelar"},
		}},
		{domain.StatusConfirmed, []Action{{Target: domain.StatusPreparing, Label: "Preparando"}}},
		{domain.StatusPreparing, []Action{{Target: domain.StatusReady, Label: "Listo"}}},
		{domain.StatusReady, []Action{{Target: domain.StatusDelivered, Label: "Entregado"}}},
		{domain.StatusDelivered, []Action{}},
		{domain.StatusCancelled, []Action{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, Actions(tt.status))
		})
	}
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(domain.StatusPending, domain.StatusConfirmed))

	err := CheckTransition(domain.StatusDelivered, domain.StatusPending)
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))

	err = CheckTransition(domain.StatusConfirmed, domain.StatusCancelled)
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))
}

func TestParseStatus(t *testing.T) {
	tests := map[string]domain.OrderStatus{
		"pendiente":  domain.StatusPending,
		"PENDING":    domain.StatusPending,
		" Listo ":    domain.StatusReady,
		"delivered":  domain.StatusDelivered,
		"Entregado":  domain.StatusDelivered,
		"canceled":   domain.StatusCancelled,
		"cancelled":  domain.StatusCancelled,
		"preparing":  domain.StatusPreparing,
		"confirmado": domain.StatusConfirmed,
	}
	for raw, want := range tests {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseStatus("shipped")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Pendiente", Label(domain.StatusPending))
	assert.Equal(t, "Cancelado", Label(domain.StatusCancelled))
	assert.Equal(t, "otro", Label(domain.OrderStatus("otro")))
}

func genStatus() gopter.Gen {
	values := make([]interface{}, len(domain.AllStatuses))
	for i, s := range domain.AllStatuses {
		values[i] = s
	}
	return gen.OneConstOf(values...)
}

// Property: terminal states never offer actions and never transition
func TestProperty_TerminalStatesAreClosed(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("terminal statuses have no outgoing transitions", prop.ForAll(
		func(from, to domain.OrderStatus) bool {
			if !IsTerminal(from) {
				return true
			}
			return len(Actions(from)) == 0 && !CanTransition(from, to)
		},
		genStatus(),
		genStatus(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: the offered actions are exactly the permitted transitions
func TestProperty_ActionsMatchTransitions(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("an action exists iff the transition is allowed", prop.ForAll(
		func(from, to domain.OrderStatus) bool {
			offered := false
			for _, a := range Actions(from) {
				if a.Target == to {
					offered = true
				}
				if a.Label == "" {
					return false
				}
			}
			return offered == CanTransition(from, to)
		},
		genStatus(),
		genStatus(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: parsing is case-insensitive over every known status
func TestProperty_ParseStatusRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("status parses back to itself in any case", prop.ForAll(
		func(s domain.OrderStatus, upper bool) bool {
			raw := string(s)
			if upper {
				raw = strings.ToUpper(raw)
			}
			got, err := ParseStatus(raw)
			return err == nil && got == s
		},
		genStatus(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
