package session

import "amber-storefront/internal/domain"

// ActionType names an auth state transition
type ActionType string

const (
	ActionLoginSucceeded  ActionType = "LOGIN_SUCCESS"
	ActionSessionRestored ActionType = "RESTORE_SESSION"
	ActionLoggedOut       ActionType = "LOGOUT"
)

// Action is dispatched to the reducer
type Action struct {
	Type  ActionType
	User  *domain.User
	Token string
}

func LoginSucceeded(user domain.User, token string) Action {
	return Action{Type: ActionLoginSucceeded, User: &user, Token: token}
}

func SessionRestored(user domain.User, token string) Action {
	return Action{Type: ActionSessionRestored, User: &user, Token: token}
}

func LoggedOut() Action {
	return Action{Type: ActionLoggedOut}
}

// Reduce returns the next auth state. Unknown actions leave state unchanged.
func Reduce(state domain.AuthState, action Action) domain.AuthState {
	switch action.Type {
	case ActionLoginSucceeded, ActionSessionRestored:
		if action.User == nil || action.Token == "" {
			return state
		}
		user := *action.User
		return domain.AuthState{
			IsAuthenticated: true,
			User:            &user,
			Token:           action.Token,
		}
	case ActionLoggedOut:
		return domain.AuthState{}
	default:
		return state
	}
}
