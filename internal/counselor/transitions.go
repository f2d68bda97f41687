package counselor

import "github.com/campuswell/backend/internal/models"

// Action is something a participant does to a request.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

type transition struct {
	from []models.RequestStatus
	to   models.RequestStatus
	by   models.Role
}

var transitions = map[Action]transition{
	ActionAccept:   {from: []models.RequestStatus{models.StatusPending}, to: models.StatusAccepted, by: models.RoleCounselor},
	ActionDecline:  {from: []models.RequestStatus{models.StatusPending}, to: models.StatusDeclined, by: models.RoleCounselor},
	ActionComplete: {from: []models.RequestStatus{models.StatusAccepted}, to: models.StatusCompleted, by: models.RoleCounselor},
	ActionCancel:   {from: []models.RequestStatus{models.StatusPending, models.StatusAccepted}, to: models.StatusCancelled, by: models.RoleStudent},
}

// Next returns the status an action moves a request to. ErrForbidden means
// the role may never take the action; ErrInvalidTransition means the request
// is in the wrong state for it.
func Next(current models.RequestStatus, action Action, role models.Role) (models.RequestStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrInvalidTransition
	}
	if role != t.by {
		return "", ErrForbidden
	}
	for _, f := range t.from {
		if f == current {
			return t.to, nil
		}
	}
	return "", ErrInvalidTransition
}

// IsOpen reports whether a request still awaits resolution.
func IsOpen(s models.RequestStatus) bool {
	return s == models.StatusPending || s == models.StatusAccepted
}

// IsTerminal reports whether a status can no longer change.
func IsTerminal(s models.RequestStatus) bool {
	return !IsOpen(s)
}
