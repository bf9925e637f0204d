package auth

import "github.com/unclebandit/mailflow-backend/internal/model"

// Action names a capability checked before a mutation or privileged read.
type Action string

const (
    ActionView          Action = "view"
    ActionEdit          Action = "edit"
    ActionDelete        Action = "delete"
    ActionToggleMailing Action = "toggle_mailing"
    ActionViewAll       Action = "view_all"
    ActionListUsers     Action = "list_users"
    ActionBlockUser     Action = "block_user"
)

// Can is the single capability check consulted by every entry point.
// ownerID is the owner reference of the resource being acted on; nil means
// the resource has no owner (the owning account was deleted).
//
// Managers hold all capabilities. Regular users can view, edit, delete and
// toggle only resources they own.
func Can(actor *model.User, action Action, ownerID *int) bool {
    if actor == nil {
        return false
    }
    if actor.IsManager {
        return true
    }

    switch action {
    case ActionView, ActionEdit, ActionDelete, ActionToggleMailing:
        return ownerID != nil && *ownerID == actor.ID
    }
    return false
}
