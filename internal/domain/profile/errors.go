package profile

import "errors"

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrProfileInactive       = errors.New("profile is inactive")
	ErrProfileReferenced     = errors.New("profile is referenced by settled sales and cannot be deleted")
	ErrRelationNotFound      = errors.New("relation not found")
	ErrRelationAlreadyActive = errors.New("agent already has an active relation")
	ErrNotInScope            = errors.New("actor is not allowed to access this resource")
)
