package ledger

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSwapNotFound         = errors.New("swap request not found")
	ErrMessageNotFound      = errors.New("admin message not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidAvailability  = errors.New("unknown availability option")
	ErrSelfSwap             = errors.New("cannot send a swap request to yourself")
	ErrForbidden            = errors.New("action not allowed for this user")
	ErrInvalidTransition    = errors.New("swap request status cannot change")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrSwapNotCompleted     = errors.New("feedback requires a completed swap")
	ErrDuplicateFeedback    = errors.New("feedback already submitted for this swap")
	ErrInvalidMessageType   = errors.New("unknown admin message type")
	ErrInconsistentSnapshot = errors.New("snapshot references unknown entities")
	ErrUserInUse            = errors.New("user has swap requests or feedback")
)
