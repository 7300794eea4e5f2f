package circulation

import "github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"

// DenyReason tells why the gate refused an account.
type DenyReason int

// Deny reasons, in the order the gate checks them.
const (
	// Allowed means the account may borrow.
	Allowed DenyReason = iota
	// ExcessiveOverdue means the account holds more overdue books than the limit.
	ExcessiveOverdue
	// PendingActivation means a new account has not been activated yet.
	PendingActivation
	// Deactivated means a librarian turned the account off while it had overdue books.
	Deactivated
)

// Message is the client facing text of the reason.
func (r DenyReason) Message() string {
	switch r {
	case ExcessiveOverdue:
		return "You have exceeded the overdue-limit. Please return your overdue books to continue borrowing books."
	case PendingActivation:
		return "A librarian will activate your newly created account shortly."
	case Deactivated:
		return "Your account has been deactivated for overdue books. Please return them to access your account."
	case Allowed:
		return ""
	}

	return "account can not borrow"
}

func (r DenyReason) String() string {
	switch r {
	case Allowed:
		return "allowed"
	case ExcessiveOverdue:
		return "excessive-overdue"
	case PendingActivation:
		return "pending-activation"
	case Deactivated:
		return "deactivated"
	}

	return "unknown"
}

// Gate decides whether an account may borrow.
type Gate struct {
	policy Policy
}

// NewGate creates a Gate for policy.
func NewGate(policy Policy) *Gate {
	return &Gate{policy: policy}
}

// CanBorrow checks u against the overdue limit first, then against its activation flag.
// The overdue list of u must be fresh. An inactive account with no overdue book is
// pending its first activation, otherwise it was deactivated.
func (g *Gate) CanBorrow(u *models.User) DenyReason {
	if g.policy.ExceedsLimit(u) {
		return ExcessiveOverdue
	}

	if !u.Active {
		if u.OverdueCount() == 0 {
			return PendingActivation
		}

		return Deactivated
	}

	return Allowed
}
