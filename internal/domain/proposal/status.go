package proposal

// Status is the canonical lifecycle state of a proposal. All ordering,
// terminality and label queries go through the single table below; call sites
// must never compare raw order numbers of their own.
type Status string

const (
	StatusSubmitted           Status = "SUBMITTED"
	StatusAwaitingApplication Status = "AWAITING_APPLICATION"
	StatusPendingHostReview   Status = "PENDING_HOST_REVIEW"
	StatusHostReview          Status = "HOST_REVIEW"
	StatusCountered           Status = "COUNTERED"
	StatusAccepted            Status = "ACCEPTED"
	StatusLeaseSent           Status = "LEASE_SENT"
	StatusLeaseActive         Status = "LEASE_ACTIVE"
	StatusRejected            Status = "REJECTED"
	StatusCancelledByGuest    Status = "CANCELLED_BY_GUEST"
	StatusCancelledByPlatform Status = "CANCELLED_BY_PLATFORM"
)

// orderTerminalFailure marks statuses that sit outside the ordered
// progression: they are reachable from any non-terminal order.
const orderTerminalFailure = -1

type statusInfo struct {
	order    int
	terminal bool
	success  bool
	label    string
}

var statusTable = map[Status]statusInfo{
	StatusSubmitted:           {order: 0, label: "Submitted"},
	StatusAwaitingApplication: {order: 1, label: "Awaiting rental application"},
	StatusPendingHostReview:   {order: 2, label: "Pending host review"},
	StatusHostReview:          {order: 3, label: "In host review"},
	StatusCountered:           {order: 4, label: "Host counteroffer awaiting guest"},
	StatusAccepted:            {order: 5, label: "Accepted"},
	StatusLeaseSent:           {order: 6, label: "Lease documents in review"},
	StatusLeaseActive:         {order: 7, terminal: true, success: true, label: "Lease active"},
	StatusRejected:            {order: orderTerminalFailure, terminal: true, label: "Rejected by host"},
	StatusCancelledByGuest:    {order: orderTerminalFailure, terminal: true, label: "Cancelled by guest"},
	StatusCancelledByPlatform: {order: orderTerminalFailure, terminal: true, label: "Cancelled by platform"},
}

func (s Status) Known() bool {
	_, ok := statusTable[s]
	return ok
}

// UsualOrder positions the status on the progress bar. Terminal failures
// return orderTerminalFailure as they fall off the ordered track.
func (s Status) UsualOrder() int {
	return statusTable[s].order
}

func (s Status) Terminal() bool {
	return statusTable[s].terminal
}

// Succeeded reports whether the status is the successful terminal state.
func (s Status) Succeeded() bool {
	return statusTable[s].success
}

func (s Status) Label() string {
	return statusTable[s].label
}

// Pending reports whether the proposal still awaits a decision from either side.
func (s Status) Pending() bool {
	info := statusTable[s]
	return !info.terminal && info.order < statusTable[StatusAccepted].order
}

// AcceptedOrLater reports whether the current terms have been agreed by both
// parties (accepted, lease flow, or active).
func (s Status) AcceptedOrLater() bool {
	info := statusTable[s]
	if info.order == orderTerminalFailure {
		return false
	}
	return info.order >= statusTable[StatusAccepted].order
}
