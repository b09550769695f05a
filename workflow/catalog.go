package workflow

import "fmt"

// Workflow statuses. published and rejected are terminal.
const (
	StatusSubmitted      = "submitted"
	StatusFirstReverted  = "first_reverted"
	StatusSecondReverted = "second_reverted"
	StatusThirdReverted  = "third_reverted"
	StatusFourthReverted = "fourth_reverted"
	StatusUnderReview    = "under_review"
	StatusReviewed       = "reviewed"
	StatusEditorAssigned = "editor_assigned"
	StatusReadyToPublish = "ready_to_publish"
	StatusPaymentPending = "payment_pending"
	StatusPaymentDone    = "payment_done"
	StatusPublished      = "published"
	StatusRejected       = "rejected"
)

// Staff and author roles.
const (
	RoleAdmin             = "admin"
	RoleReviewCoordinator = "review_coordinator"
	RoleReviewer          = "reviewer"
	RoleEditor            = "editor"
	RoleAuthor            = "author"
)

// StatusInfo carries the display label and badge colors seeded into the
// submission_statuses table.
type StatusInfo struct {
	Name       string
	Label      string
	Background string
	Text       string
}

// Statuses lists every workflow status in lifecycle order.
var Statuses = []StatusInfo{
	{StatusSubmitted, "Submitted", "#EFF8FF", "#175CD3"},
	{StatusFirstReverted, "Reverted to Author", "#FFFAEB", "#B54708"},
	{StatusSecondReverted, "Reverted to Author", "#FFFAEB", "#B54708"},
	{StatusThirdReverted, "Reverted to Author", "#FFFAEB", "#B54708"},
	{StatusFourthReverted, "Reverted to Author", "#FFFAEB", "#B54708"},
	{StatusUnderReview, "Under Review", "#F4F3FF", "#5925DC"},
	{StatusReviewed, "Reviewed", "#F4F3FF", "#5925DC"},
	{StatusEditorAssigned, "With Editor", "#F4F3FF", "#5925DC"},
	{StatusReadyToPublish, "Ready to Publish", "#ECFDF3", "#027A48"},
	{StatusPaymentPending, "Payment Pending", "#FFFAEB", "#B54708"},
	{StatusPaymentDone, "Payment Done", "#ECFDF3", "#027A48"},
	{StatusPublished, "Published", "#ECFDF3", "#027A48"},
	{StatusRejected, "Rejected", "#FEF3F2", "#B42318"},
}

type catalogEntry struct {
	descriptor Descriptor
	roles      []string
}

func staff(name, label string) catalogEntry {
	return catalogEntry{Descriptor{name, label}, []string{RoleReviewCoordinator, RoleAdmin}}
}

func forRole(role, name, label string) catalogEntry {
	return catalogEntry{Descriptor{name, label}, []string{role, RoleAdmin}}
}

// catalog maps each status to the ordered actions it permits and the roles
// allowed to invoke each. This is the single authoritative projection the
// GET endpoint serves; clients render exactly this list.
var catalog = map[string][]catalogEntry{
	StatusSubmitted: {
		staff(ActionAssignReviewer, "Approve"),
		staff(ActionFirstRevert, "Revert to Author"),
		staff(ActionReject, "Reject Manuscript"),
		staff(ActionOverwrite, "Replace Manuscript"),
	},
	StatusFirstReverted: {
		forRole(RoleAuthor, ActionFirstResubmit, "Resubmit Manuscript"),
		staff(ActionOverwrite, "Replace Manuscript"),
		staff(ActionReject, "Reject Manuscript"),
	},
	StatusUnderReview: {
		forRole(RoleReviewer, ActionPartialReadyToPublish, "Ready To Publish"),
		staff(ActionReassignReviewer, "Reassign Reviewer"),
		staff(ActionSecondRevert, "Revert to Author"),
		staff(ActionReject, "Reject Manuscript"),
	},
	StatusSecondReverted: {
		forRole(RoleAuthor, ActionSecondResubmit, "Resubmit Manuscript"),
		staff(ActionOverwrite, "Replace Manuscript"),
		staff(ActionReject, "Reject Manuscript"),
	},
	StatusReviewed: {
		staff(ActionAssignEditor, "Assign Editor"),
		staff(ActionThirdRevert, "Revert to Author"),
		staff(ActionReject, "Reject Manuscript"),
	},
	StatusThirdReverted: {
		forRole(RoleAuthor, ActionThirdResubmit, "Resubmit Manuscript"),
		staff(ActionOverwrite, "Replace Manuscript"),
		staff(ActionReject, "Reject Manuscript"),
	},
	StatusEditorAssigned: {
		forRole(RoleEditor, ActionFinalReadyToPublish, "Ready to be Published"),
		staff(ActionFourthRevert, "Revert to Author"),
		staff(ActionReject, "Reject Manuscript"),
	},
	StatusFourthReverted: {
		forRole(RoleAuthor, ActionFourthResubmit, "Resubmit Manuscript"),
		staff(ActionOverwrite, "Replace Manuscript"),
		staff(ActionReject, "Reject Manuscript"),
	},
	StatusReadyToPublish: {
		staff(ActionPaymentPending, "Approve and Send Payment Link"),
	},
	StatusPaymentPending: {
		staff(ActionPaymentDone, "Mark Payment Done"),
	},
	StatusPaymentDone: {
		staff(ActionPublish, "Publish Manuscript"),
	},
	StatusPublished: {},
	StatusRejected:  {},
}

// resubmitTarget maps each resubmit action back to the stage the matching
// revert interrupted.
var resubmitTarget = map[string]string{
	ActionFirstResubmit:  StatusSubmitted,
	ActionSecondResubmit: StatusUnderReview,
	ActionThirdResubmit:  StatusReviewed,
	ActionFourthResubmit: StatusEditorAssigned,
}

// CatalogFor returns the ordered action descriptors permitted for the given
// status and caller role. Unknown statuses and roles yield an empty list;
// authorization is entirely this table, the client adds nothing.
func CatalogFor(status, role string) []Descriptor {
	entries := catalog[status]
	descriptors := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		for _, allowed := range entry.roles {
			if allowed == role {
				descriptors = append(descriptors, entry.descriptor)
				break
			}
		}
	}
	return descriptors
}

// Permits reports whether the action is in the catalog for this status and
// role. ApplyAction re-checks this inside the transaction so a stale client
// cannot replay an action the workflow has moved past.
func Permits(status, role, actionName string) bool {
	for _, d := range CatalogFor(status, role) {
		if d.Name == actionName {
			return true
		}
	}
	return false
}

// Transition returns the status a submission enters when the action is
// applied from the given status. Overwrite and reassign_reviewer leave the
// status unchanged.
func Transition(status, actionName string) (string, error) {
	switch actionName {
	case ActionReject:
		return StatusRejected, nil
	case ActionFirstRevert:
		return StatusFirstReverted, nil
	case ActionSecondRevert:
		return StatusSecondReverted, nil
	case ActionThirdRevert:
		return StatusThirdReverted, nil
	case ActionFourthRevert:
		return StatusFourthReverted, nil
	case ActionAssignReviewer:
		return StatusUnderReview, nil
	case ActionReassignReviewer:
		return StatusUnderReview, nil
	case ActionPartialReadyToPublish:
		return StatusReviewed, nil
	case ActionAssignEditor:
		return StatusEditorAssigned, nil
	case ActionFinalReadyToPublish:
		return StatusReadyToPublish, nil
	case ActionPaymentPending:
		return StatusPaymentPending, nil
	case ActionPaymentDone:
		return StatusPaymentDone, nil
	case ActionPublish:
		return StatusPublished, nil
	case ActionFirstResubmit, ActionSecondResubmit, ActionThirdResubmit, ActionFourthResubmit:
		return resubmitTarget[actionName], nil
	case ActionOverwrite:
		return status, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAction, actionName)
}

// Terminal reports whether the status admits no further actions.
func Terminal(status string) bool {
	return status == StatusPublished || status == StatusRejected
}
