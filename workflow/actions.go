// Package workflow defines the submission action contract: the closed set of
// action names, the payload variant each action carries, the per-variant
// validation rules, and the status transition table. It is shared by the API
// controllers and the client package so both sides serialize and check the
// same shapes.
package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Action names. The set is closed: an unknown name is rejected at parse time.
const (
	ActionReject                = "reject"
	ActionFirstRevert           = "first_revert"
	ActionSecondRevert          = "second_revert"
	ActionThirdRevert           = "third_revert"
	ActionFourthRevert          = "fourth_revert"
	ActionAssignReviewer        = "assign_reviewer"
	ActionReassignReviewer      = "reassign_reviewer"
	ActionPartialReadyToPublish = "partial_ready_to_publish"
	ActionAssignEditor          = "assign_editor"
	ActionFinalReadyToPublish   = "final_ready_to_publish"
	ActionPaymentPending        = "payment_pending"
	ActionPaymentDone           = "payment_done"
	ActionPublish               = "publish"
	ActionFirstResubmit         = "first_resubmit"
	ActionSecondResubmit        = "second_resubmit"
	ActionThirdResubmit         = "third_resubmit"
	ActionFourthResubmit        = "fourth_resubmit"
	ActionOverwrite             = "overwrite"
)

// Currency accepted for publication fees.
const CurrencyINR = "INR"

// ReviewersPerSubmission is the number of reviewers assigned to every
// manuscript.
const ReviewersPerSubmission = 2

var ErrUnknownAction = errors.New("unknown action name")

// Descriptor is one entry of the action catalog: a permitted action name and
// the label the UI shows for it.
type Descriptor struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Payload is the wire shape of POST /api/submission-status/create/.
// Details is decoded per action through ParseDetails.
type Payload struct {
	SubmissionID int             `json:"submission_id"`
	ActionName   string          `json:"action_name"`
	Details      json.RawMessage `json:"details,omitempty"`
}

// Details is a parsed, action-specific payload variant.
type Details interface {
	// Validate checks the variant's field constraints. now anchors the
	// not-in-the-past checks for deadline fields.
	Validate(now time.Time) error
}

// FileRef references a previously uploaded file.
type FileRef struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type RejectDetails struct {
	Comments string `json:"comments"`
}

type RevertDetails struct {
	Comments  string `json:"comments"`
	Checklist []int  `json:"checklist"`
}

type AssignReviewerDetails struct {
	Reviewers        []int         `json:"reviewers"`
	ReviewerDeadline map[int]int64 `json:"reviewer_deadline"`
}

type ReassignReviewerDetails struct {
	Reviewers          []int         `json:"reviewers"`
	ReviewerIDToDelete int           `json:"reviewer_id_to_delete"`
	ReviewerDeadline   map[int]int64 `json:"reviewer_deadline"`
}

type ScoreDetails struct {
	Score    float64 `json:"score"`
	Comments string  `json:"comments"`
}

type AssignEditorDetails struct {
	Editors []int `json:"editors"`
}

// NoDetails is the variant for actions that carry no fields
// (final_ready_to_publish).
type NoDetails struct{}

type PaymentDetails struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Comments string  `json:"comments"`
}

type PublishDetails struct {
	VolumeID int `json:"volume_id"`
	IssueID  int `json:"issue_id"`
}

type FileDetails struct {
	File FileRef `json:"file"`
}

func (d RejectDetails) Validate(time.Time) error {
	if d.Comments == "" {
		return errors.New("comments are required")
	}
	return nil
}

func (d RevertDetails) Validate(time.Time) error {
	if d.Comments == "" {
		return errors.New("comments are required")
	}
	for _, id := range d.Checklist {
		if id <= 0 {
			return fmt.Errorf("invalid checklist item id %d", id)
		}
	}
	return nil
}

func validateReviewerSet(reviewers []int, deadlines map[int]int64, now time.Time) error {
	if len(reviewers) != ReviewersPerSubmission {
		return fmt.Errorf("exactly %d reviewers must be selected", ReviewersPerSubmission)
	}
	seen := make(map[int]bool, len(reviewers))
	for _, id := range reviewers {
		if id <= 0 {
			return fmt.Errorf("invalid reviewer id %d", id)
		}
		if seen[id] {
			return fmt.Errorf("duplicate reviewer id %d", id)
		}
		seen[id] = true

		deadline, ok := deadlines[id]
		if !ok {
			return fmt.Errorf("missing deadline for reviewer %d", id)
		}
		if time.Unix(deadline, 0).Before(now) {
			return fmt.Errorf("deadline for reviewer %d is in the past", id)
		}
	}
	return nil
}

func (d AssignReviewerDetails) Validate(now time.Time) error {
	return validateReviewerSet(d.Reviewers, d.ReviewerDeadline, now)
}

func (d ReassignReviewerDetails) Validate(now time.Time) error {
	if d.ReviewerIDToDelete <= 0 {
		return errors.New("reviewer_id_to_delete is required")
	}
	return validateReviewerSet(d.Reviewers, d.ReviewerDeadline, now)
}

func (d ScoreDetails) Validate(time.Time) error {
	if d.Score < 1 || d.Score > 10 {
		return errors.New("score must be between 1 and 10")
	}
	return nil
}

func (d AssignEditorDetails) Validate(time.Time) error {
	if len(d.Editors) != 1 {
		return errors.New("exactly 1 editor must be selected")
	}
	if d.Editors[0] <= 0 {
		return fmt.Errorf("invalid editor id %d", d.Editors[0])
	}
	return nil
}

func (NoDetails) Validate(time.Time) error {
	return nil
}

func (d PaymentDetails) Validate(time.Time) error {
	if d.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if d.Currency != CurrencyINR {
		return fmt.Errorf("currency must be %s", CurrencyINR)
	}
	if d.Comments == "" {
		return errors.New("comments are required")
	}
	return nil
}

func (d PublishDetails) Validate(time.Time) error {
	if d.VolumeID <= 0 {
		return errors.New("volume_id is required")
	}
	if d.IssueID <= 0 {
		return errors.New("issue_id is required")
	}
	return nil
}

func (d FileDetails) Validate(time.Time) error {
	if d.File.URL == "" || d.File.Name == "" {
		return errors.New("file url and name are required")
	}
	return nil
}

// ParseDetails decodes raw details into the variant for the given action.
// A nil raw value is only accepted for actions that carry no fields.
func ParseDetails(actionName string, raw json.RawMessage) (Details, error) {
	var target Details
	switch actionName {
	case ActionReject:
		target = &RejectDetails{}
	case ActionFirstRevert, ActionSecondRevert, ActionThirdRevert, ActionFourthRevert:
		target = &RevertDetails{}
	case ActionAssignReviewer:
		target = &AssignReviewerDetails{}
	case ActionReassignReviewer:
		target = &ReassignReviewerDetails{}
	case ActionPartialReadyToPublish:
		target = &ScoreDetails{}
	case ActionAssignEditor:
		target = &AssignEditorDetails{}
	case ActionFinalReadyToPublish:
		return NoDetails{}, nil
	case ActionPaymentPending, ActionPaymentDone:
		target = &PaymentDetails{}
	case ActionPublish:
		target = &PublishDetails{}
	case ActionFirstResubmit, ActionSecondResubmit, ActionThirdResubmit, ActionFourthResubmit, ActionOverwrite:
		target = &FileDetails{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionName)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("details are required for %s", actionName)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("invalid details for %s: %w", actionName, err)
	}
	return target, nil
}

// ParseAndValidate decodes and validates a payload's details in one step.
func ParseAndValidate(p Payload, now time.Time) (Details, error) {
	details, err := ParseDetails(p.ActionName, p.Details)
	if err != nil {
		return nil, err
	}
	if err := details.Validate(now); err != nil {
		return nil, err
	}
	return details, nil
}

// MeanScore combines the five per-criterion ratings into the submitted
// score by exact arithmetic mean, no rounding.
func MeanScore(ratings [5]int) (float64, error) {
	sum := 0
	for i, r := range ratings {
		if r < 1 || r > 10 {
			return 0, fmt.Errorf("rating %d out of range: %d", i+1, r)
		}
		sum += r
	}
	return float64(sum) / 5, nil
}
