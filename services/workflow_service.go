package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"publication-management-api/config"
	"publication-management-api/models"
	"publication-management-api/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrActionNotPermitted covers both unauthorized roles and stale
	// actions: the permitted set is re-checked against the row's current
	// status inside the transaction, so a racing second action fails here
	// instead of applying twice.
	ErrActionNotPermitted = errors.New("action is not permitted for this submission")
)

// ActionCatalog returns the ordered permitted actions for the submission as
// seen by the given role. The catalog is recomputed from the current status
// on every call; nothing about it is persisted.
func ActionCatalog(submissionID int, role string) ([]workflow.Descriptor, error) {
	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND delete_at IS NULL", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	status, err := GetStatusByID(submission.StatusID)
	if err != nil {
		return nil, err
	}

	return workflow.CatalogFor(status.Name, role), nil
}

// ApplyAction validates and applies one workflow action. The submission row
// is locked for the duration of the transaction and the action is re-checked
// against the current status, so concurrent actions serialize and the loser
// gets ErrActionNotPermitted.
func ApplyAction(userID int, role string, payload workflow.Payload) error {
	details, err := workflow.ParseAndValidate(payload, time.Now())
	if err != nil {
		return err
	}

	var notice *actionNotice

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("submission_id = ? AND delete_at IS NULL", payload.SubmissionID).
			First(&submission).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}

		oldStatus, err := GetStatusByID(submission.StatusID)
		if err != nil {
			return err
		}

		if !workflow.Permits(oldStatus.Name, role, payload.ActionName) {
			return ErrActionNotPermitted
		}

		newStatusName, err := workflow.Transition(oldStatus.Name, payload.ActionName)
		if err != nil {
			return err
		}
		newStatus, err := GetStatusByName(newStatusName)
		if err != nil {
			return err
		}

		comments, err := applyDetails(tx, &submission, userID, payload.ActionName, details)
		if err != nil {
			return err
		}

		oldID := submission.StatusID
		history := models.SubmissionStatusHistory{
			SubmissionID: submission.SubmissionID,
			OldStatusID:  &oldID,
			NewStatusID:  newStatus.StatusID,
			ActionName:   payload.ActionName,
			ChangedBy:    userID,
			Comments:     comments,
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submission.SubmissionID).
			Updates(map[string]interface{}{
				"status_id":  newStatus.StatusID,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		notice = noticeFor(tx, &submission, payload.ActionName, details)
		return nil
	})
	if err != nil {
		return err
	}

	// Notifications are best-effort: the transition already committed, a
	// failed mail must not roll it back.
	sendActionNotice(notice)
	return nil
}

// applyDetails runs the per-action side effects and returns the comments to
// record in the status history, if the action carries any.
func applyDetails(tx *gorm.DB, submission *models.Submission, userID int, actionName string, details workflow.Details) (*string, error) {
	now := time.Now()

	switch d := details.(type) {
	case *workflow.RejectDetails:
		return &d.Comments, nil

	case *workflow.RevertDetails:
		checklist, err := checklistSnapshot(tx, d.Checklist)
		if err != nil {
			return nil, err
		}
		if err := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = (?)", latestManuscriptID(tx, submission.SubmissionID)).
			Updates(map[string]interface{}{
				"comments":   d.Comments,
				"checklist":  checklist,
				"updated_at": now,
			}).Error; err != nil {
			return nil, err
		}
		return &d.Comments, nil

	case *workflow.AssignReviewerDetails:
		if err := requireMembers(tx, d.Reviewers, workflow.RoleReviewer); err != nil {
			return nil, err
		}
		for _, reviewerID := range d.Reviewers {
			assignment := models.ReviewerAssignment{
				SubmissionID: submission.SubmissionID,
				ReviewerID:   reviewerID,
				Deadline:     time.Unix(d.ReviewerDeadline[reviewerID], 0),
				CreatedAt:    now,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return nil, err
			}
		}
		return nil, nil

	case *workflow.ReassignReviewerDetails:
		if err := requireMembers(tx, d.Reviewers, workflow.RoleReviewer); err != nil {
			return nil, err
		}
		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("submission_id = ? AND reviewer_id = ? AND delete_at IS NULL", submission.SubmissionID, d.ReviewerIDToDelete).
			Update("delete_at", now).Error; err != nil {
			return nil, err
		}

		// The active assignments must end up as exactly the listed pair, so
		// anything retained has to appear in the new reviewer set.
		var active []models.ReviewerAssignment
		if err := tx.Where("submission_id = ? AND delete_at IS NULL", submission.SubmissionID).
			Find(&active).Error; err != nil {
			return nil, err
		}
		listed := make(map[int]bool, len(d.Reviewers))
		for _, reviewerID := range d.Reviewers {
			listed[reviewerID] = true
		}
		assigned := make(map[int]bool, len(active))
		for _, assignment := range active {
			if !listed[assignment.ReviewerID] {
				return nil, fmt.Errorf("reviewer %d is still assigned but not in the new reviewer set", assignment.ReviewerID)
			}
			assigned[assignment.ReviewerID] = true
		}

		for _, reviewerID := range d.Reviewers {
			if assigned[reviewerID] {
				continue
			}
			assignment := models.ReviewerAssignment{
				SubmissionID: submission.SubmissionID,
				ReviewerID:   reviewerID,
				Deadline:     time.Unix(d.ReviewerDeadline[reviewerID], 0),
				CreatedAt:    now,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return nil, err
			}
		}
		return nil, nil

	case *workflow.ScoreDetails:
		review := models.SubmissionReview{
			SubmissionID: submission.SubmissionID,
			ReviewerID:   userID,
			Score:        d.Score,
			Comments:     &d.Comments,
			ReviewedAt:   now,
		}
		if err := tx.Create(&review).Error; err != nil {
			return nil, err
		}
		if d.Comments == "" {
			return nil, nil
		}
		return &d.Comments, nil

	case *workflow.AssignEditorDetails:
		if err := requireMembers(tx, d.Editors, workflow.RoleEditor); err != nil {
			return nil, err
		}
		if err := tx.Model(&models.EditorAssignment{}).
			Where("submission_id = ? AND delete_at IS NULL", submission.SubmissionID).
			Update("delete_at", now).Error; err != nil {
			return nil, err
		}
		assignment := models.EditorAssignment{
			SubmissionID: submission.SubmissionID,
			EditorID:     d.Editors[0],
			CreatedAt:    now,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return nil, err
		}
		return nil, nil

	case workflow.NoDetails:
		return nil, nil

	case *workflow.PaymentDetails:
		if actionName == workflow.ActionPaymentPending {
			record := models.PaymentRecord{
				SubmissionID: submission.SubmissionID,
				Amount:       d.Amount,
				Currency:     d.Currency,
				Status:       "pending",
				Comments:     &d.Comments,
				CreatedAt:    now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return nil, err
			}
		} else {
			if err := tx.Model(&models.PaymentRecord{}).
				Where("submission_id = ? AND status = ?", submission.SubmissionID, "pending").
				Updates(map[string]interface{}{
					"status":  "done",
					"paid_at": now,
				}).Error; err != nil {
				return nil, err
			}
		}
		return &d.Comments, nil

	case *workflow.PublishDetails:
		var issue models.Issue
		if err := tx.Where("issue_id = ? AND volume_id = ? AND delete_at IS NULL", d.IssueID, d.VolumeID).
			First(&issue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("issue %d not found in volume %d", d.IssueID, d.VolumeID)
			}
			return nil, err
		}
		published := models.PublishedManuscript{
			SubmissionID: submission.SubmissionID,
			VolumeID:     d.VolumeID,
			IssueID:      d.IssueID,
			PublishedOn:  now,
		}
		if err := tx.Create(&published).Error; err != nil {
			return nil, err
		}
		return nil, nil

	case *workflow.FileDetails:
		if actionName == workflow.ActionOverwrite {
			if err := tx.Model(&models.Manuscript{}).
				Where("manuscript_id = (?)", latestManuscriptID(tx, submission.SubmissionID)).
				Updates(map[string]interface{}{
					"file_url":   d.File.URL,
					"file_name":  d.File.Name,
					"updated_at": now,
				}).Error; err != nil {
				return nil, err
			}
			return nil, nil
		}

		// Resubmit appends a fresh manuscript version.
		var version int
		row := tx.Model(&models.Manuscript{}).
			Where("submission_id = ?", submission.SubmissionID).
			Select("COALESCE(MAX(version), 0)").Row()
		if err := row.Scan(&version); err != nil {
			return nil, err
		}
		manuscript := models.Manuscript{
			SubmissionID: submission.SubmissionID,
			File:         models.FileAttachment{URL: d.File.URL, Name: d.File.Name},
			Version:      version + 1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&manuscript).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	return nil, fmt.Errorf("unhandled details type %T", details)
}

// latestManuscriptID builds a subquery selecting the newest manuscript
// version for the submission.
func latestManuscriptID(tx *gorm.DB, submissionID int) *gorm.DB {
	return tx.Model(&models.Manuscript{}).
		Select("manuscript_id").
		Where("submission_id = ?", submissionID).
		Order("version DESC").
		Limit(1)
}

// requireMembers verifies that every id is an active team member with the
// expected role.
func requireMembers(tx *gorm.DB, ids []int, role string) error {
	var count int64
	if err := tx.Model(&models.TeamMember{}).
		Where("user_id IN ? AND role_name = ? AND delete_at IS NULL", ids, role).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("one or more selected %ss do not exist", role)
	}
	return nil
}

// checklistSnapshot resolves checklist item ids to their labels and returns
// the JSON snapshot stored on the manuscript.
func checklistSnapshot(tx *gorm.DB, itemIDs []int) (string, error) {
	if len(itemIDs) == 0 {
		return "[]", nil
	}

	var items []models.ChecklistItem
	if err := tx.Where("item_id IN ? AND delete_at IS NULL", itemIDs).Find(&items).Error; err != nil {
		return "", err
	}
	if len(items) != len(itemIDs) {
		return "", errors.New("one or more checklist items do not exist")
	}

	snapshot := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, map[string]interface{}{
			"id":   item.ItemID,
			"item": item.Item,
		})
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
