package services

import (
	"fmt"
	"log"

	"publication-management-api/config"
	"publication-management-api/models"
	"publication-management-api/workflow"

	"gorm.io/gorm"
)

// actionNotice is the email queued by a successful action. Recipients are
// resolved inside the transaction so the send itself needs no further
// queries.
type actionNotice struct {
	to      []string
	subject string
	body    string
}

func authorEmail(tx *gorm.DB, submissionID int) []string {
	var author models.Author
	if err := tx.Where("submission_id = ?", submissionID).First(&author).Error; err != nil {
		log.Printf("Warning: no author found for submission %d: %v", submissionID, err)
		return nil
	}
	return []string{author.Email}
}

func memberEmails(tx *gorm.DB, ids []int) []string {
	var members []models.TeamMember
	if err := tx.Where("user_id IN ? AND delete_at IS NULL", ids).Find(&members).Error; err != nil {
		log.Printf("Warning: failed to load team members %v: %v", ids, err)
		return nil
	}
	emails := make([]string, 0, len(members))
	for _, m := range members {
		emails = append(emails, m.Email)
	}
	return emails
}

// noticeFor builds the notification mail for an applied action, or nil when
// the action has no notification side effect.
func noticeFor(tx *gorm.DB, submission *models.Submission, actionName string, details workflow.Details) *actionNotice {
	ref := submission.ReferenceNumber

	switch d := details.(type) {
	case *workflow.RejectDetails:
		return &actionNotice{
			to:      authorEmail(tx, submission.SubmissionID),
			subject: fmt.Sprintf("Manuscript %s has been rejected", ref),
			body: fmt.Sprintf("<p>Your manuscript <b>%s</b> was rejected.</p><p>%s</p>",
				submission.Title, d.Comments),
		}

	case *workflow.RevertDetails:
		return &actionNotice{
			to:      authorEmail(tx, submission.SubmissionID),
			subject: fmt.Sprintf("Manuscript %s needs corrections", ref),
			body: fmt.Sprintf("<p>Your manuscript <b>%s</b> was returned for corrections.</p><p>%s</p>",
				submission.Title, d.Comments),
		}

	case *workflow.AssignReviewerDetails:
		return &actionNotice{
			to:      memberEmails(tx, d.Reviewers),
			subject: fmt.Sprintf("Manuscript %s assigned to you for review", ref),
			body:    fmt.Sprintf("<p>You have been assigned <b>%s</b> for review.</p>", submission.Title),
		}

	case *workflow.ReassignReviewerDetails:
		return &actionNotice{
			to:      memberEmails(tx, d.Reviewers),
			subject: fmt.Sprintf("Manuscript %s assigned to you for review", ref),
			body:    fmt.Sprintf("<p>You have been assigned <b>%s</b> for review.</p>", submission.Title),
		}

	case *workflow.AssignEditorDetails:
		return &actionNotice{
			to:      memberEmails(tx, d.Editors),
			subject: fmt.Sprintf("Manuscript %s assigned to you for final check", ref),
			body:    fmt.Sprintf("<p>You have been assigned <b>%s</b> as editor.</p>", submission.Title),
		}

	case *workflow.PaymentDetails:
		if actionName != workflow.ActionPaymentPending {
			return nil
		}
		return &actionNotice{
			to:      authorEmail(tx, submission.SubmissionID),
			subject: fmt.Sprintf("Payment requested for manuscript %s", ref),
			body: fmt.Sprintf("<p>Your manuscript <b>%s</b> has been approved. Please complete the payment of %.2f %s to proceed with publication.</p>",
				submission.Title, d.Amount, d.Currency),
		}

	case *workflow.PublishDetails:
		return &actionNotice{
			to:      authorEmail(tx, submission.SubmissionID),
			subject: fmt.Sprintf("Manuscript %s has been published", ref),
			body:    fmt.Sprintf("<p>Congratulations, your manuscript <b>%s</b> has been published.</p>", submission.Title),
		}
	}

	return nil
}

func sendActionNotice(notice *actionNotice) {
	if notice == nil || len(notice.to) == 0 {
		return
	}
	if err := config.SendMail(notice.to, notice.subject, notice.body); err != nil {
		log.Printf("Warning: failed to send notification '%s': %v", notice.subject, err)
	}
}
