package controllers

import (
	"net/http"
	"strconv"

	"publication-management-api/config"
	"publication-management-api/models"
	"publication-management-api/workflow"

	"github.com/gin-gonic/gin"
)

// SubmissionDetail is the full detail payload: the submission plus its
// manuscript versions, author and coauthors.
type SubmissionDetail struct {
	Submission  models.Submission   `json:"submission"`
	Manuscripts []models.Manuscript `json:"manuscripts"`
	Author      models.Author       `json:"author"`
	Coauthors   []models.Coauthor   `json:"coauthors"`
}

func loadSubmissionDetail(submissionID int) (*SubmissionDetail, error) {
	var submission models.Submission
	if err := config.DB.Preload("Status").
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		return nil, err
	}

	detail := SubmissionDetail{Submission: submission}

	if err := config.DB.Where("submission_id = ?", submissionID).
		Order("version DESC").
		Find(&detail.Manuscripts).Error; err != nil {
		return nil, err
	}
	if err := config.DB.Where("submission_id = ?", submissionID).
		First(&detail.Author).Error; err != nil {
		return nil, err
	}
	if err := config.DB.Where("submission_id = ?", submissionID).
		Find(&detail.Coauthors).Error; err != nil {
		return nil, err
	}

	return &detail, nil
}

// GetAllSubmissions lists every active submission with manuscripts and
// author detail, newest first.
func GetAllSubmissions(c *gin.Context) {
	var submissions []models.Submission
	if err := config.DB.Preload("Status").
		Where("delete_at IS NULL").
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch submissions"})
		return
	}

	details := make([]SubmissionDetail, 0, len(submissions))
	for _, submission := range submissions {
		detail, err := loadSubmissionDetail(submission.SubmissionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch submissions"})
			return
		}
		details = append(details, *detail)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submissions fetched",
		"data":    details,
	})
}

// GetSubmission returns one submission by id. Author tokens may only read
// their own submission.
func GetSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Query("submission_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "submission_id is required"})
		return
	}

	roleName, _ := c.Get("roleName")
	if roleName == workflow.RoleAuthor {
		ownID, _ := c.Get("submissionID")
		if ownID != submissionID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
			return
		}
	}

	detail, err := loadSubmissionDetail(submissionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Submission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submission fetched",
		"data":    detail,
	})
}
