package controllers

import (
	"net/http"
	"strconv"
	"time"

	"publication-management-api/config"
	"publication-management-api/models"

	"github.com/gin-gonic/gin"
)

type IssueRequest struct {
	Title       string                `json:"title" binding:"required"`
	Thumbnail   models.FileAttachment `json:"thumbnail"`
	StartDate   time.Time             `json:"start_date" binding:"required"`
	EndDate     time.Time             `json:"end_date" binding:"required"`
	Description string                `json:"description"`
	VolumeID    int                   `json:"volume_id" binding:"required"`
}

// CreateIssue adds an issue to a volume.
func CreateIssue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "end_date must be after start_date"})
		return
	}

	var volume models.Volume
	if err := config.DB.Where("volume_id = ? AND delete_at IS NULL", req.VolumeID).First(&volume).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Volume not found"})
		return
	}

	now := time.Now()
	issue := models.Issue{
		VolumeID:    req.VolumeID,
		Title:       req.Title,
		Thumbnail:   req.Thumbnail,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := config.DB.Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue created",
		"data":    issue,
	})
}

// UpdateIssue updates one issue.
func UpdateIssue(c *gin.Context) {
	var req struct {
		IssueRequest
		IssueID int `json:"issue_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var issue models.Issue
	if err := config.DB.Where("issue_id = ? AND delete_at IS NULL", req.IssueID).First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		return
	}

	issue.Title = req.Title
	issue.Thumbnail = req.Thumbnail
	issue.StartDate = req.StartDate
	issue.EndDate = req.EndDate
	issue.Description = req.Description
	issue.VolumeID = req.VolumeID
	issue.UpdatedAt = time.Now()

	if err := config.DB.Save(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue updated",
		"data":    issue,
	})
}

// DeleteIssue soft-deletes one issue. Issues with published manuscripts
// cannot be deleted.
func DeleteIssue(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Query("issue_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "issue_id is required"})
		return
	}

	var publishedCount int64
	if err := config.DB.Model(&models.PublishedManuscript{}).
		Where("issue_id = ?", issueID).
		Count(&publishedCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete issue"})
		return
	}
	if publishedCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Issue has published manuscripts"})
		return
	}

	result := config.DB.Model(&models.Issue{}).
		Where("issue_id = ? AND delete_at IS NULL", issueID).
		Update("delete_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete issue"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue deleted",
		"data":    gin.H{"id": issueID},
	})
}

// GetAllIssues lists a volume's active issues by start date.
func GetAllIssues(c *gin.Context) {
	volumeID, err := strconv.Atoi(c.Query("volume_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "volume_id is required"})
		return
	}

	var issues []models.Issue
	if err := config.DB.Where("volume_id = ? AND delete_at IS NULL", volumeID).
		Order("start_date").Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issues fetched",
		"data":    issues,
	})
}

// GetCurrentAndNextIssue returns the issue whose date range contains today
// and the next one starting after it. Publish targets are picked from these.
func GetCurrentAndNextIssue(c *gin.Context) {
	now := time.Now()

	var current models.Issue
	currentErr := config.DB.
		Where("start_date <= ? AND end_date >= ? AND delete_at IS NULL", now, now).
		Order("start_date").First(&current).Error

	var next models.Issue
	nextErr := config.DB.
		Where("start_date > ? AND delete_at IS NULL", now).
		Order("start_date").First(&next).Error

	data := gin.H{}
	if currentErr == nil {
		data["current_issue"] = current
	}
	if nextErr == nil {
		data["next_issue"] = next
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issues fetched",
		"data":    data,
	})
}

// GetPublishedManuscripts lists the manuscripts published into an issue.
func GetPublishedManuscripts(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Query("issue_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "issue_id is required"})
		return
	}

	var published []models.PublishedManuscript
	if err := config.DB.Where("issue_id = ?", issueID).Order("published_on").Find(&published).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch published manuscripts"})
		return
	}

	type publishedEntry struct {
		models.PublishedManuscript
		ReferenceNumber string                `json:"reference_number"`
		Title           string                `json:"title"`
		Category        string                `json:"category"`
		File            models.FileAttachment `json:"file"`
		AuthorName      string                `json:"author_name"`
		Score           *float64              `json:"score,omitempty"`
	}

	entries := make([]publishedEntry, 0, len(published))
	for _, row := range published {
		entry := publishedEntry{PublishedManuscript: row}

		var submission models.Submission
		if err := config.DB.Where("submission_id = ?", row.SubmissionID).First(&submission).Error; err == nil {
			entry.ReferenceNumber = submission.ReferenceNumber
			entry.Title = submission.Title
			entry.Category = submission.Category
		}

		var manuscript models.Manuscript
		if err := config.DB.Where("submission_id = ?", row.SubmissionID).
			Order("version DESC").First(&manuscript).Error; err == nil {
			entry.File = manuscript.File
		}

		var author models.Author
		if err := config.DB.Where("submission_id = ?", row.SubmissionID).First(&author).Error; err == nil {
			entry.AuthorName = author.Name
		}

		var review models.SubmissionReview
		if err := config.DB.Where("submission_id = ?", row.SubmissionID).
			Order("reviewed_at DESC").First(&review).Error; err == nil {
			entry.Score = &review.Score
		}

		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Published manuscripts fetched",
		"data":    entries,
	})
}
