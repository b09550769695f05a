package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"publication-management-api/services"
	"publication-management-api/workflow"

	"github.com/gin-gonic/gin"
)

// GetSubmissionActions serves the action catalog: the ordered list of
// actions the caller's role may currently invoke on the submission. The
// client renders exactly this list and nothing else.
func GetSubmissionActions(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Query("submission_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "submission_id is required"})
		return
	}

	roleName, _ := c.Get("roleName")

	// Author tokens are scoped to a single submission.
	if roleName == workflow.RoleAuthor {
		ownID, _ := c.Get("submissionID")
		if ownID != submissionID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
			return
		}
	}

	descriptors, err := services.ActionCatalog(submissionID, roleName.(string))
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch actions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Actions fetched",
		"data":    gin.H{"actions": descriptors},
	})
}

// CreateSubmissionAction applies one workflow action to a submission. The
// body is the discriminated action payload; validation failures are 400,
// stale or unauthorized actions are 409.
func CreateSubmissionAction(c *gin.Context) {
	var payload workflow.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if payload.SubmissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "submission_id is required"})
		return
	}

	userID, _ := c.Get("userID")
	roleName, _ := c.Get("roleName")

	// Author tokens are scoped to a single submission.
	if roleName == workflow.RoleAuthor {
		ownID, _ := c.Get("submissionID")
		if ownID != payload.SubmissionID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
			return
		}
	}

	err := services.ApplyAction(userID.(int), roleName.(string), payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Submission not found"})
		case errors.Is(err, services.ErrActionNotPermitted):
			c.JSON(http.StatusConflict, gin.H{"message": "Action is no longer available for this submission"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Action applied",
		"data":    gin.H{"action_name": payload.ActionName},
	})
}
