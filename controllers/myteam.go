package controllers

import (
	"net/http"
	"strconv"
	"time"

	"publication-management-api/config"
	"publication-management-api/models"
	"publication-management-api/utils"
	"publication-management-api/workflow"

	"github.com/gin-gonic/gin"
)

type TeamMemberRequest struct {
	RoleName                   string                `json:"role_name" binding:"required"`
	Name                       string                `json:"name" binding:"required"`
	Mobile                     string                `json:"mobile" binding:"required"`
	AlternateMobile            *string               `json:"alternate_mobile"`
	Email                      string                `json:"email" binding:"required,email"`
	PostalAddress              string                `json:"postal_address"`
	EducationQualification     string                `json:"education_qualification"`
	PreferredSubjects          []string              `json:"preferred_subjects_for_review"`
	InstitutionName            string                `json:"institution_name"`
	InstitutionMobile          string                `json:"institution_mobile"`
	InstitutionAlternateMobile *string               `json:"institution_alternate_mobile"`
	InstitutionEmail           string                `json:"institution_email"`
	InstitutionPostalAddress   string                `json:"institution_postal_address"`
	RefereeName                string                `json:"referee_name"`
	RefereeMobile              string                `json:"referee_mobile"`
	RefereeAlternateMobile     *string               `json:"referee_alternate_mobile"`
	RefereeEmail               string                `json:"referee_email"`
	RefereePostalAddress       string                `json:"referee_postal_address"`
	ProfilePhoto               models.FileAttachment `json:"profile_photo"`
	EducationCertificate       models.FileAttachment `json:"education_certificate"`
}

var teamRoles = map[string]bool{
	workflow.RoleReviewCoordinator: true,
	workflow.RoleReviewer:          true,
	workflow.RoleEditor:            true,
}

func applyMemberRequest(member *models.TeamMember, req TeamMemberRequest) {
	member.RoleName = req.RoleName
	member.Name = req.Name
	member.Mobile = req.Mobile
	member.AlternateMobile = req.AlternateMobile
	member.Email = req.Email
	member.PostalAddress = req.PostalAddress
	member.EducationQualification = req.EducationQualification
	member.PreferredSubjects = models.StringList(req.PreferredSubjects)
	member.InstitutionName = req.InstitutionName
	member.InstitutionMobile = req.InstitutionMobile
	member.InstitutionAlternateMobile = req.InstitutionAlternateMobile
	member.InstitutionEmail = req.InstitutionEmail
	member.InstitutionPostalAddress = req.InstitutionPostalAddress
	member.RefereeName = req.RefereeName
	member.RefereeMobile = req.RefereeMobile
	member.RefereeAlternateMobile = req.RefereeAlternateMobile
	member.RefereeEmail = req.RefereeEmail
	member.RefereePostalAddress = req.RefereePostalAddress
	member.ProfilePhoto = req.ProfilePhoto
	member.EducationCertificate = req.EducationCertificate
}

// CreateTeamMember adds a staff member (coordinator, reviewer or editor).
func CreateTeamMember(c *gin.Context) {
	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if !teamRoles[req.RoleName] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role name"})
		return
	}
	if !utils.ValidateMobile(req.Mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid mobile number"})
		return
	}

	now := time.Now()
	member := models.TeamMember{
		Status:    models.MemberAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyMemberRequest(&member, req)

	if err := config.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create team member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team member created",
		"data":    gin.H{"user_id": member.UserID},
	})
}

// attachAssignedCounts fills SubmissionAssigned for each member from the
// active assignment tables.
func attachAssignedCounts(members []models.TeamMember) {
	for i := range members {
		var count int64
		switch members[i].RoleName {
		case workflow.RoleReviewer:
			config.DB.Model(&models.ReviewerAssignment{}).
				Where("reviewer_id = ? AND delete_at IS NULL", members[i].UserID).
				Count(&count)
		case workflow.RoleEditor:
			config.DB.Model(&models.EditorAssignment{}).
				Where("editor_id = ? AND delete_at IS NULL", members[i].UserID).
				Count(&count)
		}
		members[i].SubmissionAssigned = int(count)
	}
}

// ListTeamMembers returns active staff grouped by role, with current
// assignment counts for reviewers and editors.
func ListTeamMembers(c *gin.Context) {
	var members []models.TeamMember
	if err := config.DB.Where("delete_at IS NULL").Order("name").Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch team members"})
		return
	}

	attachAssignedCounts(members)

	grouped := gin.H{
		"review_coordinators": []models.TeamMember{},
		"reviewers":           []models.TeamMember{},
		"editors":             []models.TeamMember{},
	}
	for _, member := range members {
		switch member.RoleName {
		case workflow.RoleReviewCoordinator:
			grouped["review_coordinators"] = append(grouped["review_coordinators"].([]models.TeamMember), member)
		case workflow.RoleReviewer:
			grouped["reviewers"] = append(grouped["reviewers"].([]models.TeamMember), member)
		case workflow.RoleEditor:
			grouped["editors"] = append(grouped["editors"].([]models.TeamMember), member)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team members fetched",
		"data":    grouped,
	})
}

// GetTeamMember returns one staff member by id.
func GetTeamMember(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user_id is required"})
		return
	}

	var member models.TeamMember
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team member fetched",
		"data":    member,
	})
}

// UpdateTeamMember updates a staff member's profile.
func UpdateTeamMember(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user_id is required"})
		return
	}

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !teamRoles[req.RoleName] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role name"})
		return
	}

	var member models.TeamMember
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		return
	}

	applyMemberRequest(&member, req)
	member.UpdatedAt = time.Now()

	if err := config.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update team member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team member updated",
		"data":    gin.H{"user_id": member.UserID},
	})
}
