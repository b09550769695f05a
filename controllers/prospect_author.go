package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"publication-management-api/config"
	"publication-management-api/models"
	"publication-management-api/utils"

	"github.com/gin-gonic/gin"
)

type ProspectAuthorRequest struct {
	Name             string  `json:"name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	Mobile           string  `json:"mobile" binding:"required"`
	NameOfCollege    *string `json:"name_of_college"`
	NameOfUniversity *string `json:"name_of_university"`
}

type BulkUploadRequest struct {
	URL  string `json:"url" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type CallForPaperRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateProspect adds one prospective author, or many when called with
// ?type=bulk and an uploaded CSV reference.
func CreateProspect(c *gin.Context) {
	if c.Query("type") == "bulk" {
		bulkCreateProspects(c)
		return
	}

	var req ProspectAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !utils.ValidateMobile(req.Mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid mobile number"})
		return
	}

	now := time.Now()
	prospect := models.ProspectAuthor{
		Name:             utils.SanitizeInput(req.Name),
		Email:            req.Email,
		Mobile:           req.Mobile,
		NameOfCollege:    req.NameOfCollege,
		NameOfUniversity: req.NameOfUniversity,
		ShouldNotify:     true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := config.DB.Create(&prospect).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create prospect"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prospect created",
		"data":    gin.H{"id": prospect.ProspectID},
	})
}

// bulkCreateProspects imports prospects from a previously uploaded CSV with
// name,email,mobile[,college,university] rows. Invalid rows are skipped.
func bulkCreateProspects(c *gin.Context) {
	var req BulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	path := filepath.Join(uploadPath, filepath.Base(req.URL))

	f, err := os.Open(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Uploaded file not found"})
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	created := 0
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Invalid CSV: %v", err)})
			return
		}
		if len(record) < 3 {
			skipped++
			continue
		}

		name := utils.SanitizeInput(record[0])
		email := strings.TrimSpace(record[1])
		mobile := strings.TrimSpace(record[2])
		if name == "" || !utils.ValidateEmail(email) || !utils.ValidateMobile(mobile) {
			skipped++
			continue
		}

		now := time.Now()
		prospect := models.ProspectAuthor{
			Name:         name,
			Email:        email,
			Mobile:       mobile,
			ShouldNotify: true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			college := strings.TrimSpace(record[3])
			prospect.NameOfCollege = &college
		}
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			university := strings.TrimSpace(record[4])
			prospect.NameOfUniversity = &university
		}

		if err := config.DB.Create(&prospect).Error; err != nil {
			skipped++
			continue
		}
		created++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Imported %d prospects, skipped %d", created, skipped),
		"data":    gin.H{"created": created, "skipped": skipped},
	})
}

// GetAllProspects lists active prospective authors, newest first.
func GetAllProspects(c *gin.Context) {
	var prospects []models.ProspectAuthor
	if err := config.DB.Where("delete_at IS NULL").Order("created_at DESC").Find(&prospects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch prospects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prospects fetched",
		"data":    prospects,
	})
}

// UpdateProspect updates one prospective author.
func UpdateProspect(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id is required"})
		return
	}

	var req struct {
		ProspectAuthorRequest
		ShouldNotify bool `json:"should_notify"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var prospect models.ProspectAuthor
	if err := config.DB.Where("prospect_id = ? AND delete_at IS NULL", id).First(&prospect).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Prospect not found"})
		return
	}

	prospect.Name = req.Name
	prospect.Email = req.Email
	prospect.Mobile = req.Mobile
	prospect.NameOfCollege = req.NameOfCollege
	prospect.NameOfUniversity = req.NameOfUniversity
	prospect.ShouldNotify = req.ShouldNotify
	prospect.UpdatedAt = time.Now()

	if err := config.DB.Save(&prospect).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update prospect"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prospect updated",
		"data":    gin.H{"id": prospect.ProspectID},
	})
}

// DeleteProspect soft-deletes one prospective author.
func DeleteProspect(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id is required"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.ProspectAuthor{}).
		Where("prospect_id = ? AND delete_at IS NULL", id).
		Update("delete_at", now)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete prospect"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Prospect not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prospect deleted",
		"data":    gin.H{"id": id},
	})
}

// CreateCallForPaper mails a call-for-paper announcement to every prospect
// that opted into notifications.
func CreateCallForPaper(c *gin.Context) {
	var req CallForPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var prospects []models.ProspectAuthor
	if err := config.DB.Where("should_notify = ? AND delete_at IS NULL", true).Find(&prospects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch prospects"})
		return
	}

	title := utils.SanitizeInput(req.Title)
	body := fmt.Sprintf("<h2>%s</h2><p>%s</p>", title, utils.SanitizeInput(req.Description))
	sent := 0
	for _, prospect := range prospects {
		if err := config.SendMail([]string{prospect.Email}, title, body); err != nil {
			log.Printf("Warning: call-for-paper mail to %s failed: %v", prospect.Email, err)
			continue
		}
		sent++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Call for paper sent to %d prospects", sent),
		"data":    gin.H{"sent": sent},
	})
}
