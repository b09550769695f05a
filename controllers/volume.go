package controllers

import (
	"net/http"
	"strconv"
	"time"

	"publication-management-api/config"
	"publication-management-api/models"

	"github.com/gin-gonic/gin"
)

type VolumeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateVolume adds a publication volume.
func CreateVolume(c *gin.Context) {
	var req VolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	now := time.Now()
	volume := models.Volume{
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := config.DB.Create(&volume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create volume"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Volume created",
		"data":    volume,
	})
}

// UpdateVolume updates a volume's title and description.
func UpdateVolume(c *gin.Context) {
	var req struct {
		VolumeRequest
		VolumeID int `json:"volume_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var volume models.Volume
	if err := config.DB.Where("volume_id = ? AND delete_at IS NULL", req.VolumeID).First(&volume).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Volume not found"})
		return
	}

	volume.Title = req.Title
	volume.Description = req.Description
	volume.UpdatedAt = time.Now()

	if err := config.DB.Save(&volume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update volume"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Volume updated",
		"data":    volume,
	})
}

// DeleteVolume soft-deletes a volume. Volumes that still contain active
// issues cannot be deleted.
func DeleteVolume(c *gin.Context) {
	volumeID, err := strconv.Atoi(c.Query("volume_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "volume_id is required"})
		return
	}

	var issueCount int64
	if err := config.DB.Model(&models.Issue{}).
		Where("volume_id = ? AND delete_at IS NULL", volumeID).
		Count(&issueCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete volume"})
		return
	}
	if issueCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Volume still has issues"})
		return
	}

	result := config.DB.Model(&models.Volume{}).
		Where("volume_id = ? AND delete_at IS NULL", volumeID).
		Update("delete_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete volume"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Volume not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Volume deleted",
		"data":    gin.H{"id": volumeID},
	})
}

// GetAllVolumes lists active volumes, newest first.
func GetAllVolumes(c *gin.Context) {
	var volumes []models.Volume
	if err := config.DB.Where("delete_at IS NULL").Order("created_at DESC").Find(&volumes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch volumes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Volumes fetched",
		"data":    volumes,
	})
}
