package controllers

import (
	"net/http"

	"publication-management-api/config"
	"publication-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetChecklist returns the manuscript checklist catalog presented during
// revert actions.
func GetChecklist(c *gin.Context) {
	var items []models.ChecklistItem
	if err := config.DB.Where("delete_at IS NULL").Order("item_id").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch checklist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checklist fetched",
		"data":    items,
	})
}
