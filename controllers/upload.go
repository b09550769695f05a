package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadSize is the single-file upload ceiling (2 MiB).
const MaxUploadSize = 2 << 20

// UploadFile stores one multipart file and returns its public reference.
// Files above the 2 MiB ceiling are rejected before being read.
func UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return
	}

	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "file too big"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}

	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(file.Filename))
	dest := filepath.Join(uploadPath, storedName)

	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store file"})
		return
	}

	baseURL := os.Getenv("UPLOAD_BASE_URL")
	if baseURL == "" {
		baseURL = "/uploads"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded",
		"data": gin.H{
			"file": gin.H{
				"url":  fmt.Sprintf("%s/%s", baseURL, storedName),
				"name": file.Filename,
			},
		},
	})
}
