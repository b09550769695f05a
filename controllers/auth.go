package controllers

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"strconv"
	"time"

	"publication-management-api/config"
	"publication-management-api/middleware"
	"publication-management-api/models"
	"publication-management-api/utils"
	"publication-management-api/workflow"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 5 * time.Minute

type SendOTPRequest struct {
	Mobile string `json:"mobile" binding:"required"`
}

type VerifyOTPRequest struct {
	Mobile string `json:"mobile" binding:"required"`
	OTP    string `json:"otp" binding:"required"`
}

type AuthorLoginRequest struct {
	ReferenceNumber string `json:"reference_number" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// SendOTP issues a one-time login code for a staff mobile number. The code
// is mailed to the member's registered address; SMS delivery is handled by
// an external gateway in production.
func SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if !utils.ValidateMobile(req.Mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid mobile number"})
		return
	}

	var member models.TeamMember
	if err := config.DB.Where("mobile = ? AND delete_at IS NULL", req.Mobile).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No team member registered with this mobile number"})
		return
	}

	code, err := generateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate OTP"})
		return
	}

	otp := models.AuthOTP{
		Mobile:    req.Mobile,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&otp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store OTP"})
		return
	}

	body := fmt.Sprintf("<p>Your login code is <b>%s</b>. It expires in %d minutes.</p>",
		code, int(otpTTL.Minutes()))
	if err := config.SendMail([]string{member.Email}, "Your login code", body); err != nil {
		log.Printf("Warning: failed to mail OTP to %s: %v", member.Email, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// VerifyOTP exchanges a valid one-time code for a session token.
func VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var otp models.AuthOTP
	if err := config.DB.
		Where("mobile = ? AND code = ? AND consumed_at IS NULL AND expires_at > ?", req.Mobile, req.OTP, time.Now()).
		Order("created_at DESC").
		First(&otp).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired OTP"})
		return
	}

	var member models.TeamMember
	if err := config.DB.Where("mobile = ? AND delete_at IS NULL", req.Mobile).First(&member).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No team member registered with this mobile number"})
		return
	}

	// Spend the code atomically; a concurrent verify with the same code
	// loses the race and is rejected.
	result := config.DB.Model(&models.AuthOTP{}).
		Where("otp_id = ? AND consumed_at IS NULL", otp.OTPID).
		Update("consumed_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to consume OTP"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired OTP"})
		return
	}

	token, err := generateToken(member.UserID, member.RoleName, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    gin.H{"token": token},
	})
}

// AuthorLogin authenticates an author with their submission reference number
// and password. The issued token is scoped to that one submission.
func AuthorLogin(c *gin.Context) {
	var req AuthorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("reference_number = ? AND delete_at IS NULL", req.ReferenceNumber).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid reference number or password"})
		return
	}

	var author models.Author
	if err := config.DB.Where("submission_id = ?", submission.SubmissionID).First(&author).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid reference number or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(author.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid reference number or password"})
		return
	}

	token, err := generateToken(author.AuthorID, workflow.RoleAuthor, submission.SubmissionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    gin.H{"token": token},
	})
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateToken creates the session JWT. submissionID is zero for staff.
func generateToken(userID int, roleName string, submissionID int) (string, error) {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24
	}

	claims := middleware.Claims{
		UserID:       userID,
		RoleName:     roleName,
		SubmissionID: submissionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
