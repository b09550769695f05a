package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"publication-management-api/config"
	"publication-management-api/services"
	"publication-management-api/workflow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB swaps config.DB for a sqlmock-backed connection for handler tests.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	prev := config.DB
	config.DB = gormDB
	t.Cleanup(func() {
		config.DB = prev
		services.ClearStatusCache()
		db.Close()
	})

	return mock
}

func statusRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"status_id", "name", "label", "background", "text", "delete_at"})
	for i, info := range workflow.Statuses {
		rows.AddRow(i+1, info.Name, info.Label, info.Background, info.Text, nil)
	}
	return rows
}

func workflowStatusID(name string) int {
	for i, info := range workflow.Statuses {
		if info.Name == name {
			return i + 1
		}
	}
	return 0
}

func TestGetSubmissionActionsAuthorScopedToOwnSubmission(t *testing.T) {
	// The author token is bound to submission 1; asking for submission 2's
	// catalog must be refused before any lookup happens.
	mock := newMockDB(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/submission-status/get?submission_id=2", nil)
	c.Set("userID", 9)
	c.Set("roleName", workflow.RoleAuthor)
	c.Set("submissionID", 1)

	GetSubmissionActions(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubmissionActionsAuthorOwnSubmission(t *testing.T) {
	mock := newMockDB(t)
	services.ClearStatusCache()

	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `submissions`").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"submission_id", "reference_number", "title", "category", "status_id", "created_at", "updated_at", "delete_at",
		}).AddRow(1, "REF-2026-001", "On Convex Duality", "mathematics",
			workflowStatusID(workflow.StatusFirstReverted), now, now, nil))
	mock.ExpectQuery("SELECT \\* FROM `submission_statuses`").
		WillReturnRows(statusRows())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/submission-status/get?submission_id=1", nil)
	c.Set("userID", 9)
	c.Set("roleName", workflow.RoleAuthor)
	c.Set("submissionID", 1)

	GetSubmissionActions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), workflow.ActionFirstResubmit)
	assert.NoError(t, mock.ExpectationsWereMet())
}
