package routes

import (
	"publication-management-api/controllers"
	"publication-management-api/middleware"
	"publication-management-api/workflow"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	staff := []string{workflow.RoleAdmin, workflow.RoleReviewCoordinator, workflow.RoleReviewer, workflow.RoleEditor}
	coordinators := []string{workflow.RoleAdmin, workflow.RoleReviewCoordinator}

	api := router.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/send-otp/", controllers.SendOTP)
			auth.POST("/verify-otp/", controllers.VerifyOTP)
			auth.POST("/login/", controllers.AuthorLogin)
		}

		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Publication Management API is running",
			})
		})

		// Protected routes (require authentication)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Submissions: staff see all, authors see their own
			submission := protected.Group("/submission")
			{
				submission.GET("/all/", middleware.RequireRole(staff...), controllers.GetAllSubmissions)
				submission.GET("/get/", controllers.GetSubmission)
			}

			// Workflow action catalog and dispatch. Per-action authorization
			// is the workflow catalog itself, not route middleware.
			status := protected.Group("/submission-status")
			{
				status.GET("/get", controllers.GetSubmissionActions)
				status.POST("/create/", controllers.CreateSubmissionAction)
			}

			protected.GET("/checklist/get-checklist", controllers.GetChecklist)
			protected.POST("/core/upload-file/", controllers.UploadFile)

			// Team management, coordinators only
			myteam := protected.Group("/myteam", middleware.RequireRole(coordinators...))
			{
				myteam.POST("/create/", controllers.CreateTeamMember)
				myteam.GET("/list-all/", controllers.ListTeamMembers)
				myteam.GET("/get/", controllers.GetTeamMember)
				myteam.PUT("/update/", controllers.UpdateTeamMember)
			}

			// Prospective authors and call-for-paper mailings
			prospect := protected.Group("/prospect-author", middleware.RequireRole(coordinators...))
			{
				prospect.POST("/create/", controllers.CreateProspect)
				prospect.GET("/get/all/", controllers.GetAllProspects)
				prospect.PUT("/update/", controllers.UpdateProspect)
				prospect.DELETE("/delete/", controllers.DeleteProspect)
			}
			protected.POST("/call-for-paper/create/", middleware.RequireRole(coordinators...), controllers.CreateCallForPaper)

			// Volumes and issues
			volume := protected.Group("/volume", middleware.RequireRole(coordinators...))
			{
				volume.POST("/create/", controllers.CreateVolume)
				volume.POST("/update/", controllers.UpdateVolume)
				volume.DELETE("/delete/", controllers.DeleteVolume)
				volume.GET("/all/", controllers.GetAllVolumes)
			}
			issue := protected.Group("/issue", middleware.RequireRole(coordinators...))
			{
				issue.POST("/create/", controllers.CreateIssue)
				issue.POST("/update/", controllers.UpdateIssue)
				issue.DELETE("/delete/", controllers.DeleteIssue)
				issue.GET("/all/", controllers.GetAllIssues)
				issue.GET("/current-and-next/", controllers.GetCurrentAndNextIssue)
			}

			protected.GET("/published-manuscript/all/", middleware.RequireRole(staff...), controllers.GetPublishedManuscripts)
		}
	}
}
