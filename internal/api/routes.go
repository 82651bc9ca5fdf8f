package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promethia/training-api/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	eventService service.EventService,
	trainingService service.TrainingService,
	raceService service.RaceService,
	savedTrainingService service.SavedTrainingService,
	profileService service.ProfileService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	eventHandler := NewEventHandler(eventService)
	trainingHandler := NewTrainingHandler(trainingService, savedTrainingService)
	raceHandler := NewRaceHandler(raceService)
	profileHandler := NewProfileHandler(profileService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		// Unified event creation: the payload's type field picks the entity.
		protected.POST("/events", eventHandler.CreateEvent)

		trainingGroup := protected.Group("/trainings")
		{
			trainingGroup.GET("", trainingHandler.ListTrainings)
			trainingGroup.GET("/upcoming", trainingHandler.UpcomingTrainings)
			trainingGroup.GET("/this-week", trainingHandler.ThisWeekTrainings)
			trainingGroup.GET("/stats", trainingHandler.TrainingStats)
			trainingGroup.GET("/:id", trainingHandler.GetTraining)
			trainingGroup.PUT("/:id", trainingHandler.UpdateTraining)
			trainingGroup.DELETE("/:id", trainingHandler.DeleteTraining)
			trainingGroup.POST("/:id/duplicate", trainingHandler.DuplicateTraining)
		}

		raceGroup := protected.Group("/races")
		{
			raceGroup.GET("", raceHandler.ListRaces)
			raceGroup.GET("/upcoming", raceHandler.UpcomingRaces)
			raceGroup.GET("/results", raceHandler.RaceResults)
			raceGroup.GET("/:id", raceHandler.GetRace)
			raceGroup.PUT("/:id", raceHandler.UpdateRace)
			raceGroup.DELETE("/:id", raceHandler.DeleteRace)
		}

		customGroup := protected.Group("/custom-events")
		{
			customGroup.GET("", eventHandler.ListCustomEvents)
			customGroup.PUT("/:id", eventHandler.UpdateCustomEvent)
			customGroup.DELETE("/:id", eventHandler.DeleteCustomEvent)
		}

		savedGroup := protected.Group("/saved-trainings")
		{
			savedGroup.POST("", trainingHandler.CreateSavedTraining)
			savedGroup.GET("", trainingHandler.ListSavedTrainings)
			savedGroup.PUT("/:id", trainingHandler.UpdateSavedTraining)
			savedGroup.DELETE("/:id", trainingHandler.DeleteSavedTraining)
		}

		coachGroup := protected.Group("/coach-access")
		{
			// The mentee grants access by submitting a coach code.
			coachGroup.POST("", coachHandler.GrantAccess)
			coachGroup.GET("/athletes", coachHandler.MyAthletes)
			coachGroup.GET("/coaches", coachHandler.MyCoaches)
			coachGroup.DELETE("/:id", coachHandler.RevokeAccess)
		}

		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("/athletic", profileHandler.GetAthleticProfile)
			profileGroup.PUT("/athletic", profileHandler.UpdateAthleticProfile)
			profileGroup.GET("/professional", profileHandler.GetProfessionalProfile)
			profileGroup.PUT("/professional", profileHandler.UpdateProfessionalProfile)
			profileGroup.PUT("/metrics", profileHandler.UpdateMetrics)

			profileGroup.POST("/achievements", profileHandler.AddAchievement)
			profileGroup.GET("/achievements", profileHandler.ListAchievements)
			profileGroup.POST("/coach-achievements", profileHandler.AddCoachAchievement)
			profileGroup.GET("/coach-achievements", profileHandler.ListCoachAchievements)
			profileGroup.POST("/certifications", profileHandler.AddCertification)
			profileGroup.GET("/certifications", profileHandler.ListCertifications)

			profileGroup.POST("/image", profileHandler.RequestImageUpload)
			profileGroup.GET("/image", profileHandler.GetImageURL)
		}
	}
}
