package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/campushub/competition-api/internal/api/handler/v1"
	"github.com/campushub/competition-api/internal/api/middleware"
	"github.com/campushub/competition-api/internal/config"
	"github.com/campushub/competition-api/internal/repository"
	"github.com/campushub/competition-api/internal/repository/dao"
	"github.com/campushub/competition-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	competitionHandler := s.initCompetitionHandler(db)
	teamHandler := s.initTeamHandler(db)
	submissionHandler := s.initSubmissionHandler(db)
	certificateHandler := s.initCertificateHandler(db)
	s.MountHandlers(authHandler, userHandler, competitionHandler, teamHandler, submissionHandler, certificateHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(svc, s.Config.API.JWTSigningKey)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initCompetitionHandler(db *gorm.DB) *v1.CompetitionHandler {
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	scoringRepo := repository.NewScoringRepository(dao.NewScoringDAO(db))
	subRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	teamRepo := repository.NewTeamRepository(dao.NewTeamDAO(db))

	svc := service.NewCompetitionService(compRepo)
	judgingSvc := service.NewJudgingService(compRepo, scoringRepo, subRepo, teamRepo)
	handler := v1.NewCompetitionHandler(svc, judgingSvc)

	return handler
}

func (s *Server) initTeamHandler(db *gorm.DB) *v1.TeamHandler {
	teamRepo := repository.NewTeamRepository(dao.NewTeamDAO(db))
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	svc := service.NewTeamService(teamRepo, compRepo)
	handler := v1.NewTeamHandler(svc)

	return handler
}

func (s *Server) initSubmissionHandler(db *gorm.DB) *v1.SubmissionHandler {
	subRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	teamRepo := repository.NewTeamRepository(dao.NewTeamDAO(db))
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	svc := service.NewSubmissionService(subRepo, teamRepo, compRepo)
	handler := v1.NewSubmissionHandler(svc)

	return handler
}

func (s *Server) initCertificateHandler(db *gorm.DB) *v1.CertificateHandler {
	certRepo := repository.NewCertificateRepository(dao.NewCertificateDAO(db))
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	svc := service.NewCertificateService(certRepo, compRepo)
	handler := v1.NewCertificateHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	competitionHandler *v1.CompetitionHandler,
	teamHandler *v1.TeamHandler,
	submissionHandler *v1.SubmissionHandler,
	certificateHandler *v1.CertificateHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.GET("/healthcheck", v1.HandleHealthcheck)
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/certificates/:verificationID", certificateHandler.HandleVerify)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.POST("/competitions", competitionHandler.HandleCreateCompetition)
		authed.GET("/competitions/:competitionID", competitionHandler.HandleGetCompetition)
		authed.POST("/competitions/:competitionID/judging", competitionHandler.HandleStartJudging)
		authed.POST("/competitions/:competitionID/lock", competitionHandler.HandleLockAndRank)
		authed.POST("/competitions/:competitionID/publish", competitionHandler.HandlePublish)
		authed.GET("/competitions/:competitionID/leaderboard", competitionHandler.HandleGetLeaderboard)
		authed.GET("/competitions/:competitionID/events", competitionHandler.HandleEvents)

		authed.POST("/competitions/:competitionID/teams", teamHandler.HandleCreateTeam)
		authed.POST("/competitions/:competitionID/teams/join", teamHandler.HandleJoinTeam)
		authed.GET("/teams/:teamID", teamHandler.HandleGetTeam)
		authed.POST("/teams/:teamID/leave", teamHandler.HandleLeaveTeam)
		authed.POST("/teams/:teamID/leadership", teamHandler.HandleTransferLeadership)

		authed.PUT("/teams/:teamID/submission", submissionHandler.HandleSubmitProject)
		authed.GET("/teams/:teamID/submission", submissionHandler.HandleGetSubmission)
		authed.POST("/submissions/:submissionID/scores", competitionHandler.HandleRecordScore)

		authed.POST("/competitions/:competitionID/certificates", certificateHandler.HandleIssueCertificate)
	}
}
