package server

import (
	"errors"
	"net/http"

	"github.com/apexearn/apexearn/internal/auth"
	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/internal/service"
	"github.com/gin-gonic/gin"
)

// respondError maps sentinel domain errors onto HTTP status codes.
// Anything unrecognized is an internal error and stays unexposed.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrPlanNotFound),
		errors.Is(err, common.ErrRequestNotFound),
		errors.Is(err, common.ErrCommissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, common.ErrRequestAlreadyProcessed),
		errors.Is(err, common.ErrCommissionNotHeld):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, common.ErrAccountBlocked):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, common.ErrInsufficientFunds),
		errors.Is(err, common.ErrPlanInactive),
		errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInvalidReferralCode),
		errors.Is(err, common.ErrSelfReferral),
		errors.Is(err, common.ErrEmailTaken),
		errors.Is(err, common.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		s.logger.Errorf("Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
	}
}

func (s *Server) issueToken(user *models.User) (string, error) {
	return auth.GenerateToken(s.config.JWTSecret, s.config.JWTExpiry, user.ID, user.Role)
}

type registerRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Mobile    string `json:"mobile" binding:"required"`
	WhatsApp  string `json:"whats_app"`
	SponsorID string `json:"sponsor_id"` // sponsor's referral code
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := s.service.Register(c.Request.Context(), service.RegisterInput{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Mobile:       req.Mobile,
		WhatsApp:     req.WhatsApp,
		ReferralCode: req.SponsorID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := s.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (s *Server) handleDashboard(c *gin.Context) {
	dashboard, err := s.service.GetDashboard(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (s *Server) handleGenealogy(c *gin.Context) {
	tree, err := s.service.Genealogy(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

type profileUpdateRequest struct {
	FullName *string `json:"full_name"`
	Mobile   *string `json:"mobile"`
	WhatsApp *string `json:"whats_app"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	user, err := s.service.UpdateProfile(c.Request.Context(), c.GetString("userID"), service.ProfileUpdate{
		FullName: req.FullName,
		Mobile:   req.Mobile,
		WhatsApp: req.WhatsApp,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	OldPass string `json:"old_pass" binding:"required"`
	NewPass string `json:"new_pass" binding:"required,min=6"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := s.service.ChangePassword(c.Request.Context(), c.GetString("userID"), req.OldPass, req.NewPass); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (s *Server) handleListPlans(c *gin.Context) {
	plans, err := s.service.GetPlans(c.Request.Context(), true)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

type buyPlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

func (s *Server) handleBuyPlan(c *gin.Context) {
	var req buyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	userPlan, err := s.service.BuyPlan(c.Request.Context(), c.GetString("userID"), req.PlanID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan purchased successfully", "user_plan": userPlan})
}

type depositRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Method      string  `json:"method" binding:"required"`
	ReferenceID string  `json:"reference_id"`
}

func (s *Server) handleRequestDeposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	request, err := s.service.RequestDeposit(c.Request.Context(), c.GetString("userID"), req.Amount, req.Method, req.ReferenceID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

type withdrawalRequest struct {
	Amount         float64           `json:"amount" binding:"required"`
	Method         string            `json:"method" binding:"required"`
	AccountDetails map[string]string `json:"account_details"`
}

func (s *Server) handleRequestWithdrawal(c *gin.Context) {
	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	request, err := s.service.RequestWithdrawal(c.Request.Context(), c.GetString("userID"), req.Amount, req.Method, req.AccountDetails)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}
