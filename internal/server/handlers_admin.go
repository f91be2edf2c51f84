package server

import (
	"net/http"

	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/internal/service"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleAdminListUsers(c *gin.Context) {
	users, err := s.service.GetAllUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type userStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required,oneof=ACTIVE BLOCKED"`
}

func (s *Server) handleAdminSetUserStatus(c *gin.Context) {
	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := s.service.SetUserStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (s *Server) handleAdminListPlans(c *gin.Context) {
	plans, err := s.service.GetPlans(c.Request.Context(), false)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

type planRequest struct {
	Title               string             `json:"title" binding:"required"`
	Price               float64            `json:"price" binding:"required,gt=0"`
	Duration            int                `json:"duration" binding:"required,gt=0"`
	CommissionStructure map[int]float64    `json:"commission_structure"`
	Status              models.PlanStatus  `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (s *Server) handleAdminCreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	plan, err := s.service.CreatePlan(c.Request.Context(), service.PlanInput{
		Title:               req.Title,
		Price:               req.Price,
		Duration:            req.Duration,
		CommissionStructure: req.CommissionStructure,
		Status:              req.Status,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (s *Server) handleAdminUpdatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	plan, err := s.service.UpdatePlan(c.Request.Context(), c.Param("id"), service.PlanInput{
		Title:               req.Title,
		Price:               req.Price,
		Duration:            req.Duration,
		CommissionStructure: req.CommissionStructure,
		Status:              req.Status,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleAdminListDeposits(c *gin.Context) {
	requests, err := s.service.GetAllDepositRequests(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) handleAdminListWithdrawals(c *gin.Context) {
	requests, err := s.service.GetAllWithdrawalRequests(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) handleAdminProcessRequest(c *gin.Context) {
	requestType := c.Param("type")
	action := c.Param("action")

	if action != "approve" && action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid action"})
		return
	}
	approve := action == "approve"

	var err error
	switch requestType {
	case "deposit":
		err = s.service.ProcessDepositRequest(c.Request.Context(), c.Param("id"), approve)
	case "withdrawal":
		err = s.service.ProcessWithdrawalRequest(c.Request.Context(), c.Param("id"), approve)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request type"})
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (s *Server) handleAdminListCommissions(c *gin.Context) {
	commissions, err := s.service.GetAllCommissions(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commissions)
}

func (s *Server) handleAdminReleaseCommission(c *gin.Context) {
	action := c.Param("action")
	if action != "approve" && action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid action"})
		return
	}
	if err := s.service.ReleaseCommission(c.Request.Context(), c.Param("id"), action == "approve"); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
