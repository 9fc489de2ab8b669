package controller

import (
	"net/http"

	"github.com/bhanuprakash1708/GitHub-HireScore/config"
	"github.com/bhanuprakash1708/GitHub-HireScore/model"
	"github.com/bhanuprakash1708/GitHub-HireScore/service"
	"github.com/gin-gonic/gin"
)

type APIController interface {
	AnalyzeProfile(ctx *gin.Context)
	Health(ctx *gin.Context)
}

type apiController struct {
	portfolioService service.PortfolioService
	config           config.Config
}

func NewApiController(config config.Config, service service.PortfolioService) APIController {
	return apiController{
		portfolioService: service,
		config:           config,
	}
}

func (s apiController) AnalyzeProfile(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, model.APIError{
			Code:    "INVALID_USERNAME",
			Message: "a github username is required",
		})
		return
	}

	// execute the full analysis
	analysis, err := s.portfolioService.AnalyzeProfile(c, username)
	if err != nil {
		c.JSON(model.HTTPStatusForError(err), model.NewAPIError(err))
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (s apiController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
