package controllers

import (
	"net/http"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
)

type StylesController interface {
	AvailableStyles(c *gin.Context)
	RegisterRoutes(g *gin.RouterGroup)
}

type stylesController struct {
	styles inbound.StyleResolverPort
}

func NewStylesController(styles inbound.StyleResolverPort) StylesController {
	return &stylesController{styles: styles}
}

func (s *stylesController) AvailableStyles(c *gin.Context) {
	c.JSON(http.StatusOK, dto.AvailableStylesResponse{
		Success: true,
		Styles:  s.styles.Names(),
	})
}

func (s *stylesController) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/available-styles", s.AvailableStyles)
}
