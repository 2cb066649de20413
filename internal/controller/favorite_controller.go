package controller

import (
	"strconv"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/service"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/response"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type FavoriteController struct {
	service service.FavoriteService
}

func CreateFavoriteController(e *echo.Group, service service.FavoriteService, isLoggedIn echo.MiddlewareFunc) {
	c := FavoriteController{
		service: service,
	}

	e.GET("/products/favorites", c.GetFavoriteProducts, isLoggedIn)
	e.POST("/products/:id/favorite", c.Favor, isLoggedIn)
	e.DELETE("/products/:id/favorite", c.Disfavor, isLoggedIn)
}

func (c *FavoriteController) Favor(e echo.Context) error {
	userID, _, ok := utils.ExtractTokenUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	productID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrProductNotFound, nil)
	}

	err = c.service.Favor(e.Request().Context(), userID, productID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}

func (c *FavoriteController) Disfavor(e echo.Context) error {
	userID, _, ok := utils.ExtractTokenUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	productID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrProductNotFound, nil)
	}

	err = c.service.Disfavor(e.Request().Context(), userID, productID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}

func (c *FavoriteController) GetFavoriteProducts(e echo.Context) error {
	userID, _, ok := utils.ExtractTokenUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetFavoriteProducts").Msg("")
	}

	responsePayload, err := c.service.GetFavoriteProducts(e.Request().Context(), userID, filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", responsePayload)
}
