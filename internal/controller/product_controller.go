package controller

import (
	"strconv"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/middleware"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/service"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/response"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ProductController struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService, isLoggedIn echo.MiddlewareFunc, maybeLoggedIn echo.MiddlewareFunc) {
	c := ProductController{
		service: service,
	}

	e.GET("/products", c.SearchProducts)
	e.GET("/products/:id", c.GetProductDetail, maybeLoggedIn)

	admin := e.Group("/admin", isLoggedIn, middleware.IsAdmin)
	admin.GET("/products", c.GetAdminProducts)
	admin.POST("/products", c.AddProduct)
	admin.PUT("/products/:id", c.UpdateProduct)
	admin.DELETE("/products/:id", c.DeleteProduct)
}

func (c *ProductController) SearchProducts(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "SearchProducts").Msg("")
	}

	responsePayload, err := c.service.SearchProducts(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", responsePayload)
}

func (c *ProductController) GetProductDetail(e echo.Context) error {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrProductNotFound, nil)
	}

	userID, _, _ := utils.ExtractTokenUser(e)

	resp, err := c.service.GetProductDetail(e.Request().Context(), id, userID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ProductController) GetAdminProducts(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetAdminProducts").Msg("")
	}

	responsePayload, err := c.service.GetAdminProducts(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", responsePayload)
}

func (c *ProductController) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err = e.Validate(&payload); err != nil {
		return response.WriteValidationErrorResponse(e, err)
	}

	resp, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "product created", resp)
}

func (c *ProductController) UpdateProduct(e echo.Context) error {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrProductNotFound, nil)
	}

	payload := dto.ProductRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err = e.Validate(&payload); err != nil {
		return response.WriteValidationErrorResponse(e, err)
	}

	payload.ID = id
	err = c.service.UpdateProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "product updated", nil)
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrProductNotFound, nil)
	}

	err = c.service.DeleteProduct(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "product deleted", nil)
}
