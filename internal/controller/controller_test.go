package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/middleware"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/utils"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret"

type fakeProductService struct {
	lastFilter  pkgdto.Filter
	lastUserID  int64
	lastRequest dto.ProductRequest
	err         error
}

func (s *fakeProductService) SearchProducts(ctx context.Context, filter pkgdto.Filter) (pkgdto.PaginationResponse, error) {
	s.lastFilter = filter
	filter.Normalize()

	return pkgdto.NewPaginationResponse(filter, 17, []dto.ProductResponse{{ID: 3}, {ID: 1}, {ID: 2}}), s.err
}

func (s *fakeProductService) GetAdminProducts(ctx context.Context, filter pkgdto.Filter) (pkgdto.PaginationResponse, error) {
	s.lastFilter = filter
	filter.Normalize()

	return pkgdto.NewPaginationResponse(filter, 0, []dto.ProductResponse{}), s.err
}

func (s *fakeProductService) GetProductDetail(ctx context.Context, id int64, userID int64) (dto.ProductDetailResponse, error) {
	s.lastUserID = userID
	if s.err != nil {
		return dto.ProductDetailResponse{}, s.err
	}

	return dto.ProductDetailResponse{ProductResponse: dto.ProductResponse{ID: id}, Favored: userID > 0}, nil
}

func (s *fakeProductService) AddProduct(ctx context.Context, data dto.ProductRequest) (dto.ProductResponse, error) {
	s.lastRequest = data

	return dto.ProductResponse{ID: 101, Title: data.Title}, s.err
}

func (s *fakeProductService) UpdateProduct(ctx context.Context, data dto.ProductRequest) error {
	s.lastRequest = data

	return s.err
}

func (s *fakeProductService) DeleteProduct(ctx context.Context, id int64) error {
	return s.err
}

type fakeFavoriteService struct {
	userID    int64
	productID int64
	err       error
}

func (s *fakeFavoriteService) Favor(ctx context.Context, userID, productID int64) error {
	s.userID, s.productID = userID, productID

	return s.err
}

func (s *fakeFavoriteService) Disfavor(ctx context.Context, userID, productID int64) error {
	s.userID, s.productID = userID, productID

	return s.err
}

func (s *fakeFavoriteService) GetFavoriteProducts(ctx context.Context, userID int64, filter pkgdto.Filter) (pkgdto.PaginationResponse, error) {
	s.userID = userID
	filter.Normalize()

	return pkgdto.NewPaginationResponse(filter, 0, []dto.ProductResponse{}), s.err
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type ControllerTestSuite struct {
	suite.Suite
	server    *echo.Echo
	products  *fakeProductService
	favorites *fakeFavoriteService
}

func (s *ControllerTestSuite) SetupTest() {
	s.products = &fakeProductService{}
	s.favorites = &fakeFavoriteService{}

	e := echo.New()
	e.Validator = validator.CreateNewValidator()
	g := e.Group("/api/v1")

	isLoggedIn := middleware.IsLoggedIn(testSecret)
	CreateProductController(g, s.products, isLoggedIn, middleware.MaybeLoggedIn(testSecret))
	CreateFavoriteController(g, s.favorites, isLoggedIn)

	s.server = e
}

func (s *ControllerTestSuite) token(userID, roleID int64) string {
	token, err := utils.CreateJWTToken(userID, roleID, "test", testSecret)
	require.NoError(s.T(), err)

	return token
}

func (s *ControllerTestSuite) do(method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)

	var resp envelope
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func (s *ControllerTestSuite) TestSearchProducts() {
	rec, resp := s.do(http.MethodGet, "/api/v1/products?search=red+shoes&order=price_desc&category_id=4&page=2&page_size=10", "", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("success", resp.Status)
	s.Equal(pkgdto.Filter{Search: "red shoes", Order: "price_desc", CategoryID: 4, Page: 2, PageSize: 10}, s.products.lastFilter)

	var payload struct {
		Total       uint64                `json:"total"`
		PerPage     int                   `json:"per_page"`
		CurrentPage int                   `json:"current_page"`
		Items       []dto.ProductResponse `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(resp.Data, &payload))
	s.Equal(uint64(17), payload.Total)
	s.Equal(10, payload.PerPage)
	s.Equal(2, payload.CurrentPage)
	s.Require().Len(payload.Items, 3)
	s.Equal(int64(3), payload.Items[0].ID)
}

func (s *ControllerTestSuite) TestSearchProductsIgnoresMalformedParams() {
	rec, _ := s.do(http.MethodGet, "/api/v1/products?page=abc", "", "")

	s.Equal(http.StatusOK, rec.Code)
}

func (s *ControllerTestSuite) TestSearchUnavailable() {
	s.products.err = errs.ErrSearchUnavailable

	rec, resp := s.do(http.MethodGet, "/api/v1/products", "", "")

	s.Equal(http.StatusBadGateway, rec.Code)
	s.Equal("error", resp.Status)
	s.Equal(errs.ErrSearchUnavailable.Error(), resp.Message)
}

func (s *ControllerTestSuite) TestProductDetail() {
	rec, resp := s.do(http.MethodGet, "/api/v1/products/9", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(int64(0), s.products.lastUserID)

	var detail dto.ProductDetailResponse
	s.Require().NoError(json.Unmarshal(resp.Data, &detail))
	s.False(detail.Favored)

	rec, resp = s.do(http.MethodGet, "/api/v1/products/9", s.token(5, 2), "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(int64(5), s.products.lastUserID)
	s.Require().NoError(json.Unmarshal(resp.Data, &detail))
	s.True(detail.Favored)
}

func (s *ControllerTestSuite) TestProductDetailWithBrokenTokenIsAnonymous() {
	rec, _ := s.do(http.MethodGet, "/api/v1/products/9", "not-a-jwt", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(int64(0), s.products.lastUserID)
}

func (s *ControllerTestSuite) TestProductDetailNotOnSale() {
	s.products.err = errs.ErrProductNotOnSale

	rec, resp := s.do(http.MethodGet, "/api/v1/products/9", "", "")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("product not on sale", resp.Message)
}

func (s *ControllerTestSuite) TestAdminRoutesRequireAdmin() {
	rec, _ := s.do(http.MethodGet, "/api/v1/admin/products", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/admin/products", s.token(5, 2), "")
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/admin/products?field=price&order=desc", s.token(1, utils.AdminRoleID), "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("price", s.products.lastFilter.Field)
}

func (s *ControllerTestSuite) TestAddProduct() {
	body := `{"title":"Sneakers","on_sale":true,"category_id":3,"skus":[{"title":"M","price":"49.90","stock":3}],"properties":[{"name":"color","value":"red"}]}`

	rec, resp := s.do(http.MethodPost, "/api/v1/admin/products", s.token(1, utils.AdminRoleID), body)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("product created", resp.Message)
	s.Equal("Sneakers", s.products.lastRequest.Title)
	s.Require().Len(s.products.lastRequest.SKUs, 1)
	s.Equal("49.9", s.products.lastRequest.SKUs[0].Price.String())
}

func (s *ControllerTestSuite) TestAddProductValidation() {
	body := `{"title":"","category_id":0,"skus":[{"title":"M","price":"-1","stock":3}]}`

	rec, resp := s.do(http.MethodPost, "/api/v1/admin/products", s.token(1, utils.AdminRoleID), body)

	s.Equal(http.StatusBadRequest, rec.Code)

	var fieldErrors []struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	}
	s.Require().NoError(json.Unmarshal(resp.Errors, &fieldErrors))

	fields := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields = append(fields, fe.Field)
	}
	s.ElementsMatch([]string{"ProductRequest.Title", "ProductRequest.CategoryID", "ProductRequest.SKUs[0].Price"}, fields)
	s.Empty(s.products.lastRequest.Title)
}

func (s *ControllerTestSuite) TestAddProductToDirectory() {
	s.products.err = errs.ErrCategoryIsDirectory
	body := `{"title":"Sneakers","category_id":1,"skus":[{"title":"M","price":"49.90","stock":3}]}`

	rec, resp := s.do(http.MethodPost, "/api/v1/admin/products", s.token(1, utils.AdminRoleID), body)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("category is a directory", resp.Message)
}

func (s *ControllerTestSuite) TestUpdateProductTakesIDFromPath() {
	body := `{"id":99,"title":"Sneakers","category_id":3,"skus":[{"title":"M","price":"49.90","stock":3}]}`

	rec, _ := s.do(http.MethodPut, "/api/v1/admin/products/7", s.token(1, utils.AdminRoleID), body)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(int64(7), s.products.lastRequest.ID)
}

func (s *ControllerTestSuite) TestDeleteMissingProduct() {
	s.products.err = errs.ErrProductNotFound

	rec, _ := s.do(http.MethodDelete, "/api/v1/admin/products/7", s.token(1, utils.AdminRoleID), "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ControllerTestSuite) TestFavor() {
	rec, _ := s.do(http.MethodPost, "/api/v1/products/9/favorite", s.token(5, 2), "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(int64(5), s.favorites.userID)
	s.Equal(int64(9), s.favorites.productID)
}

func (s *ControllerTestSuite) TestFavorTwice() {
	s.favorites.err = errs.ErrAlreadyFavorited

	rec, resp := s.do(http.MethodPost, "/api/v1/products/9/favorite", s.token(5, 2), "")

	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(errs.ErrAlreadyFavorited.Error(), resp.Message)
}

func (s *ControllerTestSuite) TestDisfavorNeverFavored() {
	s.favorites.err = errs.ErrNotFavorited

	rec, _ := s.do(http.MethodDelete, "/api/v1/products/9/favorite", s.token(5, 2), "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ControllerTestSuite) TestFavoritesRequireLogin() {
	rec, _ := s.do(http.MethodPost, "/api/v1/products/9/favorite", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/products/favorites", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ControllerTestSuite) TestGetFavoriteProducts() {
	rec, _ := s.do(http.MethodGet, "/api/v1/products/favorites?page=2", s.token(5, 2), "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(int64(5), s.favorites.userID)
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestInternalErrorsAreMasked(t *testing.T) {
	e := echo.New()
	g := e.Group("/api/v1")
	products := &fakeProductService{err: assert.AnError}
	CreateProductController(g, products, middleware.IsLoggedIn(testSecret), middleware.MaybeLoggedIn(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
