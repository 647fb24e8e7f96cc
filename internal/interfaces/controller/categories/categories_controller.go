package controller

import (
	"net/http"
	"strconv"

	domainErrors "inventory-api/internal/domain/errors"
	"inventory-api/internal/interfaces/controller/response"
	"inventory-api/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUsecase
	itemUsecase     usecase.ItemUsecase
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUsecase, itemUsecase usecase.ItemUsecase) *CategoryHandler {
	return &CategoryHandler{
		categoryUsecase: categoryUsecase,
		itemUsecase:     itemUsecase,
	}
}

// Register mounts the category routes on g.
// /categories/summary は静的ルートなので :categoryId より優先される
func (h *CategoryHandler) Register(g *echo.Group) {
	g.GET("/categories", h.GetCategories)
	g.GET("/categories/summary", h.GetSummary)
	g.GET("/categories/:categoryId", h.GetCategory)
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryUsecase.GetAllCategories(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("get categories: %v", err)
		return response.Error(c, http.StatusInternalServerError, "failed to retrieve categories")
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid category ID")
	}

	category, err := h.categoryUsecase.GetCategoryByID(c.Request().Context(), id)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return response.Error(c, http.StatusNotFound, err.Error())
		}
		c.Logger().Errorf("get category %d: %v", id, err)
		return response.Error(c, http.StatusInternalServerError, "failed to retrieve category")
	}

	return c.JSON(http.StatusOK, category)
}

// カテゴリー別のアイテム数と合計
func (h *CategoryHandler) GetSummary(c echo.Context) error {
	summary, err := h.itemUsecase.GetCategorySummary(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("get category summary: %v", err)
		return response.Error(c, http.StatusInternalServerError, "failed to retrieve category summary")
	}

	return c.JSON(http.StatusOK, summary)
}
