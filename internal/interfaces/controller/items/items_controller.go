package controller

import (
	"fmt"
	"net/http"
	"strconv"

	domainErrors "inventory-api/internal/domain/errors"
	"inventory-api/internal/interfaces/controller/response"
	"inventory-api/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ItemHandler struct {
	itemUsecase     usecase.ItemUsecase
	categoryUsecase usecase.CategoryUsecase
}

func NewItemHandler(itemUsecase usecase.ItemUsecase, categoryUsecase usecase.CategoryUsecase) *ItemHandler {
	return &ItemHandler{
		itemUsecase:     itemUsecase,
		categoryUsecase: categoryUsecase,
	}
}

// Register mounts the item routes on g.
func (h *ItemHandler) Register(g *echo.Group) {
	g.GET("/items", h.GetItems)
	g.GET("/items/:itemId", h.GetItem)
	g.GET("/items/:itemId/quantity", h.GetItemQuantity)
	g.DELETE("/items/:itemId", h.DeleteItem)
	g.POST("/categories/:categoryId/items", h.AddItem)
	g.PUT("/categories/:categoryId/items/:itemId", h.UpdateItem)
}

func (h *ItemHandler) GetItems(c echo.Context) error {
	items, err := h.itemUsecase.GetAllItems(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("get items: %v", err)
		return response.Error(c, http.StatusInternalServerError, "failed to retrieve items")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	id, err := parseID(c, "itemId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid item ID")
	}

	item, err := h.itemUsecase.GetItemByID(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "failed to retrieve item")
	}

	return c.JSON(http.StatusOK, item)
}

// AddItem は POST /categories/{categoryId}/items
// 成功時は 201 とボディなし、Location ヘッダーに新しいアイテムの URL を返す
func (h *ItemHandler) AddItem(c echo.Context) error {
	categoryID, err := parseID(c, "categoryId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid category ID")
	}

	var input usecase.ItemInput
	if err := bindBody(c, &input); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request format")
	}

	// バリデーション
	if validationErrors := input.Validate(); len(validationErrors) > 0 {
		return response.Error(c, http.StatusBadRequest, "validation failed", validationErrors...)
	}

	if err := h.verifyCategory(c, categoryID); err != nil {
		return h.fail(c, err, "failed to create item")
	}

	item, err := h.itemUsecase.AddItem(c.Request().Context(), categoryID, input)
	if err != nil {
		return h.fail(c, err, "failed to create item")
	}

	c.Response().Header().Set(echo.HeaderLocation, itemLocation(c, item.ID))
	return c.NoContent(http.StatusCreated)
}

func (h *ItemHandler) GetItemQuantity(c echo.Context) error {
	id, err := parseID(c, "itemId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid item ID")
	}

	ctx := c.Request().Context()
	if err := h.verifyItem(c, id); err != nil {
		return h.fail(c, err, "failed to retrieve quantity")
	}

	quantity, err := h.itemUsecase.GetQuantity(ctx, id)
	if err != nil {
		return h.fail(c, err, "failed to retrieve quantity")
	}

	return c.JSON(http.StatusOK, quantity)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := parseID(c, "itemId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid item ID")
	}

	if err := h.verifyItem(c, id); err != nil {
		return h.fail(c, err, "failed to delete item")
	}

	if err := h.itemUsecase.DeleteItem(c.Request().Context(), id); err != nil {
		return h.fail(c, err, "failed to delete item")
	}

	return c.NoContent(http.StatusOK)
}

// UpdateItem は PUT /categories/{categoryId}/items/{itemId}
// name, price, quantity, category をまとめて上書きする（部分更新ではない）
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	categoryID, err := parseID(c, "categoryId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid category ID")
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid item ID")
	}

	var input usecase.ItemInput
	if err := bindBody(c, &input); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request format")
	}

	// バリデーション
	if validationErrors := input.Validate(); len(validationErrors) > 0 {
		return response.Error(c, http.StatusBadRequest, "validation failed", validationErrors...)
	}

	// 更新前に両方の存在を確認する
	if err := h.verifyCategory(c, categoryID); err != nil {
		return h.fail(c, err, "failed to update item")
	}
	if err := h.verifyItem(c, itemID); err != nil {
		return h.fail(c, err, "failed to update item")
	}

	if err := h.itemUsecase.UpdateItem(c.Request().Context(), categoryID, itemID, input); err != nil {
		return h.fail(c, err, "failed to update item")
	}

	return c.NoContent(http.StatusOK)
}

func (h *ItemHandler) verifyItem(c echo.Context, id int64) error {
	_, err := h.itemUsecase.GetItemByID(c.Request().Context(), id)
	return err
}

func (h *ItemHandler) verifyCategory(c echo.Context, id int64) error {
	_, err := h.categoryUsecase.GetCategoryByID(c.Request().Context(), id)
	return err
}

// fail maps usecase errors to status codes; storage faults become 500.
func (h *ItemHandler) fail(c echo.Context, err error, message string) error {
	switch {
	case domainErrors.IsNotFoundError(err):
		return response.Error(c, http.StatusNotFound, err.Error())
	case domainErrors.IsValidationError(err):
		return response.Error(c, http.StatusBadRequest, "validation failed", err.Error())
	default:
		c.Logger().Errorf("%s: %v", message, err)
		return response.Error(c, http.StatusInternalServerError, message)
	}
}

// bindBody reads only the JSON body; path params are parsed separately.
func bindBody(c echo.Context, v any) error {
	return (&echo.DefaultBinder{}).BindBody(c, v)
}

func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func itemLocation(c echo.Context, id int64) string {
	return fmt.Sprintf("%s://%s/items/%d", c.Scheme(), c.Request().Host, id)
}
