package handler

import (
	"log/slog"
	"net/http"

	"konv/internal/delivery/http/response"
	"konv/internal/domain/repository"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatalogHandler holds dependencies for catalog-related handlers. Reads are
// public; mutations are staff only, enforced in the router.
type CatalogHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: logger}
}

func (h *CatalogHandler) CreateDistrict(c echo.Context) error {
	var input *usecase.SaveDistrictInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid district input")
	}

	district, err := h.uc.CreateDistrict(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, district, "District created")
}

func (h *CatalogHandler) ListDistricts(c echo.Context) error {
	districts, err := h.uc.ListDistricts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, districts, "")
}

func (h *CatalogHandler) DeleteDistrict(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid district ID")
	}

	if err := h.uc.DeleteDistrict(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "District deleted")
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var input *usecase.SaveCategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}

	category, err := h.uc.CreateCategory(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, category, "Category created")
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "")
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category ID")
	}

	if err := h.uc.DeleteCategory(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Category deleted")
}

func (h *CatalogHandler) CreateShop(c echo.Context) error {
	var input *usecase.SaveShopInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid shop input")
	}

	shop, err := h.uc.CreateShop(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, shop, "Shop created")
}

func (h *CatalogHandler) ListShops(c echo.Context) error {
	shops, err := h.uc.ListShops(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, shops, "")
}

func (h *CatalogHandler) DeleteShop(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid shop ID")
	}

	if err := h.uc.DeleteShop(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Shop deleted")
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var input *usecase.SaveProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created")
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product ID")
	}

	product, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var filter repository.ProductFilter
	if category := c.QueryParam("category_id"); category != "" {
		categoryID, err := uuid.Parse(category)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid category ID")
		}
		filter.CategoryID = &categoryID
	}
	if shop := c.QueryParam("shop_id"); shop != "" {
		shopID, err := uuid.Parse(shop)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid shop ID")
		}
		filter.ShopID = &shopID
	}
	if name := c.QueryParam("name"); name != "" {
		filter.Name = &name
	}

	products, err := h.uc.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product ID")
	}

	var input *usecase.SaveProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated")
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product ID")
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted")
}

func (h *CatalogHandler) CreateStock(c echo.Context) error {
	var input *usecase.SaveStockInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stock input")
	}

	stock, err := h.uc.CreateStock(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, stock, "Stock created")
}

func (h *CatalogHandler) ListProductStock(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product ID")
	}

	stocks, err := h.uc.ListProductStock(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stocks, "")
}

func (h *CatalogHandler) DeleteStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stock ID")
	}

	if err := h.uc.DeleteStock(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Stock deleted")
}

func (h *CatalogHandler) CreateAnnouncement(c echo.Context) error {
	var input *usecase.SaveAnnouncementInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid announcement input")
	}

	announcement, err := h.uc.CreateAnnouncement(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, announcement, "Announcement created")
}

func (h *CatalogHandler) ListAnnouncements(c echo.Context) error {
	announcements, err := h.uc.ListAnnouncements(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, announcements, "")
}

func (h *CatalogHandler) DeleteAnnouncement(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid announcement ID")
	}

	if err := h.uc.DeleteAnnouncement(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Announcement deleted")
}
