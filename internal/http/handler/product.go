package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shopapi/internal/http/middleware"
	"shopapi/internal/service"
)

type productRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	CountInStock int             `json:"countInStock" validate:"min=0"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

type uploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// ListProducts godoc
// @Summary List products
// @Description Case-insensitive name search, paginated by pageNumber.
// @Tags products
// @Produce json
// @Param keyword query string false "Name substring"
// @Param pageNumber query int false "Page (1-based)" default(1)
// @Success 200 {object} service.ProductPage
// @Router /api/product [get]
func ListProducts(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("pageNumber", 1)
		res, err := products.List(c.UserContext(), c.Query("keyword"), page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// TopProducts godoc
// @Summary Top rated products
// @Tags products
// @Produce json
// @Success 200 {array} model.Product
// @Router /api/product/top [get]
func TopProducts(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := products.Top(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetProduct godoc
// @Summary Get a product with its reviews
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/product/{id} [get]
func GetProduct(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		p, err := products.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// CreateProduct godoc
// @Summary Create a sample product
// @Description Creates a placeholder product owned by the caller, to be edited afterwards.
// @Tags products
// @Produce json
// @Success 201 {object} model.Product
// @Router /api/product [post]
func CreateProduct(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := products.CreateSample(c.UserContext(), middleware.CurrentUser(c).ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body productRequest true "Product"
// @Success 200 {object} model.Product
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/product/{id} [put]
func UpdateProduct(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		var req productRequest
		if rerr := bindJSON(c, &req); rerr != nil {
			return rerr.write(c)
		}
		p, err := products.Update(c.UserContext(), id, service.ProductInput{
			Name:         req.Name,
			Price:        req.Price,
			Description:  req.Description,
			Image:        req.Image,
			Brand:        req.Brand,
			Category:     req.Category,
			CountInStock: req.CountInStock,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /api/product/{id} [delete]
func DeleteProduct(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		if err := products.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "product deleted"})
	}
}

// UploadProductImage godoc
// @Summary Upload a product image
// @Description multipart/form-data with field "image"; images only, at most 5 MiB.
// @Tags products
// @Accept mpfd
// @Produce json
// @Param id path string true "Product ID"
// @Param image formData file true "Image"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /api/product/{id}/image [post]
func UploadProductImage(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		fh, err := c.FormFile("image")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "image file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		url, err := products.UploadImage(c.UserContext(), id, service.ImageUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(uploadResponse{Message: "image uploaded", URL: url})
	}
}

// CreateProductReview godoc
// @Summary Review a product
// @Description One review per user and product.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body reviewRequest true "Review"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/product/{id}/review [post]
func CreateProductReview(products service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		var req reviewRequest
		if rerr := bindJSON(c, &req); rerr != nil {
			return rerr.write(c)
		}
		if err := products.AddReview(c.UserContext(), id, middleware.CurrentUser(c), req.Rating, req.Comment); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: "review added"})
	}
}
