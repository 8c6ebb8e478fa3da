package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bookloop/bookloop-api/internal/api/metrics"
	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service ports.BookService
	images  ports.ImageStore
}

func NewBookHandler(service ports.BookService, images ports.ImageStore) *BookHandler {
	return &BookHandler{service: service, images: images}
}

// Create lists a new book from a multipart form with an optional "image"
// file part. The route carries no auth; the owner is asserted through the
// ownerId field and checked for existence.
//
// @Summary      List a new book
// @Tags         books
// @Accept       multipart/form-data
// @Produce      json
// @Param        title    formData  string  true   "Book title"
// @Param        author   formData  string  true   "Author"
// @Param        price    formData  string  true   "Price (max two decimal places)"
// @Param        ownerId  formData  string  true   "Owner user id"
// @Param        image    formData  file    false  "Cover image"
// @Success      201      {object}  bookResponse
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /books/create [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Already validated by the bookprice rule.
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be a decimal number")
	}

	imageURL, err := h.saveImage(c)
	if err != nil {
		return err
	}

	book, err := h.service.CreateBook(c.Request().Context(), ports.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		Condition:   domain.Condition(req.Condition),
		Location:    req.Location,
		Price:       price,
		OwnerID:     req.OwnerID,
		ImageURL:    imageURL,
	})
	if err != nil {
		return err
	}

	metrics.BooksCreatedTotal.WithLabelValues(string(book.Condition)).Inc()
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// List returns one catalog page.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listBooksResponse
// @Failure      400    {object}  map[string]string
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.service.FindAll(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get returns a single book with its owner projection.
//
// @Summary      Get a book by id
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.service.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Update applies a partial patch from a multipart form; only the fields
// present in the form are changed. Requires the owner or an admin.
//
// @Summary      Update a book
// @Tags         books
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  updateBookResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch, err := buildPatch(form)
	if err != nil {
		return err
	}

	if imageURL, err := h.saveImage(c); err != nil {
		return err
	} else if imageURL != "" {
		patch.ImageURL = &imageURL
	}

	result, err := h.service.UpdateBook(c.Request().Context(), c.Param("id"), patch, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateBookResponse{
		Message: result.Message,
		Book:    toBookResponse(result.Book),
	})
}

// Delete removes a book and its dependent exchange proposals. Requires the
// owner or an admin.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  deleteBookResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.DeleteBook(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteBookResponse{
		Message:       result.Message,
		DeletedBookID: result.DeletedBookID,
	})
}

// saveImage stores the uploaded "image" file part, if any, and returns its
// public URL. An absent part is not an error.
func (h *BookHandler) saveImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}

	src, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	defer src.Close()

	return h.images.Save(c.Request().Context(), fh.Filename, src)
}

// buildPatch translates the present form fields into a partial update.
// Absent fields stay nil; malformed values fail fast with 400.
func buildPatch(form url.Values) (ports.UpdateBookInput, error) {
	var patch ports.UpdateBookInput

	if v, ok := formValue(form, "title"); ok {
		patch.Title = &v
	}
	if v, ok := formValue(form, "author"); ok {
		patch.Author = &v
	}
	if v, ok := formValue(form, "isbn"); ok {
		patch.ISBN = &v
	}
	if v, ok := formValue(form, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formValue(form, "location"); ok {
		patch.Location = &v
	}
	if v, ok := formValue(form, "condition"); ok {
		cond := domain.Condition(v)
		patch.Condition = &cond
	}
	if v, ok := formValue(form, "price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return ports.UpdateBookInput{}, echo.NewHTTPError(http.StatusBadRequest, "price must be a decimal number")
		}
		patch.Price = &price
	}
	if v, ok := formValue(form, "available"); ok {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return ports.UpdateBookInput{}, echo.NewHTTPError(http.StatusBadRequest, "available must be a boolean")
		}
		patch.Available = &available
	}

	return patch, nil
}

func formValue(form url.Values, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// queryInt parses an optional positive integer query parameter. Absence
// yields zero, which the service replaces with its default.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return v, nil
}
