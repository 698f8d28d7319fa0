package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/dto"
	"github.com/photoshare/api/internal/service"
	ctxutil "github.com/photoshare/api/pkg/context"
)

type PhotoHandler struct {
	photoService *service.PhotoService
}

func NewPhotoHandler(photoService *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

func photoResponse(d *service.PhotoDetail) dto.PhotoResponse {
	return dto.NewPhotoResponse(d.Photo, d.AverageRating, d.RatingCount)
}

func (h *PhotoHandler) Create(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "CreatePhoto")
	user := currentUser(c)
	if user == nil {
		return
	}

	var req dto.CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	photo, err := h.photoService.Create(ctx, user, req)
	if err != nil {
		respondError(ctx, c, "Create photo", err)
		return
	}
	c.JSON(http.StatusCreated, photoResponse(photo))
}

func (h *PhotoHandler) List(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ListPhotos")
	pagination := constants.ParsePaginationParams(c)

	photos, total, err := h.photoService.List(ctx, pagination, c.Query(constants.QueryParamTag))
	if err != nil {
		respondError(ctx, c, "List photos", err)
		return
	}

	data := make([]dto.PhotoResponse, 0, len(photos))
	for i := range photos {
		data = append(data, photoResponse(&photos[i]))
	}
	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pagination.PageTotal(total), data))
}

func (h *PhotoHandler) Get(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetPhoto")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	photo, err := h.photoService.Get(ctx, id)
	if err != nil {
		respondError(ctx, c, "Get photo", err)
		return
	}
	c.JSON(http.StatusOK, photoResponse(photo))
}

func (h *PhotoHandler) Update(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdatePhoto")
	user := currentUser(c)
	id, ok := pathID(c, "id")
	if user == nil || !ok {
		return
	}

	var req dto.UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	photo, err := h.photoService.Update(ctx, user, id, req)
	if err != nil {
		respondError(ctx, c, "Update photo", err)
		return
	}
	c.JSON(http.StatusOK, photoResponse(photo))
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "DeletePhoto")
	user := currentUser(c)
	id, ok := pathID(c, "id")
	if user == nil || !ok {
		return
	}

	if err := h.photoService.Delete(ctx, user, id); err != nil {
		respondError(ctx, c, "Delete photo", err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Photo deleted"))
}

func (h *PhotoHandler) Rate(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "RatePhoto")
	user := currentUser(c)
	id, ok := pathID(c, "id")
	if user == nil || !ok {
		return
	}

	var req dto.RatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	rating, err := h.photoService.Rate(ctx, user, id, req.Rating)
	if err != nil {
		respondError(ctx, c, "Rate photo", err)
		return
	}
	c.JSON(http.StatusOK, dto.RatingResponse{PhotoID: rating.PhotoID, UserID: rating.UserID, Rating: rating.Rating})
}
