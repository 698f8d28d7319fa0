package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/dto"
	"github.com/photoshare/api/internal/service"
	ctxutil "github.com/photoshare/api/pkg/context"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "CreateComment")
	user := currentUser(c)
	photoID, ok := pathID(c, "id")
	if user == nil || !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	comment, err := h.commentService.Create(ctx, user, photoID, req.Content)
	if err != nil {
		respondError(ctx, c, "Create comment", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCommentResponse(comment))
}

func (h *CommentHandler) List(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ListComments")
	photoID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByPhoto(ctx, photoID)
	if err != nil {
		respondError(ctx, c, "List comments", err)
		return
	}

	data := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, dto.NewCommentResponse(&comments[i]))
	}
	c.JSON(http.StatusOK, data)
}

func (h *CommentHandler) Update(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdateComment")
	user := currentUser(c)
	id, ok := pathID(c, "id")
	if user == nil || !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	comment, err := h.commentService.Update(ctx, user, id, req.Content)
	if err != nil {
		respondError(ctx, c, "Update comment", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCommentResponse(comment))
}

// Delete is routed behind the moderator/admin role check.
func (h *CommentHandler) Delete(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "DeleteComment")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentService.Delete(ctx, id)
	if err != nil {
		respondError(ctx, c, "Delete comment", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCommentResponse(comment))
}
