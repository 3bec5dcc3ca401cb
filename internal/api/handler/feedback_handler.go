package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

type FeedbackHandler struct {
	feedback ports.FeedbackService
}

func NewFeedbackHandler(feedback ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type submitFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type listFeedbackResponse struct {
	Data  []domain.FeedbackEntry `json:"data"`
	Stats ports.FeedbackStats    `json:"stats"`
}

// Submit stores one feedback entry for the authenticated user. A zero rating
// means "unrated" and fails validation.
//
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitFeedbackRequest  true  "Rating 1-5 plus optional comment"
// @Success      201   {object}  domain.FeedbackEntry
// @Failure      400   {object}  map[string]string
// @Router       /v1/feedback [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	username, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req submitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.feedback.Submit(c.Request().Context(), username, req.Rating, req.Comment)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entry)
}

// List returns all feedback entries, newest first, with aggregate stats.
//
// @Summary      List feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listFeedbackResponse
// @Router       /v1/feedback [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	entries, err := h.feedback.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.FeedbackEntry{}
	}

	return c.JSON(http.StatusOK, listFeedbackResponse{
		Data:  entries,
		Stats: h.feedback.Stats(entries),
	})
}
