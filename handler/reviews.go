package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/internal/validator"
	"github.com/emzola/bookworm/service"
)

// reviewSortSafeList maps the public sort keywords to the safelisted columns
// the review queries may order by.
var reviewSortSafeList = map[string]string{
	"newest":  "-created_at",
	"oldest":  "created_at",
	"rating":  "-rating",
	"helpful": "-helpful_count",
}

// CreateReview godoc
// @Summary Create a new review
// @Description This endpoint creates a review for a book. A user may review a book at most once
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.CreateReviewRequestBody true "JSON payload required to create a review"
// @Success 201 {object} data.Review
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/reviews [post]
func (h *Handler) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateReviewRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	review, err := h.service.CreateReview(user, requestBody.BookID, requestBody.Rating, requestBody.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/reviews/%d", review.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"review": review}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowReview godoc
// @Summary Show details of a review
// @Description This endpoint shows the details of a specific review
// @Tags reviews
// @Accept  json
// @Produce json
// @Param reviewId path int true "ID of review to show"
// @Success 200 {object} data.Review
// @Failure 404
// @Failure 500
// @Router /v1/reviews/{reviewId} [get]
func (h *Handler) showReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	review, err := h.service.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListReviews godoc
// @Summary List reviews
// @Description This endpoint lists reviews, optionally filtered by book and/or user
// @Tags reviews
// @Accept  json
// @Produce json
// @Param book_id query int false "Query string param to filter reviews by book"
// @Param user_id query int false "Query string param to filter reviews by user"
// @Param page query int false "Query string param for pagination (min 1)"
// @Param page_size query int false "Query string param for pagination (max 100)"
// @Param sort query string false "Sort order (options: newest, oldest, rating, helpful)"
// @Success 200 {array} data.Review
// @Failure 422
// @Failure 500
// @Router /v1/reviews [get]
func (h *Handler) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListReviews
	v := validator.New()
	qs := r.URL.Query()
	qsInput.BookID = int64(h.readInt(qs, "book_id", 0, v))
	qsInput.UserID = int64(h.readInt(qs, "user_id", 0, v))
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 10, v)
	sort := h.readString(qs, "sort", "newest")
	column, ok := reviewSortSafeList[sort]
	if !ok {
		column = sort
	}
	qsInput.Filters.Sort = column
	qsInput.Filters.SortSafeList = []string{"created_at", "-created_at", "-rating", "-helpful_count"}
	reviews, metadata, err := h.service.ListReviews(qsInput.BookID, qsInput.UserID, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"reviews": reviews, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateReview godoc
// @Summary Update a review
// @Description This endpoint updates a review's rating and/or content (owner or admin only)
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param reviewId path int true "ID of review to update"
// @Param body body dto.UpdateReviewRequestBody true "JSON payload required to update a review"
// @Success 200 {object} data.Review
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/reviews/{reviewId} [patch]
func (h *Handler) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateReviewRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	review, err := h.service.UpdateReview(user, reviewID, requestBody.Rating, requestBody.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteReview godoc
// @Summary Delete a review
// @Description This endpoint deletes a review (owner or admin only)
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param reviewId path int true "ID of review to delete"
// @Success 200
// @Failure 403
// @Failure 404
// @Failure 500
// @Router /v1/reviews/{reviewId} [delete]
func (h *Handler) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	err = h.service.DeleteReview(user, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "review successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// RefineReview godoc
// @Summary Refine review text
// @Description This endpoint rewrites review text into a polished variant. It always succeeds with either an AI-refined or a locally refined result
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.RefineReviewRequestBody true "JSON payload containing the review text to refine"
// @Success 200
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /v1/reviews/refine [post]
func (h *Handler) refineReviewHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.RefineReviewRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	refinement, err := h.service.RefineReview(r.Context(), requestBody.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"refinement": refinement}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
