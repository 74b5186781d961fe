package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/service"
	"github.com/julienschmidt/httprouter"
)

// readUserIDParam pulls the userId url parameter from the request. The literal
// segment "profile" is accepted as an alias for the caller's own id, since
// httprouter cannot register a static route alongside a wildcard sibling.
func (h *Handler) readUserIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	if params.ByName("userId") == "profile" {
		user := h.contextGetUser(r)
		if user.IsAnonymous() {
			return 0, errors.New("authentication required for profile")
		}
		return user.ID, nil
	}
	return h.readIDParam(r, "userId")
}

// RegisterUser godoc
// @Summary Register a new user
// @Description This endpoint registers a new user
// @Tags users
// @Accept  json
// @Produce json
// @Param body body dto.RegisterUserRequestBody true "JSON payload required to register a new user"
// @Success 201 {object} data.User
// @Failure 400
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/users [post]
func (h *Handler) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.RegisterUserRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.RegisterUser(requestBody.Name, requestBody.Email, requestBody.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/users/%d", user.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"user": user}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowUser godoc
// @Summary Show a user profile
// @Description This endpoint shows a user's public profile. Use "profile" as the id for the authenticated user's own profile
// @Tags users
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param userId path string true "ID of user to show, or the literal string profile"
// @Success 200 {object} data.User
// @Failure 404
// @Failure 500
// @Router /v1/users/{userId} [get]
func (h *Handler) showUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.readUserIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user, err := h.service.GetUser(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateUser godoc
// @Summary Update a user profile
// @Description This endpoint updates a user's name and/or bio (self or admin only)
// @Tags users
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param userId path string true "ID of user to update, or the literal string profile"
// @Param body body dto.UpdateUserRequestBody true "JSON payload required to update a user"
// @Success 200 {object} data.User
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/users/{userId} [patch]
func (h *Handler) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.readUserIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateUserRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	caller := h.contextGetUser(r)
	user, err := h.service.UpdateUser(caller, userID, requestBody.Name, requestBody.Bio)
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
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ResetUserPassword godoc
// @Summary Reset a user's password
// @Description This endpoint sets a new password for the user identified by a valid password reset token
// @Tags users
// @Accept  json
// @Produce json
// @Param body body dto.ResetUserPasswordRequestBody true "JSON payload required to reset a password"
// @Success 200
// @Failure 400
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/users/password [put]
func (h *Handler) resetUserPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.ResetUserPasswordRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	err = h.service.ResetUserPassword(requestBody.Password, requestBody.TokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "your password was successfully reset"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
