package httpapi

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/service"
)

func (a *API) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	users, total, err := a.users.List(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	items := lo.Map(users, func(u domain.User, _ int) userDTO { return toUserDTO(u) })
	writeSuccess(w, http.StatusOK, toPageDTO(items, total, page), "users")
}

type createUserRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (a *API) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	user, err := a.users.Create(r.Context(), service.CreateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, toUserDTO(user), "user created")
}

type updateUserRequest struct {
	FullName *string `json:"fullname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
	Verified *bool   `json:"verified"`
	Role     *string `json:"role"`
}

func (a *API) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	user, err := a.users.Update(r.Context(), id, service.UpdateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Verified: req.Verified,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toUserDTO(user), "user updated")
}

func (a *API) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	if err := a.users.Delete(r.Context(), id); err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "user deleted")
}
