package httpapi

import (
	"net/http"

	"github.com/abdulrehan17773/am-backend/internal/service"
)

type registerRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	user, err := a.auth.Register(r.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, toUserDTO(user), "user registered")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"accessToken"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	user, token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, http.StatusOK, loginResponse{User: toUserDTO(user), Token: token}, "login successful")
}

// Tokens are stateless; logout just drops the cookie.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	writeSuccess(w, http.StatusOK, nil, "logout successful")
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, toUserDTO(mustUser(r)), "current user")
}
