package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/recipebox/recipe-api/internal/api/httpx"
	"github.com/recipebox/recipe-api/internal/api/validate"
	"github.com/recipebox/recipe-api/internal/auth"
	"github.com/recipebox/recipe-api/internal/middleware"
	"github.com/recipebox/recipe-api/internal/services"
)

type UserHandler struct {
	svc *services.UserService
	tm  *auth.TokenManager
}

func NewUserHandler(svc *services.UserService, tm *auth.TokenManager) *UserHandler {
	return &UserHandler{svc: svc, tm: tm}
}

type createUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	var errs validate.Errs
	if e := validate.Required("email", req.Email); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Required("password", req.Password); e != nil {
		errs = append(errs, *e)
	}
	if errs != nil {
		writeDomainError(w, r, errs)
		return
	}

	u, err := h.svc.Create(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

type tokenReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// Token authenticates the account and issues the bearer token pair used as
// the ownership key on every other endpoint.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	access, refresh, exp, err := h.tm.GeneratePair(u.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(exp).Seconds()),
	})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeBadRequest(w, "invalid request")
		return
	}
	claims, err := h.tm.ParseRefresh(req.RefreshToken)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	access, refresh, exp, err := h.tm.GeneratePair(claims.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(exp).Seconds()),
	})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	u, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

type updateMeReq struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req updateMeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), uid, req.Name, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
