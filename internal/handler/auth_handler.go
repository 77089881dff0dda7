package handler

import (
	"net/http"

	"geochat/internal/service"

	"github.com/gorilla/sessions"
)

const sessionName = "auth-session"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandler struct {
	authService service.AuthService
	cookieStore *sessions.CookieStore
}

func NewAuthHandler(authService service.AuthService, cookieStore *sessions.CookieStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieStore: cookieStore,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request credentials
	if err := decodeJSON(r, &request); err != nil {
		writeFail(w, "参数缺失")
		return
	}
	if request.Username == "" || request.Password == "" {
		writeFail(w, "账号和密码不能为空")
		return
	}
	if err := h.authService.Register(request.Username, request.Password); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request credentials
	if err := decodeJSON(r, &request); err != nil {
		writeFail(w, "参数缺失")
		return
	}

	user, token, err := h.authService.Login(request.Username, request.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	session, _ := h.cookieStore.Get(r, sessionName)
	session.Values["username"] = user.Username
	_ = sessions.Save(r, w)

	writeJSON(w, jsonBody{
		"success": true,
		"user":    jsonBody{"username": user.Username},
		"token":   token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, sessionName)
	session.Options.MaxAge = -1
	_ = sessions.Save(r, w)
	writeOK(w)
}
