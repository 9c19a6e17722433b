package api

import "net/http"

func (a *API) authRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		NameFirst string `json:"nameFirst"`
		NameLast  string `json:"nameLast"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.Register(req.Email, req.Password, req.NameFirst, req.NameLast)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, out)
}

func (a *API) authLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.Login(req.Email, req.Password)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, out)
}

func (a *API) authLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Logout(token(r)); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) authResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.PasswordResetRequest(req.Email); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) authReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetCode   string `json:"resetCode"`
		NewPassword string `json:"newPassword"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.PasswordReset(req.ResetCode, req.NewPassword); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}
