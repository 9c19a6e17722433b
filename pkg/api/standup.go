package api

import "net/http"

func (a *API) standupStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64 `json:"channelId"`
		Length    int64 `json:"length"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	finish, err := a.svc.StandupStart(token(r), req.ChannelID, req.Length)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"timeFinish": finish})
}

func (a *API) standupActive(w http.ResponseWriter, r *http.Request) {
	channelID, err := qInt(r, "channelId")
	if err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.StandupActive(token(r), channelID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, out)
}

func (a *API) standupSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64  `json:"channelId"`
		Message   string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.StandupSend(token(r), req.ChannelID, req.Message); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}
