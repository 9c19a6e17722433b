package api

import (
	"net/http"

	"parley/pkg/service"
)

func (a *API) channelsCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		IsPublic bool   `json:"isPublic"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	id, err := a.svc.ChannelsCreate(token(r), req.Name, req.IsPublic)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"channelId": id})
}

func (a *API) channelsList(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.ChannelsList(token(r))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string][]service.ChannelSummary{"channels": out})
}

func (a *API) channelsListAll(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.ChannelsListAll(token(r))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string][]service.ChannelSummary{"channels": out})
}

func (a *API) channelDetails(w http.ResponseWriter, r *http.Request) {
	channelID, err := qInt(r, "channelId")
	if err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.ChannelDetails(token(r), channelID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, out)
}

func (a *API) channelJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64 `json:"channelId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.ChannelJoin(token(r), req.ChannelID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) channelInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64 `json:"channelId"`
		UID       int64 `json:"uId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.ChannelInvite(token(r), req.ChannelID, req.UID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) channelMessages(w http.ResponseWriter, r *http.Request) {
	channelID, err := qInt(r, "channelId")
	if err != nil {
		fail(w, err)
		return
	}
	start, err := qInt(r, "start")
	if err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.ChannelMessages(token(r), channelID, start)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, out)
}

func (a *API) channelLeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64 `json:"channelId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.ChannelLeave(token(r), req.ChannelID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) channelAddOwner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64 `json:"channelId"`
		UID       int64 `json:"uId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.ChannelAddOwner(token(r), req.ChannelID, req.UID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) channelRemoveOwner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64 `json:"channelId"`
		UID       int64 `json:"uId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.ChannelRemoveOwner(token(r), req.ChannelID, req.UID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}
