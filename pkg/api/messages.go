package api

import (
	"net/http"

	"parley/pkg/errdefs"
	"parley/pkg/models"
)

func (a *API) messageSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64  `json:"channelId"`
		Message   string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	id, err := a.svc.MessageSend(token(r), req.ChannelID, req.Message)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"messageId": id})
}

func (a *API) messageSendDM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DMID    int64  `json:"dmId"`
		Message string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	id, err := a.svc.MessageSendDM(token(r), req.DMID, req.Message)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"messageId": id})
}

func (a *API) messageSendLater(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID int64  `json:"channelId"`
		Message   string `json:"message"`
		TimeSent  int64  `json:"timeSent"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	id, err := a.svc.MessageSendLater(token(r), req.ChannelID, req.Message, req.TimeSent)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"messageId": id})
}

func (a *API) messageSendLaterDM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DMID     int64  `json:"dmId"`
		Message  string `json:"message"`
		TimeSent int64  `json:"timeSent"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	id, err := a.svc.MessageSendLaterDM(token(r), req.DMID, req.Message, req.TimeSent)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"messageId": id})
}

func (a *API) messageEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID int64  `json:"messageId"`
		Message   string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.MessageEdit(token(r), req.MessageID, req.Message); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) messageRemove(w http.ResponseWriter, r *http.Request) {
	messageID, err := qInt(r, "messageId")
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.MessageRemove(token(r), messageID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) messageShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OGMessageID int64  `json:"ogMessageId"`
		Message     string `json:"message"`
		ChannelID   int64  `json:"channelId"`
		DMID        int64  `json:"dmId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	var target models.ContainerRef
	switch {
	case req.ChannelID != models.NoID && req.DMID == models.NoID:
		target = models.ChannelRef(req.ChannelID)
	case req.ChannelID == models.NoID && req.DMID != models.NoID:
		target = models.DMRef(req.DMID)
	default:
		fail(w, errdefs.InvalidArgument("exactly one of channelId and dmId must be set"))
		return
	}
	id, err := a.svc.MessageShare(token(r), req.OGMessageID, req.Message, target)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"sharedMessageId": id})
}

func (a *API) messageReact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID int64 `json:"messageId"`
		ReactID   int64 `json:"reactId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.MessageReact(token(r), req.MessageID, req.ReactID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) messageUnreact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID int64 `json:"messageId"`
		ReactID   int64 `json:"reactId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.MessageUnreact(token(r), req.MessageID, req.ReactID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) messagePin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID int64 `json:"messageId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.MessagePin(token(r), req.MessageID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) messageUnpin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID int64 `json:"messageId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.MessageUnpin(token(r), req.MessageID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}
