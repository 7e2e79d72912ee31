package rest

import (
	"encoding/json"
	"log"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/util/websockets"
)

// issueEventRadiusKm bounds which subscribed sessions see an issue update.
const issueEventRadiusKm = 10.0

// issueEvents pushes poller merge/create results to nearby websocket
// sessions.
type issueEvents struct {
	ws *websockets.WebSocketManager
}

func (b issueEvents) IssueEvent(issue model.Issue, isNew bool) {
	event := struct {
		Type  string      `json:"type"`
		IsNew bool        `json:"is_new"`
		Data  model.Issue `json:"data"`
	}{
		Type:  websockets.MsgTypeIssueEvent,
		IsNew: isNew,
		Data:  issue,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal issue event: %v", err)
		return
	}
	b.ws.BroadcastNearby(payload, issue.Latitude, issue.Longitude, issueEventRadiusKm)
}
