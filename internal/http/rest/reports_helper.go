package rest

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/util"
	"github.com/innodatatics/city_dashboard/util/values"
	"github.com/innodatatics/city_dashboard/util/websockets"
)

func (api *API) CreateReportHelper(ctx context.Context, req model.CreateReportRequest) (*model.CreateReportResponse, string, string, error) {
	now := time.Now().UTC()
	report := model.Report{
		ID:           util.ShortID(),
		CreatorEmail: req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		IssueType:    req.IssueType,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Duration:     req.Duration,
		TrafficFlow:  req.TrafficFlow,
		CausingHarm:  req.CausingHarm,
		Proofs:       req.Proofs,
		Timestamp:    now,
	}
	if report.Proofs == nil {
		report.Proofs = []string{}
	}

	if err := api.Deps.Store.CreateReport(ctx, report); err != nil {
		return nil, values.Error, "Failed to create report", err
	}

	if err := api.Deps.Store.RecordContribution(ctx, report.CreatorEmail, report.ID); err != nil {
		log.Printf("failed to record contribution for %s: %v", report.CreatorEmail, err)
	}

	notification := model.Notification{
		ID:          util.ShortID(),
		Type:        model.NotificationNewReport,
		ReportID:    report.ID,
		IssueType:   report.IssueType,
		Description: report.Description,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Duration:    report.Duration,
		TrafficFlow: report.TrafficFlow,
		CausingHarm: report.CausingHarm,
		Timestamp:   now,
	}
	if err := api.Deps.Store.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to record notification for report %s: %v", report.ID, err)
	}

	api.broadcastReportEvent(notification)
	go api.sendReportConfirmation(report)

	return &model.CreateReportResponse{
		ID:        report.ID,
		Timestamp: report.Timestamp,
	}, values.Created, "Report created successfully", nil
}

func (api *API) AppendProofsHelper(ctx context.Context, reportID string, urls []string) (*model.Report, string, string, error) {
	report, err := api.Deps.Store.AppendProofs(ctx, reportID, urls)
	if err != nil {
		return nil, values.Error, "Failed to append proofs", err
	}
	if report == nil {
		return nil, values.NotFound, "Report not found", nil
	}

	// Re-send the confirmation so the reporter sees the attached proofs.
	go api.sendReportConfirmation(*report)

	return report, values.Success, "Proofs uploaded successfully", nil
}

func (api *API) broadcastReportEvent(notification model.Notification) {
	if api.Deps.WebSocket == nil {
		return
	}

	event := struct {
		Type string             `json:"type"`
		Data model.Notification `json:"data"`
	}{
		Type: websockets.MsgTypeReportEvent,
		Data: notification,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal report event: %v", err)
		return
	}
	api.Deps.WebSocket.Broadcast(payload)
}

func (api *API) sendReportConfirmation(report model.Report) {
	if api.Mailer == nil {
		return
	}

	data := map[string]interface{}{
		"Name":        report.Name,
		"ReportID":    report.ID,
		"IssueType":   report.IssueType,
		"Description": report.Description,
	}
	if err := api.Mailer.Send(report.CreatorEmail, data, "reportCreated.tmpl"); err != nil {
		log.Printf("failed to send report confirmation to %s: %v", report.CreatorEmail, err)
	}
}
