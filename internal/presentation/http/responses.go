package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamecatalog/app/internal/domain/catalog"
	"gamecatalog/app/internal/presentation/http/templates"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	jsonContentType      = "application/json"
	errorFallbackMessage = "We couldn't process your request right now."

	messageMissingFields = "Missing required fields"
	messageMalformedBody = "Malformed JSON body"
	messageInternalError = "Internal server error"
	messageBodyTooLarge  = "Request body too large"
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type jsonResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type errorBody struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func newEmptyResponse(status int) *jsonResponse {
	return &jsonResponse{Status: status}
}

func (s *Server) newJSONResponse(ctx context.Context, status int, value any) *jsonResponse {
	body, err := json.Marshal(value)
	if err != nil {
		s.recordError(ctx, eris.Wrap(err, "encoding JSON response"), "encoding response failed", logrus.Fields{"status": status})
		body, _ = json.Marshal(errorBody{Error: messageInternalError})
		status = stdhttp.StatusInternalServerError
	}

	return &jsonResponse{
		Status:      status,
		ContentType: jsonContentType,
		Body:        body,
	}
}

func (s *Server) newErrorResponse(ctx context.Context, status int, message string) *jsonResponse {
	return s.newJSONResponse(ctx, status, errorBody{Error: message})
}

// catalogErrorResponse maps catalog failures onto their JSON status and body.
func (s *Server) catalogErrorResponse(ctx context.Context, err error, message string, fields logrus.Fields) *jsonResponse {
	var missing *catalog.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		return s.newJSONResponse(ctx, stdhttp.StatusBadRequest, errorBody{
			Error:   messageMissingFields,
			Missing: missing.Fields,
		})
	case eris.Is(err, errMalformedBody):
		return s.newErrorResponse(ctx, stdhttp.StatusBadRequest, messageMalformedBody)
	case eris.Is(err, errBodyTooLarge):
		return s.newErrorResponse(ctx, stdhttp.StatusRequestEntityTooLarge, messageBodyTooLarge)
	case eris.Is(err, catalog.ErrNotFound):
		return newEmptyResponse(stdhttp.StatusNotFound)
	case eris.Is(err, catalog.ErrPlatformExists):
		return s.newErrorResponse(ctx, stdhttp.StatusBadRequest, "A platform of this name already exists")
	case eris.Is(err, catalog.ErrGameExists):
		return s.newErrorResponse(ctx, stdhttp.StatusBadRequest, "A game of this name already exists")
	case eris.Is(err, catalog.ErrUnknownPlatform):
		return s.newErrorResponse(ctx, stdhttp.StatusBadRequest, "This platform does not exist")
	case eris.Is(err, catalog.ErrEmptySlug):
		return s.newErrorResponse(ctx, stdhttp.StatusBadRequest, "Name must contain at least one letter or digit")
	default:
		s.recordError(ctx, err, message, fields)
		return s.newErrorResponse(ctx, stdhttp.StatusInternalServerError, messageInternalError)
	}
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	title := fmt.Sprintf("%s • Game Catalog", label)
	component := templates.ErrorPage(templates.ErrorPageData{
		Title:       title,
		StatusLabel: label,
		Message:     message,
	})

	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, message))
		return newHTMLResponse(status, fallback), nil
	}

	return newHTMLResponse(status, body), nil
}

// recordError is the single place a failed request is reported: one error log
// line and one Sentry event.
func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	s.logError(ctx, err, message, fields)

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}

func (s *Server) logError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if s.logger == nil || err == nil {
		return
	}

	entry := s.logger.WithField("error", err.Error())
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	entry.Error(message)
}

func htmlOperation(operationID, summary string, statuses ...int) func(op *huma.Operation) {
	return contentOperation(htmlContentType, &huma.Schema{Type: "string"}, operationID, summary, statuses...)
}

func jsonOperation(operationID, summary string, statuses ...int) func(op *huma.Operation) {
	return contentOperation(jsonContentType, &huma.Schema{Type: "object"}, operationID, summary, statuses...)
}

// contentOperation documents the listed statuses; the first one is the success status.
func contentOperation(contentType string, schema *huma.Schema, operationID, summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		op.OperationID = operationID
		if summary != "" {
			op.Summary = summary
		}
		if len(statuses) > 0 {
			op.DefaultStatus = statuses[0]
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		for _, status := range statuses {
			code := strconv.Itoa(status)
			response := &huma.Response{Description: stdhttp.StatusText(status)}
			if status != stdhttp.StatusNoContent && status != stdhttp.StatusNotFound {
				response.Content = map[string]*huma.MediaType{
					contentType: {Schema: schema},
				}
			}
			op.Responses[code] = response
		}
	}
}
