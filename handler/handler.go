package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"video-chat-agent/internal/domain"
	"video-chat-agent/internal/usecase"
	"video-chat-agent/internal/videoid"
)

const correlationHeader = "X-Correlation-Id"

// Asker runs one panel submission.
type Asker interface {
	Ask(ctx context.Context, question, tabURL string) (usecase.ViewState, error)
}

// Publisher stores the video id found in a page URL.
type Publisher interface {
	PublishURL(ctx context.Context, rawURL string) (domain.VideoID, error)
}

type askRequest struct {
	Question string `json:"question"`
	TabURL   string `json:"tabUrl"`
}

type askResponse struct {
	Status     domain.Status  `json:"status"`
	Transcript []domain.Entry `json:"transcript"`
}

type publishRequest struct {
	URL string `json:"url"`
}

type publishResponse struct {
	VideoID domain.VideoID `json:"videoId"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	asker     Asker
	publisher Publisher
}

func NewHandler(asker Asker, publisher Publisher) (*Handler, error) {
	if asker == nil {
		return nil, errors.New("handler: asker must not be nil")
	}
	if publisher == nil {
		return nil, errors.New("handler: publisher must not be nil")
	}
	return &Handler{asker: asker, publisher: publisher}, nil
}

// Handle routes API Gateway proxy requests to the panel and publisher.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)
	log := slog.With("correlationId", corrID, "path", req.Path)

	if req.HTTPMethod != http.MethodPost {
		return respond(corrID, http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}), nil
	}

	switch strings.TrimRight(req.Path, "/") {
	case "/ask":
		return h.ask(ctx, log, corrID, req.Body), nil
	case "/publish":
		return h.publish(ctx, log, corrID, req.Body), nil
	default:
		return respond(corrID, http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}), nil
	}
}

func (h *Handler) ask(ctx context.Context, log *slog.Logger, corrID, body string) events.APIGatewayProxyResponse {
	var in askRequest
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return respond(corrID, http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput), Message: "malformed JSON body"})
	}

	view, err := h.asker.Ask(ctx, in.Question, in.TabURL)
	if err != nil {
		var usecaseErr *usecase.Error
		if errors.As(err, &usecaseErr) && usecaseErr.Code == usecase.ErrorInvalidInput {
			return respond(corrID, http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput), Message: usecaseErr.Reason})
		}
		log.Error("ask failed", "err", err)
		return respond(corrID, http.StatusInternalServerError, errorResponse{Error: "INTERNAL_ERROR"})
	}

	log.Info("ask handled", "status", view.Status)
	transcript := view.Entries
	if transcript == nil {
		transcript = []domain.Entry{}
	}
	return respond(corrID, http.StatusOK, askResponse{Status: view.Status, Transcript: transcript})
}

func (h *Handler) publish(ctx context.Context, log *slog.Logger, corrID, body string) events.APIGatewayProxyResponse {
	var in publishRequest
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return respond(corrID, http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput), Message: "malformed JSON body"})
	}

	id, err := h.publisher.PublishURL(ctx, in.URL)
	if err != nil {
		if errors.Is(err, videoid.ErrNoVideoID) {
			return respond(corrID, http.StatusUnprocessableEntity, errorResponse{Error: "NO_VIDEO_ID", Message: "No video id found on this page."})
		}
		log.Error("publish failed", "err", err)
		return respond(corrID, http.StatusInternalServerError, errorResponse{Error: "INTERNAL_ERROR"})
	}
	return respond(corrID, http.StatusOK, publishResponse{VideoID: id})
}

func respond(corrID string, status int, payload any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(body),
	}
}

func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return newUUID()
}

var newUUID = func() string {
	return uuid.NewString()
}
