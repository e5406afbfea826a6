package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/identity"
	"github.com/examroom/examroom-backend/internal/model"
	"github.com/examroom/examroom-backend/internal/response"
	"github.com/examroom/examroom-backend/internal/session"
	"github.com/examroom/examroom-backend/internal/validator"
)

// SessionHandler exposes the attempt lifecycle of the caller's session
// store: start, answer, submit, reset, plus state and score reads.
type SessionHandler struct {
	manager *session.Manager
	log     zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(manager *session.Manager, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		log:     log.With().Str("component", "session_handler").Logger(),
	}
}

// GetState godoc
// GET /api/v1/session
func (h *SessionHandler) GetState(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}
	response.Success(c, http.StatusOK, store.State())
}

// StartExam godoc
// POST /api/v1/session/exams/:exam_id/start
func (h *SessionHandler) StartExam(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}

	examID, err := strconv.ParseInt(c.Param("exam_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := store.StartExam(c.Request.Context(), examID); err != nil {
		h.failSessionOp(c, store, err, response.ErrStartFailed)
		return
	}
	response.Success(c, http.StatusOK, store.State())
}

// SubmitAnswer godoc
// POST /api/v1/session/answers
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	store.SubmitAnswer(c.Request.Context(), req.QuestionID, req.OptionID)
	response.Success(c, http.StatusOK, store.State())
}

// SubmitExam godoc
// POST /api/v1/session/submit
func (h *SessionHandler) SubmitExam(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}

	if err := store.SubmitExam(c.Request.Context()); err != nil {
		h.failSessionOp(c, store, err, response.ErrSubmitFailed)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"state": store.State(),
		"score": store.Score(),
	})
}

// ResetExam godoc
// POST /api/v1/session/reset
func (h *SessionHandler) ResetExam(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}

	store.ResetExam(c.Request.Context())
	response.Success(c, http.StatusOK, store.State())
}

// GetScore godoc
// GET /api/v1/session/score
func (h *SessionHandler) GetScore(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"score": store.Score()})
}

// failSessionOp maps a session-core error onto the response envelope. The
// store has already recorded the message for its own state.
func (h *SessionHandler) failSessionOp(c *gin.Context, store *session.Store, err error, fallback response.ErrCode) {
	switch {
	case errors.Is(err, session.ErrOperationInFlight):
		response.Fail(c, http.StatusConflict, response.ErrOperationInFlight)
	case errors.Is(err, identity.ErrNoSession):
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
	case errors.Is(err, gateway.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		h.log.Warn().Err(err).Msg("session operation failed")
		response.FailWithMessage(c, http.StatusBadGateway, fallback, store.State().Error)
	}
}
