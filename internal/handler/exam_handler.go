package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/middleware"
	"github.com/examroom/examroom-backend/internal/model"
	"github.com/examroom/examroom-backend/internal/response"
	"github.com/examroom/examroom-backend/internal/session"
	"github.com/examroom/examroom-backend/internal/validator"
)

// ExamHandler serves the exam catalog, authoring, and reporting routes.
// Catalog reads go through the caller's session store; authoring and
// reports talk to the gateway directly.
type ExamHandler struct {
	manager *session.Manager
	gw      gateway.Gateway
	log     zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(manager *session.Manager, gw gateway.Gateway, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		manager: manager,
		gw:      gw,
		log:     log.With().Str("component", "exam_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/exams
func (h *ExamHandler) ListExams(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}

	if err := store.FetchExams(c.Request.Context()); err != nil {
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrGatewayFailure, store.State().Error)
		return
	}
	response.Success(c, http.StatusOK, store.State().Exams)
}

// GetExam godoc
// GET /api/v1/exams/:exam_id
func (h *ExamHandler) GetExam(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}

	examID, err := strconv.ParseInt(c.Param("exam_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := store.LoadExamData(c.Request.Context(), examID); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrGatewayFailure, store.State().Error)
		return
	}

	for _, e := range store.State().Exams {
		if e.ID == examID {
			response.Success(c, http.StatusOK, e)
			return
		}
	}
	response.Fail(c, http.StatusNotFound, response.ErrNotFound)
}

// CreateExam godoc
// POST /api/v1/exams  (instructor)
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam := &model.Exam{
		Name:            req.Name,
		DurationSeconds: req.DurationSeconds,
	}
	for _, q := range req.Questions {
		question := model.Question{Text: q.Text, Marks: q.Marks}
		for _, o := range q.Options {
			question.Options = append(question.Options, model.Option{
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			})
		}
		exam.Questions = append(exam.Questions, question)
	}

	if err := h.gw.CreateExam(c.Request.Context(), exam); err != nil {
		h.log.Error().Err(err).Msg("create exam failed")
		response.Fail(c, http.StatusBadGateway, response.ErrGatewayFailure)
		return
	}

	response.Success(c, http.StatusCreated, exam)
}

// DeleteExam godoc
// DELETE /api/v1/exams/:exam_id  (instructor)
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	store := storeForRequest(c, h.manager)
	if store == nil {
		return
	}

	examID, err := strconv.ParseInt(c.Param("exam_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := store.DeleteExam(c.Request.Context(), examID); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrGatewayFailure, store.State().Error)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": examID})
}

// GetReport godoc
// GET /api/v1/exams/:exam_id/report  (instructor)
//
// Result rows come straight from the gateway; reporting is not mediated by
// the session store.
func (h *ExamHandler) GetReport(c *gin.Context) {
	examID, err := strconv.ParseInt(c.Param("exam_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	rows, err := h.gw.ListResults(c.Request.Context(), examID)
	if err != nil {
		h.log.Error().Err(err).Int64("exam_id", examID).Msg("list results failed")
		response.Fail(c, http.StatusBadGateway, response.ErrGatewayFailure)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// storeForRequest resolves the caller's session store from the JWT claims,
// writing the error response itself when authentication is missing.
func storeForRequest(c *gin.Context, manager *session.Manager) *session.Store {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return nil
	}
	return manager.StoreFor(c.Request.Context(), middleware.SessionFromClaims(claims))
}
