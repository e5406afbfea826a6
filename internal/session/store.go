// Package session implements the exam session state machine: one Store per
// authenticated user owns the exam catalog cache and the active attempt's
// identity, countdown, answers, and status. A persisted subset of the state
// survives reloads through a snapshot store.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/identity"
	"github.com/examroom/examroom-backend/internal/model"
	"github.com/examroom/examroom-backend/internal/snapshot"
)

// ErrOperationInFlight is returned when a second attempt-mutating operation
// is requested while one is still running. Start and submit are serialized
// per store to rule out duplicate-submission races (timer expiry firing
// together with a manual submit, double-clicked start).
var ErrOperationInFlight = errors.New("another attempt operation is in flight")

// Store holds the session state for one user. All exported methods are safe
// for concurrent use; the HTTP handlers, the WebSocket streamer, and the
// timer worker all share it.
type Store struct {
	mu sync.Mutex

	gw      gateway.Gateway
	idp     identity.Provider
	snaps   snapshot.Store
	snapKey string
	log     zerolog.Logger

	now     func() time.Time
	rollNum func() string

	exams         []model.Exam
	activeExamID  int64
	studentExamID int64
	status        model.AttemptStatus
	answers       map[int64]int64
	timer         int
	loading       bool
	lastError     string
	busy          bool
}

// NewStore creates a Store with an empty catalog and no active attempt.
// Callers that need reload survival should call Rehydrate before use.
func NewStore(gw gateway.Gateway, idp identity.Provider, snaps snapshot.Store, snapKey string, log zerolog.Logger) *Store {
	return &Store{
		gw:      gw,
		idp:     idp,
		snaps:   snaps,
		snapKey: snapKey,
		log:     log.With().Str("component", "session_store").Logger(),
		now:     time.Now,
		rollNum: func() string {
			// Placeholder roll number for auto-created student records,
			// kept in the TEMP-XXXX shape the reports already expect.
			return fmt.Sprintf("TEMP-%04d", rand.IntN(10000))
		},
		status:  model.AttemptStatusNotStarted,
		answers: make(map[int64]int64),
	}
}

// State is a consistent copy of the store for presentation surfaces.
type State struct {
	Exams         []model.Exam        `json:"exams"`
	ActiveExamID  int64               `json:"active_exam_id"`
	StudentExamID int64               `json:"student_exam_id"`
	Status        model.AttemptStatus `json:"exam_status"`
	Answers       map[int64]int64     `json:"answers"`
	Timer         int                 `json:"timer"`
	Loading       bool                `json:"loading"`
	Error         string              `json:"error,omitempty"`
}

// State returns a copy of the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[int64]int64, len(s.answers))
	for q, o := range s.answers {
		answers[q] = o
	}
	exams := make([]model.Exam, len(s.exams))
	copy(exams, s.exams)

	return State{
		Exams:         exams,
		ActiveExamID:  s.activeExamID,
		StudentExamID: s.studentExamID,
		Status:        s.status,
		Answers:       answers,
		Timer:         s.timer,
		Loading:       s.loading,
		Error:         s.lastError,
	}
}

// StartExam begins a new attempt at the given exam. On any failure no
// attempt field is mutated; the error is recorded for the presentation
// layer and returned to the caller.
func (s *Store) StartExam(ctx context.Context, examID int64) error {
	if err := s.beginAttemptOp(); err != nil {
		return err
	}

	exam, err := s.gw.GetExam(ctx, examID)
	if err != nil {
		return s.failAttemptOp(fmt.Errorf("start exam: %w", err))
	}

	sess, err := s.idp.CurrentSession(ctx)
	if err != nil {
		return s.failAttemptOp(fmt.Errorf("start exam: %w", err))
	}

	student, err := s.resolveStudent(ctx, sess.DisplayName())
	if err != nil {
		return s.failAttemptOp(fmt.Errorf("start exam: %w", err))
	}

	attempt := &model.Attempt{
		StudentID: student.ID,
		ExamID:    examID,
		Status:    model.AttemptStatusInProgress,
		StartedAt: s.now(),
	}
	if err := s.gw.CreateAttempt(ctx, attempt); err != nil {
		return s.failAttemptOp(fmt.Errorf("start exam: create attempt: %w", err))
	}

	// Everything durable succeeded; commit the local attempt atomically.
	// A fresh attempt always clears stale answers from a previous run.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertExamLocked(exam)
	s.activeExamID = examID
	s.studentExamID = attempt.ID
	s.status = model.AttemptStatusInProgress
	s.timer = exam.DurationSeconds
	s.answers = make(map[int64]int64)
	s.loading = false
	s.busy = false
	s.persistLocked(ctx)

	s.log.Info().
		Int64("exam_id", examID).
		Int64("student_exam_id", attempt.ID).
		Msg("attempt started")
	return nil
}

// resolveStudent bridges the authenticated identity to a student record by
// display name, creating a placeholder record when none exists. Names are
// not a strong join key; two addresses sharing a local part collide. Kept
// as-is for compatibility with the existing data.
func (s *Store) resolveStudent(ctx context.Context, name string) (*model.Student, error) {
	student, err := s.gw.FindStudentByName(ctx, name)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, gateway.ErrNotFound) {
		return nil, err
	}

	student = &model.Student{
		Name:    name,
		RollNum: s.rollNum(),
		Status:  model.StudentStatusActive,
	}
	if err := s.gw.CreateStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("create student record: %w", err)
	}
	return student, nil
}

// SubmitAnswer records the selected option for a question. Purely local;
// the last choice per question wins.
func (s *Store) SubmitAnswer(ctx context.Context, questionID, optionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answers == nil {
		s.answers = make(map[int64]int64)
	}
	s.answers[questionID] = optionID
	s.persistLocked(ctx)
}

// Tick advances the countdown by one second while the attempt is in
// progress; a no-op otherwise. Reaching zero triggers submission instead of
// decrementing further, so the timer never goes negative.
func (s *Store) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.status != model.AttemptStatusInProgress {
		s.mu.Unlock()
		return
	}
	if s.timer > 0 {
		s.timer--
		s.persistLocked(ctx)
	}
	expired := s.timer <= 0
	s.mu.Unlock()

	if expired {
		if err := s.SubmitExam(ctx); err != nil && !errors.Is(err, ErrOperationInFlight) {
			s.log.Warn().Err(err).Msg("timer-expiry submission failed; will retry next tick")
		}
	}
}

// SubmitExam finalizes the attempt: the score is computed locally, answer
// rows are bulk-inserted, and the durable attempt is marked submitted. The
// local status commits to submitted only after confirmed persistence; on
// failure the attempt stays in_progress so the caller can retry. A no-op
// when there is no active exam or the attempt is already submitted.
func (s *Store) SubmitExam(ctx context.Context) error {
	s.mu.Lock()
	if s.activeExamID == 0 {
		s.mu.Unlock()
		return nil
	}
	if s.status != model.AttemptStatusInProgress {
		// Idempotence guard: a second submit after success must not
		// double-insert answer rows or re-apply the score.
		s.mu.Unlock()
		return nil
	}
	if s.busy {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	s.busy = true
	s.loading = true
	s.lastError = ""

	attemptID := s.studentExamID
	exam := s.findExamLocked(s.activeExamID)
	answers := make(map[int64]int64, len(s.answers))
	for q, o := range s.answers {
		answers[q] = o
	}
	s.mu.Unlock()

	if exam == nil || !exam.HasQuestions() || attemptID == 0 {
		// Nothing to persist against; finish the attempt locally.
		s.mu.Lock()
		defer s.mu.Unlock()
		s.status = model.AttemptStatusSubmitted
		s.loading = false
		s.busy = false
		s.persistLocked(ctx)
		return nil
	}

	totalScore, rows := buildSubmission(attemptID, exam.Questions, answers)

	err := s.gw.BulkInsertAnswers(ctx, rows)
	if err == nil {
		err = s.gw.CompleteAttempt(ctx, attemptID, totalScore, s.now())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.loading = false

	if s.studentExamID != attemptID {
		// The attempt identity moved on (reset, new start) while the
		// calls were in flight. Drop the stale completion either way.
		s.log.Debug().Int64("student_exam_id", attemptID).Msg("ignoring stale submission completion")
		return nil
	}
	if err != nil {
		s.lastError = fmt.Sprintf("failed to save results: %v", err)
		return fmt.Errorf("submit exam: %w", err)
	}

	s.status = model.AttemptStatusSubmitted
	s.persistLocked(ctx)

	s.log.Info().
		Int64("student_exam_id", attemptID).
		Int("total_score", totalScore).
		Int("answered", len(rows)).
		Msg("attempt submitted")
	return nil
}

// ResetExam clears the attempt-local state. The exam catalog and the
// durable attempt record are untouched.
func (s *Store) ResetExam(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeExamID = 0
	s.studentExamID = 0
	s.status = model.AttemptStatusNotStarted
	s.answers = make(map[int64]int64)
	s.timer = 0
	s.lastError = ""
	if err := s.snaps.Delete(ctx, s.snapKey); err != nil {
		s.log.Warn().Err(err).Msg("snapshot delete failed")
	}
}

// Rehydrate restores the persisted attempt subset written by previous runs
// and re-fetches the active exam's question tree, which is never persisted.
func (s *Store) Rehydrate(ctx context.Context) error {
	snap, err := s.snaps.Load(ctx, s.snapKey)
	if err != nil {
		return fmt.Errorf("rehydrate: %w", err)
	}
	if snap == nil {
		return nil
	}
	if snap.Version != snapshot.Version {
		s.log.Warn().Int("version", snap.Version).Msg("discarding snapshot with unknown schema version")
		_ = s.snaps.Delete(ctx, s.snapKey)
		return nil
	}

	s.mu.Lock()
	s.activeExamID = snap.ActiveExamID
	s.studentExamID = snap.StudentExamID
	s.status = snap.Status
	if s.status == "" {
		s.status = model.AttemptStatusNotStarted
	}
	s.answers = snap.Answers
	if s.answers == nil {
		s.answers = make(map[int64]int64)
	}
	s.timer = snap.Timer
	examID := s.activeExamID
	s.mu.Unlock()

	if examID == 0 {
		return nil
	}
	return s.LoadExamData(ctx, examID)
}

// ─── Internal helpers ──────────────────────────────────────────────────────

// beginAttemptOp reserves the store for one attempt-mutating operation.
func (s *Store) beginAttemptOp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrOperationInFlight
	}
	s.busy = true
	s.loading = true
	s.lastError = ""
	return nil
}

// failAttemptOp records the failure and releases the store without touching
// any attempt identity field.
func (s *Store) failAttemptOp(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.loading = false
	s.lastError = err.Error()
	return err
}

func (s *Store) findExamLocked(examID int64) *model.Exam {
	for i := range s.exams {
		if s.exams[i].ID == examID {
			return &s.exams[i]
		}
	}
	return nil
}

// upsertExamLocked replaces the catalog entry by id, appending when absent.
func (s *Store) upsertExamLocked(exam *model.Exam) {
	for i := range s.exams {
		if s.exams[i].ID == exam.ID {
			s.exams[i] = *exam
			return
		}
	}
	s.exams = append(s.exams, *exam)
}

// persistLocked writes the snapshot subset. Best effort: a failed write is
// logged, never surfaced, since local state remains authoritative until the
// next mutation retries the write.
func (s *Store) persistLocked(ctx context.Context) {
	answers := make(map[int64]int64, len(s.answers))
	for q, o := range s.answers {
		answers[q] = o
	}
	snap := &snapshot.Snapshot{
		Version:       snapshot.Version,
		ActiveExamID:  s.activeExamID,
		StudentExamID: s.studentExamID,
		Status:        s.status,
		Answers:       answers,
		Timer:         s.timer,
	}
	if err := s.snaps.Save(ctx, s.snapKey, snap); err != nil {
		s.log.Warn().Err(err).Msg("snapshot save failed")
	}
}
