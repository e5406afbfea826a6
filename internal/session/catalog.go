package session

import (
	"context"
	"fmt"
)

// FetchExams refreshes the catalog's summary entries from the gateway.
// Entries already carrying a full question tree keep it; entries the gateway
// no longer reports are dropped. On failure the catalog is left untouched
// and the error is recorded for the presentation layer.
func (s *Store) FetchExams(ctx context.Context) error {
	s.setLoading()

	fetched, err := s.gw.ListExams(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return fmt.Errorf("fetch exams: %w", err)
	}

	for i := range fetched {
		if existing := s.findExamLocked(fetched[i].ID); existing != nil && existing.HasQuestions() {
			fetched[i].Questions = existing.Questions
		}
	}
	s.exams = fetched
	return nil
}

// LoadExamData fetches one exam with its full question/option tree and
// upserts it into the catalog by id.
func (s *Store) LoadExamData(ctx context.Context, examID int64) error {
	s.setLoading()

	exam, err := s.gw.GetExam(ctx, examID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return fmt.Errorf("load exam %d: %w", examID, err)
	}

	s.upsertExamLocked(exam)
	return nil
}

// DeleteExam requests deletion upstream and removes the exam locally only
// on success. Not transactional with an in-progress attempt referencing the
// exam; deleting an exam with live attempts is an accepted edge case.
func (s *Store) DeleteExam(ctx context.Context, examID int64) error {
	s.setLoading()

	err := s.gw.DeleteExam(ctx, examID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return fmt.Errorf("delete exam %d: %w", examID, err)
	}

	for i := range s.exams {
		if s.exams[i].ID == examID {
			s.exams = append(s.exams[:i], s.exams[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) setLoading() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}
