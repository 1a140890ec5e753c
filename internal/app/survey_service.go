package app

import (
	"context"
	"sync"
	"time"

	"wellness-survey-service/internal/domain"
)

// SessionRepository abstracts how survey sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// DepartmentRepository loads questionnaire content (from cache/backing store).
type DepartmentRepository interface {
	GetDepartment(ctx context.Context, name string) (domain.Department, error)
	ListDepartments(ctx context.Context) ([]string, error)
}

// RecommendationGenerator turns a completed submission into retention
// recommendations. Implementations never return an error: every failure is
// folded into the result as a displayable message.
type RecommendationGenerator interface {
	GenerateRecommendations(ctx context.Context, department string, ratings map[string]int) domain.RecommendationResult
}

// SurveyService contains the questionnaire wizard use cases.
type SurveyService struct {
	sessions    SessionRepository
	departments DepartmentRepository
	generator   RecommendationGenerator
}

func NewSurveyService(store SessionRepository, departments DepartmentRepository, generator RecommendationGenerator) *SurveyService {
	return &SurveyService{sessions: store, departments: departments, generator: generator}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// Departments lists the selectable questionnaire names.
func (s *SurveyService) Departments(ctx context.Context) ([]string, error) {
	return s.departments.ListDepartments(ctx)
}

// SelectDepartment starts (or restarts) the wizard for the given department.
// Any previous ratings, submission state, and cached recommendations are
// discarded. An empty name deselects the department entirely.
func (s *SurveyService) SelectDepartment(ctx context.Context, sessionID, name string) (domain.QuestionView, error) {
	session := s.sessions.GetOrCreate(sessionID)
	if name == "" {
		session.reset(nil)
		return domain.QuestionView{}, nil
	}

	department, err := s.departments.GetDepartment(ctx, name)
	if err != nil {
		return domain.QuestionView{}, err
	}
	session.reset(&department)
	return session.view()
}

// Rate records a rating for the question the session is currently on.
func (s *SurveyService) Rate(ctx context.Context, sessionID string, rating int) (domain.QuestionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuestionView{}, domain.ErrSessionNotFound
	}
	if err := session.rate(rating); err != nil {
		return domain.QuestionView{}, err
	}
	return session.view()
}

// Next advances the wizard to the following question. The current question
// receives the mid-scale default if it was never explicitly rated.
func (s *SurveyService) Next(ctx context.Context, sessionID string) (domain.QuestionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuestionView{}, domain.ErrSessionNotFound
	}
	if err := session.next(); err != nil {
		return domain.QuestionView{}, err
	}
	return session.view()
}

// Previous steps the wizard back one question. Ratings recorded for later
// questions are preserved.
func (s *SurveyService) Previous(ctx context.Context, sessionID string) (domain.QuestionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuestionView{}, domain.ErrSessionNotFound
	}
	if err := session.previous(); err != nil {
		return domain.QuestionView{}, err
	}
	return session.view()
}

// Submit finalizes the questionnaire and returns recommendations. The ratings
// map is completed with defaults, snapshotted, and handed to the generator at
// most once per submission; repeated Submit calls return the cached result.
func (s *SurveyService) Submit(ctx context.Context, sessionID string) (domain.RecommendationResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.RecommendationResult{}, domain.ErrSessionNotFound
	}

	snapshot, cached, err := session.submit()
	if err != nil {
		return domain.RecommendationResult{}, err
	}
	if cached != nil {
		return *cached, nil
	}

	// The generator blocks on one outbound call; it runs outside the session
	// lock so navigation state stays readable while the call is in flight.
	result := s.generator.GenerateRecommendations(ctx, snapshot.Department, snapshot.Ratings)
	session.storeResult(result)
	return result, nil
}

// Snapshot returns the submission snapshot if the session has submitted.
func (s *SurveyService) Snapshot(sessionID string) (domain.SubmissionSnapshot, bool) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SubmissionSnapshot{}, false
	}
	return session.snapshotCopy()
}

// Leave discards the session entirely.
func (s *SurveyService) Leave(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// Session is the in-memory wizard state for one respondent: which department
// is active, which question is displayed, the in-progress ratings, and the
// submission outcome. All mutation goes through the transition methods below.
type Session struct {
	id  string
	now func() time.Time

	mu         sync.RWMutex
	department *domain.Department
	index      int
	ratings    map[string]int
	submitted  bool
	snapshot   *domain.SubmissionSnapshot
	result     *domain.RecommendationResult
}

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:      id,
		now:     now,
		ratings: make(map[string]int),
	}
}

// reset enters Answering(0) for the given department, or NoDepartment when
// department is nil. Everything downstream of the selection is cleared.
func (s *Session) reset(department *domain.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.department = department
	s.index = 0
	s.ratings = make(map[string]int)
	s.submitted = false
	s.snapshot = nil
	s.result = nil
}

func (s *Session) rate(rating int) error {
	if !domain.ValidRating(rating) {
		return domain.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.department == nil {
		return domain.ErrNoActiveDepartment
	}
	if s.submitted {
		return domain.ErrAlreadySubmitted
	}
	s.ratings[s.department.Questions[s.index]] = rating
	return nil
}

func (s *Session) next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.department == nil {
		return domain.ErrNoActiveDepartment
	}
	if s.submitted {
		return domain.ErrAlreadySubmitted
	}
	if s.index >= s.department.LastIndex() {
		return domain.ErrAtLastQuestion
	}
	s.fillDefaultLocked(s.index)
	s.index++
	return nil
}

func (s *Session) previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.department == nil {
		return domain.ErrNoActiveDepartment
	}
	if s.submitted {
		return domain.ErrAlreadySubmitted
	}
	if s.index == 0 {
		return domain.ErrAtFirstQuestion
	}
	s.index--
	return nil
}

// submit captures the snapshot. It returns the cached result when the session
// was already submitted, so the generator is only ever invoked once per
// submission.
func (s *Session) submit() (domain.SubmissionSnapshot, *domain.RecommendationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.department == nil {
		return domain.SubmissionSnapshot{}, nil, domain.ErrNoActiveDepartment
	}
	if s.submitted {
		if s.result != nil {
			cached := *s.result
			return *s.snapshot, &cached, nil
		}
		return *s.snapshot, nil, nil
	}
	if s.index != s.department.LastIndex() {
		return domain.SubmissionSnapshot{}, nil, domain.ErrNotLastQuestion
	}

	// Every question must carry a rating at submission time; untouched ones
	// get the mid-scale default.
	for i := range s.department.Questions {
		s.fillDefaultLocked(i)
	}

	ratings := make(map[string]int, len(s.ratings))
	for question, rating := range s.ratings {
		ratings[question] = rating
	}
	s.snapshot = &domain.SubmissionSnapshot{
		Department:  s.department.Name,
		Ratings:     ratings,
		SubmittedAt: s.now(),
	}
	s.submitted = true
	return *s.snapshot, nil, nil
}

func (s *Session) storeResult(result domain.RecommendationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.submitted {
		// Department changed while the call was in flight; the result belongs
		// to a discarded submission.
		return
	}
	s.result = &result
}

func (s *Session) fillDefaultLocked(index int) {
	question := s.department.Questions[index]
	if _, ok := s.ratings[question]; !ok {
		s.ratings[question] = domain.DefaultRating
	}
}

func (s *Session) view() (domain.QuestionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.department == nil {
		return domain.QuestionView{}, domain.ErrNoActiveDepartment
	}

	question := s.department.Questions[s.index]
	rating, ok := s.ratings[question]
	if !ok {
		rating = domain.DefaultRating
	}
	return domain.QuestionView{
		Department: s.department.Name,
		Index:      s.index,
		Total:      len(s.department.Questions),
		Prompt:     question,
		Rating:     rating,
		CanGoBack:  s.index > 0,
		CanSubmit:  s.index == s.department.LastIndex(),
	}, nil
}

func (s *Session) snapshotCopy() (domain.SubmissionSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return domain.SubmissionSnapshot{}, false
	}
	ratings := make(map[string]int, len(s.snapshot.Ratings))
	for question, rating := range s.snapshot.Ratings {
		ratings[question] = rating
	}
	return domain.SubmissionSnapshot{
		Department:  s.snapshot.Department,
		Ratings:     ratings,
		SubmittedAt: s.snapshot.SubmittedAt,
	}, true
}
