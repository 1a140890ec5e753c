package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a survey session has not been initialized.
	ErrSessionNotFound = errors.New("survey session not found")
	// ErrDepartmentNotFound indicates the requested questionnaire does not exist.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrNoActiveDepartment is returned when a wizard action arrives before a department was selected.
	ErrNoActiveDepartment = errors.New("no department selected")
	// ErrInvalidRating indicates a rating outside the 1-5 scale.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrAtFirstQuestion is returned when navigating back from index 0.
	ErrAtFirstQuestion = errors.New("already at the first question")
	// ErrAtLastQuestion is returned when navigating forward past the final question.
	ErrAtLastQuestion = errors.New("already at the last question")
	// ErrNotLastQuestion is returned when submitting before the final question is reached.
	ErrNotLastQuestion = errors.New("submission is only allowed on the last question")
	// ErrAlreadySubmitted indicates the questionnaire was already submitted for this department.
	ErrAlreadySubmitted = errors.New("questionnaire already submitted")
)
