package service

import "errors"

// Workflow failures surfaced to callers. Handlers map these onto HTTP
// statuses; the messages are shown to end users as-is, so the two conditions
// regular users actually hit (duplicate submission, missed deadline) stay
// plain and non-technical.
var (
	// ErrEventNotFound indicates the report event does not exist.
	ErrEventNotFound = errors.New("report event not found")
	// ErrSubmissionNotFound indicates the submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrDuplicateEvent indicates the supervisor already opened an event for that week.
	ErrDuplicateEvent = errors.New("a report event for this week already exists")
	// ErrDuplicateSubmission indicates the student already submitted for that event.
	ErrDuplicateSubmission = errors.New("you have already submitted a report for this week")

	// ErrEventNotActive indicates the event no longer accepts submissions.
	ErrEventNotActive = errors.New("this report event is no longer accepting submissions")
	// ErrDueDatePassed indicates the submission deadline has passed.
	ErrDueDatePassed = errors.New("the due date for this report has passed")
	// ErrInvalidStatusTransition indicates a closed event cannot change status again.
	ErrInvalidStatusTransition = errors.New("a closed report event cannot change status")

	// ErrNotEventOwner indicates the supervisor does not own the event.
	ErrNotEventOwner = errors.New("you do not own this report event")
	// ErrNotSubmissionOwner indicates the supervisor does not own the submission.
	ErrNotSubmissionOwner = errors.New("you do not supervise this submission")
	// ErrSupervisorMismatch indicates the student's supervisor did not issue the event.
	ErrSupervisorMismatch = errors.New("this report event was not issued by your supervisor")
)
