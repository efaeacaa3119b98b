package dto

// StudentDashboardResponse summarises a student's reporting state.
type StudentDashboardResponse struct {
	HasApprovedInternship bool   `json:"has_approved_internship"`
	SupervisorName        string `json:"supervisor_name,omitempty"`
	CompanyName           string `json:"company_name,omitempty"`
	PendingEvents         int    `json:"pending_events"`
	OverdueEvents         int    `json:"overdue_events"`
	SubmittedReports      int    `json:"submitted_reports"`
	ReviewedReports       int    `json:"reviewed_reports"`
	RevisionRequests      int    `json:"revision_requests"`
}
