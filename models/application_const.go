package models

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"      // Новая заявка, не рассмотрена
	ApplicationStatusUnderReview ApplicationStatus = "under_review" // На рассмотрении
	ApplicationStatusApproved    ApplicationStatus = "approved"     // Одобрена, создан кандидат
	ApplicationStatusRejected    ApplicationStatus = "rejected"     // Отклонена
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"    // Отозвана соискателем
)

var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusUnderReview,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

type ApplicationSource string

const (
	ApplicationSourceReferral    ApplicationSource = "referral"
	ApplicationSourceManual      ApplicationSource = "manual"
	ApplicationSourceJobBoard    ApplicationSource = "job-board"
	ApplicationSourceEmailImport ApplicationSource = "email-import"
	ApplicationSourceCareerPage  ApplicationSource = "career-page"
)

func (s ApplicationSource) IsValid() bool {
	switch s {
	case ApplicationSourceReferral, ApplicationSourceManual, ApplicationSourceJobBoard,
		ApplicationSourceEmailImport, ApplicationSourceCareerPage:
		return true
	}
	return false
}

type ApplicationPriority string

const (
	ApplicationPriorityLow    ApplicationPriority = "low"
	ApplicationPriorityNormal ApplicationPriority = "normal"
	ApplicationPriorityHigh   ApplicationPriority = "high"
	ApplicationPriorityUrgent ApplicationPriority = "urgent"
)

func (p ApplicationPriority) IsValid() bool {
	switch p {
	case ApplicationPriorityLow, ApplicationPriorityNormal, ApplicationPriorityHigh, ApplicationPriorityUrgent:
		return true
	}
	return false
}

type BulkOperation string

const (
	BulkOperationApprove     BulkOperation = "approve"
	BulkOperationReject      BulkOperation = "reject"
	BulkOperationSetPriority BulkOperation = "set_priority"
	BulkOperationDelete      BulkOperation = "delete"
)

type CandidateStatus string

const (
	CandidateStatusNew CandidateStatus = "new" // Первый этап воронки вакансии
)
