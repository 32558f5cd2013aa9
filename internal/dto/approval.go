package dto

// OfferLetterReviewRequest PUT /approve-offer-letter
type OfferLetterReviewRequest struct {
	UniversityID string `json:"university_id" binding:"required"`
	Decision     string `json:"status"        binding:"required"`
}

// ReportReviewRequest PUT /reports/:id/review
type ReportReviewRequest struct {
	Decision string `json:"status" binding:"required"`
}

// ReviewResponse review applied
type ReviewResponse struct {
	Message             string `json:"message"`
	Status              string `json:"status"`
	StudentName         string `json:"student_name"`
	StudentUniversityID string `json:"student_university_id"`
	StartDate           string `json:"start_date,omitempty"`
	EndDate             string `json:"end_date,omitempty"`
}
