package questionnaire

import "time"

// Questionnaire holds a user's symptom and risk flags. Each user has at most
// one row; submissions overwrite the previous answers.
type Questionnaire struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	BMI        bool      `json:"bmi"`
	Fever      bool      `json:"fever"`
	Nausea     bool      `json:"nausea"`
	Headache   bool      `json:"headache"`
	Diarrhea   bool      `json:"diarrhea"`
	Fatigue    bool      `json:"fatigue"`
	Jaundice   bool      `json:"jaundice"`
	Epigastric bool      `json:"epigastric"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Flags is the answer set without identity, as accepted from clients.
type Flags struct {
	BMI        bool `json:"bmi"`
	Fever      bool `json:"fever"`
	Nausea     bool `json:"nausea"`
	Headache   bool `json:"headache"`
	Diarrhea   bool `json:"diarrhea"`
	Fatigue    bool `json:"fatigue"`
	Jaundice   bool `json:"jaundice"`
	Epigastric bool `json:"epigastric"`
}
