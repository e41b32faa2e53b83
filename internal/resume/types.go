package resume

import "time"

// Profile is the single per-user profile row feeding resume generation.
type Profile struct {
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Title      *string   `json:"title"`
	TargetRole *string   `json:"targetRole"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Experience is one employment record. EndDate is nil for "present".
type Experience struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Company   string    `json:"company"`
	Title     string    `json:"title"`
	Location  *string   `json:"location"`
	StartDate string    `json:"startDate"`
	EndDate   *string   `json:"endDate"`
	Bullets   []string  `json:"bullets"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Education is one credential record.
type Education struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	School     string    `json:"school"`
	Credential string    `json:"credential"`
	Year       *int      `json:"year"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Draft is a stored generation result, body kept as the raw JSON the model
// returned.
type Draft struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	TargetRole *string   `json:"targetRole"`
	BodyJSON   string    `json:"bodyJson"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// GenerateRequest is the candidate data handed to the text-generation model.
// Field names are part of the prompt contract.
type GenerateRequest struct {
	Name       string              `json:"name"`
	Title      string              `json:"title"`
	TargetRole string              `json:"target_role"`
	Contact    Contact             `json:"contact"`
	Experience []RequestExperience `json:"experience"`
	Education  []RequestEducation  `json:"education"`
}

type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type RequestExperience struct {
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Title        string   `json:"title"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Achievements []string `json:"achievements"`
}

type RequestEducation struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   *int   `json:"year,omitempty"`
}

// Resume is the generated document, mirroring the model's response schema.
type Resume struct {
	Headline string   `json:"headline"`
	Summary  string   `json:"summary"`
	Sections Sections `json:"sections"`
}

type Sections struct {
	Experience []ResumeExperience `json:"experience"`
	Skills     []string           `json:"skills"`
	Education  []ResumeEducation  `json:"education"`
}

type ResumeExperience struct {
	Company  string   `json:"company"`
	Title    string   `json:"title"`
	Location string   `json:"location,omitempty"`
	Dates    string   `json:"dates"`
	Bullets  []string `json:"bullets"`
}

type ResumeEducation struct {
	School     string `json:"school"`
	Credential string `json:"credential"`
	Year       *int   `json:"year,omitempty"`
}
