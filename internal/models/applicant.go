// internal/models/applicant.go
package models

// Applicant is the identity record of an application. All other profile
// rows reference it through Code, the correlation key issued at submission.
type Applicant struct {
	BaseModel
	Code             string      `json:"code" gorm:"uniqueIndex;size:20;not null"`
	FirstName        string      `json:"first_name" gorm:"size:100;not null"`
	MiddleName       string      `json:"middle_name" gorm:"size:100"`
	LastName         string      `json:"last_name" gorm:"size:100;not null"`
	Age              int         `json:"age"`
	Gender           string      `json:"gender" gorm:"size:20"`
	BirthDate        string      `json:"birth_date" gorm:"size:10;not null"`
	BirthPlace       string      `json:"birth_place" gorm:"size:255"`
	Address          string      `json:"address" gorm:"type:text"`
	Barangay         string      `json:"barangay" gorm:"size:100"`
	Education        string      `json:"education" gorm:"size:100"`
	CivilStatus      CivilStatus `json:"civil_status" gorm:"type:varchar(20)"`
	Occupation       string      `json:"occupation" gorm:"size:100"`
	IncomeBracket    string      `json:"income_bracket" gorm:"size:50"`
	EmploymentStatus string      `json:"employment_status" gorm:"size:50"`
	ContactNumber    string      `json:"contact_number" gorm:"size:20"`
	Email            string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	IsBeneficiary    bool        `json:"is_beneficiary"`
	IsIndigent       bool        `json:"is_indigent"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// Dependent is one household member declared on the form. Zero or more per code.
type Dependent struct {
	BaseModel
	Code         string `json:"code" gorm:"size:20;not null;index"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Age          int    `json:"age"`
	Education    string `json:"education" gorm:"size:100"`
	Relationship string `json:"relationship" gorm:"size:50"`
}

func (Dependent) TableName() string {
	return "dependents"
}

// Classification carries the single categorical reason for applying.
type Classification struct {
	BaseModel
	Code  string `json:"code" gorm:"size:20;not null;index"`
	Value string `json:"value" gorm:"size:100;not null"`
}

func (Classification) TableName() string {
	return "classifications"
}

type Needs struct {
	BaseModel
	Code string `json:"code" gorm:"size:20;not null;index"`
	Text string `json:"text" gorm:"type:text"`
}

func (Needs) TableName() string {
	return "needs"
}

type EmergencyContact struct {
	BaseModel
	Code         string `json:"code" gorm:"size:20;not null;index"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Relationship string `json:"relationship" gorm:"size:50"`
	Address      string `json:"address" gorm:"type:text"`
	Phone        string `json:"phone" gorm:"size:20"`
}

func (EmergencyContact) TableName() string {
	return "emergency_contacts"
}
