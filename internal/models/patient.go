package models

// Gender codes stored on a patient profile.
type Gender string

const (
	GenderMale         Gender = "M"
	GenderFemale       Gender = "F"
	GenderOther        Gender = "O"
	GenderPreferNotSay Gender = "P"
)

// Patient is the clinical profile attached to a patient user.
type Patient struct {
	BaseModel
	UserID            string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Gender            Gender `gorm:"size:1;not null" json:"gender"`
	BloodType         string `gorm:"size:3" json:"bloodType,omitempty"`
	Address           string `gorm:"type:text;not null" json:"address"`
	InsuranceProvider string `gorm:"size:100" json:"insuranceProvider,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
