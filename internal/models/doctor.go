package models

// DefaultAppointmentDuration is the slot length, in minutes, for doctors
// that did not configure one.
const DefaultAppointmentDuration = 30

// Doctor is the professional profile attached to a doctor user.
type Doctor struct {
	BaseModel
	UserID              string  `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	LicenseNumber       string  `gorm:"size:50;uniqueIndex;not null" json:"licenseNumber"`
	Specializations     string  `gorm:"size:200" json:"specializations"`
	YearsOfExperience   int     `gorm:"not null" json:"yearsOfExperience"`
	ConsultationFee     float64 `gorm:"type:decimal(10,2);not null" json:"consultationFee"`
	AppointmentDuration int     `gorm:"not null" json:"appointmentDuration"`
	IsAcceptingPatients bool    `gorm:"not null" json:"isAcceptingPatients"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// SlotLength returns the configured appointment duration in minutes.
func (d *Doctor) SlotLength() int {
	if d.AppointmentDuration <= 0 {
		return DefaultAppointmentDuration
	}
	return d.AppointmentDuration
}
