package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate is an issued completion certificate for a (user, course) pair.
// Name and title are snapshotted at issue time so later profile or course
// edits do not alter an already-issued artifact. Revoking deactivates the
// row; reissue supersedes it with a fresh number.
type Certificate struct {
	gorm.Model
	UserID            uint           `json:"user_id" gorm:"index;not null"`
	CourseID          uint           `json:"course_id" gorm:"index;not null"`
	CertificateNumber string         `json:"certificate_number" gorm:"unique"`
	UserName          string         `json:"user_name"`
	CourseTitle       string         `json:"course_title"`
	CompletionDate    time.Time      `json:"completion_date"`
	IssueDateOverride *time.Time     `json:"issue_date_override"` // manual override, wins over CompletionDate when set
	WatchedSeconds    float64        `json:"watched_seconds" gorm:"default:0"`
	SettingsSnapshot  datatypes.JSON `json:"settings_snapshot"` // signer/letterhead at issue time
	IsActive          bool           `json:"is_active" gorm:"default:true"`
	IsDeleted         bool           `gorm:"default:false"`
}

// EffectiveDate returns the date shown everywhere the certificate is
// displayed or rendered.
func (c *Certificate) EffectiveDate() time.Time {
	if c.IssueDateOverride != nil {
		return *c.IssueDateOverride
	}
	return c.CompletionDate
}

// CertificateSettings holds the signer and letterhead configuration used when
// rendering certificates. A single row is kept and updated in place.
type CertificateSettings struct {
	gorm.Model
	SignerName     string `json:"signer_name"`
	SignerTitle    string `json:"signer_title"`
	SignatureURL   string `json:"signature_url"`
	LetterheadURL  string `json:"letterhead_url"`
	StampURL       string `json:"stamp_url"`
	OrganizationID string `json:"organization_id" gorm:"default:''"`
}
