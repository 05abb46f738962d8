package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetUserCertificates gets all active certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithDate struct {
		courseModels.Certificate
		EffectiveDate time.Time `json:"effective_date"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).Order("completion_date desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithDate, len(certificates))
	for i, cert := range certificates {
		result[i] = CertificateWithDate{
			Certificate:   cert,
			EffectiveDate: cert.EffectiveDate(),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// CertificateRenderPayload is the structured data object the client renders
// the PDF from. No PDF is produced server side.
type CertificateRenderPayload struct {
	CertificateNumber string    `json:"certificate_number"`
	UserName          string    `json:"user_name"`
	CourseTitle       string    `json:"course_title"`
	CompletionDate    time.Time `json:"completion_date"`
	EffectiveDate     time.Time `json:"effective_date"`
	WatchedSeconds    float64   `json:"watched_seconds"`
	SignerName        string    `json:"signer_name"`
	SignerTitle       string    `json:"signer_title"`
	SignatureURL      string    `json:"signature_url"`
	LetterheadURL     string    `json:"letterhead_url"`
	StampURL          string    `json:"stamp_url"`
}

// GetCourseCertificate returns the render payload for the user's certificate
// on a course
func GetCourseCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var certificate courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_active = ? AND is_deleted = ?", userID, courseID, true, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate found. Complete all videos in the course first!", nil)
	}

	payload := BuildRenderPayload(&certificate)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", payload)
}

// BuildRenderPayload assembles the render payload from a certificate and its
// settings snapshot, falling back to the current settings row when the
// snapshot is empty.
func BuildRenderPayload(cert *courseModels.Certificate) CertificateRenderPayload {
	var settings courseModels.CertificateSettings
	if len(cert.SettingsSnapshot) > 0 {
		// Snapshot decode failures fall through to the live settings row
		if err := json.Unmarshal(cert.SettingsSnapshot, &settings); err != nil {
			settings = courseModels.CertificateSettings{}
		}
	}
	if settings.SignerName == "" && settings.SignatureURL == "" {
		database.Database.Db.Order("id desc").First(&settings)
	}

	return CertificateRenderPayload{
		CertificateNumber: cert.CertificateNumber,
		UserName:          cert.UserName,
		CourseTitle:       cert.CourseTitle,
		CompletionDate:    cert.CompletionDate,
		EffectiveDate:     cert.EffectiveDate(),
		WatchedSeconds:    cert.WatchedSeconds,
		SignerName:        settings.SignerName,
		SignerTitle:       settings.SignerTitle,
		SignatureURL:      settings.SignatureURL,
		LetterheadURL:     settings.LetterheadURL,
		StampURL:          settings.StampURL,
	}
}
