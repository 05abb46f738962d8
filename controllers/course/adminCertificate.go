package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminGetCertificates lists issued certificates with optional course and
// company filters. The company filter is a case-sensitive exact match against
// the student's profile.
func AdminGetCertificates(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedCertificateQuery").(*struct {
		Page     *int   `json:"page"`
		Limit    *int   `json:"limit"`
		CourseID *int   `json:"course_id"`
		Company  string `json:"company"`
		Active   *bool  `json:"active"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Certificate{}).Where("certificates.is_deleted = ?", false)

	if reqData != nil && reqData.CourseID != nil && *reqData.CourseID > 0 {
		db = db.Where("certificates.course_id = ?", *reqData.CourseID)
	}
	if reqData != nil && reqData.Active != nil {
		db = db.Where("certificates.is_active = ?", *reqData.Active)
	}
	if reqData != nil && reqData.Company != "" {
		db = db.Joins("JOIN users ON users.id = certificates.user_id").
			Where("users.company = ?", reqData.Company)
	}

	var total int64
	db.Count(&total)

	type CertificateWithDetails struct {
		courseModels.Certificate
		UserEmail     string    `json:"user_email"`
		UserCompany   string    `json:"user_company"`
		EffectiveDate time.Time `json:"effective_date"`
	}

	var certificates []courseModels.Certificate
	if err := db.Offset(offset).Limit(limit).Order("completion_date desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithDetails, len(certificates))
	for i, cert := range certificates {
		result[i] = CertificateWithDetails{
			Certificate:   cert,
			EffectiveDate: cert.EffectiveDate(),
		}
		// A deleted user still leaves a readable row
		var certUser models.User
		if err := database.Database.Db.Select("email, company").Where("id = ?", cert.UserID).First(&certUser).Error; err == nil {
			result[i].UserEmail = certUser.Email
			result[i].UserCompany = certUser.Company
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ReissueCertificate supersedes the certificate in one transaction: the old
// row is deactivated and the replacement inserted together, so there is no
// window where the pair has no certificate. Exactly one active certificate
// per (user, course) exists after commit.
func ReissueCertificate(db *gorm.DB, certID uint) (*courseModels.Certificate, error) {
	var old courseModels.Certificate
	if err := db.Where("id = ? AND is_deleted = ?", certID, false).First(&old).Error; err != nil {
		return nil, err
	}

	var user models.User
	db.Where("id = ?", old.UserID).First(&user)
	userName := user.Name
	if userName == "" {
		userName = old.UserName
	}

	var crs courseModels.Course
	db.Where("id = ?", old.CourseID).First(&crs)
	courseTitle := crs.Title
	if courseTitle == "" {
		courseTitle = old.CourseTitle
	}

	// Recompute the authoritative completion date from the view logs
	completionDate, watchedTotal := CompletionSummary(db, old.UserID, old.CourseID)

	var settings courseModels.CertificateSettings
	db.Order("id desc").First(&settings)
	snapshot, _ := json.Marshal(settings)

	replacement := courseModels.Certificate{
		UserID:            old.UserID,
		CourseID:          old.CourseID,
		CertificateNumber: utils.GenerateCertificateNumber(),
		UserName:          userName,
		CourseTitle:       courseTitle,
		CompletionDate:    completionDate,
		IssueDateOverride: old.IssueDateOverride,
		WatchedSeconds:    watchedTotal,
		SettingsSnapshot:  snapshot,
		IsActive:          true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&courseModels.Certificate{}).
			Where("user_id = ? AND course_id = ? AND is_active = ? AND is_deleted = ?", old.UserID, old.CourseID, true, false).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&replacement).Error
	})
	if err != nil {
		return nil, err
	}
	return &replacement, nil
}

// AdminReissueCertificate reissues a certificate with a fresh number,
// recomputed completion date and the current signer settings
func AdminReissueCertificate(c *fiber.Ctx) error {
	certID := c.Locals("certificateID").(int)

	replacement, err := ReissueCertificate(database.Database.Db, uint(certID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reissue certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate reissued successfully!", fiber.Map{
		"certificate": replacement,
		"render":      BuildRenderPayload(replacement),
	})
}

// AdminRevokeCertificate deactivates a certificate. The row is kept for audit.
func AdminRevokeCertificate(c *fiber.Ctx) error {
	certID := c.Locals("certificateID").(int)

	reqData, ok := c.Locals("validatedRevoke").(*struct {
		Confirm bool `json:"confirm"`
	})
	if !ok || !reqData.Confirm {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Revocation requires explicit confirmation!", nil)
	}

	var certificate courseModels.Certificate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certID, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if !certificate.IsActive {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate is already revoked!", nil)
	}

	certificate.IsActive = false

	if err := database.Database.Db.Save(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate revoked successfully!", certificate)
}

// AdminOverrideIssueDate sets or clears the manual issue-date override. The
// underlying watch history and computed completion date stay untouched.
func AdminOverrideIssueDate(c *fiber.Ctx) error {
	certID := c.Locals("certificateID").(int)

	reqData, ok := c.Locals("validatedIssueDate").(*struct {
		IssueDate *string `json:"issue_date"` // RFC3339, null clears the override
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var certificate courseModels.Certificate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certID, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if reqData.IssueDate == nil {
		certificate.IssueDateOverride = nil
	} else {
		parsed, err := time.Parse(time.RFC3339, *reqData.IssueDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid issue date! Use RFC3339 format.", nil)
		}
		certificate.IssueDateOverride = &parsed
	}

	if err := database.Database.Db.Save(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Issue date updated successfully!", fiber.Map{
		"certificate":    certificate,
		"effective_date": certificate.EffectiveDate(),
	})
}

// AdminGetCertificateSettings returns the current signer/letterhead settings
func AdminGetCertificateSettings(c *fiber.Ctx) error {
	var settings courseModels.CertificateSettings
	if err := database.Database.Db.Order("id desc").First(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No settings configured yet.", courseModels.CertificateSettings{})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully!", settings)
}

// AdminUpdateCertificateSettings creates or updates the singleton settings row
func AdminUpdateCertificateSettings(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSettings").(*struct {
		SignerName    string `json:"signer_name"`
		SignerTitle   string `json:"signer_title"`
		SignatureURL  string `json:"signature_url"`
		LetterheadURL string `json:"letterhead_url"`
		StampURL      string `json:"stamp_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var settings courseModels.CertificateSettings
	err := database.Database.Db.Order("id desc").First(&settings).Error
	if err != nil {
		settings = courseModels.CertificateSettings{}
	}

	settings.SignerName = reqData.SignerName
	settings.SignerTitle = reqData.SignerTitle
	settings.SignatureURL = reqData.SignatureURL
	settings.LetterheadURL = reqData.LetterheadURL
	settings.StampURL = reqData.StampURL

	if err := database.Database.Db.Save(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save settings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings saved successfully!", settings)
}
