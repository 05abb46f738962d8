package controllers

import (
	"encoding/json"
	"io"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGetCertificatesCompanyFilterExactMatch(t *testing.T) {
	db := setupTestDB(t)
	database.Database = database.DbInstance{Db: db}

	course := courseModels.Course{Title: "Fire Safety", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	students := []models.User{
		{Name: "Asha Verma", Email: "asha@acme.com", Company: "Acme", Role: "USER"},
		{Name: "Ravi Kumar", Email: "ravi@globex.com", Company: "Globex", Role: "USER"},
	}
	for i := range students {
		require.NoError(t, db.Create(&students[i]).Error)
		cert := courseModels.Certificate{
			UserID:            students[i].ID,
			CourseID:          course.ID,
			CertificateNumber: "CERT-" + students[i].Company,
			UserName:          students[i].Name,
			CourseTitle:       course.Title,
			CompletionDate:    time.Now(),
			IsActive:          true,
		}
		require.NoError(t, db.Create(&cert).Error)
	}

	app := fiber.New()
	app.Get("/certificates", func(c *fiber.Ctx) error {
		c.Locals("validatedCertificateQuery", &struct {
			Page     *int   `json:"page"`
			Limit    *int   `json:"limit"`
			CourseID *int   `json:"course_id"`
			Company  string `json:"company"`
			Active   *bool  `json:"active"`
		}{Company: c.Query("company")})
		return c.Next()
	}, AdminGetCertificates)

	fetch := func(company string) (int64, []string) {
		req := httptest.NewRequest("GET", "/certificates?company="+company, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Data struct {
				Certificates []struct {
					UserCompany string `json:"user_company"`
				} `json:"certificates"`
				Pagination struct {
					Total int64 `json:"total"`
				} `json:"pagination"`
			} `json:"data"`
		}
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))

		companies := make([]string, len(body.Data.Certificates))
		for i, cert := range body.Data.Certificates {
			companies[i] = cert.UserCompany
		}
		return body.Data.Pagination.Total, companies
	}

	total, companies := fetch("Acme")
	assert.EqualValues(t, 1, total)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0])

	// Exact match is case sensitive
	total, companies = fetch("acme")
	assert.EqualValues(t, 0, total)
	assert.Empty(t, companies)

	// No filter returns everyone
	total, _ = fetch("")
	assert.EqualValues(t, 2, total)
}
