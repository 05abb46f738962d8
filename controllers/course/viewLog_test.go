package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	// A named shared-cache database so every pooled connection sees the same
	// tables; a plain :memory: DSN gives each connection its own empty store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Video{},
		&courseModels.ViewLog{},
		&courseModels.Enrollment{},
		&courseModels.Certificate{},
		&courseModels.CertificateSettings{},
	)
	require.NoError(t, err)
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, videoDurations ...float64) (models.User, courseModels.Course, []courseModels.Video) {
	user := models.User{Name: "Asha Verma", Email: "asha@example.com", Role: "USER"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Workplace Safety", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	videos := make([]courseModels.Video, len(videoDurations))
	for i, d := range videoDurations {
		videos[i] = courseModels.Video{
			CourseID:   course.ID,
			Title:      "Lesson",
			VideoURL:   "https://cdn.example.com/v.mp4",
			Duration:   d,
			OrderIndex: i,
			IsActive:   true,
		}
		require.NoError(t, db.Create(&videos[i]).Error)
	}

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: "ENROLLED", TotalVideos: len(videos)}
	require.NoError(t, db.Create(&enrollment).Error)

	return user, course, videos
}

func TestApplyProgressSaveAccumulatesWatchedTime(t *testing.T) {
	db := setupTestDB(t)
	user, _, videos := seedCourse(t, db, 600)

	vl, stale, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 120,
		Sequence: 1,
		Segments: []progress.Segment{{Start: 0, End: 120}},
	})
	require.NoError(t, err)
	assert.False(t, stale)
	assert.InDelta(t, 120, vl.WatchedSeconds, 0.01)
	assert.InDelta(t, 20, vl.ProgressPercent, 0.01)
	assert.Equal(t, courseModels.ViewInProgress, vl.Status)

	vl, stale, err = ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 300,
		Sequence: 2,
		Segments: []progress.Segment{{Start: 0, End: 120}, {Start: 120, End: 300}},
	})
	require.NoError(t, err)
	assert.False(t, stale)
	assert.InDelta(t, 300, vl.WatchedSeconds, 0.01)
	assert.InDelta(t, 50, vl.ProgressPercent, 0.01)
}

func TestApplyProgressSaveRewatchAcrossSaves(t *testing.T) {
	db := setupTestDB(t)
	user, _, videos := seedCourse(t, db, 600)

	// Watch [0,540], then seek to 0 and rewatch the first minute. The rewatch
	// lands in the next periodic save; the session span list covers both.
	vl, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 540,
		Sequence: 1,
		Segments: []progress.Segment{{Start: 0, End: 540}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 540, vl.WatchedSeconds, 0.01)

	vl, stale, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 60,
		Sequence: 2,
		Segments: []progress.Segment{{Start: 0, End: 540}, {Start: 0, End: 60}},
	})
	require.NoError(t, err)
	assert.False(t, stale)
	assert.InDelta(t, 540, vl.WatchedSeconds, 0.01)
	assert.InDelta(t, 90, vl.ProgressPercent, 0.01)
	assert.Equal(t, courseModels.ViewCompleted, vl.Status)
}

func TestApplyProgressSaveNewSessionKeepsEarnedTime(t *testing.T) {
	db := setupTestDB(t)
	user, _, videos := seedCourse(t, db, 600)

	for seq := int64(1); seq <= 2; seq++ {
		_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
			Position: 300,
			Sequence: seq,
			Segments: []progress.Segment{{Start: 0, End: 300}},
		})
		require.NoError(t, err)
	}

	// The player restarts its counter at 1 for the next session; time earned
	// earlier becomes the baseline the new session adds onto.
	vl, stale, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 420,
		Sequence: 1,
		Segments: []progress.Segment{{Start: 300, End: 420}},
	})
	require.NoError(t, err)
	assert.False(t, stale)
	assert.InDelta(t, 420, vl.WatchedSeconds, 0.01)
	assert.InDelta(t, 300, vl.SessionBaseline, 0.01)
}

func TestApplyProgressSaveIgnoresStaleSequence(t *testing.T) {
	db := setupTestDB(t)
	user, _, videos := seedCourse(t, db, 600)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 300,
		Sequence: 5,
		Segments: []progress.Segment{{Start: 0, End: 300}},
	})
	require.NoError(t, err)

	// A delayed snapshot from earlier in the session arrives late
	vl, stale, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 60,
		Sequence: 3,
		Segments: []progress.Segment{{Start: 0, End: 60}},
	})
	require.NoError(t, err)
	assert.True(t, stale)
	assert.InDelta(t, 300, vl.WatchedSeconds, 0.01)
	assert.InDelta(t, 300, vl.CurrentPosition, 0.01)
	assert.EqualValues(t, 5, vl.Sequence)
}

func TestApplyProgressSaveClampsToDuration(t *testing.T) {
	db := setupTestDB(t)
	user, _, videos := seedCourse(t, db, 100)

	// Rewatching the same span cannot push watched time past the duration
	var vl *courseModels.ViewLog
	for seq := int64(1); seq <= 3; seq++ {
		var err error
		vl, _, err = ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
			Position: 100,
			Sequence: seq,
			Segments: []progress.Segment{{Start: 0, End: 100}},
		})
		require.NoError(t, err)
	}
	assert.InDelta(t, 100, vl.WatchedSeconds, 0.01)
	assert.InDelta(t, 100, vl.ProgressPercent, 0.01)
}

func TestApplyProgressSaveCompletionIsOneWay(t *testing.T) {
	db := setupTestDB(t)
	user, _, videos := seedCourse(t, db, 100)

	vl, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 95,
		Sequence: 1,
		Segments: []progress.Segment{{Start: 0, End: 95}},
	})
	require.NoError(t, err)
	assert.Equal(t, courseModels.ViewCompleted, vl.Status)
	require.NotNil(t, vl.CompletedAt)
	firstCompleted := *vl.CompletedAt

	// A later save with a low position must not undo completion
	vl, _, err = ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 5,
		Sequence: 2,
		Segments: []progress.Segment{{Start: 0, End: 95}, {Start: 0, End: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, courseModels.ViewCompleted, vl.Status)
	require.NotNil(t, vl.CompletedAt)
	assert.True(t, vl.CompletedAt.Equal(firstCompleted))
	assert.GreaterOrEqual(t, vl.ProgressPercent, 95.0)
}

func TestApplyProgressSaveFallsBackToPostedDuration(t *testing.T) {
	db := setupTestDB(t)
	user, _, videos := seedCourse(t, db, 0)

	vl, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 50,
		Duration: 200,
		Sequence: 1,
		Segments: []progress.Segment{{Start: 0, End: 50}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 25, vl.ProgressPercent, 0.01)
}

func TestUpdateEnrollmentProgressCompletesCourse(t *testing.T) {
	db := setupTestDB(t)
	user, course, videos := seedCourse(t, db, 100, 100)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)
	UpdateEnrollmentProgress(db, user.ID, course.ID)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.InDelta(t, 50, enrollment.Progress, 0.01)
	assert.Equal(t, 1, enrollment.CompletedVideos)
	assert.Nil(t, enrollment.CompletedAt)

	_, _, err = ApplyProgressSave(db, user.ID, videos[1], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)
	UpdateEnrollmentProgress(db, user.ID, course.ID)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.InDelta(t, 100, enrollment.Progress, 0.01)
	assert.Equal(t, 2, enrollment.CompletedVideos)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestUpdateEnrollmentProgressIgnoresInactiveVideos(t *testing.T) {
	db := setupTestDB(t)
	user, course, videos := seedCourse(t, db, 100, 100)

	// Deactivated lessons drop out of the rollup
	require.NoError(t, db.Model(&videos[1]).Update("is_active", false).Error)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)
	UpdateEnrollmentProgress(db, user.ID, course.ID)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.Equal(t, 1, enrollment.TotalVideos)
}

func TestIssueCertificateIfMissingIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user, course, videos := seedCourse(t, db, 100)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)

	require.NoError(t, IssueCertificateIfMissing(db, user, course.ID))
	require.NoError(t, IssueCertificateIfMissing(db, user, course.ID))

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var cert courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&cert).Error)
	assert.Equal(t, user.Name, cert.UserName)
	assert.Equal(t, course.Title, cert.CourseTitle)
	assert.True(t, cert.IsActive)
	assert.NotEmpty(t, cert.CertificateNumber)
}

func TestReissueCertificateSupersedesOldOne(t *testing.T) {
	db := setupTestDB(t)
	user, course, videos := seedCourse(t, db, 100)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)
	require.NoError(t, IssueCertificateIfMissing(db, user, course.ID))

	var original courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&original).Error)

	replacement, err := ReissueCertificate(db, original.ID)
	require.NoError(t, err)

	assert.NotEqual(t, original.CertificateNumber, replacement.CertificateNumber)
	assert.True(t, replacement.IsActive)

	// Exactly one active certificate per (user, course) after the reissue
	var activeCount int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ? AND is_active = ?", user.ID, course.ID, true).
		Count(&activeCount)
	assert.EqualValues(t, 1, activeCount)

	var old courseModels.Certificate
	require.NoError(t, db.Where("id = ?", original.ID).First(&old).Error)
	assert.False(t, old.IsActive)
}

func TestReissueCertificateCarriesIssueDateOverride(t *testing.T) {
	db := setupTestDB(t)
	user, course, videos := seedCourse(t, db, 100)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)
	require.NoError(t, IssueCertificateIfMissing(db, user, course.ID))

	override := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var original courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&original).Error)
	original.IssueDateOverride = &override
	require.NoError(t, db.Save(&original).Error)

	replacement, err := ReissueCertificate(db, original.ID)
	require.NoError(t, err)
	require.NotNil(t, replacement.IssueDateOverride)
	assert.True(t, replacement.IssueDateOverride.Equal(override))
	assert.True(t, replacement.EffectiveDate().Equal(override))
}

func TestCompletionSummaryUsesLatestCompletedAt(t *testing.T) {
	db := setupTestDB(t)
	user, course, videos := seedCourse(t, db, 100, 100)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)

	// Backdate the first completion, then complete the second video
	earlier := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&courseModels.ViewLog{}).
		Where("user_id = ? AND video_id = ?", user.ID, videos[0].ID).
		Update("completed_at", earlier).Error)

	_, _, err = ApplyProgressSave(db, user.ID, videos[1], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)

	completionDate, watched := CompletionSummary(db, user.ID, course.ID)
	assert.True(t, completionDate.After(earlier))
	assert.InDelta(t, 200, watched, 0.01)
}

func TestGetUserProgressRefreshesStaleRollup(t *testing.T) {
	db := setupTestDB(t)
	database.Database = database.DbInstance{Db: db}
	user, course, videos := seedCourse(t, db, 100, 100)

	_, _, err := ApplyProgressSave(db, user.ID, videos[0], &SaveProgressRequest{
		Position: 100, Sequence: 1, Segments: []progress.Segment{{Start: 0, End: 100}},
	})
	require.NoError(t, err)
	UpdateEnrollmentProgress(db, user.ID, course.ID)

	// The second video is deactivated after the last save, so the stored
	// rollup still says IN_PROGRESS at 50 percent
	require.NoError(t, db.Model(&videos[1]).Update("is_active", false).Error)

	app := fiber.New()
	app.Get("/progress", func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		c.Locals("courseID", int(course.ID))
		return c.Next()
	}, GetUserProgress)

	resp, err := app.Test(httptest.NewRequest("GET", "/progress", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Enrollment struct {
				Status   string  `json:"status"`
				Progress float64 `json:"progress"`
			} `json:"enrollment"`
			CourseCompleted bool `json:"course_completed"`
		} `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "COMPLETED", body.Data.Enrollment.Status)
	assert.InDelta(t, 100, body.Data.Enrollment.Progress, 0.01)
	assert.True(t, body.Data.CourseCompleted)
}

func TestCompletionSummaryFallsBackToNow(t *testing.T) {
	db := setupTestDB(t)
	user, course, _ := seedCourse(t, db, 100)

	before := time.Now()
	completionDate, watched := CompletionSummary(db, user.ID, course.ID)
	assert.False(t, completionDate.Before(before))
	assert.Zero(t, watched)
}
