package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/database"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	authutil "github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type notifFixture struct {
	app   *fiber.App
	db    *gorm.DB
	svc   *services.NotificationService
	user  model.Account
	token string
}

func newNotifFixture(t *testing.T) *notifFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	accountJWT := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "s", Expiry: time.Hour, Issuer: "test", Principal: authutil.PrincipalAccount,
	})
	adminJWT := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "a", Expiry: time.Hour, Issuer: "test", Principal: authutil.PrincipalAdmin,
	})

	svc := services.NewNotificationService(db)
	handler := NewNotificationHandler(svc)
	authMiddleware := middleware.NewAuthMiddleware(accountJWT, adminJWT, db)

	app := fiber.New()
	grp := app.Group("/notifications", authMiddleware.RequireAccount())
	grp.Get("/", handler.List)
	grp.Patch("/:id/read", handler.MarkRead)
	grp.Delete("/:id", handler.Delete)
	grp.Delete("/", handler.DeleteAll)

	f := &notifFixture{app: app, db: db, svc: svc}

	f.user = model.Account{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: model.RoleInstructor}
	require.NoError(t, db.Create(&f.user).Error)

	f.token, err = accountJWT.GenerateToken(f.user.ID, f.user.Username, "", string(f.user.Role))
	require.NoError(t, err)

	return f
}

func (f *notifFixture) request(t *testing.T, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestNotificationLifecycle(t *testing.T) {
	f := newNotifFixture(t)
	ctx := context.Background()

	n, err := f.svc.Create(ctx, f.user.ID, model.NotificationCourseApproval, "approved", nil)
	require.NoError(t, err)

	resp := f.request(t, "GET", "/notifications/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list struct {
		Data []model.Notification `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, model.NotificationUnread, list.Data[0].Status)

	id := strconv.FormatUint(uint64(n.ID), 10)

	resp = f.request(t, "PATCH", "/notifications/"+id+"/read")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded model.Notification
	require.NoError(t, f.db.First(&reloaded, n.ID).Error)
	assert.Equal(t, model.NotificationRead, reloaded.Status)

	resp = f.request(t, "DELETE", "/notifications/"+id)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Missing ids are a NotFound, not a silent no-op
	resp = f.request(t, "DELETE", "/notifications/"+id)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = f.request(t, "PATCH", "/notifications/"+id+"/read")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteAllNotifications(t *testing.T) {
	f := newNotifFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, f.user.ID, model.NotificationStudentEnrollment, "enrolled", nil)
		require.NoError(t, err)
	}

	resp := f.request(t, "DELETE", "/notifications/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 3, body.Data["deleted"])

	var count int64
	f.db.Model(&model.Notification{}).Where("user_id = ?", f.user.ID).Count(&count)
	assert.Zero(t, count)
}

func TestNotificationsAreOwnerScoped(t *testing.T) {
	f := newNotifFixture(t)
	ctx := context.Background()

	other := model.Account{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, f.db.Create(&other).Error)

	n, err := f.svc.Create(ctx, other.ID, model.NotificationCourseRejection, "not yours", nil)
	require.NoError(t, err)

	resp := f.request(t, "GET", "/notifications/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list struct {
		Data []model.Notification `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list.Data)

	id := strconv.FormatUint(uint64(n.ID), 10)
	resp = f.request(t, "DELETE", "/notifications/"+id)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
