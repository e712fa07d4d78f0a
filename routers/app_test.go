package routers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"learnhub/logger"
	"learnhub/metrics"
	"learnhub/middleware"
	"learnhub/notify"
	"learnhub/repository/testutil"
	"learnhub/routers"
	"learnhub/services"
	"learnhub/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app       *fiber.App
	jwt       *middleware.JWT
	uploadDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	st := testutil.Store(t)
	log := logger.Nop()
	m := metrics.New("test")
	jwt := middleware.NewJWT("test-secret")

	uploadDir := t.TempDir()
	uploads, err := storage.NewLocal(uploadDir)
	require.NoError(t, err)

	enrollments := services.NewEnrollmentService(st, notify.NewDispatcher(log, m), log, m)
	t.Cleanup(enrollments.Wait)

	app := routers.NewApp(routers.Deps{
		Log:         log,
		Metrics:     m,
		JWT:         jwt,
		Uploads:     uploads,
		Auth:        services.NewAuthService(st, jwt, 4, log, m),
		Courses:     services.NewCourseService(st, log),
		Enrollments: enrollments,
		Admin:       services.NewAdminService(st, log),
		CORSOrigins: "*",
	})
	return &testApp{app: app, jwt: jwt, uploadDir: uploadDir}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ta.send(t, req, token)
}

func (ta *testApp) send(t *testing.T, req *http.Request, token string) (int, map[string]interface{}) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (ta *testApp) registerAndLogin(t *testing.T, email, role string) string {
	t.Helper()
	status, _ := ta.do(t, http.MethodPost, "/api/user/register", "", fiber.Map{
		"name": "User " + role, "email": email, "password": "secret-pass", "type": role,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := ta.do(t, http.MethodPost, "/api/user/login", "", fiber.Map{
		"email": email, "password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func courseForm(t *testing.T, sections, files int) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("C_educator", "Ada"))
	require.NoError(t, w.WriteField("C_title", "Go in Practice"))
	require.NoError(t, w.WriteField("C_categories", "Programming"))
	require.NoError(t, w.WriteField("C_price", "0"))
	require.NoError(t, w.WriteField("C_description", "Learn Go by building services"))
	for i := 0; i < sections; i++ {
		require.NoError(t, w.WriteField("S_title[]", fmt.Sprintf("Section %d", i+1)))
		require.NoError(t, w.WriteField("S_description[]", fmt.Sprintf("About section %d", i+1)))
	}
	for i := 0; i < files; i++ {
		fw, err := w.CreateFormFile("S_content", fmt.Sprintf("video%d.mp4", i+1))
		require.NoError(t, err)
		_, err = fw.Write([]byte(fmt.Sprintf("video-bytes-%d", i+1)))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestCourseLifecycle(t *testing.T) {
	ta := newTestApp(t)
	teacherToken := ta.registerAndLogin(t, "teacher@example.com", "Teacher")

	form, contentType := courseForm(t, 3, 3)
	req := httptest.NewRequest(http.MethodPost, "/api/user/addcourse", form)
	req.Header.Set("Content-Type", contentType)
	status, body := ta.send(t, req, teacherToken)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])

	status, body = ta.do(t, http.MethodGet, "/api/user/courses", "", nil)
	require.Equal(t, http.StatusOK, status)
	courses := body["data"].([]interface{})
	require.Len(t, courses, 1)
	course := courses[0].(map[string]interface{})
	courseID := course["_id"].(string)
	assert.Equal(t, "free", course["C_price"])

	sections := course["sections"].([]interface{})
	require.Len(t, sections, 3)
	first := sections[0].(map[string]interface{})
	assert.Equal(t, "Section 1", first["S_title"])
	path := first["S_content"].(map[string]interface{})["path"].(string)
	require.True(t, strings.HasPrefix(path, storage.PublicPrefix))

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	video, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video-bytes-1", string(video))

	studentToken := ta.registerAndLogin(t, "student@example.com", "Student")

	status, body = ta.do(t, http.MethodGet, "/api/user/coursecontent/"+courseID, studentToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Nil(t, body["courseContent"])

	status, body = ta.do(t, http.MethodPost, "/api/user/enroll/"+courseID, studentToken, fiber.Map{"cardholder": "Stu", "cvv": "123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, courseID, body["course"].(map[string]interface{})["id"])

	status, body = ta.do(t, http.MethodPost, "/api/user/enroll/"+courseID, studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["success"])

	for _, sectionID := range []interface{}{0, "1", 2} {
		status, body = ta.do(t, http.MethodPost, "/api/user/completemodule", studentToken, fiber.Map{
			"courseId": courseID, "sectionId": sectionID,
		})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "Section completed successfully", body["message"])
	}

	status, body = ta.do(t, http.MethodGet, "/api/user/coursecontent/"+courseID, studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["courseContent"], 3)
	assert.Len(t, body["progress"], 3)
	cert := body["certificateData"].(map[string]interface{})
	assert.EqualValues(t, 3, cert["course_Length"])

	status, body = ta.do(t, http.MethodGet, "/api/user/enrolledcourses", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = ta.do(t, http.MethodGet, "/api/user/payments", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	payments := body["data"].([]interface{})
	require.Len(t, payments, 1)
	details := payments[0].(map[string]interface{})["details"].(map[string]interface{})
	assert.NotContains(t, details, "cvv")

	status, body = ta.do(t, http.MethodGet, "/api/admin/dashboard/stats", teacherToken, nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["data"].(map[string]interface{})
	assert.EqualValues(t, 2, stats["totalUsers"])
	assert.EqualValues(t, 1, stats["totalEnrollments"])

	status, _ = ta.do(t, http.MethodDelete, "/api/user/deletecourse/"+courseID, teacherToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = ta.do(t, http.MethodDelete, "/api/user/deletecourse/"+courseID, teacherToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAddCourseStoresOneFilePerSection(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerAndLogin(t, "teacher@example.com", "Teacher")

	form, contentType := courseForm(t, 1, 3)
	req := httptest.NewRequest(http.MethodPost, "/api/user/addcourse", form)
	req.Header.Set("Content-Type", contentType)
	status, body := ta.send(t, req, token)
	require.Equal(t, http.StatusCreated, status, body)

	entries, err := os.ReadDir(ta.uploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, body = ta.do(t, http.MethodGet, "/api/user/courses", "", nil)
	course := body["data"].([]interface{})[0].(map[string]interface{})
	section := course["sections"].([]interface{})[0].(map[string]interface{})
	filename := section["S_content"].(map[string]interface{})["filename"]
	assert.Equal(t, entries[0].Name(), filename)
}

func TestRegisterTwiceAndBadLogin(t *testing.T) {
	ta := newTestApp(t)
	ta.registerAndLogin(t, "dup@example.com", "Student")

	status, body := ta.do(t, http.MethodPost, "/api/user/register", "", fiber.Map{
		"name": "Again", "email": "DUP@example.com", "password": "other", "type": "Student",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])

	status, body = ta.do(t, http.MethodPost, "/api/user/login", "", fiber.Map{
		"email": "dup@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "token")
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerAndLogin(t, "someone@example.com", "Student")
	forged := token[:strings.LastIndex(token, ".")+1] + "c2lnbmF0dXJl"

	for _, tc := range []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"forged signature", forged},
	} {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ta.do(t, http.MethodGet, "/api/user/enrolledcourses", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, false, body["success"])
			assert.Nil(t, body["data"])

			status, _ = ta.do(t, http.MethodGet, "/api/admin/getallusers", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func TestValidationAndUnknownRoutes(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerAndLogin(t, "v@example.com", "Student")

	status, body := ta.do(t, http.MethodPost, "/api/user/register", "", fiber.Map{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["data"], "email")

	status, _ = ta.do(t, http.MethodGet, "/api/user/coursecontent/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = ta.do(t, http.MethodGet, "/api/user/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestHealthAndMetrics(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "test_http_requests_total")
}
