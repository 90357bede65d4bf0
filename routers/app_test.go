package routers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"sportify/config"
	"sportify/middleware"
	"sportify/models"
	"sportify/services"
	"sportify/testutil"
	"sportify/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	t   *testing.T
	db  *gorm.DB
	app *fiber.App
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newEnv(t *testing.T, gatewayURL string) *testEnv {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret", TokenTTLMinutes: 60}
	t.Cleanup(func() { config.AppConfig = prev })

	db := testutil.NewDB(t)
	app := NewApp(Deps{
		DB:      db,
		Settler: services.NewSettler(db, config.SettlementTransactional, nil),
		Gateway: utils.NewPaymentGateway(gatewayURL, "sk_test"),
	})
	return &testEnv{t: t, db: db, app: app}
}

func (e *testEnv) user(email, role string) models.User {
	e.t.Helper()
	u := models.User{Name: email, Email: email, Role: role}
	if role == models.RoleInstructor {
		zero := 0
		u.EnrollCount = &zero
	}
	require.NoError(e.t, e.db.Create(&u).Error)
	return u
}

func (e *testEnv) token(email string) string {
	e.t.Helper()
	token, err := middleware.GenerateJWT(email)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) do(method, path, email string, body any) (int, envelope) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(email))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	var env envelope
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(e.t, json.Unmarshal(raw, &env), string(raw))
	} else {
		env.Message = string(raw)
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestRoot(t *testing.T) {
	env := newEnv(t, "")
	status, body := env.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Sportify Server is running..", body.Message)
}

func TestIssueToken(t *testing.T) {
	env := newEnv(t, "")

	status, body := env.do(http.MethodPost, "/jwt", "", map[string]string{"email": "S@Example.com"})
	require.Equal(t, http.StatusOK, status)
	token := decode[map[string]string](t, body.Data)["token"]
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/carts?email=s@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ = env.do(http.MethodPost, "/jwt", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUserRegistrationAndRoles(t *testing.T) {
	env := newEnv(t, "")
	env.user("admin@example.com", models.RoleAdmin)

	status, _ := env.do(http.MethodPost, "/users", "", map[string]string{"name": "Sam", "email": "sam@example.com"})
	require.Equal(t, http.StatusCreated, status)

	status, body := env.do(http.MethodPost, "/users", "", map[string]string{"name": "Sam", "email": "sam@example.com"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user already exists", body.Message)

	var sam models.User
	require.NoError(t, env.db.Where("email = ?", "sam@example.com").First(&sam).Error)
	assert.Nil(t, sam.EnrollCount)

	// Only admins list users or promote.
	status, body = env.do(http.MethodGet, "/users", "sam@example.com", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden access", body.Error)

	status, _ = env.do(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(http.MethodGet, "/users", "admin@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.User](t, body.Data), 2)

	path := "/users/instructor/" + strconv.Itoa(int(sam.ID))
	status, _ = env.do(http.MethodPatch, path, "admin@example.com", nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, env.db.First(&sam, sam.ID).Error)
	assert.Equal(t, models.RoleInstructor, sam.Role)
	require.NotNil(t, sam.EnrollCount)
	assert.Equal(t, 0, *sam.EnrollCount)

	status, body = env.do(http.MethodGet, "/users/instructor/sam@example.com", "sam@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]bool{"instructor": true}, decode[map[string]bool](t, body.Data))

	// Asking about someone else is always false.
	status, body = env.do(http.MethodGet, "/users/admin/admin@example.com", "sam@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]bool{"admin": false}, decode[map[string]bool](t, body.Data))

	status, body = env.do(http.MethodGet, "/users/admin/admin@example.com", "admin@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]bool{"admin": true}, decode[map[string]bool](t, body.Data))

	status, _ = env.do(http.MethodPatch, "/users/admin/9999", "admin@example.com", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(http.MethodPatch, "/users/admin/abc", "admin@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestClassLifecycle(t *testing.T) {
	env := newEnv(t, "")
	env.user("admin@example.com", models.RoleAdmin)
	env.user("coach@example.com", models.RoleInstructor)
	env.user("student@example.com", models.RoleNone)

	newClass := map[string]any{
		"className":      "Archery",
		"image":          "https://img.example.com/archery.png",
		"price":          40,
		"availableSeats": 10,
		"enrollCount":    99,
		"status":         "approved",
	}

	status, _ := env.do(http.MethodPost, "/classes", "student@example.com", newClass)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.do(http.MethodPost, "/classes", "coach@example.com", newClass)
	require.Equal(t, http.StatusCreated, status)
	created := decode[models.Class](t, body.Data)
	assert.Equal(t, models.ClassStatusPending, created.Status)
	assert.Equal(t, 0, created.EnrollCount)
	assert.Equal(t, "coach@example.com", created.InstructorEmail)

	status, body = env.do(http.MethodPost, "/classes", "coach@example.com", map[string]any{"className": "", "image": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, decode[map[string]string](t, body.Data), "className")

	status, body = env.do(http.MethodGet, "/classes/approved", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.Class](t, body.Data))

	path := "/classes/status/" + strconv.Itoa(int(created.ID))
	status, _ = env.do(http.MethodPatch, path, "admin@example.com", map[string]string{"status": "published"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = env.do(http.MethodPatch, path, "admin@example.com", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.ClassStatusApproved, decode[models.Class](t, body.Data).Status)

	status, _ = env.do(http.MethodPatch, "/classes/feedback/"+strconv.Itoa(int(created.ID)), "admin@example.com", map[string]string{"feedback": "Great class"})
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(http.MethodGet, "/classes/approved", "", nil)
	require.Equal(t, http.StatusOK, status)
	approved := decode[[]models.Class](t, body.Data)
	require.Len(t, approved, 1)
	assert.Equal(t, "Great class", approved[0].Feedback)

	status, body = env.do(http.MethodGet, "/classes/mine", "coach@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Class](t, body.Data), 1)

	status, body = env.do(http.MethodGet, "/instructor-stats/coach@example.com", "", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[[]map[string]any](t, body.Data)
	require.Len(t, stats, 1)
	assert.Equal(t, "coach@example.com", stats[0]["_id"])
	assert.Equal(t, []any{"Archery"}, stats[0]["classes"])
	assert.Equal(t, float64(1), stats[0]["count"])

	status, body = env.do(http.MethodGet, "/instructor-stats/nobody", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]map[string]any](t, body.Data))
}

func TestCart(t *testing.T) {
	env := newEnv(t, "")
	class := models.Class{Name: "Archery", Price: 40, AvailableSeats: 3, Status: models.ClassStatusApproved}
	require.NoError(t, env.db.Create(&class).Error)

	status, body := env.do(http.MethodPost, "/carts", "s@example.com", map[string]any{"classId": class.ID})
	require.Equal(t, http.StatusCreated, status)
	item := decode[models.CartItem](t, body.Data)
	assert.Equal(t, "Archery", item.ClassName)
	assert.Equal(t, "s@example.com", item.Email)

	status, _ = env.do(http.MethodPost, "/carts", "s@example.com", map[string]any{"classId": 4242})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(http.MethodGet, "/carts", "s@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.CartItem](t, body.Data))

	status, _ = env.do(http.MethodGet, "/carts?email=other@example.com", "s@example.com", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.do(http.MethodGet, "/carts?email=s@example.com", "s@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.CartItem](t, body.Data), 1)

	status, _ = env.do(http.MethodDelete, "/carts/"+strconv.Itoa(int(item.ID)), "other@example.com", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(http.MethodDelete, "/carts/"+strconv.Itoa(int(item.ID)), "s@example.com", nil)
	assert.Equal(t, http.StatusOK, status)
}

func settleBody(email string, classes []models.Class, carts []models.CartItem) map[string]any {
	classIDs := []uint{}
	instructorIDs := []uint{}
	cartIDs := []uint{}
	price := 0.0
	for _, c := range classes {
		classIDs = append(classIDs, c.ID)
		instructorIDs = append(instructorIDs, c.InstructorID)
		price += c.Price
	}
	for _, item := range carts {
		cartIDs = append(cartIDs, item.ID)
	}
	return map[string]any{
		"email":         email,
		"classIds":      classIDs,
		"instructorIds": instructorIDs,
		"cartIds":       cartIDs,
		"transactionId": "pi_123",
		"price":         price,
		"date":          time.Now().UTC().Format(time.RFC3339),
	}
}

func TestSettlementOverHTTP(t *testing.T) {
	env := newEnv(t, "")
	five := 5
	instructor := models.User{Name: "X", Email: "x@example.com", Role: models.RoleInstructor, EnrollCount: &five}
	require.NoError(t, env.db.Create(&instructor).Error)

	classA := models.Class{Name: "Archery", Price: 40, InstructorID: instructor.ID, InstructorName: "X",
		InstructorEmail: "x@example.com", AvailableSeats: 2, Status: models.ClassStatusApproved}
	classB := models.Class{Name: "Boxing", Price: 55, InstructorID: instructor.ID, InstructorName: "X",
		InstructorEmail: "x@example.com", AvailableSeats: 0, Status: models.ClassStatusApproved}
	require.NoError(t, env.db.Create(&classA).Error)
	require.NoError(t, env.db.Create(&classB).Error)

	itemA := models.CartItem{ClassID: classA.ID, Email: "s@example.com", ClassName: "Archery"}
	require.NoError(t, env.db.Create(&itemA).Error)

	t.Run("full class is a capacity conflict", func(t *testing.T) {
		status, body := env.do(http.MethodPost, "/payments", "s@example.com", settleBody("s@example.com", []models.Class{classB}, nil))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "one or more classes are full", body.Error)

		var payments, enrollments int64
		env.db.Model(&models.Payment{}).Count(&payments)
		env.db.Model(&models.Enrollment{}).Count(&enrollments)
		assert.Zero(t, payments)
		assert.Zero(t, enrollments)
	})

	t.Run("paying for someone else is forbidden", func(t *testing.T) {
		status, _ := env.do(http.MethodPost, "/payments", "s@example.com", settleBody("other@example.com", []models.Class{classA}, nil))
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("duplicate class ids are rejected", func(t *testing.T) {
		body := settleBody("s@example.com", []models.Class{classA, classA}, nil)
		status, resp := env.do(http.MethodPost, "/payments", "s@example.com", body)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Contains(t, decode[map[string]string](t, resp.Data), "classIds")
	})

	t.Run("mismatched instructor ids are rejected", func(t *testing.T) {
		body := settleBody("s@example.com", []models.Class{classA}, nil)
		body["instructorIds"] = []uint{instructor.ID, instructor.ID}
		status, resp := env.do(http.MethodPost, "/payments", "s@example.com", body)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Contains(t, decode[map[string]string](t, resp.Data), "instructorIds")
	})

	t.Run("successful settlement", func(t *testing.T) {
		status, body := env.do(http.MethodPost, "/payments", "s@example.com", settleBody("s@example.com", []models.Class{classA}, []models.CartItem{itemA}))
		require.Equal(t, http.StatusOK, status, body.Error)

		result := decode[services.SettlementResult](t, body.Data)
		assert.NotZero(t, result.InsertResult.InsertedID)
		assert.Equal(t, int64(1), result.UpdateResult.ModifiedCount)
		assert.Equal(t, int64(1), result.DeleteResult.DeletedCount)
		assert.Equal(t, 1, result.EnrollmentResult.InsertedCount)

		var class models.Class
		require.NoError(t, env.db.First(&class, classA.ID).Error)
		assert.Equal(t, 1, class.AvailableSeats)

		var x models.User
		require.NoError(t, env.db.First(&x, instructor.ID).Error)
		assert.Equal(t, 6, *x.EnrollCount)

		status, body = env.do(http.MethodGet, "/enrollments?email=s@example.com", "s@example.com", nil)
		require.Equal(t, http.StatusOK, status)
		enrollments := decode[[]models.Enrollment](t, body.Data)
		require.Len(t, enrollments, 1)
		assert.Equal(t, models.EnrollmentStatusPaid, enrollments[0].Status)

		status, body = env.do(http.MethodGet, "/payments?email=s@example.com", "s@example.com", nil)
		require.Equal(t, http.StatusOK, status)
		payments := decode[[]models.Payment](t, body.Data)
		require.Len(t, payments, 1)
		assert.Equal(t, []uint{classA.ID}, []uint(payments[0].ClassIDs))

		status, _ = env.do(http.MethodGet, "/enrollments?email=x@example.com", "s@example.com", nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("popular listings follow the counters", func(t *testing.T) {
		status, body := env.do(http.MethodGet, "/classes/popular", "", nil)
		require.Equal(t, http.StatusOK, status)
		popular := decode[[]models.Class](t, body.Data)
		require.NotEmpty(t, popular)
		assert.Equal(t, classA.ID, popular[0].ID)

		status, body = env.do(http.MethodGet, "/instructors/popular", "", nil)
		require.Equal(t, http.StatusOK, status)
		instructors := decode[[]models.User](t, body.Data)
		require.Len(t, instructors, 1)
		assert.Equal(t, "x@example.com", instructors[0].Email)
	})
}

func TestAdminEndpoints(t *testing.T) {
	env := newEnv(t, "")
	env.user("admin@example.com", models.RoleAdmin)
	env.user("coach@example.com", models.RoleInstructor)

	require.NoError(t, env.db.Create(&models.Class{Name: "Archery", AvailableSeats: 1, Status: models.ClassStatusApproved}).Error)
	require.NoError(t, env.db.Create(&models.Class{Name: "Boxing", AvailableSeats: 1, EnrollCount: 3}).Error)
	require.NoError(t, env.db.Create(&models.Payment{Email: "a@example.com", Price: 40, Date: time.Now()}).Error)
	require.NoError(t, env.db.Create(&models.Payment{Email: "b@example.com", Price: 10, Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}).Error)

	status, _ := env.do(http.MethodGet, "/admin/stats", "coach@example.com", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.do(http.MethodGet, "/admin/stats", "admin@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[map[string]any](t, body.Data)
	assert.Equal(t, float64(2), stats["users"])
	assert.Equal(t, float64(1), stats["instructors"])
	assert.Equal(t, float64(2), stats["payments"])
	assert.Equal(t, float64(50), stats["revenue"])
	assert.Equal(t, float64(40), stats["monthRevenue"])
	classes := stats["classes"].(map[string]any)
	assert.Equal(t, float64(1), classes["approved"])
	assert.Equal(t, float64(1), classes["pending"])
	assert.Equal(t, float64(0), classes["denied"])

	status, body = env.do(http.MethodGet, "/admin/reconcile", "admin@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[services.ReconcileReport](t, body.Data)
	assert.Equal(t, 2, report.CheckedClasses)
	require.Len(t, report.Drifts, 1)
	assert.Equal(t, "Boxing", report.Drifts[0].ClassName)
	assert.Len(t, report.OrphanPayments, 2)
}

func TestPaymentIntent(t *testing.T) {
	stripe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"pi_1","client_secret":"pi_1_secret_abc","amount":9500,"currency":"usd"}`)
	}))
	defer stripe.Close()

	env := newEnv(t, stripe.URL)

	status, body := env.do(http.MethodPost, "/create-payment-intent", "s@example.com", map[string]any{"price": 95})
	require.Equal(t, http.StatusOK, status, body.Error)
	assert.Equal(t, "pi_1_secret_abc", decode[map[string]string](t, body.Data)["clientSecret"])

	status, _ = env.do(http.MethodPost, "/create-payment-intent", "s@example.com", map[string]any{"price": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = env.do(http.MethodPost, "/create-payment-intent", "", map[string]any{"price": 10})
	assert.Equal(t, http.StatusUnauthorized, status)
}
