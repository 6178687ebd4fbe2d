package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"staffadmin/internal/domain"
	"staffadmin/internal/middleware"
	"staffadmin/internal/service"
	"staffadmin/internal/session"
	"staffadmin/internal/testutil"
	"staffadmin/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	sessions *session.Manager
	admin    *domain.Employee
	staff    *domain.Employee
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gdb := testutil.NewDB(t)
	_, rdb := testutil.NewRedis(t)
	renderer, err := views.New(false)
	require.NoError(t, err)
	sessions := session.NewManager(session.NewStore(rdb), "test-secret", time.Hour)

	router, err := NewRouter(Dependencies{
		DB:              gdb,
		Redis:           rdb,
		Service:         service.New(gdb),
		Sessions:        sessions,
		Views:           renderer,
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
	})
	require.NoError(t, err)

	return &testApp{
		t:        t,
		db:       gdb,
		router:   router,
		sessions: sessions,
		admin:    testutil.CreateEmployee(t, gdb, "555-0001", "adminpw", true),
		staff:    testutil.CreateEmployee(t, gdb, "555-0002", "staffpw", false),
	}
}

// client is a logged in (or anonymous) browser
type client struct {
	app   *testApp
	token string
	csrf  string
}

func (a *testApp) anonymous() *client {
	return &client{app: a}
}

func (a *testApp) loginAs(e *domain.Employee) *client {
	a.t.Helper()
	sess, token, err := a.sessions.Start(context.Background(), e.ID)
	require.NoError(a.t, err)
	return &client{app: a, token: token, csrf: sess.CSRFToken}
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return c.send(req)
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	if c.csrf != "" && form.Get(middleware.CSRFFormField) == "" {
		form.Set(middleware.CSRFFormField, c.csrf)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.token})
	}
	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)
	return w
}

func flashOf(w *httptest.ResponseRecorder) string {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == flashCookie {
			v, _ := url.QueryUnescape(cookie.Value)
			return v
		}
	}
	return ""
}

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (a *testApp) count(model any, query string, args ...any) int64 {
	a.t.Helper()
	var n int64
	q := a.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(a.t, q.Count(&n).Error)
	return n
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	w := app.anonymous().get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"database":"ok","redis":"ok"}`, w.Body.String())
}

func TestHomeAndNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.anonymous().get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Home | Staff Admin")

	w = app.anonymous().get("/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterScenario(t *testing.T) {
	app := newTestApp(t)
	form := url.Values{"phone": {"555-0100"}, "password": {"p"}, "confirm_password": {"p"}}

	w := app.anonymous().post("/register", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "Registration successful. Please log in.", flashOf(w))

	var created domain.Employee
	require.NoError(t, app.db.Where("phone = ?", "555-0100").First(&created).Error)
	assert.False(t, created.IsAdmin)
	assert.NotEqual(t, "p", created.PasswordHash)

	w = app.anonymous().post("/register", form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgPhoneInUse)
	assert.Equal(t, int64(1), app.count(&domain.Employee{}, "phone = ?", "555-0100"))
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.anonymous().post("/register", url.Values{"phone": {"555-0101"}, "password": {"a"}, "confirm_password": {"b"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords must match.")
	assert.Contains(t, w.Body.String(), `value="555-0101"`)

	w = app.anonymous().post("/register", url.Values{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
}

func TestRegisterOverlongPasswordRerendersForm(t *testing.T) {
	app := newTestApp(t)
	password := strings.Repeat("a", 73)

	w := app.anonymous().post("/register", url.Values{"phone": {"555-0102"}, "password": {password}, "confirm_password": {password}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgPasswordTooLong)
	assert.Zero(t, app.count(&domain.Employee{}, "phone = ?", "555-0102"))

	// 72 runes but more than 72 bytes passes the form and is caught when hashing
	password = strings.Repeat("é", 72)
	w = app.anonymous().post("/register", url.Values{"phone": {"555-0103"}, "password": {password}, "confirm_password": {password}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgPasswordTooLong)
	assert.Zero(t, app.count(&domain.Employee{}, "phone = ?", "555-0103"))
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	w := app.anonymous().post("/login", url.Values{"phone": {"555-0002"}, "password": {"staffpw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	var token string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			token = cookie.Value
			assert.True(t, cookie.HttpOnly)
		}
	}
	require.NotEmpty(t, token)

	browser := &client{app: app, token: token}
	w = browser.get("/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "555-0002")

	w = app.anonymous().post("/login", url.Values{"phone": {"555-0001"}, "password": {"adminpw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/departments", w.Header().Get("Location"))
}

func TestLoginReplacesExistingSession(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.staff)

	w := browser.post("/login", url.Values{"phone": {"555-0001"}, "password": {"adminpw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var fresh string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			fresh = cookie.Value
		}
	}
	require.NotEmpty(t, fresh)
	assert.NotEqual(t, browser.token, fresh)

	old, err := app.sessions.Resolve(context.Background(), browser.token)
	require.NoError(t, err)
	assert.Nil(t, old)

	current, err := app.sessions.Resolve(context.Background(), fresh)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, app.admin.ID, current.EmployeeID)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	app := newTestApp(t)

	wrongPassword := app.anonymous().post("/login", url.Values{"phone": {"555-0002"}, "password": {"nope"}})
	unknownPhone := app.anonymous().post("/login", url.Values{"phone": {"555-9999"}, "password": {"nope"}})

	for _, w := range []*httptest.ResponseRecorder{wrongPassword, unknownPhone} {
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid phone number or password.")
		assert.NotContains(t, w.Body.String(), "nope")
	}
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.staff)

	w := browser.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = browser.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.admin)

	w := browser.post("/admin/departments/add", url.Values{
		middleware.CSRFFormField: {"forged"},
		"name":                   {"Engineering"},
		"budget":                 {"100000"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, app.count(&domain.Department{}, ""))
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/dashboard", "/admin/departments", "/admin/children", "/admin/employees"} {
		w := app.anonymous().get(target)
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.Equal(t, "/login", w.Header().Get("Location"), target)
	}
}

func TestNonAdminIsForbiddenWithoutMutation(t *testing.T) {
	app := newTestApp(t)
	dept := testutil.CreateDepartment(t, app.db, "Sales", 10)
	child := testutil.CreateChild(t, app.db, "Sam", 4, app.staff.ID)
	browser := app.loginAs(app.staff)

	gets := []string{
		"/admin/departments", "/admin/departments/add", "/admin/departments/edit/" + idPath(dept.ID),
		"/admin/children", "/admin/children/add", "/admin/children/edit/Sam",
		"/admin/employees", "/admin/employees/assign/" + idPath(app.staff.ID),
	}
	for _, target := range gets {
		w := browser.get(target)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}

	posts := map[string]url.Values{
		"/admin/departments/add":                          {"name": {"Ops"}, "budget": {"1"}},
		"/admin/departments/edit/" + idPath(dept.ID):      {"name": {"Renamed"}, "budget": {"2"}},
		"/admin/departments/delete/" + idPath(dept.ID):    nil,
		"/admin/children/add":                             {"name": {"Kim"}, "age": {"3"}, "parent": {idPath(app.staff.ID)}},
		"/admin/children/edit/Sam":                        {"name": {"Samuel"}, "age": {"5"}},
		"/admin/children/delete/Sam":                      nil,
		"/admin/employees/assign/" + idPath(app.staff.ID): {"department": {idPath(dept.ID)}},
		"/admin/employees/delete/" + idPath(app.staff.ID): nil,
	}
	for target, form := range posts {
		w := browser.post(target, form)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}

	var storedDept domain.Department
	require.NoError(t, app.db.First(&storedDept, dept.ID).Error)
	assert.Equal(t, "Sales", storedDept.Name)
	assert.Equal(t, 10, storedDept.Budget)
	assert.Equal(t, int64(1), app.count(&domain.Department{}, ""))

	var storedChild domain.Child
	require.NoError(t, app.db.First(&storedChild, child.ID).Error)
	assert.Equal(t, "Sam", storedChild.Name)
	assert.Equal(t, 4, storedChild.Age)
	assert.Equal(t, int64(1), app.count(&domain.Child{}, ""))

	var storedStaff domain.Employee
	require.NoError(t, app.db.First(&storedStaff, app.staff.ID).Error)
	assert.Nil(t, storedStaff.DepartmentID)
}

func TestDepartmentScenario(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.admin)

	w := browser.post("/admin/departments/add", url.Values{"name": {"Engineering"}, "budget": {"100000"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/departments", w.Header().Get("Location"))
	assert.Equal(t, "Department added successfully.", flashOf(w))

	w = browser.post("/admin/departments/add", url.Values{"name": {"Engineering"}, "budget": {"50000"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/departments", w.Header().Get("Location"))
	assert.Equal(t, "Error: department name already exists.", flashOf(w))

	var departments []domain.Department
	require.NoError(t, app.db.Where("dname = ?", "Engineering").Find(&departments).Error)
	require.Len(t, departments, 1)
	assert.Equal(t, 100000, departments[0].Budget)

	w = browser.get("/admin/departments")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Engineering")
	assert.Contains(t, w.Body.String(), "100000")
}

func TestDepartmentFormValidation(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.admin)

	w := browser.post("/admin/departments/add", url.Values{"name": {""}, "budget": {"lots"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	assert.Contains(t, w.Body.String(), "Not a valid integer value.")
	assert.Zero(t, app.count(&domain.Department{}, ""))
}

func TestEditAndDeleteDepartment(t *testing.T) {
	app := newTestApp(t)
	dept := testutil.CreateDepartment(t, app.db, "Sales", 10)
	require.NoError(t, app.db.Model(app.staff).Update("dnumber", dept.ID).Error)
	browser := app.loginAs(app.admin)

	w := browser.get("/admin/departments/edit/" + idPath(dept.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Sales"`)

	w = browser.post("/admin/departments/edit/"+idPath(dept.ID), url.Values{"name": {"Marketing"}, "budget": {"20"}, "manager": {"7"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var stored domain.Department
	require.NoError(t, app.db.First(&stored, dept.ID).Error)
	assert.Equal(t, "Marketing", stored.Name)
	assert.Equal(t, 20, stored.Budget)
	require.NotNil(t, stored.Manager)
	assert.Equal(t, 7, *stored.Manager)

	w = browser.post("/admin/departments/delete/"+idPath(dept.ID), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Zero(t, app.count(&domain.Department{}, ""))

	var staff domain.Employee
	require.NoError(t, app.db.First(&staff, app.staff.ID).Error)
	assert.Nil(t, staff.DepartmentID)

	w = browser.get("/admin/departments/edit/" + idPath(dept.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = browser.get("/admin/departments/edit/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChildScenario(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.admin)

	w := browser.get("/admin/children/add")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), idPath(app.staff.ID)+" (555-0002)")

	w = browser.post("/admin/children/add", url.Values{"name": {"Alex"}, "age": {"8"}, "parent": {idPath(app.staff.ID)}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/children", w.Header().Get("Location"))

	var alex domain.Child
	require.NoError(t, app.db.Where("name = ?", "Alex").First(&alex).Error)
	require.NotNil(t, alex.ParentID)
	assert.Equal(t, app.staff.ID, *alex.ParentID)

	w = browser.get("/admin/children")
	assert.Contains(t, w.Body.String(), "Alex")

	w = browser.post("/admin/employees/delete/"+idPath(app.staff.ID), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/employees", w.Header().Get("Location"))

	w = browser.get("/admin/children")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Alex")
	assert.Zero(t, app.count(&domain.Child{}, ""))
}

func TestChildDuplicateAndUnknownParent(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateChild(t, app.db, "Alex", 8, app.staff.ID)
	browser := app.loginAs(app.admin)

	w := browser.post("/admin/children/add", url.Values{"name": {"Alex"}, "age": {"3"}, "parent": {idPath(app.staff.ID)}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "Error: child name already exists.", flashOf(w))
	assert.Equal(t, int64(1), app.count(&domain.Child{}, ""))

	w = browser.post("/admin/children/add", url.Values{"name": {"Bo"}, "age": {"3"}, "parent": {"999"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Not a valid choice.")
	assert.Equal(t, int64(1), app.count(&domain.Child{}, ""))
}

func TestEditAndDeleteChildByName(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateChild(t, app.db, "Jo Ann", 5, app.staff.ID)
	browser := app.loginAs(app.admin)

	w := browser.get("/admin/children/edit/Jo%20Ann")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Jo Ann"`)

	w = browser.post("/admin/children/edit/Jo%20Ann", url.Values{"name": {"Joanne"}, "age": {"6"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var renamed domain.Child
	require.NoError(t, app.db.Where("name = ?", "Joanne").First(&renamed).Error)
	assert.Equal(t, 6, renamed.Age)
	require.NotNil(t, renamed.ParentID)
	assert.Equal(t, app.staff.ID, *renamed.ParentID)

	w = browser.post("/admin/children/delete/Jo%20Ann", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = browser.post("/admin/children/delete/Joanne", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Zero(t, app.count(&domain.Child{}, ""))
}

func TestAssignDepartment(t *testing.T) {
	app := newTestApp(t)
	dept := testutil.CreateDepartment(t, app.db, "Research", 5)
	browser := app.loginAs(app.admin)

	w := browser.get("/admin/employees/assign/" + idPath(app.staff.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Research")

	w = browser.post("/admin/employees/assign/"+idPath(app.staff.ID), url.Values{"department": {idPath(dept.ID)}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "Department assigned successfully.", flashOf(w))

	var staff domain.Employee
	require.NoError(t, app.db.First(&staff, app.staff.ID).Error)
	require.NotNil(t, staff.DepartmentID)
	assert.Equal(t, dept.ID, *staff.DepartmentID)

	w = browser.get("/admin/employees")
	assert.Contains(t, w.Body.String(), "Research")
}

func TestAssignDepartmentToAdminIsForbidden(t *testing.T) {
	app := newTestApp(t)
	dept := testutil.CreateDepartment(t, app.db, "Research", 5)
	browser := app.loginAs(app.admin)

	for _, department := range []string{idPath(dept.ID), "999", ""} {
		w := browser.post("/admin/employees/assign/"+idPath(app.admin.ID), url.Values{"department": {department}})
		assert.Equal(t, http.StatusForbidden, w.Code, department)
	}

	var admin domain.Employee
	require.NoError(t, app.db.First(&admin, app.admin.ID).Error)
	assert.Nil(t, admin.DepartmentID)
}

func TestDeleteAdminIsForbidden(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.admin)

	w := browser.post("/admin/employees/delete/"+idPath(app.admin.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(2), app.count(&domain.Employee{}, ""))
}

func TestFlashIsShownOnce(t *testing.T) {
	app := newTestApp(t)
	browser := app.loginAs(app.admin)

	req := httptest.NewRequest(http.MethodGet, "/admin/departments", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: url.QueryEscape("Department added successfully.")})
	w := browser.send(req)

	assert.Contains(t, w.Body.String(), "Department added successfully.")
	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == flashCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
