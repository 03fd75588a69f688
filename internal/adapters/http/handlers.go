package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"mergington/internal/adapters/http/middleware"
	"mergington/internal/application/orchestrators"
	"mergington/internal/application/projections"
	accountDomain "mergington/internal/domain/account"
	"mergington/internal/domain/category"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

const templatesDir = "internal/adapters/http/templates"

// registerRoutes wires every application route onto the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /activities", handleGetActivities)
	mux.HandleFunc("GET /activities/days", handleGetDays)
	mux.HandleFunc("GET /activities/filtered", handleGetFilteredActivities)
	mux.HandleFunc("GET /activities/calendar", handleGetCalendar)
	mux.HandleFunc("GET /activities/calendar.ics", handleExportCalendar)
	mux.Handle("POST /activities/{name}/signup", middleware.RequireTeacher(http.HandlerFunc(handleSignup)))
	mux.Handle("POST /activities/{name}/unregister", middleware.RequireTeacher(http.HandlerFunc(handleUnregister)))

	mux.HandleFunc("POST /auth/login", handleLogin)
	mux.HandleFunc("POST /auth/logout", handleLogout)
	mux.HandleFunc("GET /auth/check-session", handleCheckSession)
	mux.HandleFunc("POST /auth/request-password-reset", handleRequestPasswordReset)
	mux.HandleFunc("POST /auth/reset-password", handleResetPassword)

	mux.HandleFunc("GET /catalog", handleCatalogPage)
	mux.Handle("GET /admin/perf", middleware.RequireRole(accountDomain.RoleAdmin)(http.HandlerFunc(handlePerfSnapshot)))
}

// criteriaFromQuery builds filter criteria from the request's query string.
// Unknown category or time range values fall back to the defaults rather than
// erroring, matching how the catalog UI has always behaved.
func criteriaFromQuery(r *http.Request) projections.Criteria {
	q := r.URL.Query()
	c := projections.DefaultCriteria()

	if cat := q.Get("category"); cat != "" && (cat == category.All || category.IsValid(cat)) {
		c.Category = cat
	}
	c.SearchQuery = q.Get("search")
	if q.Get("mode") == projections.ModeGrouped {
		c.Mode = projections.ModeGrouped
	}

	if day := q.Get("day"); day != "" {
		c, _ = c.SetWeekdayFilter(day)
	}
	switch q.Get("time_range") {
	case projections.TimeRangeMorning, projections.TimeRangeAfternoon, projections.TimeRangeWeekend:
		c, _ = c.SetTimeRangeFilter(q.Get("time_range"))
	}
	return c
}

// handleGetActivities returns the raw catalog keyed by activity name,
// optionally narrowed by day and start/end time bounds.
func handleGetActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := projections.DefaultCriteria()
	if day := q.Get("day"); day != "" {
		c, _ = c.SetWeekdayFilter(day)
	}

	entries, err := projections.QueryGetCatalog(r.Context(), c, catalogDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	// Explicit start/end bounds narrow further than the named time ranges.
	startBound := q.Get("start_time")
	endBound := q.Get("end_time")

	result := make(map[string]projections.ActivityView, len(entries))
	for _, entry := range entries {
		if startBound != "" && (entry.Details == nil || entry.Details.StartTime < startBound) {
			continue
		}
		if endBound != "" && (entry.Details == nil || entry.Details.EndTime > endBound) {
			continue
		}
		result[entry.Name] = projections.NewActivityView(entry)
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetDays returns the distinct weekdays across all structured schedules.
func handleGetDays(w http.ResponseWriter, r *http.Request) {
	days, err := projections.QueryGetScheduledDays(r.Context(), projections.GetDaysDeps{
		ActivityStore: stores.ActivityStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if days == nil {
		days = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"days": days})
}

// handleGetFilteredActivities runs the full filter/group pipeline.
func handleGetFilteredActivities(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetFilteredActivities(r.Context(), criteriaFromQuery(r), catalogDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetCalendar returns the weekly calendar grid.
func handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetCalendarGrid(r.Context(), criteriaFromQuery(r), catalogDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func catalogDeps() projections.GetActivitiesDeps {
	return projections.GetActivitiesDeps{ActivityStore: stores.ActivityStore}
}

// handleSignup registers a student email into an activity. Teacher-only.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.SignupInput{
		ActivityName: r.PathValue("name"),
		Email:        r.FormValue("email"),
	}
	err := orchestrators.ExecuteSignup(r.Context(), input, signupDeps())
	switch {
	case errors.Is(err, orchestrators.ErrActivityNotFound):
		errorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrators.ErrInvalidEmail),
		errors.Is(err, orchestrators.ErrAlreadyRegistered),
		errors.Is(err, orchestrators.ErrActivityFull):
		errorJSON(w, http.StatusBadRequest, err.Error())
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Signed up " + input.Email + " for " + input.ActivityName,
		})
	}
}

// handleUnregister removes a student email from an activity. Teacher-only.
func handleUnregister(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.SignupInput{
		ActivityName: r.PathValue("name"),
		Email:        r.FormValue("email"),
	}
	err := orchestrators.ExecuteUnregister(r.Context(), input, signupDeps())
	switch {
	case errors.Is(err, orchestrators.ErrActivityNotFound):
		errorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrators.ErrNotRegistered):
		errorJSON(w, http.StatusBadRequest, err.Error())
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Unregistered " + input.Email + " from " + input.ActivityName,
		})
	}
}

func signupDeps() orchestrators.SignupDeps {
	return orchestrators.SignupDeps{ActivityStore: stores.ActivityStore}
}

// handleLogin authenticates a teacher and issues a session cookie.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.LoginInput{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := strictDecode(r, &body); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}
		input.Username = body.Username
		input.Password = body.Password
	} else {
		input.Username = r.FormValue("username")
		input.Password = r.FormValue("password")
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	switch {
	case errors.Is(err, orchestrators.ErrAccountLocked):
		errorJSON(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		errorJSON(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := sessions.Create(result.AccountID, result.Username, result.DisplayName, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{
		"username":     result.Username,
		"display_name": result.DisplayName,
		"role":         result.Role,
	})
}

// handleLogout clears the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("mergington_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// handleCheckSession reports the logged-in account, if any.
func handleCheckSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not logged in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"username":     sess.Username,
		"display_name": sess.DisplayName,
		"role":         sess.Role,
	})
}

// handleRequestPasswordReset starts the email reset flow. The response never
// reveals whether the username exists.
func handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.RequestPasswordResetInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		if err := strictDecode(r, &body); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}
		input.Username = body.Username
		input.Email = body.Email
	} else {
		input.Username = r.FormValue("username")
		input.Email = r.FormValue("email")
	}
	if input.Username == "" || input.Email == "" {
		errorJSON(w, http.StatusBadRequest, "username and email are required")
		return
	}
	input.BaseURL = publicBaseURL

	if err := orchestrators.ExecuteRequestPasswordReset(r.Context(), input, resetDeps()); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the account exists, a reset link has been sent",
	})
}

// handleResetPassword redeems a reset token.
func handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.ResetPasswordInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if err := strictDecode(r, &body); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}
		input.Token = body.Token
		input.NewPassword = body.NewPassword
	} else {
		input.Token = r.FormValue("token")
		input.NewPassword = r.FormValue("new_password")
	}

	err := orchestrators.ExecuteResetPassword(r.Context(), input, resetDeps())
	switch {
	case errors.Is(err, accountDomain.ErrTokenInvalid),
		errors.Is(err, accountDomain.ErrTokenExpired),
		errors.Is(err, accountDomain.ErrEmptyPassword):
		errorJSON(w, http.StatusBadRequest, err.Error())
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

func resetDeps() orchestrators.PasswordResetDeps {
	return orchestrators.PasswordResetDeps{
		AccountStore: stores.AccountStore,
		TokenStore:   stores.ResetTokenStore,
		EmailSender:  emailSender,
		EmailFrom:    emailFromAddress,
	}
}

// handlePerfSnapshot returns aggregated request timings. Admin-only.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		errorJSON(w, http.StatusNotFound, "perf collection disabled")
		return
	}
	snap := perfCollector.Snapshot(timeNow().Add(-time.Hour), 10)
	writeJSON(w, http.StatusOK, snap)
}

// handleCatalogPage renders the server-side catalog page. Descriptions are
// written in markdown and rendered through goldmark.
func handleCatalogPage(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetFilteredActivities(r.Context(), criteriaFromQuery(r), catalogDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	funcMap := template.FuncMap{
		"csrfToken":   func() string { return csrf.Token(r) },
		"isLoggedIn":  func() bool { return loggedIn },
		"displayName": func() string { return sess.DisplayName },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, "catalog.html")
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, result); err != nil {
		internalError(w, err)
	}
}
