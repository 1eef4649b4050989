package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates
var templatesFS embed.FS

const (
	cookieName  = "dataquery_token"
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "DATAQUERY_WEB_PORT"
	envAPIURL   = "DATAQUERY_API_URL"

	// Same variable the API reads, so the cookie dies with the token.
	envTokenTTL       = "JWT_EXPIRE_HOURS"
	defaultTokenHours = 24
)

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health (no auth, no templates)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public
	r.Get("/signup", signupForm)
	r.Post("/signup", signupSubmit(apiBase))
	r.Get("/login", loginForm)
	r.Post("/login", loginSubmit(apiBase, cookieMaxAge()))
	r.Get("/logout", logout(apiBase))

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(apiBase))
		r.Get("/", redirectDashboard)
		r.Get("/dashboard", dashboard(apiBase))
		r.Post("/upload", uploadDataset(apiBase))
		r.Post("/ask", askQuestion(apiBase))
	})

	log.Printf("Web UI running on http://localhost:%s (API: %s)", port, apiBase)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// cookieMaxAge returns the session cookie lifetime in seconds, matching the
// token TTL the API was configured with.
func cookieMaxAge() int {
	hours := defaultTokenHours
	if v := os.Getenv(envTokenTTL); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}
	return hours * 3600
}

// requireAuth redirects to /login if the cookie is missing or if the API
// rejects the token (expired, revoked by logout, or otherwise invalid).
func requireAuth(apiBase string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := r.Cookie(cookieName)
			if err != nil || token.Value == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			_, status, _ := apiGet(apiBase, "/me", token.Value)
			if status == http.StatusUnauthorized {
				clearAuthAndRedirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func cookieToken(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func signupForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "signup.html", nil)
}

func signupSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		if username == "" || email == "" || password == "" {
			renderTemplate(w, "signup.html", map[string]string{"Error": "All fields are required"})
			return
		}

		body := []byte(fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password))
		data, status, err := apiPost(apiBase, "/auth/register", "", body)
		if err != nil {
			renderTemplate(w, "signup.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		if status != http.StatusCreated {
			var errResp struct{ Error string }
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Error
			if msg == "" {
				msg = string(data)
			}
			renderTemplate(w, "signup.html", map[string]string{"Error": msg})
			return
		}

		// Registration never logs the user in; they must sign in explicitly.
		renderTemplate(w, "login.html", map[string]string{
			"Notice": "Account created. Please log in.",
		})
	}
}

func loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(cookieName); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	renderTemplate(w, "login.html", nil)
}

func loginSubmit(apiBase string, maxAge int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || password == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Username and password are required"})
			return
		}

		body := []byte(fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
		data, status, err := apiPost(apiBase, "/auth/login", "", body)
		if err != nil {
			renderTemplate(w, "login.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		if status != http.StatusOK {
			var errResp struct{ Error string }
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Error
			if msg == "" {
				msg = string(data)
			}
			renderTemplate(w, "login.html", map[string]string{"Error": msg})
			return
		}

		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &out); err != nil || out.Token == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Invalid login response"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    out.Token,
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

// logout revokes the token server-side before clearing the cookie, so a
// copied token stops working too.
func logout(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tok := cookieToken(r); tok != "" {
			_, _, _ = apiPost(apiBase, "/auth/logout", tok, nil)
		}
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func clearAuthAndRedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusFound)
}

// apiGet performs GET to API with token from request cookie.
func apiGet(apiBase, path, token string) ([]byte, int, error) {
	req, _ := http.NewRequest("GET", apiBase+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// apiPost performs POST to API with token and JSON body.
func apiPost(apiBase, path, token string, body []byte) ([]byte, int, error) {
	req, _ := http.NewRequest("POST", apiBase+path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// datasetView mirrors the API's dataset summary response.
type datasetView struct {
	Name     string     `json:"name"`
	Columns  []string   `json:"columns"`
	RowCount int        `json:"row_count"`
	Preview  [][]string `json:"preview"`
}

func dashboard(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := cookieToken(r)

		payload := map[string]interface{}{}
		if e := r.URL.Query().Get("error"); e != "" {
			payload["Error"] = e
		}
		if a := r.URL.Query().Get("answer"); a != "" {
			payload["Answer"] = a
			payload["Question"] = r.URL.Query().Get("q")
		}

		data, status, err := apiGet(apiBase, "/datasets", tok)
		if err != nil {
			payload["Error"] = err.Error()
			renderTemplate(w, "dashboard.html", payload)
			return
		}
		if status == http.StatusUnauthorized {
			clearAuthAndRedirectToLogin(w, r)
			return
		}
		if status == http.StatusOK {
			var ds datasetView
			if err := json.Unmarshal(data, &ds); err == nil {
				payload["Dataset"] = ds
			}
		}

		renderTemplate(w, "dashboard.html", payload)
	}
}

// uploadDataset forwards the browser's CSV file to the API as a fresh
// multipart request with the Bearer token attached.
func uploadDataset(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := cookieToken(r)

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape("Please choose a CSV file"), http.StatusFound)
			return
		}
		defer file.Close()

		var buf strings.Builder
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", header.Filename)
		if err != nil {
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape("upload failed"), http.StatusFound)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape("upload failed"), http.StatusFound)
			return
		}
		mw.Close()

		req, _ := http.NewRequest("POST", apiBase+"/datasets", strings.NewReader(buf.String()))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+tok)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape(err.Error()), http.StatusFound)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			clearAuthAndRedirectToLogin(w, r)
			return
		}
		if resp.StatusCode != http.StatusCreated {
			data, _ := io.ReadAll(resp.Body)
			var errResp struct{ Error string }
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Error
			if msg == "" {
				msg = "upload failed"
			}
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape(msg), http.StatusFound)
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

func askQuestion(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := cookieToken(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		question := strings.TrimSpace(r.FormValue("question"))
		if question == "" {
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape("Question is required"), http.StatusFound)
			return
		}

		body := []byte(fmt.Sprintf(`{"question":%q}`, question))
		data, status, err := apiPost(apiBase, "/questions", tok, body)
		if err != nil {
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape(err.Error()), http.StatusFound)
			return
		}
		if status == http.StatusUnauthorized {
			clearAuthAndRedirectToLogin(w, r)
			return
		}
		if status != http.StatusOK {
			var errResp struct{ Error string }
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Error
			if msg == "" {
				msg = "question answering failed"
			}
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape(msg), http.StatusFound)
			return
		}

		var out struct {
			Answer string `json:"answer"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			http.Redirect(w, r, "/dashboard?error="+url.QueryEscape("Invalid answer response"), http.StatusFound)
			return
		}

		http.Redirect(w, r,
			"/dashboard?answer="+url.QueryEscape(out.Answer)+"&q="+url.QueryEscape(question),
			http.StatusFound)
	}
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if data == nil {
		data = map[string]string{}
	}
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	t := template.Must(template.New(name).Parse(string(content)))
	if err := t.Execute(w, data); err != nil {
		log.Printf("template execute: %v", err)
	}
}
