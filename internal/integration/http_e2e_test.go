//go:build integration

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "umrah_booking/internal/adapters/http_server"
	redisad "umrah_booking/internal/adapters/redis"
	"umrah_booking/internal/app"
	"umrah_booking/internal/domain"
	"umrah_booking/internal/search"
	"umrah_booking/internal/session"
	mysqlrepo "umrah_booking/internal/storage/mysql"
)

// ---------- helpers ----------
func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=$(pwd)/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=umrah",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "umrah")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func send(t *testing.T, method, url, user, role string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
		req.Header.Set("X-User-Role", role)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

// ---------- the test ----------
func TestHTTP_EndToEnd_SearchAndBook(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)

	mr := miniredis.RunT(t)
	rc := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	notify := session.NewNotifications(rc)
	wishlist := session.NewWishlist(rc)
	catalog := app.NewCatalogService(repo, rc, time.Minute)
	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Catalog:       catalog,
		Search:        app.NewSearchService(repo, rc, time.Minute, search.Defaults{Sort: search.SortPriceLow, View: search.ViewGrid}, nil),
		Bookings:      app.NewBookingService(repo, repo, notify),
		Profiles:      app.NewProfileService(repo),
		Dashboard:     app.NewDashboardService(repo, repo, repo, wishlist, notify),
		Wishlist:      wishlist,
		Notifications: notify,
		Compare:       session.NewComparison(rc, catalog.Get),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Seed through the API so cache invalidation is exercised too.
	var created []domain.Listing
	for _, h := range []struct {
		en, ar string
		price  float64
	}{{"Hilton Makkah", "هيلتون مكة", 450}, {"Pullman Zamzam", "بولمان زمزم", 380}} {
		res := send(t, http.MethodPost, ts.URL+"/v1/hotels", "admin-1", "admin", map[string]any{
			"title": map[string]any{"en": h.en, "ar": h.ar},
			"price": h.price,
			"hotel": map[string]any{"city": "Makkah", "amenities": []string{"wifi"}},
		})
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("create %s: status %d", h.en, res.StatusCode)
		}
		var l domain.Listing
		if err := json.NewDecoder(res.Body).Decode(&l); err != nil {
			t.Fatalf("decode: %v", err)
		}
		created = append(created, l)
	}

	res := send(t, http.MethodGet, ts.URL+"/v1/search/hotels?lang=ar&amenities=wifi", "", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("search status %d", res.StatusCode)
	}
	var body struct {
		Items []struct {
			ID           string `json:"id"`
			DisplayTitle string `json:"display_title"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 || body.Items[0].DisplayTitle != "بولمان زمزم" {
		t.Fatalf("unexpected search body: %+v", body)
	}
	if !mr.Exists("listings:hotel") {
		t.Fatal("expected per-kind snapshot in redis")
	}

	res = send(t, http.MethodPost, ts.URL+"/v1/bookings", "cust-1", "customer", map[string]any{
		"listing_id": created[0].ID, "guests": 2,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("booking status %d", res.StatusCode)
	}
	var b domain.Booking
	if err := json.NewDecoder(res.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Total != 900 {
		t.Fatalf("total = %v, want 900", b.Total)
	}
	if !mr.Exists("session:notifications:cust-1") {
		t.Fatal("expected booking notification persisted in redis")
	}
}
