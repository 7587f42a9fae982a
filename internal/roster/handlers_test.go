package roster

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func TestRosterHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, username, mobile, email, role`).
		WithArgs(PageSize, 7).
		WillReturnRows(pageRows("u08", "u09"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(9))

	app := fiber.New()
	RegisterRoutes(app.Group("/admin"), NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/admin/?page=2", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("roster status: %v %v", resp.StatusCode, err)
	}

	var payload struct {
		Users   []Entry `json:"users"`
		Current int     `json:"current"`
		Pages   int     `json:"pages"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Users) != 2 || payload.Current != 2 || payload.Pages != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestRosterHandlerDefaultsPage(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, username, mobile, email, role`).
		WithArgs(PageSize, 0).
		WillReturnRows(pageRows("u01"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	app := fiber.New()
	RegisterRoutes(app.Group("/admin"), NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("roster status: %v %v", resp.StatusCode, err)
	}
}

func TestRosterHandlerError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, username, mobile, email, role`).
		WithArgs(PageSize, 0).
		WillReturnError(errRoster)

	app := fiber.New()
	RegisterRoutes(app.Group("/admin"), NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v %v", resp.StatusCode, err)
	}
}
