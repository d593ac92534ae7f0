package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	mw := RequestID()
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Fatal("expected request_id to be set on context")
	}
	if rec.Header().Get(RequestIDHeader) != rid {
		t.Errorf("expected response header %q to echo request id %q", rec.Header().Get(RequestIDHeader), rid)
	}
}

func TestRequestID_HonorsClientProvided(t *testing.T) {
	e := echo.New()
	mw := RequestID()
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-rid-42")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid != "client-rid-42" {
		t.Errorf("expected client-provided request id, got %q", rid)
	}
}
