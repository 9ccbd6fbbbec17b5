package handler_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avahart/kudos/internal/auth"
	"github.com/avahart/kudos/internal/config"
	"github.com/avahart/kudos/internal/model"
	"github.com/avahart/kudos/internal/server"
)

const testAdminToken = "test-admin-token"

// newTestServer builds the full stack — router, admin gate, service,
// in-memory SQLite — exactly as production wires it.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := server.New(config.Config{
		DBPath:     ":memory:",
		AdminToken: testAdminToken,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body, adminToken string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if adminToken != "" {
		req.Header.Set(auth.AdminTokenHeader, adminToken)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func registerForm(t *testing.T, h http.Handler, slug string) {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/forms",
		`{"creatorName":"Ava","title":"Ava's Studio","slug":"`+slug+`"}`, testAdminToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("registering form: status %d, body %s", rr.Code, rr.Body.String())
	}
}

func submit(t *testing.T, h http.Handler, slug, name, quote string) model.Submission {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/forms/"+slug+"/submissions",
		`{"name":"`+name+`","quote":"`+quote+`"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("submitting: status %d, body %s", rr.Code, rr.Body.String())
	}
	var res struct {
		Submission model.Submission `json:"submission"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decoding submission: %v", err)
	}
	return res.Submission
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestRegisterForm(t *testing.T) {
	h := newTestServer(t)

	t.Run("success returns form and creator", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms",
			`{"creatorName":"Ava","title":"Ava's Studio","slug":"demo"}`, testAdminToken)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Form    model.Form    `json:"form"`
			Creator model.Creator `json:"creator"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "demo", res.Form.Slug)
		assert.Equal(t, "Ava", res.Creator.Name)
		assert.Equal(t, res.Creator.ID, res.Form.CreatorID)
	})

	t.Run("missing field is 400", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms",
			`{"creatorName":"Ava","slug":"other"}`, testAdminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid JSON is 400", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms", `{"creatorName":`, testAdminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate slug is 409", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms",
			`{"creatorName":"Blake","title":"Blake's Studio","slug":"demo"}`, testAdminToken)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("no admin token is 401", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms",
			`{"creatorName":"Eve","title":"Eve's Studio","slug":"eve"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		// The gate ran before the engine: the form must not exist.
		rr = doJSON(t, h, http.MethodGet, "/forms/eve", "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetForm(t *testing.T) {
	h := newTestServer(t)
	registerForm(t, h, "demo")

	t.Run("returns public metadata with creator name", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/forms/demo", "", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Form model.FormDetail `json:"form"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "demo", res.Form.Slug)
		assert.Equal(t, "Ava", res.Form.CreatorName)
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/forms/missing", "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSubmitTestimonial(t *testing.T) {
	h := newTestServer(t)
	registerForm(t, h, "demo")

	t.Run("success returns pending submission", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms/demo/submissions",
			`{"name":"Taylor","quote":"Great product","role":"Founder","company":"Acme"}`, "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Submission model.Submission `json:"submission"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotZero(t, res.Submission.ID)
		assert.Equal(t, "Founder", res.Submission.Role)
		assert.Nil(t, res.Submission.ApprovedAt)
	})

	t.Run("missing quote is 400", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms/demo/submissions",
			`{"name":"Taylor"}`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown form is 404", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/forms/missing/submissions",
			`{"name":"Taylor","quote":"Great"}`, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAdminSubmissions(t *testing.T) {
	h := newTestServer(t)
	registerForm(t, h, "demo")
	submit(t, h, "demo", "Taylor", "Great product")

	t.Run("lists pending submissions with form", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/admin/submissions?slug=demo", "", testAdminToken)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Submissions []model.Submission `json:"submissions"`
			Form        model.Form         `json:"form"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Len(t, res.Submissions, 1)
		assert.Equal(t, "demo", res.Form.Slug)
	})

	t.Run("missing slug is 400", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/admin/submissions", "", testAdminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/admin/submissions?slug=missing", "", testAdminToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("wrong token is 401", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/admin/submissions?slug=demo", "", "wrong")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestApproveSubmission(t *testing.T) {
	h := newTestServer(t)
	registerForm(t, h, "demo")
	sub := submit(t, h, "demo", "Taylor", "Great product")
	id := strconv.FormatInt(sub.ID, 10)

	t.Run("wall is empty before approval", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/wall/demo", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Submissions []model.Submission `json:"submissions"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Empty(t, res.Submissions)
	})

	t.Run("approval returns updated submission", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/admin/submissions/"+id+"/approve", "", testAdminToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Submission model.Submission `json:"submission"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotNil(t, res.Submission.ApprovedAt)
	})

	t.Run("re-approval keeps the original timestamp", func(t *testing.T) {
		first := doJSON(t, h, http.MethodPost, "/admin/submissions/"+id+"/approve", "", testAdminToken)
		second := doJSON(t, h, http.MethodPost, "/admin/submissions/"+id+"/approve", "", testAdminToken)
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)

		var a, b struct {
			Submission model.Submission `json:"submission"`
		}
		assert.NoError(t, json.NewDecoder(first.Body).Decode(&a))
		assert.NoError(t, json.NewDecoder(second.Body).Decode(&b))
		assert.NotNil(t, a.Submission.ApprovedAt)
		assert.NotNil(t, b.Submission.ApprovedAt)
		assert.True(t, a.Submission.ApprovedAt.Equal(*b.Submission.ApprovedAt))
	})

	t.Run("approved submission appears on the wall exactly once", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/wall/demo", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Submissions []model.Submission `json:"submissions"`
			Form        model.Form         `json:"form"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Len(t, res.Submissions, 1)
		assert.Equal(t, sub.ID, res.Submissions[0].ID)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/admin/submissions/abc/approve", "", testAdminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("zero id is 400", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/admin/submissions/0/approve", "", testAdminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/admin/submissions/9999/approve", "", testAdminToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPost, "/admin/submissions/"+id+"/approve", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestWall(t *testing.T) {
	h := newTestServer(t)

	t.Run("unknown slug is 404", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/wall/missing", "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("wall never exposes pending submissions", func(t *testing.T) {
		registerForm(t, h, "demo")
		submit(t, h, "demo", "Pending One", "never approved")
		submit(t, h, "demo", "Pending Two", "also never approved")

		rr := doJSON(t, h, http.MethodGet, "/wall/demo", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Submissions []model.Submission `json:"submissions"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Empty(t, res.Submissions)
	})
}
