package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"grantledger/internal/config"
	"grantledger/internal/logger"
	"grantledger/internal/persistence"
	"grantledger/internal/seed"
	"grantledger/internal/services"
	"grantledger/internal/validator"
)

// testApp holds the full application stack on a memory blob store.
type testApp struct {
	Router *gin.Engine
	Repo   *persistence.Repository
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{JWTSecret: "server-test-secret", JWTExpirationDur: time.Hour})
}

// setupApp seeds two demo projects and builds the router over them.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	repo := persistence.NewRepository(persistence.NewMemoryBlobStore())
	l, found, err := services.OpenLedger(context.Background(), repo)
	if err != nil || found {
		t.Fatalf("expected empty repository, found=%v err=%v", found, err)
	}

	snap, users := seed.Demo(2, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := l.Replace(context.Background(), snap); err != nil {
		t.Fatalf("seed: %v", err)
	}

	return &testApp{
		Router: NewRouter(NewServices(l, services.NewUserService(users))),
		Repo:   repo,
	}
}

func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func (app *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/auth/login", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s failed: %d %s", username, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	return errObj
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	rec := app.request("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReceiptFlow(t *testing.T) {
	app := setupApp(t)
	finance := app.login(t, "user_1", "pass_1")
	verifier := app.login(t, "verif_1", "vpass_1")
	const travel = "b-proj-1-3" // 20,000,000

	// Step 1: book 15M, then try to overshoot the remaining 5M
	rec := app.request("POST", "/api/v1/projects/proj-1/receipts",
		fmt.Sprintf(`{"budget_item_id":%q,"amount":15000000,"description":"Field trip","date":"2024-02-01"}`, travel), finance)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	receiptID := parseJSON(t, rec)["receipt"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", "/api/v1/projects/proj-1/receipts",
		fmt.Sprintf(`{"budget_item_id":%q,"amount":6000000}`, travel), finance)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := errorOf(t, rec)
	if errObj["code"] != "INSUFFICIENT_CATEGORY_BALANCE" || errObj["headroom"].(float64) != 5_000_000 {
		t.Errorf("unexpected rejection: %v", errObj)
	}

	// Step 2: verification moves the receipt into realization
	rec = app.request("PUT", "/api/v1/receipts/"+receiptID+"/verification", `{"is_verified":true}`, verifier)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/projects/proj-1/summary", "", finance)
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["realization"].(float64) != 15_000_000 || summary["remaining"].(float64) != 85_000_000 {
		t.Errorf("unexpected summary after verify: %v", summary)
	}

	// Step 3: verified receipts are locked for finance
	rec = app.request("PUT", "/api/v1/receipts/"+receiptID, `{"amount":20000000}`, finance)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	// Step 4: unverify, then raise to the full allocation
	rec = app.request("PUT", "/api/v1/receipts/"+receiptID+"/verification", `{"is_verified":false}`, verifier)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = app.request("PUT", "/api/v1/receipts/"+receiptID, `{"amount":20000000}`, finance)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/budget-items/"+travel+"/stats", "", verifier)
	stats := parseJSON(t, rec)["stats"].(map[string]interface{})
	if stats["remaining"].(float64) != 0 || stats["percent"].(float64) != 100 {
		t.Errorf("unexpected stats: %v", stats)
	}

	// Step 5: the category can no longer be deleted or shrunk below spend
	rec = app.request("DELETE", "/api/v1/budget-items/"+travel, "", finance)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	rec = app.request("PUT", "/api/v1/budget-items/"+travel, `{"allocated_amount":1}`, finance)
	if rec.Code != http.StatusBadRequest || errorOf(t, rec)["code"] != "ALLOCATION_BELOW_SPENT" {
		t.Fatalf("expected ALLOCATION_BELOW_SPENT, got %d %s", rec.Code, rec.Body.String())
	}

	// Step 6: the list shows one unverified receipt
	rec = app.request("GET", "/api/v1/projects/proj-1/receipts?is_verified=false", "", finance)
	if got := parseJSON(t, rec)["total_items"].(float64); got != 1 {
		t.Errorf("expected 1 unverified receipt, got %v", got)
	}
}

func TestProjectFlow(t *testing.T) {
	app := setupApp(t)
	admin := app.login(t, "admin", "password")

	rec := app.request("POST", "/api/v1/projects", `{"project_name":"Odd Funding","leader_name":"Dr. Odd","total_funding":999}`, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	projectID := parseJSON(t, rec)["project"].(map[string]interface{})["id"].(string)

	rec = app.request("GET", "/api/v1/projects/"+projectID+"/budget-items", "", admin)
	items := parseJSON(t, rec)["budget_items"].([]interface{})
	var total float64
	for _, it := range items {
		total += it.(map[string]interface{})["allocated_amount"].(float64)
	}
	if len(items) != 5 || total != 999 {
		t.Errorf("expected 5 default items summing to 999, got %d / %.0f", len(items), total)
	}

	rec = app.request("GET", "/api/v1/projects?search=dr.%20odd", "", admin)
	if got := parseJSON(t, rec)["total_items"].(float64); got != 1 {
		t.Errorf("expected 1 search hit, got %v", got)
	}

	rec = app.request("PUT", "/api/v1/projects/"+projectID, `{"project_name":"Odd Funding","total_funding":998}`, admin)
	if rec.Code != http.StatusBadRequest || errorOf(t, rec)["code"] != "FUNDING_BELOW_ALLOCATED" {
		t.Fatalf("expected FUNDING_BELOW_ALLOCATED, got %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", "/api/v1/projects/"+projectID, "", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = app.request("GET", "/api/v1/projects/"+projectID, "", admin)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAuthorization(t *testing.T) {
	app := setupApp(t)
	finance := app.login(t, "user_1", "pass_1")
	verifier := app.login(t, "verif_1", "vpass_1")
	admin := app.login(t, "admin", "password")

	tests := []struct {
		name, method, path, body, token string
		want                            int
	}{
		{"no_token", "GET", "/api/v1/projects", "", "", http.StatusUnauthorized},
		{"finance_other_project", "GET", "/api/v1/projects/proj-2", "", finance, http.StatusForbidden},
		{"finance_overview", "GET", "/api/v1/overview", "", finance, http.StatusForbidden},
		{"finance_create_project", "POST", "/api/v1/projects", `{"project_name":"X","total_funding":1}`, finance, http.StatusForbidden},
		{"verifier_books_receipt", "POST", "/api/v1/projects/proj-1/receipts", `{"budget_item_id":"b-proj-1-1","amount":1}`, verifier, http.StatusForbidden},
		{"admin_books_receipt", "POST", "/api/v1/projects/proj-1/receipts", `{"budget_item_id":"b-proj-1-1","amount":1}`, admin, http.StatusForbidden},
		{"verifier_export", "GET", "/api/v1/reports/realization.csv", "", verifier, http.StatusForbidden},
		{"admin_overview", "GET", "/api/v1/overview", "", admin, http.StatusOK},
		{"finance_own_project", "GET", "/api/v1/projects/proj-1", "", finance, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.request(tt.method, tt.path, tt.body, tt.token)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("scoped_list", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/projects", "", finance)
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 || data[0].(map[string]interface{})["id"] != "proj-1" {
			t.Errorf("finance should only see proj-1, got %v", data)
		}
	})
}

func TestExports(t *testing.T) {
	app := setupApp(t)
	admin := app.login(t, "admin", "password")

	rec := app.request("GET", "/api/v1/reports/realization.csv", "", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dr. Researcher 2") {
		t.Errorf("expected both projects in export: %s", rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/reports/realization.xlsx", "", admin)
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Fatalf("expected workbook, got %d (%d bytes)", rec.Code, rec.Body.Len())
	}
}

func TestWritesArePersisted(t *testing.T) {
	app := setupApp(t)
	finance := app.login(t, "user_1", "pass_1")

	rec := app.request("POST", "/api/v1/projects/proj-1/receipts", `{"budget_item_id":"b-proj-1-1","amount":1234}`, finance)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	reopened, found, err := services.OpenLedger(context.Background(), app.Repo)
	if err != nil || !found {
		t.Fatalf("reopen: found=%v err=%v", found, err)
	}
	snap := reopened.Snapshot()
	if len(snap.Receipts) != 1 || snap.Receipts[0].Amount != 1234 {
		t.Errorf("expected persisted receipt, got %+v", snap.Receipts)
	}
	if len(snap.Projects) != 2 || len(snap.BudgetItems) != 10 {
		t.Errorf("unexpected persisted collections: %d projects, %d items", len(snap.Projects), len(snap.BudgetItems))
	}
}

func TestReceiptInputEdges(t *testing.T) {
	app := setupApp(t)
	finance := app.login(t, "user_1", "pass_1")

	t.Run("clear_spj_link", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/projects/proj-1/receipts",
			`{"budget_item_id":"b-proj-1-2","amount":1000,"spj_link":"https://drive.example.com/spj/1.pdf"}`, finance)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		receiptID := parseJSON(t, rec)["receipt"].(map[string]interface{})["id"].(string)

		rec = app.request("PUT", "/api/v1/receipts/"+receiptID, `{"spj_link":""}`, finance)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/receipts/"+receiptID, "", finance)
		receipt := parseJSON(t, rec)["receipt"].(map[string]interface{})
		if link, ok := receipt["spj_link"]; ok && link != "" {
			t.Errorf("expected spj link cleared, got %v", link)
		}
	})

	t.Run("missing_budget_item", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/projects/proj-1/receipts", `{"amount":1000}`, finance)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if code := errorOf(t, rec)["code"]; code != "BUDGET_ITEM_REQUIRED" {
			t.Errorf("expected BUDGET_ITEM_REQUIRED, got %v", code)
		}
	})

	t.Run("funding_above_cap", func(t *testing.T) {
		admin := app.login(t, "admin", "password")
		rec := app.request("POST", "/api/v1/projects", `{"project_name":"Huge","total_funding":9223372036854775807}`, admin)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
