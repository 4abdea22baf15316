package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/models"
	"grantledger/internal/pagination"
	"grantledger/internal/services"
)

// --- mock receipt service ---

type mockReceiptService struct {
	addReceiptFn    func(actor models.User, projectID string, input services.ReceiptInput) (*models.Receipt, error)
	getReceiptFn    func(actor models.User, receiptID string) (*models.Receipt, error)
	listReceiptsFn  func(actor models.User, projectID string, filter services.ReceiptFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Receipt], error)
	updateReceiptFn func(actor models.User, receiptID string, update services.ReceiptUpdate) (*models.Receipt, error)
	deleteReceiptFn func(actor models.User, receiptID string) error
	setVerifiedFn   func(actor models.User, receiptID string, verified bool) (*models.Receipt, error)
}

func (m *mockReceiptService) AddReceipt(_ context.Context, actor models.User, projectID string, input services.ReceiptInput) (*models.Receipt, error) {
	if m.addReceiptFn != nil {
		return m.addReceiptFn(actor, projectID, input)
	}
	return &models.Receipt{}, nil
}

func (m *mockReceiptService) GetReceipt(actor models.User, receiptID string) (*models.Receipt, error) {
	if m.getReceiptFn != nil {
		return m.getReceiptFn(actor, receiptID)
	}
	return &models.Receipt{ID: receiptID}, nil
}

func (m *mockReceiptService) ListReceipts(actor models.User, projectID string, filter services.ReceiptFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Receipt], error) {
	if m.listReceiptsFn != nil {
		return m.listReceiptsFn(actor, projectID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Receipt{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockReceiptService) UpdateReceipt(_ context.Context, actor models.User, receiptID string, update services.ReceiptUpdate) (*models.Receipt, error) {
	if m.updateReceiptFn != nil {
		return m.updateReceiptFn(actor, receiptID, update)
	}
	return &models.Receipt{ID: receiptID}, nil
}

func (m *mockReceiptService) DeleteReceipt(_ context.Context, actor models.User, receiptID string) error {
	if m.deleteReceiptFn != nil {
		return m.deleteReceiptFn(actor, receiptID)
	}
	return nil
}

func (m *mockReceiptService) SetVerified(_ context.Context, actor models.User, receiptID string, verified bool) (*models.Receipt, error) {
	if m.setVerifiedFn != nil {
		return m.setVerifiedFn(actor, receiptID, verified)
	}
	return &models.Receipt{ID: receiptID, IsVerified: verified}, nil
}

var _ services.ReceiptServicer = (*mockReceiptService)(nil)

func setupReceiptRouter(handler *ReceiptHandler, actor models.User) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectActor(actor))
	auth.GET("/projects/:id/receipts", handler.GetReceipts)
	auth.POST("/projects/:id/receipts", handler.CreateReceipt)
	auth.GET("/receipts/:id", handler.GetReceipt)
	auth.PUT("/receipts/:id", handler.UpdateReceipt)
	auth.DELETE("/receipts/:id", handler.DeleteReceipt)
	auth.PUT("/receipts/:id/verification", handler.SetVerification)
	return r
}

func TestReceiptHandler_CreateReceipt(t *testing.T) {
	t.Run("returns 201 and parses a plain date", func(t *testing.T) {
		svc := &mockReceiptService{
			addReceiptFn: func(actor models.User, projectID string, input services.ReceiptInput) (*models.Receipt, error) {
				want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
				if !input.Date.Equal(want) {
					t.Errorf("expected %v, got %v", want, input.Date)
				}
				return &models.Receipt{ID: "r-1", ProjectID: projectID, BudgetItemID: input.BudgetItemID, Amount: input.Amount, CreatedBy: actor.Username}, nil
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testFinance)

		rec := doRequest(r, "POST", "/projects/proj-1/receipts",
			`{"budget_item_id":"b-1","amount":250000,"description":"Train","spj_link":"https://drive.example.com/spj.pdf","date":"2024-03-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		receipt := parseJSON(t, rec)["receipt"].(map[string]interface{})
		if receipt["created_by"] != "user_1" || receipt["amount"].(float64) != 250000 {
			t.Errorf("unexpected receipt: %v", receipt)
		}
	})

	t.Run("returns 400 with headroom on insufficient balance", func(t *testing.T) {
		svc := &mockReceiptService{
			addReceiptFn: func(_ models.User, _ string, _ services.ReceiptInput) (*models.Receipt, error) {
				return nil, apperrors.WithHeadroom(apperrors.ErrInsufficientRabBudget, "over", 400)
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testFinance)

		rec := doRequest(r, "POST", "/projects/proj-1/receipts", `{"budget_item_id":"b-1","amount":500}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INSUFFICIENT_CATEGORY_BALANCE")
		if result["error"].(map[string]interface{})["headroom"].(float64) != 400 {
			t.Errorf("expected headroom 400, got %v", result)
		}
	})

	t.Run("returns 400 on missing budget item", func(t *testing.T) {
		svc := &mockReceiptService{
			addReceiptFn: func(_ models.User, _ string, input services.ReceiptInput) (*models.Receipt, error) {
				if input.BudgetItemID != "" {
					t.Errorf("expected empty budget item, got %q", input.BudgetItemID)
				}
				return nil, apperrors.ErrBudgetItemRequired
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testFinance)

		rec := doRequest(r, "POST", "/projects/proj-1/receipts", `{"amount":500}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_ITEM_REQUIRED")
	})

	t.Run("returns 400 on invalid spj link", func(t *testing.T) {
		r := setupReceiptRouter(NewReceiptHandler(&mockReceiptService{}), testFinance)

		rec := doRequest(r, "POST", "/projects/proj-1/receipts", `{"budget_item_id":"b-1","amount":1,"spj_link":"ftp://x"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupReceiptRouter(NewReceiptHandler(&mockReceiptService{}), testFinance)

		rec := doRequest(r, "POST", "/projects/proj-1/receipts", `{"budget_item_id":"b-1","amount":1,"date":"15/03/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestReceiptHandler_GetReceipts(t *testing.T) {
	t.Run("passes verified filter", func(t *testing.T) {
		svc := &mockReceiptService{
			listReceiptsFn: func(_ models.User, _ string, filter services.ReceiptFilter, _ pagination.PageRequest) (*pagination.PageResponse[models.Receipt], error) {
				if filter.IsVerified == nil || *filter.IsVerified {
					t.Errorf("expected is_verified=false filter")
				}
				if filter.BudgetItemID != "b-1" {
					t.Errorf("expected budget item filter, got %q", filter.BudgetItemID)
				}
				resp := pagination.NewPageResponse([]models.Receipt{{ID: "r-1"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testVerifier)

		rec := doRequest(r, "GET", "/projects/proj-1/receipts?is_verified=false&budget_item_id=b-1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid filter", func(t *testing.T) {
		r := setupReceiptRouter(NewReceiptHandler(&mockReceiptService{}), testVerifier)

		rec := doRequest(r, "GET", "/projects/proj-1/receipts?is_verified=maybe", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestReceiptHandler_UpdateReceipt(t *testing.T) {
	t.Run("maps only provided fields", func(t *testing.T) {
		svc := &mockReceiptService{
			updateReceiptFn: func(_ models.User, id string, update services.ReceiptUpdate) (*models.Receipt, error) {
				if update.Amount == nil || *update.Amount != 700 {
					t.Errorf("expected amount 700")
				}
				if update.BudgetItemID != nil || update.Description != nil || update.Date != nil {
					t.Errorf("unexpected fields set: %+v", update)
				}
				return &models.Receipt{ID: id, Amount: *update.Amount}, nil
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testFinance)

		rec := doRequest(r, "PUT", "/receipts/r-1", `{"amount":700}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("passes empty spj link to clear it", func(t *testing.T) {
		svc := &mockReceiptService{
			updateReceiptFn: func(_ models.User, id string, update services.ReceiptUpdate) (*models.Receipt, error) {
				if update.SPJLink == nil || *update.SPJLink != "" {
					t.Errorf("expected empty spj link, got %v", update.SPJLink)
				}
				return &models.Receipt{ID: id}, nil
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testFinance)

		rec := doRequest(r, "PUT", "/receipts/r-1", `{"spj_link":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 when verified", func(t *testing.T) {
		svc := &mockReceiptService{
			updateReceiptFn: func(_ models.User, _ string, _ services.ReceiptUpdate) (*models.Receipt, error) {
				return nil, apperrors.ErrReceiptLocked
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testFinance)

		rec := doRequest(r, "PUT", "/receipts/r-1", `{"amount":700}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECEIPT_LOCKED")
	})
}

func TestReceiptHandler_DeleteReceipt(t *testing.T) {
	svc := &mockReceiptService{
		deleteReceiptFn: func(_ models.User, _ string) error { return apperrors.ErrReceiptNotFound },
	}
	r := setupReceiptRouter(NewReceiptHandler(svc), testFinance)

	rec := doRequest(r, "DELETE", "/receipts/r-404", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "RECEIPT_NOT_FOUND")
}

func TestReceiptHandler_SetVerification(t *testing.T) {
	t.Run("sets flag", func(t *testing.T) {
		var got *bool
		svc := &mockReceiptService{
			setVerifiedFn: func(_ models.User, id string, verified bool) (*models.Receipt, error) {
				got = &verified
				return &models.Receipt{ID: id, IsVerified: verified}, nil
			},
		}
		r := setupReceiptRouter(NewReceiptHandler(svc), testVerifier)

		rec := doRequest(r, "PUT", "/receipts/r-1/verification", `{"is_verified":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || !*got {
			t.Error("expected verified=true to reach the service")
		}
	})

	t.Run("false is a valid value", func(t *testing.T) {
		r := setupReceiptRouter(NewReceiptHandler(&mockReceiptService{}), testVerifier)

		rec := doRequest(r, "PUT", "/receipts/r-1/verification", `{"is_verified":false}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["receipt"].(map[string]interface{})["is_verified"] != false {
			t.Error("expected unverified receipt")
		}
	})

	t.Run("returns 400 without flag", func(t *testing.T) {
		r := setupReceiptRouter(NewReceiptHandler(&mockReceiptService{}), testVerifier)

		rec := doRequest(r, "PUT", "/receipts/r-1/verification", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
