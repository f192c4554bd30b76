package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/newtown/billsplitter/internal/extraction"
	"github.com/newtown/billsplitter/internal/ledger"
	"github.com/newtown/billsplitter/internal/models"
	"github.com/newtown/billsplitter/internal/storage"
)

func setupTestServer(t *testing.T, extractor extraction.Extractor) (*gin.Engine, *ledger.Ledger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	l, err := ledger.New(context.Background(), store)
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	if extractor == nil {
		extractor = &extraction.Stub{}
	}
	return New(l, extractor, nil).Router(), l
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestServer(t, nil)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMemberEndpoints(t *testing.T) {
	router, _ := setupTestServer(t, nil)

	t.Run("add member", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/members", gin.H{"name": "Alice", "emoji": "🍕"})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var member models.Member
		decode(t, w, &member)
		if member.ID == 0 || member.Name != "Alice" || member.Color == "" {
			t.Errorf("unexpected member: %+v", member)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/members", gin.H{"name": "   "})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("list members", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/members", nil)
		var resp struct {
			Members []models.Member `json:"members"`
		}
		decode(t, w, &resp)
		if len(resp.Members) != 1 {
			t.Errorf("expected 1 member, got %d", len(resp.Members))
		}
	})

	t.Run("remove unknown member", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/members/424242", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestBillFlow(t *testing.T) {
	router, _ := setupTestServer(t, nil)

	var alice, bob models.Member
	w := doJSON(t, router, http.MethodPost, "/members", gin.H{"name": "Alice"})
	decode(t, w, &alice)
	w = doJSON(t, router, http.MethodPost, "/members", gin.H{"name": "Bob"})
	decode(t, w, &bob)

	var pizza models.Item
	w = doJSON(t, router, http.MethodPost, "/items", gin.H{"name": "Pizza", "price": 20.00})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &pizza)
	if len(pizza.AssignedTo) != 2 {
		t.Fatalf("expected auto-assignment to both members, got %v", pizza.AssignedTo)
	}

	w = doJSON(t, router, http.MethodPut, "/discount", gin.H{"percentage": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	t.Run("totals", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/totals", nil)
		var resp struct {
			Subtotal          decimal.Decimal `json:"subtotal"`
			DiscountAmount    decimal.Decimal `json:"discountAmount"`
			FinalTotal        decimal.Decimal `json:"finalTotal"`
			PerPersonAmount   decimal.Decimal `json:"perPersonAmount"`
			SubtotalFormatted string          `json:"subtotalFormatted"`
			DiscountFormatted string          `json:"discountFormatted"`
		}
		decode(t, w, &resp)
		if !resp.Subtotal.Equal(decimal.RequireFromString("20")) {
			t.Errorf("subtotal = %s, want 20", resp.Subtotal)
		}
		if !resp.DiscountAmount.Equal(decimal.RequireFromString("2")) {
			t.Errorf("discountAmount = %s, want 2", resp.DiscountAmount)
		}
		if !resp.FinalTotal.Equal(decimal.RequireFromString("18")) {
			t.Errorf("finalTotal = %s, want 18", resp.FinalTotal)
		}
		if !resp.PerPersonAmount.Equal(decimal.RequireFromString("9")) {
			t.Errorf("perPersonAmount = %s, want 9", resp.PerPersonAmount)
		}
		if resp.SubtotalFormatted != "£20.00" {
			t.Errorf("subtotalFormatted = %q, want £20.00", resp.SubtotalFormatted)
		}
		if resp.DiscountFormatted != "-£2.00 (10%)" {
			t.Errorf("discountFormatted = %q, want -£2.00 (10%%)", resp.DiscountFormatted)
		}
	})

	t.Run("breakdowns", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/breakdowns", nil)
		var resp struct {
			Breakdowns []struct {
				MemberName    string          `json:"memberName"`
				Subtotal      decimal.Decimal `json:"subtotal"`
				DiscountShare decimal.Decimal `json:"discountShare"`
				FinalAmount   decimal.Decimal `json:"finalAmount"`
			} `json:"breakdowns"`
		}
		decode(t, w, &resp)
		if len(resp.Breakdowns) != 2 {
			t.Fatalf("expected 2 breakdowns, got %d", len(resp.Breakdowns))
		}
		for _, b := range resp.Breakdowns {
			if !b.Subtotal.Equal(decimal.RequireFromString("10")) {
				t.Errorf("%s subtotal = %s, want 10", b.MemberName, b.Subtotal)
			}
			if !b.FinalAmount.Equal(decimal.RequireFromString("9")) {
				t.Errorf("%s final = %s, want 9", b.MemberName, b.FinalAmount)
			}
		}
	})

	t.Run("assignment toggle", func(t *testing.T) {
		path := fmt.Sprintf("/items/%d/assignments/%d", pizza.ID, bob.ID)
		w := doJSON(t, router, http.MethodPut, path, gin.H{"assigned": false})
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}

		w = doJSON(t, router, http.MethodGet, "/items", nil)
		var resp struct {
			Items []models.Item `json:"items"`
		}
		decode(t, w, &resp)
		if len(resp.Items[0].AssignedTo) != 1 {
			t.Errorf("expected single assignee, got %v", resp.Items[0].AssignedTo)
		}
	})

	t.Run("split evenly", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/items/%d/split-evenly", pizza.ID), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var item models.Item
		decode(t, w, &item)
		if len(item.AssignedTo) != 2 {
			t.Errorf("expected both members assigned, got %v", item.AssignedTo)
		}
	})

	t.Run("update item", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/items/%d", pizza.ID), gin.H{"name": "Calzone"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var item models.Item
		decode(t, w, &item)
		if item.Name != "Calzone" {
			t.Errorf("expected renamed item, got %q", item.Name)
		}
	})

	t.Run("unknown item yields 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, "/items/424242", gin.H{"name": "Ghost"})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("clear items keeps members", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/items", nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}

		w = doJSON(t, router, http.MethodGet, "/members", nil)
		var resp struct {
			Members []models.Member `json:"members"`
		}
		decode(t, w, &resp)
		if len(resp.Members) != 2 {
			t.Errorf("expected members kept, got %d", len(resp.Members))
		}
	})

	t.Run("clear bill removes everything", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/bill", nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}

		w = doJSON(t, router, http.MethodGet, "/members", nil)
		var resp struct {
			Members []models.Member `json:"members"`
		}
		decode(t, w, &resp)
		if len(resp.Members) != 0 {
			t.Errorf("expected no members, got %d", len(resp.Members))
		}
	})
}

func uploadReceipt(t *testing.T, router *gin.Engine) ReceiptJob {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "receipt.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0}); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/receipts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var job ReceiptJob
	decode(t, w, &job)
	return job
}

func waitForJob(t *testing.T, router *gin.Engine, id string) ReceiptJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		w := doJSON(t, router, http.MethodGet, "/receipts/"+id, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 polling job, got %d", w.Code)
		}
		var job ReceiptJob
		decode(t, w, &job)
		if job.Status != JobProcessing {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return ReceiptJob{}
}

func TestReceiptUpload(t *testing.T) {
	stub := &extraction.Stub{
		Items: []models.ExtractedItem{
			{Name: "Pizza", Price: decimal.RequireFromString("12.99"), Type: models.ItemTypeItem},
			{Name: "Meal deal", Price: decimal.RequireFromString("-3.00"), Type: models.ItemTypeDeal},
		},
	}
	router, l := setupTestServer(t, stub)

	doJSON(t, router, http.MethodPost, "/members", gin.H{"name": "Alice"})
	// Pre-existing items are replaced by a new receipt.
	doJSON(t, router, http.MethodPost, "/items", gin.H{"name": "Stale", "price": 1.00})

	job := uploadReceipt(t, router)
	done := waitForJob(t, router, job.ID)

	if done.Status != JobDone {
		t.Fatalf("expected done, got %s (%s)", done.Status, done.Error)
	}
	if done.ItemCount != 2 {
		t.Errorf("expected 2 items ingested, got %d", done.ItemCount)
	}

	items := l.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items on the bill, got %d", len(items))
	}
	if items[0].Name != "Pizza" || items[1].Name != "Meal deal" {
		t.Errorf("unexpected items: %s, %s", items[0].Name, items[1].Name)
	}
	for _, item := range items {
		if len(item.AssignedTo) != 1 {
			t.Errorf("%s: expected auto-assignment to Alice, got %v", item.Name, item.AssignedTo)
		}
	}
}

func TestReceiptUploadExtractionFailure(t *testing.T) {
	stub := &extraction.Stub{Err: &extraction.ExtractionError{Stage: "request", Err: errors.New("network down")}}
	router, l := setupTestServer(t, stub)

	job := uploadReceipt(t, router)
	done := waitForJob(t, router, job.ID)

	if done.Status != JobFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}
	if done.Error == "" {
		t.Error("expected error message on failed job")
	}

	items := l.Items()
	if len(items) != 1 {
		t.Fatalf("expected error placeholder item, got %d items", len(items))
	}
	if items[0].Name == "" || !items[0].Price.IsZero() {
		t.Errorf("unexpected placeholder: %+v", items[0])
	}

	t.Run("unknown job yields 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/receipts/no-such-job", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
