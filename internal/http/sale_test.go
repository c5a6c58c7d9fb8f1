package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"counterpos/internal/config"
)

type saleResp struct {
	ID         string `json:"id"`
	SaleNumber string `json:"sale_number"`
	Subtotal   string `json:"subtotal"`
	Discount   string `json:"discount"`
	Total      string `json:"total"`
	Status     string `json:"status"`
	Items      []struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
		Total     string `json:"total"`
		Position  int    `json:"position"`
	} `json:"items"`
}

var scenarioCart = map[string]any{
	"items": []map[string]any{
		{"product_id": "p-shampoo", "quantity": 2, "unit_price": "15.99"},
		{"product_id": "p-dryer", "quantity": 1, "unit_price": "45.99"},
	},
	"discount":      "5.00",
	"customer_name": "Jo Walker",
}

func TestSubmitSaleCreated(t *testing.T) {
	app, db, users := newTestApp(t, config.Config{})
	sid := session(t, users, "u-sales")

	resp, body := send(t, app, "POST", "/api/v1/sales", scenarioCart, sid)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", resp.StatusCode, body)
	}
	var sale saleResp
	decode(t, body, &sale)
	if sale.Subtotal != "77.97" || sale.Total != "72.97" {
		t.Fatalf("totals = %s / %s, want 77.97 / 72.97", sale.Subtotal, sale.Total)
	}
	if sale.Status != "completed" || !strings.HasPrefix(sale.SaleNumber, "S-") {
		t.Fatalf("unexpected sale header: %+v", sale)
	}
	if len(sale.Items) != 2 || sale.Items[0].ProductID != "p-shampoo" || sale.Items[1].Position != 2 {
		t.Fatalf("unexpected items: %+v", sale.Items)
	}

	var shampoo, dryer int
	_ = db.Get(&shampoo, `SELECT stock_quantity FROM products WHERE id='p-shampoo'`)
	_ = db.Get(&dryer, `SELECT stock_quantity FROM products WHERE id='p-dryer'`)
	if shampoo != 38 || dryer != 11 {
		t.Fatalf("stock after sale = %d / %d, want 38 / 11", shampoo, dryer)
	}

	resp, body = send(t, app, "GET", "/api/v1/sales/"+sale.ID, nil, sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detail expected 200, got %d", resp.StatusCode)
	}
	var detail saleResp
	decode(t, body, &detail)
	if detail.SaleNumber != sale.SaleNumber || len(detail.Items) != 2 || detail.Items[0].Total != "31.98" {
		t.Fatalf("detail mismatch: %+v", detail)
	}

	resp, body = send(t, app, "GET", "/api/v1/sales", nil, sid)
	var list struct {
		Sales []saleResp `json:"sales"`
		Count int        `json:"count"`
	}
	decode(t, body, &list)
	if resp.StatusCode != http.StatusOK || list.Count != 1 || list.Sales[0].ID != sale.ID {
		t.Fatalf("list mismatch: %d %s", resp.StatusCode, body)
	}

	if resp, _ := send(t, app, "GET", "/api/v1/sales/does-not-exist", nil, sid); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown sale expected 404, got %d", resp.StatusCode)
	}
}

func TestSubmitSaleRequiresIdentity(t *testing.T) {
	app, db, users := newTestApp(t, config.Config{})

	resp, body := send(t, app, "POST", "/api/v1/sales", scenarioCart, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous expected 401, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "unauthenticated") {
		t.Fatalf("expected unauthenticated reason, body=%s", body)
	}

	sid := session(t, users, "u-former")
	if resp, _ := send(t, app, "POST", "/api/v1/sales", scenarioCart, sid); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("inactive staff expected 403, got %d", resp.StatusCode)
	}

	var n int
	_ = db.Get(&n, `SELECT COUNT(*) FROM sales`)
	if n != 0 {
		t.Fatalf("expected no sales, found %d", n)
	}
}

func TestSubmitSaleInsufficientStock(t *testing.T) {
	app, db, users := newTestApp(t, config.Config{})
	sid := session(t, users, "u-sales")

	entries := captureLogs(t, func() {
		resp, body := send(t, app, "POST", "/api/v1/sales", map[string]any{
			"items": []map[string]any{{"product_id": "p-comb", "quantity": 5, "unit_price": "3.50"}},
		}, sid)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d body=%s", resp.StatusCode, body)
		}
		var out struct {
			Error     string `json:"error"`
			ProductID string `json:"product_id"`
			Available int    `json:"available"`
			Requested int    `json:"requested"`
		}
		decode(t, body, &out)
		if out.Error != "insufficient_stock" || out.ProductID != "p-comb" || out.Available != 3 || out.Requested != 5 {
			t.Fatalf("unexpected body: %+v", out)
		}
	})
	if _, ok := findLog(entries, "sale.commit.reject"); !ok {
		t.Fatalf("sale.commit.reject log not found")
	}

	var qty, n int
	_ = db.Get(&qty, `SELECT stock_quantity FROM products WHERE id='p-comb'`)
	_ = db.Get(&n, `SELECT COUNT(*) FROM sales`)
	if qty != 3 || n != 0 {
		t.Fatalf("state changed: stock=%d sales=%d", qty, n)
	}
}

func TestSubmitSaleRejectsBadInput(t *testing.T) {
	app, _, users := newTestApp(t, config.Config{})
	sid := session(t, users, "u-sales")

	cases := map[string]any{
		"empty cart":    map[string]any{"items": []any{}},
		"malformed":     "{not json",
		"bad id":        map[string]any{"items": []map[string]any{{"product_id": "<script>", "quantity": 1, "unit_price": "1"}}},
		"bad phone":     map[string]any{"items": scenarioCart["items"], "customer_phone": "call me"},
		"long name":     map[string]any{"items": scenarioCart["items"], "customer_name": strings.Repeat("x", 61)},
		"over discount": map[string]any{"items": scenarioCart["items"], "discount": "100.00"},
		"zero quantity": map[string]any{"items": []map[string]any{{"product_id": "p-comb", "quantity": 0, "unit_price": "3.50"}}},
		"inactive":      map[string]any{"items": []map[string]any{{"product_id": "p-gel", "quantity": 1, "unit_price": "6.00"}}},
	}
	for name, body := range cases {
		resp, raw := send(t, app, "POST", "/api/v1/sales", body, sid)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d body=%s", name, resp.StatusCode, raw)
		}
	}
}

func TestSaleCommitLogged(t *testing.T) {
	app, _, users := newTestApp(t, config.Config{})
	sid := session(t, users, "u-manager")

	entries := captureLogs(t, func() {
		send(t, app, "POST", "/api/v1/sales", scenarioCart, sid)
	})
	e, ok := findLog(entries, "sale.commit")
	if !ok {
		t.Fatalf("sale.commit log not found")
	}
	if e.Level != "audit" || e.UserID != "u-manager" || e.Status != http.StatusCreated {
		t.Fatalf("unexpected entry: %+v", e)
	}
	for _, k := range []string{"sale_id", "sale_number", "total"} {
		if _, ok := e.Fields[k]; !ok {
			t.Fatalf("sale.commit missing %s", k)
		}
	}
	if e.Fields["total"] != "72.97" {
		t.Fatalf("sale.commit total = %v", e.Fields["total"])
	}
}

// Identity is checked before the body is read: anonymous callers get 401 and
// a sales account gets 403 on stock adjustment, whatever the payload.
func TestGuardRunsBeforeBodyValidation(t *testing.T) {
	app, _, users := newTestApp(t, config.Config{})
	salesSID := session(t, users, "u-sales")

	cases := []struct {
		name, method, path string
		body               any
		sid                string
		want               int
	}{
		{"anonymous malformed sale", "POST", "/api/v1/sales", "{not json", "", http.StatusUnauthorized},
		{"anonymous invalid phone", "POST", "/api/v1/sales", map[string]any{
			"items": scenarioCart["items"], "customer_phone": "call me",
		}, "", http.StatusUnauthorized},
		{"anonymous malformed adjust", "POST", "/api/v1/inventory/p-comb/adjust", "{not json", "", http.StatusUnauthorized},
		{"anonymous bad product id", "POST", "/api/v1/inventory/%3Cx%3E/adjust", map[string]any{"delta": 1}, "", http.StatusUnauthorized},
		{"sales malformed adjust", "POST", "/api/v1/inventory/p-comb/adjust", "{not json", salesSID, http.StatusForbidden},
	}
	for _, tc := range cases {
		entries := captureLogs(t, func() {
			resp, body := send(t, app, tc.method, tc.path, tc.body, tc.sid)
			if resp.StatusCode != tc.want {
				t.Fatalf("%s: expected %d, got %d body=%s", tc.name, tc.want, resp.StatusCode, body)
			}
		})
		if _, ok := findLog(entries, "validation.fail"); ok {
			t.Fatalf("%s: body was validated before the identity check", tc.name)
		}
		if _, ok := findLog(entries, "access.denied"); !ok {
			t.Fatalf("%s: access.denied log not found", tc.name)
		}
	}
}
