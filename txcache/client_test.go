package txcache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/init4tech/signet-node/signing"
)

func TestSubmitOrderPostsJSON(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := &signing.SignedOrder{Owner: common.HexToAddress("0x01")}
	if err := c.SubmitOrder(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/orders" {
		t.Fatalf("expected /orders, got %s", gotPath)
	}
}

func TestGetOrdersMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := c.GetOrders(context.Background(), ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOrdersMapsForbiddenAndConflict(t *testing.T) {
	for status, want := range map[int]error{
		http.StatusForbidden: ErrNotOurSlot,
		http.StatusConflict:  ErrConflict,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c, err := New(srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, _, err := c.GetOrders(context.Background(), ""); err != want {
			t.Fatalf("status %d: expected %v, got %v", status, want, err)
		}
		srv.Close()
	}
}

func TestAllOrdersDrainsCursorPages(t *testing.T) {
	pages := [][]string{{"a", "b"}, {"c"}}
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := pages[requests]
		requests++

		orders := make([]map[string]string, len(page))
		resp := map[string]any{"orders": orders}
		if requests < len(pages) {
			cursor := "next"
			resp["nextCursor"] = cursor
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orders, err := c.AllOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders across both pages, got %d", len(orders))
	}
	if requests != 2 {
		t.Fatalf("expected the client to follow the cursor to a second page, got %d requests", requests)
	}
}
