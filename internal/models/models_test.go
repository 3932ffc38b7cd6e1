package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMoneyAcceptsNumberAndString(t *testing.T) {
	var payload struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":100000,"b":"12.345"}`), &payload); err != nil {
		t.Fatalf("unmarshal money failed: %v", err)
	}
	if payload.A.String() != "100000.00" {
		t.Fatalf("number money want 100000.00 got %s", payload.A.String())
	}
	if payload.B.String() != "12.35" {
		t.Fatalf("string money want 12.35 got %s", payload.B.String())
	}
}

func TestCartItemLineTotal(t *testing.T) {
	item := CartItem{
		ProductID: 1,
		Quantity:  2,
		Product:   CartProduct{ProductPrice: NewMoneyFromInt(100000)},
	}
	if got := item.LineTotal().String(); got != "200000.00" {
		t.Fatalf("line total want 200000.00 got %s", got)
	}
}

func TestFlexIDDecodesNumberAndString(t *testing.T) {
	var order Order
	if err := json.Unmarshal([]byte(`{"orderId":15,"status":"PENDING"}`), &order); err != nil {
		t.Fatalf("unmarshal numeric id failed: %v", err)
	}
	if order.OrderID != "15" {
		t.Fatalf("numeric id want 15 got %q", order.OrderID)
	}
	if err := json.Unmarshal([]byte(`{"orderId":"a-b"}`), &order); err != nil {
		t.Fatalf("unmarshal string id failed: %v", err)
	}
	if order.OrderID != "a-b" {
		t.Fatalf("string id want a-b got %q", order.OrderID)
	}
}

func TestFlexIDEncodesNumericAsNumber(t *testing.T) {
	cases := []struct {
		id   FlexID
		want string
	}{
		{id: "41", want: `{"order_id":41,"transaction_status":"PAID"}`},
		{id: "0", want: `{"order_id":0,"transaction_status":"PAID"}`},
		{id: "007", want: `{"order_id":"007","transaction_status":"PAID"}`},
		{id: "a-41", want: `{"order_id":"a-41","transaction_status":"PAID"}`},
		{id: "", want: `{"order_id":"","transaction_status":"PAID"}`},
	}
	for _, item := range cases {
		raw, err := json.Marshal(PaymentCallback{OrderID: item.id, TransactionStatus: "PAID"})
		if err != nil {
			t.Fatalf("marshal %q failed: %v", item.id, err)
		}
		if string(raw) != item.want {
			t.Fatalf("marshal %q want %s got %s", item.id, item.want, string(raw))
		}
	}
}

func TestCredentialExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if !(*Credential)(nil).Expired(now) {
		t.Fatalf("nil credential should be expired")
	}
	if (&Credential{}).Expired(now) {
		t.Fatalf("credential without expiry should not expire")
	}
	if !(&Credential{ExpiresAt: &past}).Expired(now) {
		t.Fatalf("past expiry should be expired")
	}
	if (&Credential{ExpiresAt: &future}).Expired(now) {
		t.Fatalf("future expiry should not be expired")
	}
}
