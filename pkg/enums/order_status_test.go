package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	legal := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusCreated, OrderStatusAssigned},
		{OrderStatusCreated, OrderStatusCancelled},
		{OrderStatusAssigned, OrderStatusPickedUp},
		{OrderStatusAssigned, OrderStatusCancelled},
		{OrderStatusPickedUp, OrderStatusInTransit},
		{OrderStatusPickedUp, OrderStatusReturned},
		{OrderStatusInTransit, OrderStatusDelivered},
		{OrderStatusInTransit, OrderStatusReturned},
	}
	for _, tc := range legal {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusCreated, OrderStatusPickedUp},
		{OrderStatusCreated, OrderStatusDelivered},
		{OrderStatusAssigned, OrderStatusDelivered},
		{OrderStatusAssigned, OrderStatusReturned},
		{OrderStatusPickedUp, OrderStatusCancelled},
		{OrderStatusInTransit, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusInTransit},
		{OrderStatusCancelled, OrderStatusAssigned},
		{OrderStatusReturned, OrderStatusCreated},
	}
	for _, tc := range illegal {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := []OrderStatus{OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned}
	for _, status := range terminal {
		if !status.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	open := []OrderStatus{OrderStatusCreated, OrderStatusAssigned, OrderStatusPickedUp, OrderStatusInTransit}
	for _, status := range open {
		if status.IsTerminal() {
			t.Errorf("expected %s not to be terminal", status)
		}
	}
	if OrderStatus("BOGUS").IsTerminal() {
		t.Error("invalid status must not be reported terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("IN_TRANSIT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != OrderStatusInTransit {
		t.Fatalf("expected IN_TRANSIT got %s", status)
	}
	if _, err := ParseOrderStatus("in_transit"); err == nil {
		t.Fatal("expected error for lowercase input")
	}
}
