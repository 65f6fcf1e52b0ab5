package ctxutil

import (
	"context"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), &Identity{UID: "u1", Role: "admin"})
	id := GetIdentity(ctx)
	if id == nil || id.UID != "u1" {
		t.Fatalf("identity: want uid=%q got=%+v", "u1", id)
	}
	if !id.IsAdmin() {
		t.Fatalf("want admin")
	}
	if GetIdentity(context.Background()) != nil {
		t.Fatalf("empty context should carry no identity")
	}
	var none *Identity
	if none.IsAdmin() {
		t.Fatalf("nil identity is never admin")
	}
}

func TestTraceData(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "r1"})
	if td := GetTraceData(ctx); td == nil || td.RequestID != "r1" {
		t.Fatalf("trace data: got=%+v", td)
	}
}

func TestLogFields(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	ctx = WithIdentity(ctx, &Identity{UID: "u1"})
	got := LogFields(ctx)
	want := []any{"trace_id", "t1", "request_id", "r1", "user_id", "u1"}
	if len(got) != len(want) {
		t.Fatalf("fields: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d: want=%v got=%v", i, want[i], got[i])
		}
	}
	if f := LogFields(context.Background()); len(f) != 0 {
		t.Fatalf("empty context: want no fields got=%v", f)
	}
}
