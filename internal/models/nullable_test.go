package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNullable_UnmarshalJSON(t *testing.T) {
	type state struct{ set, valid bool }

	texts := map[string]struct {
		want  state
		value string
	}{
		`{"notes": "hello"}`: {state{true, true}, "hello"},
		`{"notes": ""}`:      {state{true, true}, ""},
		`{"notes": null}`:    {state{true, false}, ""},
		`{}`:                 {state{false, false}, ""},
	}
	for in, tt := range texts {
		var body struct {
			Notes NullableString `json:"notes"`
		}
		if err := json.Unmarshal([]byte(in), &body); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", in, err)
		}
		got := state{body.Notes.Set, body.Notes.Valid}
		if got != tt.want || body.Notes.Value != tt.value {
			t.Errorf("Unmarshal(%s) = %+v %q, want %+v %q", in, got, body.Notes.Value, tt.want, tt.value)
		}
	}

	times := map[string]struct {
		want  state
		value time.Time
	}{
		`{"end_date": "2024-01-15T10:30:00Z"}`: {state{true, true}, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		`{"end_date": "2024-01-15"}`:           {state{true, true}, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		`{"end_date": null}`:                   {state{true, false}, time.Time{}},
		`{}`:                                   {state{false, false}, time.Time{}},
	}
	for in, tt := range times {
		var body struct {
			EndDate NullableTime `json:"end_date"`
		}
		if err := json.Unmarshal([]byte(in), &body); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", in, err)
		}
		got := state{body.EndDate.Set, body.EndDate.Valid}
		if got != tt.want || !body.EndDate.Value.Equal(tt.value) {
			t.Errorf("Unmarshal(%s) = %+v %v, want %+v %v", in, got, body.EndDate.Value, tt.want, tt.value)
		}
	}

	var bad struct {
		EndDate NullableTime `json:"end_date"`
	}
	if err := json.Unmarshal([]byte(`{"end_date": "next tuesday"}`), &bad); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}

func TestNullable_ToPtrAndMarshal(t *testing.T) {
	if p := (NullableString{Value: "hello", Valid: true, Set: true}).ToPtr(); p == nil || *p != "hello" {
		t.Errorf("ToPtr(valid) = %v, want \"hello\"", p)
	}
	if p := (NullableString{Set: true}).ToPtr(); p != nil {
		t.Errorf("ToPtr(null) = %q, want nil", *p)
	}
	if p := (NullableString{}).ToPtr(); p != nil {
		t.Errorf("ToPtr(absent) = %q, want nil", *p)
	}

	out, err := json.Marshal(struct {
		A NullableString `json:"a"`
		B NullableString `json:"b"`
	}{A: NullableString{Value: "x", Valid: true, Set: true}})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(out) != `{"a":"x","b":null}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestNullableString_Apply(t *testing.T) {
	original := "keep me"

	dst := &original
	NullableString{}.Apply(&dst)
	if dst == nil || *dst != "keep me" {
		t.Errorf("Apply(absent) changed destination to %v", dst)
	}

	NullableString{Set: true}.Apply(&dst)
	if dst != nil {
		t.Errorf("Apply(null) = %q, want nil", *dst)
	}

	NullableString{Set: true, Valid: true, Value: "new"}.Apply(&dst)
	if dst == nil || *dst != "new" {
		t.Errorf("Apply(value) = %v, want \"new\"", dst)
	}
}

func TestUpdateGoalRequest_WithNullableFields(t *testing.T) {
	var cleared UpdateGoalRequest
	if err := json.Unmarshal([]byte(`{"target_date": null, "unit": null}`), &cleared); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !cleared.TargetDate.Set || cleared.TargetDate.Valid {
		t.Errorf("TargetDate = %+v, want set and null", cleared.TargetDate)
	}
	if !cleared.Unit.Set || cleared.Unit.Valid {
		t.Errorf("Unit = %+v, want set and null", cleared.Unit)
	}

	var untouched UpdateGoalRequest
	if err := json.Unmarshal([]byte(`{"title": "Read more"}`), &untouched); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if untouched.TargetDate.Set {
		t.Error("Expected TargetDate.Set to be false when field is absent")
	}
	if untouched.Title == nil || *untouched.Title != "Read more" {
		t.Errorf("Title = %v, want \"Read more\"", untouched.Title)
	}

	var dated UpdateGoalRequest
	if err := json.Unmarshal([]byte(`{"target_date": "2026-12-31"}`), &dated); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !dated.TargetDate.Valid || dated.TargetDate.Value.Month() != time.December {
		t.Errorf("TargetDate = %+v, want 2026-12-31", dated.TargetDate)
	}
}
