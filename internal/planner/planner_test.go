package planner

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"

	errx "github.com/yatrika/server/internal/core/error"
	"github.com/yatrika/server/internal/planner/model"
)

const itineraryReply = "```json\n" + `{
  "plan": [
    {
      "day": 1,
      "date": "2026-10-01",
      "theme": "Forts and Palaces",
      "activities": [
        {"time": "Morning", "description": "Visit Amber Fort", "location_name": "Amber Fort", "latitude": 26.9855, "longitude": 75.8513}
      ]
    }
  ],
  "cost_breakdown": {
    "accommodation_estimate_inr": 7000,
    "transport_estimate_inr": 4000,
    "activities_estimate_inr": 3000,
    "food_estimate_inr": 4000,
    "total_estimate_inr": 18000
  }
}` + "\n```"

func jaipurRequest() model.TripRequest {
	return model.TripRequest{
		Source:      "Delhi",
		Destination: "Jaipur",
		StartDate:   "2026-10-01",
		ReturnDate:  "2026-10-03",
		BudgetINR:   20000,
		Interests:   []string{"history", "food"},
	}
}

func TestPlanTripWithToolCall(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	if err := reg.Register(ctx, &stubTool{
		name: "get_average_hotel_price",
		run: func(ctx context.Context, args string) (string, error) {
			return `{"price": 3500}`, nil
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	sm := &scriptedModel{replies: []*schema.Message{
		toolCallReply("get_average_hotel_price", `{"destination": "Jaipur"}`),
		textReply(itineraryReply),
	}}

	p := New(sm, reg, Config{})
	itinerary, err := p.PlanTrip(ctx, jaipurRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(itinerary.Plan) != 1 {
		t.Fatalf("expected 1 day, got %d", len(itinerary.Plan))
	}
	if itinerary.Plan[0].Theme != "Forts and Palaces" {
		t.Fatalf("unexpected theme: %s", itinerary.Plan[0].Theme)
	}
	if itinerary.CostBreakdown.TotalINR != 18000 {
		t.Fatalf("unexpected total: %d", itinerary.CostBreakdown.TotalINR)
	}
}

func TestPlanTripEmptyPlanRejected(t *testing.T) {
	sm := &scriptedModel{replies: []*schema.Message{
		textReply("```json\n{\"plan\": [], \"cost_breakdown\": {}}\n```"),
	}}
	p := New(sm, NewRegistry(), Config{})

	_, err := p.PlanTrip(context.Background(), jaipurRequest())
	if err == nil {
		t.Fatal("expected error for empty plan")
	}
	if errx.KindOf(err) != errx.KindMalformedOutput {
		t.Fatalf("expected malformed output kind, got %v", errx.KindOf(err))
	}
}

func TestRegenerateReturnsRevisedItinerary(t *testing.T) {
	sm := &scriptedModel{replies: []*schema.Message{textReply(itineraryReply)}}
	p := New(sm, NewRegistry(), Config{})

	prior := &model.Itinerary{Plan: []model.DayPlan{{Day: 1, Theme: "Old plan"}}}
	itinerary, err := p.Regenerate(context.Background(), prior, jaipurRequest(), "more food stops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if itinerary.Plan[0].Theme != "Forts and Palaces" {
		t.Fatalf("unexpected theme: %s", itinerary.Plan[0].Theme)
	}
	if prior.Plan[0].Theme != "Old plan" {
		t.Fatal("prior itinerary must not be mutated")
	}
}

func TestAdjustForWeatherArrayFlow(t *testing.T) {
	sm := &scriptedModel{replies: []*schema.Message{
		textReply("```json\n[{\"time\": \"Morning\", \"description\": \"City Palace museum\"}]\n```"),
	}}
	p := New(sm, NewRegistry(), Config{})

	adjusted, err := p.AdjustForWeather(context.Background(), "Jaipur", []model.Activity{
		{Time: "Morning", Description: "Amber Fort walk"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adjusted) != 1 || adjusted[0].Description != "City Palace museum" {
		t.Fatalf("unexpected adjusted activities: %+v", adjusted)
	}
}
