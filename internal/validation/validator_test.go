package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

const (
	tenantID = "3f2b0c1e-8d4a-4b6e-9c7d-1a2b3c4d5e6f"
	agentID  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func validListing() map[string]any {
	return map[string]any{
		"tenant_id": tenantID,
		"agent_id":  agentID,
		"title":     "Downtown Modern Loft",
		"price":     650000.0,
	}
}

func decodeListing(t *testing.T, body map[string]any) (*domain.ListingInput, error) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var in domain.ListingInput
	err = New().Decode(strings.NewReader(string(raw)), &in)
	return &in, err
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	de, ok := err.(*domain.Error)
	if !ok || de.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	out := map[string]string{}
	for _, f := range de.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestListingInputValid(t *testing.T) {
	in, err := decodeListing(t, validListing())
	if err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	in.ApplyDefaults()
	if in.Status != domain.StatusAvailable {
		t.Fatalf("expected default status available, got %q", in.Status)
	}
}

func TestPriceBoundary(t *testing.T) {
	body := validListing()
	body["price"] = 0
	_, err := decodeListing(t, body)
	if msg := fieldsOf(t, err)["price"]; msg != "must be a positive number" {
		t.Fatalf("price=0: unexpected message %q", msg)
	}

	body["price"] = 0.01
	if _, err := decodeListing(t, body); err != nil {
		t.Fatalf("price=0.01 should pass: %v", err)
	}

	body["price"] = -5
	if _, err := decodeListing(t, body); err == nil {
		t.Fatal("negative price should fail")
	}

	delete(body, "price")
	if msg := fieldsOf(t, mustErr(decodeListing(t, body)))["price"]; msg != "is required" {
		t.Fatalf("missing price: unexpected message %q", msg)
	}
}

func TestTitleBoundary(t *testing.T) {
	body := validListing()
	body["title"] = "Loft"
	_, err := decodeListing(t, body)
	if _, ok := fieldsOf(t, err)["title"]; !ok {
		t.Fatal("title of length 4 should fail")
	}

	body["title"] = "Lofts"
	if _, err := decodeListing(t, body); err != nil {
		t.Fatalf("title of length 5 should pass: %v", err)
	}
}

func TestRequiredUUIDs(t *testing.T) {
	body := validListing()
	delete(body, "tenant_id")
	body["agent_id"] = "not-a-uuid"
	fields := fieldsOf(t, mustErr(decodeListing(t, body)))
	if fields["tenant_id"] != "is required" {
		t.Errorf("tenant_id: %q", fields["tenant_id"])
	}
	if fields["agent_id"] != "must be a valid UUID" {
		t.Errorf("agent_id: %q", fields["agent_id"])
	}
}

func TestMultipleFailuresAreEnumerated(t *testing.T) {
	body := validListing()
	body["title"] = "abc"
	body["price"] = 0
	body["status"] = "leased"
	body["image_urls"] = []string{"https://img.example/a.jpg", "not a url"}
	fields := fieldsOf(t, mustErr(decodeListing(t, body)))
	for _, f := range []string{"title", "price", "status", "image_urls[1]"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected failure for %s, got %v", f, fields)
		}
	}
	if _, ok := fields["image_urls[0]"]; ok {
		t.Errorf("valid url should not be reported")
	}
}

func TestIntegerFields(t *testing.T) {
	body := validListing()
	body["bedrooms"] = 2.5
	fields := fieldsOf(t, mustErr(decodeListing(t, body)))
	if fields["bedrooms"] != "must be an integer" {
		t.Fatalf("bedrooms: %v", fields)
	}

	body["bedrooms"] = 3
	body["bathrooms"] = 2
	body["area_sqft"] = 1200
	in, err := decodeListing(t, body)
	if err != nil {
		t.Fatalf("integers should pass: %v", err)
	}
	if *in.Bedrooms != 3 || *in.AreaSqft != 1200 {
		t.Fatalf("unexpected decode %+v", in)
	}
}

func TestMalformedBody(t *testing.T) {
	var in domain.ListingInput
	err := New().Decode(strings.NewReader("{"), &in)
	if fieldsOf(t, err)["body"] == "" {
		t.Fatal("expected body error")
	}

	err = New().Decode(strings.NewReader(""), &in)
	if fieldsOf(t, err)["body"] != "request body is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPartialListing(t *testing.T) {
	v := New()

	var empty domain.ListingPatch
	if err := v.Decode(strings.NewReader(`{}`), &empty); err != nil {
		t.Fatalf("empty patch should pass: %v", err)
	}
	if !empty.Empty() {
		t.Fatal("expected empty patch")
	}

	var p domain.ListingPatch
	if err := v.Decode(strings.NewReader(`{"price": 12.5, "status": "sold"}`), &p); err != nil {
		t.Fatalf("valid patch should pass: %v", err)
	}
	if *p.Price != 12.5 || *p.Status != domain.StatusSold {
		t.Fatalf("unexpected patch %+v", p)
	}

	var bad domain.ListingPatch
	err := v.Decode(strings.NewReader(`{"title": "abc", "price": 0, "tenant_id": "x"}`), &bad)
	fields := fieldsOf(t, err)
	for _, f := range []string{"title", "price", "tenant_id"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected failure for %s, got %v", f, fields)
		}
	}

	var emptyTitle domain.ListingPatch
	if err := v.Decode(strings.NewReader(`{"title": ""}`), &emptyTitle); err == nil {
		t.Fatal("present but empty title should fail")
	}
}

func TestProfilePatch(t *testing.T) {
	v := New()

	var p domain.ProfilePatch
	if err := v.Decode(strings.NewReader(`{"full_name": "Mary Manager", "avatar_url": "https://img.example/m.png"}`), &p); err != nil {
		t.Fatalf("valid patch should pass: %v", err)
	}

	var bad domain.ProfilePatch
	fields := fieldsOf(t, v.Decode(strings.NewReader(`{"username": "ab", "avatar_url": "nope"}`), &bad))
	if fields["username"] == "" || fields["avatar_url"] != "must be a valid URL" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func mustErr(_ *domain.ListingInput, err error) error {
	return err
}
