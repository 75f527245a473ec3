package httpapi

import (
	"testing"
	"time"

	"panelhub/server/internal/model"
)

func strptr(v string) *string { return &v }

func TestProfileCompletionEmpty(t *testing.T) {
	got := profileCompletion(model.User{})
	if got.Percentage != 0 {
		t.Fatalf("expected 0%% for empty profile, got %d", got.Percentage)
	}
	if got.Strength != "weak" {
		t.Fatalf("expected weak, got %s", got.Strength)
	}
	if len(got.Sections) != 6 {
		t.Fatalf("expected 6 sections, got %d", len(got.Sections))
	}
}

func TestProfileCompletionFull(t *testing.T) {
	dob := time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC)
	size := 3
	u := model.User{
		FirstName:       "Ada",
		LastName:        "Panelist",
		IsActive:        true,
		IsEmailVerified: true,
		Profile: model.UserProfile{
			Phone:         strptr("+33123456789"),
			DateOfBirth:   &dob,
			Gender:        strptr("female"),
			Country:       strptr("FR"),
			City:          strptr("Paris"),
			Occupation:    strptr("Engineer"),
			Education:     strptr("Masters"),
			Employment:    strptr("full-time"),
			Industry:      strptr("Technology"),
			IncomeRange:   strptr("50k-75k"),
			HouseholdSize: &size,
			MaritalStatus: strptr("single"),
			Language:      strptr("fr"),
			Interests:     []string{"tech", "travel"},
		},
	}
	got := profileCompletion(u)
	if got.Percentage != 100 {
		t.Fatalf("expected 100%%, got %d", got.Percentage)
	}
	if got.Strength != "strong" {
		t.Fatalf("expected strong, got %s", got.Strength)
	}
}

func TestProfileCompletionPartial(t *testing.T) {
	// 9 of 18 fields filled lands exactly on the weak/medium boundary.
	dob := time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC)
	u := model.User{
		FirstName:       "Ada",
		LastName:        "Panelist",
		IsActive:        true,
		IsEmailVerified: true,
		Profile: model.UserProfile{
			Phone:       strptr("+33123456789"),
			DateOfBirth: &dob,
			Gender:      strptr("female"),
			Country:     strptr("FR"),
			City:        strptr("Paris"),
		},
	}
	got := profileCompletion(u)
	if got.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d", got.Percentage)
	}
	if got.Strength != "medium" {
		t.Fatalf("expected medium at 50%%, got %s", got.Strength)
	}
}

func TestVendorCompletion(t *testing.T) {
	got := vendorCompletion(model.Vendor{Name: "Acme Research"})
	if got.Strength != "weak" {
		t.Fatalf("expected weak for name-only vendor, got %s", got.Strength)
	}
	if got.Percentage != 10 {
		t.Fatalf("expected 10%%, got %d", got.Percentage)
	}

	year := 2015
	count := 40
	full := model.Vendor{
		Name:           "Acme Research",
		Company:        strptr("Acme SARL"),
		Phone:          strptr("+33123456789"),
		Website:        strptr("https://acme.example"),
		Description:    strptr("Full-service fieldwork agency"),
		Services:       []string{"programming", "fieldwork"},
		Industries:     []string{"healthcare"},
		FoundedYear:    &year,
		EmployeeCount:  &count,
		Certifications: []string{"ISO 20252"},
	}
	got = vendorCompletion(full)
	if got.Percentage != 100 || got.Strength != "strong" {
		t.Fatalf("expected 100%%/strong, got %d%%/%s", got.Percentage, got.Strength)
	}
}
