package models

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	u := User{Password: "hunter22"}

	if err := u.HashPassword(); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if u.Password == "hunter22" {
		t.Fatal("password was not hashed")
	}

	if !u.ComparePassword("hunter22") {
		t.Error("correct password rejected")
	}
	if u.ComparePassword("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestEnumValidity(t *testing.T) {
	for _, c := range []IssueCategory{Pothole, Streetlight, Traffic, Sidewalk, Graffiti, Garbage, Water, Park, Other} {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	if IssueCategory("volcano").Valid() {
		t.Error("unknown category accepted")
	}

	if !PriorityMedium.Valid() || IssuePriority("whenever").Valid() {
		t.Error("priority validation broken")
	}
	if !StatusOpen.Valid() || IssueStatus("lost").Valid() {
		t.Error("status validation broken")
	}

	p := NewPoint(78.4867, 17.385)
	if p.Type != "Point" || p.Longitude() != 78.4867 || p.Latitude() != 17.385 {
		t.Errorf("unexpected point encoding: %+v", p)
	}
}
