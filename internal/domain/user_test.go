package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRole(t *testing.T) {
	cases := []struct {
		name, email, admin, current, want string
	}{
		{"exact match", "boss@example.com", "boss@example.com", RoleUser, RoleAdmin},
		{"case insensitive", "Boss@Example.COM", " boss@example.com ", RoleUser, RoleAdmin},
		{"other email keeps role", "someone@example.com", "boss@example.com", RoleUser, RoleUser},
		{"never demotes", "someone@example.com", "boss@example.com", RoleAdmin, RoleAdmin},
		{"no admin configured", "boss@example.com", "", RoleUser, RoleUser},
		{"empty current defaults to user", "a@b.c", "", "", RoleUser},
		{"already admin stays admin", "boss@example.com", "boss@example.com", RoleAdmin, RoleAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeRole(tc.email, tc.admin, tc.current))
		})
	}
}

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, IsSpreadsheet("sales.xlsx"))
	assert.True(t, IsSpreadsheet("SALES.CSV"))
	assert.False(t, IsSpreadsheet("sales.xls"))
	assert.False(t, IsSpreadsheet("notes.txt"))
	assert.False(t, IsSpreadsheet("csv"))
}

func TestValidPlanID(t *testing.T) {
	for _, id := range []string{PlanFree, PlanPro, PlanEnterprise} {
		assert.True(t, ValidPlanID(id))
	}
	assert.False(t, ValidPlanID("gold"))
	assert.False(t, ValidPlanID(""))
}

func TestPublicProjection(t *testing.T) {
	u := User{ID: "1", Name: "Ann", Email: "ann@x.io", Role: RoleUser, PasswordHash: "secret"}
	assert.Equal(t, Public{ID: "1", Name: "Ann", Email: "ann@x.io", Role: RoleUser}, u.Public())
}
