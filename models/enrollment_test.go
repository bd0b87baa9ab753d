package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrollmentStatusValid(t *testing.T) {
	assert.True(t, EnrollmentActive.Valid())
	assert.True(t, EnrollmentCompleted.Valid())
	assert.True(t, EnrollmentWithdrawn.Valid())
	assert.True(t, EnrollmentSuspended.Valid())
	assert.False(t, EnrollmentStatus("ENROLLED").Valid())
	assert.False(t, EnrollmentStatus("").Valid())
}

func TestEnrollmentStatusMember(t *testing.T) {
	assert.True(t, EnrollmentActive.Member())
	assert.True(t, EnrollmentCompleted.Member())
	assert.False(t, EnrollmentWithdrawn.Member())
	assert.False(t, EnrollmentSuspended.Member())
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to EnrollmentStatus }{
		{EnrollmentActive, EnrollmentCompleted},
		{EnrollmentActive, EnrollmentWithdrawn},
		{EnrollmentActive, EnrollmentSuspended},
		{EnrollmentWithdrawn, EnrollmentActive},
		{EnrollmentWithdrawn, EnrollmentSuspended},
		{EnrollmentSuspended, EnrollmentActive},
		{EnrollmentSuspended, EnrollmentWithdrawn},
		{EnrollmentCompleted, EnrollmentSuspended},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to EnrollmentStatus }{
		{EnrollmentCompleted, EnrollmentActive},
		{EnrollmentCompleted, EnrollmentWithdrawn},
		{EnrollmentWithdrawn, EnrollmentCompleted},
		{EnrollmentSuspended, EnrollmentCompleted},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}

	// self-transitions are never valid
	for _, s := range []EnrollmentStatus{EnrollmentActive, EnrollmentCompleted, EnrollmentWithdrawn, EnrollmentSuspended} {
		assert.False(t, CanTransition(s, s))
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleInstructor.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("USER").Valid())
}
