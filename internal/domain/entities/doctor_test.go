package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoctor_NormalizeFee(t *testing.T) {
	t.Run("negative fee becomes zero", func(t *testing.T) {
		d := &Doctor{Name: "Dr. A", Fee: IntPtr(-5)}
		d.NormalizeFee()
		assert.Equal(t, 0, *d.Fee)
	})

	t.Run("nil fee stays nil", func(t *testing.T) {
		d := &Doctor{Name: "Dr. B"}
		d.NormalizeFee()
		assert.Nil(t, d.Fee)
	})

	t.Run("positive fee unchanged", func(t *testing.T) {
		d := &Doctor{Name: "Dr. C", Fee: IntPtr(120)}
		d.NormalizeFee()
		assert.Equal(t, 120, *d.Fee)
	})
}

func TestEmptySymptomCheckResult(t *testing.T) {
	res := EmptySymptomCheckResult("headache")
	assert.Equal(t, "headache", res.Symptoms)
	assert.NotNil(t, res.Conditions)
	assert.Empty(t, res.Conditions)
	assert.NotNil(t, res.Doctors)
	assert.Empty(t, res.Specialties)
}
