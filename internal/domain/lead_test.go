package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLead() *Lead {
	in := LeadInput{
		BusinessName:     " Acme ",
		BusinessCategory: "Retail",
		Email:            "Ops@Acme.test",
		Country:          "Pakistan",
		State:            "Punjab",
		City:             "Lahore",
	}
	return in.Lead(SourceManual)
}

func TestLeadInputDefaults(t *testing.T) {
	l := validLead()
	assert.Equal(t, "Acme", l.BusinessName)
	assert.Equal(t, "ops@acme.test", l.Email)
	assert.Equal(t, StatusNew, l.Status)
	assert.Equal(t, PriorityMedium, l.Priority)
	assert.Equal(t, DefaultBusinessType, l.BusinessType)
	assert.Equal(t, SourceManual, l.Source)
	assert.NoError(t, l.Validate())
}

func TestLeadInputNestedLocation(t *testing.T) {
	in := LeadInput{Location: &Location{Country: "Canada", State: "Ontario", City: "Toronto"}}
	l := in.Lead(SourceImport)
	assert.Equal(t, "Canada", l.Country)
	assert.Equal(t, "Ontario", l.State)
	assert.Equal(t, "Toronto", l.City)
	assert.Equal(t, SourceImport, l.Source)
}

func TestLeadValidate(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		l := validLead()
		l.BusinessName, l.BusinessCategory = "", ""
		var mf *MissingFieldsError
		require.True(t, errors.As(l.Validate(), &mf))
		assert.Equal(t, []string{"businessName", "businessCategory"}, mf.Fields)
	})
	t.Run("email or phone", func(t *testing.T) {
		l := validLead()
		l.Email = ""
		assert.EqualError(t, l.Validate(), MsgContactRequired)
		l.PhoneNumber = "555"
		assert.NoError(t, l.Validate())
	})
	t.Run("location", func(t *testing.T) {
		l := validLead()
		l.State = ""
		assert.EqualError(t, l.Validate(), MsgLocationRequired)
	})
	t.Run("enums", func(t *testing.T) {
		l := validLead()
		l.Status = "lost"
		assert.Error(t, l.Validate())
		l = validLead()
		l.Priority = "urgent"
		assert.Error(t, l.Validate())
	})
}

func TestLeadPatchApply(t *testing.T) {
	l := validLead()
	var p LeadPatch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"contacted","priority":"medium","notes":"called","followUpDate":"2025-03-01","_id":"x","createdAt":"y"}`), &p))

	changes := p.Apply(l)
	require.Len(t, changes, 2)
	assert.Equal(t, FieldChange{Field: "status", OldValue: "new", NewValue: "contacted"}, changes[0])
	assert.Equal(t, "followUpDate", changes[1].Field)
	assert.Nil(t, changes[1].OldValue)
	assert.Equal(t, "2025-03-01T00:00:00Z", changes[1].NewValue)
	assert.Equal(t, "called", l.Notes)
	assert.Equal(t, StatusContacted, l.Status)
}

func TestLeadPatchClearFollowUp(t *testing.T) {
	l := validLead()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.FollowUpDate = &ts

	var p LeadPatch
	require.NoError(t, json.Unmarshal([]byte(`{"followUpDate":null}`), &p))
	changes := p.Apply(l)
	require.Len(t, changes, 1)
	assert.Nil(t, l.FollowUpDate)
	assert.Nil(t, changes[0].NewValue)

	var absent LeadPatch
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"x"}`), &absent))
	assert.Empty(t, absent.Apply(l))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-05-01", "2024-05-01T10:30", "2024-05-01T10:30:00Z", "2024-05-01T10:30:00.000Z", "2024-05-01T12:30:00+02:00"} {
		_, err := ParseDate(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseDate("tomorrow")
	assert.Error(t, err)
	assert.True(t, IsDateOnly("2024-05-01"))
	assert.False(t, IsDateOnly("2024-05-01T00:00:00Z"))
}
