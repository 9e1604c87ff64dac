package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBaseQuery(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{})
	assert.Equal(t, "SELECT COUNT(1) FROM activity_logs WHERE 1=1", query)
	assert.Empty(t, args)

	query, args = buildBaseQuery("SELECT id", Filter{Action: "leave.policy.retire", EntityType: "leave_policy", EntityID: 7, Actor: "hr-1"})
	assert.Equal(t, "SELECT id FROM activity_logs WHERE 1=1 AND action = $1 AND entity_type = $2 AND entity_id = $3 AND actor = $4", query)
	assert.Equal(t, []any{"leave.policy.retire", "leave_policy", int64(7), "hr-1"}, args)
}

func TestMarshalOptional(t *testing.T) {
	payload, err := marshalOptional(nil)
	assert.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = marshalOptional(map[string]int{"createdCount": 2})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"createdCount":2}`, string(payload))
}
