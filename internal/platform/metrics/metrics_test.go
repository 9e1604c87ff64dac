package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedgerCounters(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.BalancesGenerated(3, 2)
	c.BalancesGenerated(0, 5)
	c.TransactionPosted("REQUEST")
	c.TransactionPosted("REQUEST")
	c.TransactionPosted("CARRY")
	c.EncashmentPaid()
	c.PolicyRetired()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.generationRuns))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.balancesCreated))
	assert.Equal(t, float64(7), testutil.ToFloat64(c.balancesSkipped))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.postings.WithLabelValues("REQUEST")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.postings.WithLabelValues("CARRY")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.encashmentsPaid))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.policiesRetired))
}

func TestRecordRequest(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.Record("GET", 200, 15*time.Millisecond)
	c.Record("POST", 409, 5*time.Millisecond)
	c.Record("GET", 200, 5*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.requests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requests.WithLabelValues("POST", "409")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.requestDuration))
}
