package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.GroupCreated(1000)
	m.GroupCreated(2000)
	m.GroupUpdated()
	m.Rejected("create_group", "106")
	m.Rejected("create_group", "106")
	m.Rejected("update_group", "100")
	m.TransferRecorded()
	m.AuthoritySet()

	if got := testutil.ToFloat64(m.GroupsCreated); got != 2 {
		t.Errorf("groups created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CreationFees); got != 3000 {
		t.Errorf("creation fees = %v, want 3000", got)
	}
	if got := testutil.ToFloat64(m.GroupUpdates); got != 1 {
		t.Errorf("group updates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Rejections.WithLabelValues("create_group", "106")); got != 2 {
		t.Errorf("create rejections = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Rejections.WithLabelValues("update_group", "100")); got != 1 {
		t.Errorf("update rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TransfersRecorded); got != 1 {
		t.Errorf("transfers = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AuthorityConfigured); got != 1 {
		t.Errorf("authority gauge = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.GroupCreated(1)
	m.GroupUpdated()
	m.Rejected("op", "1")
	m.TransferRecorded()
	m.AuthoritySet()
}
