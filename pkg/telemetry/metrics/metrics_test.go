package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/blackstar257/csvlint/pkg/csv/defect"
)

func testCollector() *Collector {
	return NewCollector(Config{Enabled: true}, prometheus.NewRegistry())
}

func invalidResult() *defect.Result {
	list := defect.NewList()
	list.Addf(2, defect.CategoryFieldCount, "wrong number of fields: expected 3, got 2")
	list.Addf(4, defect.CategoryQuote, "unterminated quote")
	list.Addf(5, defect.CategoryQuote, `bare " in non-quoted-field`)
	return defect.NewResult(list, false, false)
}

func TestCollectorRecordRun(t *testing.T) {
	c := testCollector()
	c.RecordRun(invalidResult(), 5, 10*time.Millisecond)

	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues(VerdictInvalid)); got != 1 {
		t.Errorf("runs_total{invalid} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.defectsTotal.WithLabelValues("quote")); got != 2 {
		t.Errorf("defects_total{quote} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.defectsTotal.WithLabelValues("field_count")); got != 1 {
		t.Errorf("defects_total{field_count} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.recordsScannedTotal); got != 5 {
		t.Errorf("records_scanned_total = %v, want 5", got)
	}
}

func TestCollectorVerdicts(t *testing.T) {
	c := testCollector()

	clean := defect.NewResult(defect.NewList(), false, false)
	c.RecordRun(clean, 1, time.Millisecond)

	fatalList := defect.NewList()
	fatalList.Addf(3, defect.CategoryEncoding, "UTF-8 error: invalid byte")
	c.RecordRun(defect.NewResult(fatalList, true, false), 3, time.Millisecond)

	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues(VerdictValid)); got != 1 {
		t.Errorf("runs_total{valid} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues(VerdictFatal)); got != 1 {
		t.Errorf("runs_total{fatal} = %v, want 1", got)
	}
}

func TestCollectorDisabled(t *testing.T) {
	c := NewCollector(Config{Enabled: false}, prometheus.NewRegistry())
	c.RecordRun(invalidResult(), 5, time.Millisecond)
	c.SetFilesWatched(3)
	c.RecordWatchEvent("validated")

	if got := testutil.ToFloat64(c.recordsScannedTotal); got != 0 {
		t.Errorf("disabled collector recorded %v records", got)
	}
	if got := testutil.ToFloat64(c.filesWatched); got != 0 {
		t.Errorf("disabled collector set gauge to %v", got)
	}
}

func TestCollectorWatchMetrics(t *testing.T) {
	c := testCollector()
	c.SetFilesWatched(4)
	c.RecordWatchEvent("validated")
	c.RecordWatchEvent("debounced")
	c.RecordWatchEvent("debounced")

	if got := testutil.ToFloat64(c.filesWatched); got != 4 {
		t.Errorf("files_watched = %v, want 4", got)
	}
	if got := testutil.ToFloat64(c.watchEventsTotal.WithLabelValues("debounced")); got != 2 {
		t.Errorf("watch_events_total{debounced} = %v, want 2", got)
	}
}

func TestHandlerExposition(t *testing.T) {
	c := testCollector()
	c.RecordRun(invalidResult(), 5, time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("handler status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "csvlint_runs_total") {
		t.Error("exposition missing csvlint_runs_total")
	}
	if !strings.Contains(body, "csvlint_defects_total") {
		t.Error("exposition missing csvlint_defects_total")
	}
}

func TestCollectorCustomNamespace(t *testing.T) {
	c := NewCollector(Config{Enabled: true, Namespace: "lint"}, prometheus.NewRegistry())
	c.RecordRun(invalidResult(), 1, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "lint_runs_total") {
		t.Error("exposition missing lint_runs_total")
	}
}
