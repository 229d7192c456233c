package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func texts(markers []Marker) []string {
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		out = append(out, m.Text)
	}
	return out
}

func TestScan_DocumentOrder(t *testing.T) {
	text := "&秦&@孝公@卒，$太子$立，%二十四年%。"
	markers := Scan(text, KindPerson, KindTitle, KindPolity, KindTime)

	want := []string{"秦", "孝公", "太子", "二十四年"}
	if diff := cmp.Diff(want, texts(markers.All())); diff != "" {
		t.Errorf("markers mismatch (-want +got):\n%s", diff)
	}

	kinds := []Kind{KindPolity, KindPerson, KindTitle, KindTime}
	for i, m := range markers.All() {
		if m.Kind != kinds[i] {
			t.Errorf("marker %d: expected kind %c, got %c", i, kinds[i], m.Kind)
		}
	}
}

func TestMarkers_BeforeNearestFirst(t *testing.T) {
	text := "@周武王@伐纣，@成王@立，$周公$摄政，%七年%"
	markers := Scan(text, KindPerson, KindTitle)
	pos := len("@周武王@伐纣，@成王@立，$周公$摄政，")

	got := texts(markers.Before(pos, 60))
	want := []string{"周公", "成王", "周武王"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Before mismatch (-want +got):\n%s", diff)
	}

	// A window of 8 characters only reaches the nearest title.
	got = texts(markers.Before(pos, 8))
	if diff := cmp.Diff([]string{"周公"}, got); diff != "" {
		t.Errorf("narrow Before mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkers_BeforeExcludesCutMarkers(t *testing.T) {
	text := "@晋文公@入，%元年%"
	markers := Scan(text, KindPerson)
	pos := len("@晋文公@入，")

	// The window starts inside @晋文公@, so the marker is not fully inside it.
	if got := markers.Before(pos, 4); len(got) != 0 {
		t.Errorf("expected no markers, got %v", texts(got))
	}
}

func TestMarkers_AdjacentBefore(t *testing.T) {
	text := "&魏&@惠王@与&秦&战"
	markers := Scan(text, KindPolity, KindPerson)
	pos := len("&魏&")

	m, ok := markers.AdjacentBefore(pos, 10)
	if !ok {
		t.Fatal("expected adjacent polity marker")
	}
	if m.Text != "魏" || m.Kind != KindPolity {
		t.Errorf("unexpected marker %+v", m)
	}

	if _, ok := markers.AdjacentBefore(pos+1, 10); ok {
		t.Error("expected no adjacent marker one byte later")
	}
}

func TestMarkers_Around(t *testing.T) {
	text := "&韩&兵至，@惠王@怒，&楚&救之"
	markers := Scan(text, KindPolity)
	pos := len("&韩&兵至，")

	got := texts(markers.Around(pos, 80))
	if diff := cmp.Diff([]string{"韩", "楚"}, got); diff != "" {
		t.Errorf("Around mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	markers := Scan("@甲@$乙$@丙@", KindPerson, KindTitle).All()
	if got := texts(Filter(markers, KindPerson)); len(got) != 2 {
		t.Errorf("expected 2 person markers, got %v", got)
	}
}
