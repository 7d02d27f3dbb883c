package scrape

import "testing"

// TestEventID はイベントIDの決定性と形式を検証する。
func TestEventID(t *testing.T) {
	url := "https://www.sccci.org.sg/event/detail?slug=annual-dinner"

	id1 := EventID(url)
	id2 := EventID(url)

	if id1 != id2 {
		t.Errorf("EventID is not deterministic: %q != %q", id1, id2)
	}
	if len(id1) != 16 {
		t.Errorf("len(EventID) = %d, want 16", len(id1))
	}
	for _, r := range id1 {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Errorf("EventID contains non-hex character: %q", id1)
			break
		}
	}
}

// TestEventID_DistinctURLs は異なるURLが異なるIDを持つことを検証する。
func TestEventID_DistinctURLs(t *testing.T) {
	a := EventID("https://www.sccci.org.sg/event/detail?slug=a")
	b := EventID("https://www.sccci.org.sg/event/detail?slug=b")
	if a == b {
		t.Errorf("distinct URLs produced the same id: %q", a)
	}
}
