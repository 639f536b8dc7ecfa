package components

import "testing"

func TestTabIdxByKey(t *testing.T) {
	cases := map[rune]int{'o': 0, 'b': 1, 'g': 2, 't': 3, 'x': 4, 'z': -1}
	for key, want := range cases {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestTabVisualWidth(t *testing.T) {
	overview := Tabs[0]
	if got := TabVisualWidth(overview, true); got != len("Overview")+2 {
		t.Errorf("active Overview width = %d", got)
	}
	if got := TabVisualWidth(overview, false); got != len("Overview")+2 {
		t.Errorf("inactive Overview width = %d", got)
	}

	settings := Tabs[4]
	if got := TabVisualWidth(settings, false); got != len("Settings")+2+3 {
		t.Errorf("inactive Settings width = %d, want name plus [x]", got)
	}
}
