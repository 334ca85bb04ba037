package catalog

import "testing"

// TestStaticCatalogShape verifies the embedded plan covers all seven
// days and ends in a rest day.
func TestStaticCatalogShape(t *testing.T) {
	c := Static()

	if len(c) != 7 {
		t.Fatalf("days = %d, want 7", len(c))
	}
	for _, key := range []string{"day1", "day2", "day3", "day4", "day5", "day6", "day7"} {
		day, ok := c[key]
		if !ok {
			t.Fatalf("missing %s", key)
		}
		if day.Title == "" {
			t.Errorf("%s: empty title", key)
		}
		if len(day.Exercises) == 0 {
			t.Errorf("%s: no exercises", key)
		}
	}

	if !c["day7"].IsRestDay {
		t.Error("day7 should be a rest day")
	}
	if c["day7"].Exercises[0].Description == "" {
		t.Error("rest day exercise should carry a description")
	}
}

// TestStaticReturnsCopy verifies callers cannot mutate the embedded asset.
func TestStaticReturnsCopy(t *testing.T) {
	first := Static()
	first["day1"].Exercises[0].Name = ""

	if Static()["day1"].Exercises[0].Name == "" {
		t.Fatal("mutating a Static() result leaked into the embedded catalog")
	}
}
