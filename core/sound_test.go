package core

import "testing"

// TestSoundIsMapKey verifies equality covers both category and name
func TestSoundIsMapKey(t *testing.T) {
	m := map[Sound]int{
		Music("loop"):  1,
		Effect("loop"): 2,
	}

	if len(m) != 2 {
		t.Fatalf("Expected distinct keys per category, got %d entries", len(m))
	}
	if m[Music("loop")] != 1 {
		t.Errorf("Expected music lookup to hit its own entry")
	}
	if Music("a") != (Sound{Category: CategoryMusic, Name: "a"}) {
		t.Errorf("Expected constructor and literal to compare equal")
	}
}

// TestCatalogShape verifies the catalog partitions by category
func TestCatalogShape(t *testing.T) {
	if len(AllSubmits) != 14 {
		t.Fatalf("Expected 14 submit cues, got %d", len(AllSubmits))
	}

	seen := make(map[Sound]bool)
	for _, s := range Catalog() {
		if seen[s] {
			t.Errorf("Duplicate catalog entry %s", s)
		}
		seen[s] = true
	}

	for _, s := range AllMusic {
		if s.Category != CategoryMusic {
			t.Errorf("Expected %s in music category", s)
		}
	}
	for _, s := range AllEffects {
		if s.Category != CategorySoundEffect {
			t.Errorf("Expected %s in sound effect category", s)
		}
	}
}

func TestCategoryString(t *testing.T) {
	if CategoryMusic.String() != "music" || CategorySoundEffect.String() != "sound_effect" {
		t.Errorf("Unexpected category names: %s %s", CategoryMusic, CategorySoundEffect)
	}
	if Category(9).String() != "unknown" {
		t.Errorf("Expected unknown for out of range category")
	}
}
