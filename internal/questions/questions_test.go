package questions

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSeed_Titles(t *testing.T) {
	titles := Seed.Titles()
	// "Star Wars" appears twice in the seed
	if len(titles) != len(Seed)-1 {
		t.Errorf("distinct titles = %d, want %d", len(titles), len(Seed)-1)
	}
}

func TestBuild_Count(t *testing.T) {
	qs, err := Build(Seed, 10, testRand())
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 10 {
		t.Fatalf("len = %d, want 10", len(qs))
	}

	ids := make(map[string]bool)
	for _, q := range qs {
		if ids[q.ID] {
			t.Errorf("duplicate question id %q", q.ID)
		}
		ids[q.ID] = true
	}
}

func TestBuild_Options(t *testing.T) {
	qs, err := Build(Seed, len(Seed), testRand())
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range qs {
		if len(q.Options) != OptionCount {
			t.Fatalf("question %s has %d options, want %d", q.ID, len(q.Options), OptionCount)
		}
		seen := make(map[string]bool)
		hasAnswer := false
		for _, o := range q.Options {
			if seen[o] {
				t.Errorf("question %s has duplicate option %q", q.ID, o)
			}
			seen[o] = true
			if o == q.Answer {
				hasAnswer = true
			}
		}
		if !hasAnswer {
			t.Errorf("question %s options %v missing answer %q", q.ID, q.Options, q.Answer)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, _ := Build(Seed, 10, testRand())
	b, _ := Build(Seed, 10, testRand())
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("question %d: %s vs %s with same seed", i, a[i].ID, b[i].ID)
		}
		for j := range a[i].Options {
			if a[i].Options[j] != b[i].Options[j] {
				t.Fatalf("question %d option %d differs with same seed", i, j)
			}
		}
	}
}

func TestBuild_SmallCatalog(t *testing.T) {
	small := Catalog{
		{ID: "a", Film: "A", Quote: "qa"},
		{ID: "b", Film: "B", Quote: "qb"},
		{ID: "c", Film: "C", Quote: "qc"},
		{ID: "d", Film: "D", Quote: "qd"},
	}
	qs, err := Build(small, 10, testRand())
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 4 {
		t.Errorf("len = %d, want 4", len(qs))
	}
}

func TestBuild_NotEnough(t *testing.T) {
	tooFewTitles := Catalog{
		{ID: "a", Film: "A", Quote: "qa"},
		{ID: "b", Film: "B", Quote: "qb"},
		{ID: "c", Film: "A", Quote: "qc"},
	}
	if _, err := Build(tooFewTitles, 10, testRand()); !errors.Is(err, ErrNotEnoughQuestions) {
		t.Errorf("err = %v, want ErrNotEnoughQuestions", err)
	}
	if _, err := Build(nil, 10, testRand()); !errors.Is(err, ErrNotEnoughQuestions) {
		t.Errorf("empty catalog err = %v, want ErrNotEnoughQuestions", err)
	}
}

func TestQuestion_Matches(t *testing.T) {
	q := Question{Answer: "Le Roi Lion"}
	cases := map[string]bool{
		"Le Roi Lion":     true,
		"  le roi lion  ": true,
		"LE ROI LION":     true,
		"Le Roi":          false,
		"":                false,
	}
	for in, want := range cases {
		if got := q.Matches(in); got != want {
			t.Errorf("Matches(%q) = %v, want %v", in, got, want)
		}
	}
}
