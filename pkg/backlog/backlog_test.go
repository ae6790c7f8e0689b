package backlog

import (
	"fmt"
	"strings"
	"testing"
)

func TestBacklogAdd(t *testing.T) {
	b := New(0)
	b.Add("yuki", []string{"Hello.", "Nice weather."})
	b.Add("", []string{"Narration line."})

	if b.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", b.Len())
	}
	entries := b.Entries()
	if entries[0].Speaker != "yuki" || entries[0].Text != "Hello.\nNice weather." {
		t.Errorf("Unexpected entry %+v", entries[0])
	}
	if entries[1].Speaker != "" {
		t.Errorf("Expected narration entry without speaker, got %+v", entries[1])
	}
}

func TestBacklogLimit(t *testing.T) {
	b := New(3)
	for i := 0; i < 5; i++ {
		b.Add("", []string{fmt.Sprintf("line %d", i)})
	}
	if b.Len() != 3 {
		t.Fatalf("Expected 3 entries after trimming, got %d", b.Len())
	}
	if b.Entries()[0].Text != "line 2" {
		t.Errorf("Expected oldest kept entry to be line 2, got %q", b.Entries()[0].Text)
	}
}

func TestBacklogString(t *testing.T) {
	b := New(0)
	b.Add("yuki", []string{"Hello."})
	b.Add("", []string{"It rained."})

	out := b.String()
	if !strings.Contains(out, "yuki: Hello.") {
		t.Errorf("Expected speaker prefix in %q", out)
	}
	if !strings.Contains(out, "It rained.") {
		t.Errorf("Expected narration line in %q", out)
	}
}
