package script

import (
	"strings"
	"testing"
)

const roundTripSource = `
.music(rain)
.load(takumi, 2)
.scenein(school, rooftop, fadezoomin, 1.5)
.text(char = 0, name = takumi)
    It was raining again.
.text
$aa = 5
$fl += 1
.if $aa >= 5:
.sound(ding)
.if
.choice
    yes: Stay a while
    no: Leave now
.choice
.branch yes:
.text(skip = 1)
    pose only
.text
.branch
.branch no:
.widget(clock, topright)
.branch
.wait(30)
.forcequit
`

// Serialization is a normal form: parsing its own output must reproduce
// it exactly.
func TestSerializeStable(t *testing.T) {
	prog, err := Parse("test", roundTripSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	first := prog.Serialize()
	reparsed, err := Parse("test", first)
	if err != nil {
		t.Fatalf("Reparse of serialized output failed: %v\n%s", err, first)
	}
	second := reparsed.Serialize()

	if first != second {
		t.Errorf("Serialization is not stable.\nFirst:\n%s\nSecond:\n%s", first, second)
	}
	if len(prog.Instructions) != len(reparsed.Instructions) {
		t.Errorf("Reparse changed instruction count: %d vs %d",
			len(prog.Instructions), len(reparsed.Instructions))
	}
}

func TestSerializeForms(t *testing.T) {
	prog, err := Parse("test", roundTripSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := prog.Serialize()

	for _, want := range []string{
		".music(rain)",
		".scenein(school, rooftop, fadezoomin, 1.5)",
		".text(char = 0, name = takumi)",
		"$aa = 5",
		"$fl = $fl + 1", // compound assignment is stored desugared
		".if $aa >= 5:",
		"yes: Stay a while",
		".branch yes:",
		".text(skip = 1)",
		".forcequit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Serialized output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "jump") {
		t.Error("Branch closers must serialize as .branch, not as jumps")
	}
}

func TestSerializeEmptyTextParams(t *testing.T) {
	prog, err := Parse("test", ".text\n    hello\n.text\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := prog.Serialize()
	if !strings.HasPrefix(out, ".text()\n") {
		t.Errorf("Expected .text() opener, got:\n%s", out)
	}
}
