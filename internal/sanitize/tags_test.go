package sanitize

import "testing"

func TestExtract_NoTags(t *testing.T) {
	input := "Hello, this is plain text with no XML tags."
	for _, tag := range Tags() {
		if got := Extract(input, tag); got != "" {
			t.Errorf("Extract(%q, %q) = %q, want empty", input, tag, got)
		}
	}
}

func TestExtract_AllTagTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tag   string
		want  string
	}{
		{"thinking", "<thinking>Need to create a workflow</thinking>", Thinking, "Need to create a workflow"},
		{"reasoning", "<reasoning>This needs a state diagram</reasoning>", Reasoning, "This needs a state diagram"},
		{"analysis", "<analysis>User wants authentication flow</analysis>", Analysis, "User wants authentication flow"},
		{"uppercase tag", "<THINKING>loud</THINKING>", Thinking, "loud"},
		{"mixed case lookup", "<thinking>quiet</thinking>", "Thinking", "quiet"},
		{"multiline content", "<thinking>\nLet me create a flowchart\n</thinking>", Thinking, "Let me create a flowchart"},
		{"other tag ignored", "<thinking>a</thinking><reasoning>b</reasoning>", Reasoning, "b"},
		{"unknown tag name", "<think>a</think>", "think", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input, tt.tag)
			if got != tt.want {
				t.Errorf("Extract(%q, %q) = %q, want %q", tt.input, tt.tag, got, tt.want)
			}
		})
	}
}

func TestExtract_DocumentOrder(t *testing.T) {
	input := "<thinking> first </thinking>\ncode\n<thinking>second</thinking>\n<thinking>third\n</thinking>"
	got := Extract(input, Thinking)
	want := "first \nsecond\nthird"
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtract_Unterminated(t *testing.T) {
	tests := []string{
		"<thinking>never closed",
		"closed only</thinking>",
		"<thinking>mismatched</reasoning>",
	}
	for _, input := range tests {
		for _, tag := range Tags() {
			if got := Extract(input, tag); got != "" {
				t.Errorf("Extract(%q, %q) = %q, want empty", input, tag, got)
			}
		}
	}
}

func TestExtractAll(t *testing.T) {
	input := "<thinking>Planning the approach</thinking>\n" +
		"<reasoning>This needs a state diagram</reasoning>\n" +
		"<analysis>   </analysis>\nstateDiagram"

	got := ExtractAll(input)
	if len(got) != 2 {
		t.Fatalf("ExtractAll returned %d tags, want 2: %v", len(got), got)
	}
	if got[Thinking] != "Planning the approach" {
		t.Errorf("thinking = %q", got[Thinking])
	}
	if got[Reasoning] != "This needs a state diagram" {
		t.Errorf("reasoning = %q", got[Reasoning])
	}
	if _, ok := got[Analysis]; ok {
		t.Error("empty analysis tag should be omitted")
	}

	if got := ExtractAll("no tags here"); got != nil {
		t.Errorf("ExtractAll without tags = %v, want nil", got)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"block removed with content", "<thinking>thought</thinking>answer", "answer"},
		{"all three tags", "<analysis>a</analysis><reasoning>r</reasoning><thinking>t</thinking>done", "done"},
		{"stray opening tag", "<thinking>left open", "left open"},
		{"stray closing tag", "text</reasoning>", "text"},
		{"multiline block", "<reasoning>\nline one\nline two\n</reasoning>\nresult", "\nresult"},
		{"non-auxiliary tags kept", "<html>page</html>", "<html>page</html>"},
		{"think is not thinking", "<think>x</think>", "<think>x</think>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripTags(tt.input)
			if got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripClosingTags(t *testing.T) {
	input := "<thinking>Need a workflow</thinking>\nflowchart TD\n</REASONING>end"
	got := StripClosingTags(input)
	want := "<thinking>Need a workflow\nflowchart TD\nend"
	if got != want {
		t.Errorf("StripClosingTags = %q, want %q", got, want)
	}
}

func TestTagsReturnsCopy(t *testing.T) {
	tags := Tags()
	tags[0] = "mutated"
	if Tags()[0] != Reasoning {
		t.Error("Tags() exposed the shared vocabulary")
	}
}
