package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSectionJSONRoundTrip(t *testing.T) {
	content := PageContent{
		Layout: "grid",
		Sections: []Section{
			{
				ID:      "section-1",
				Type:    SectionText,
				Content: TextContent{Text: "Welcome to your dashboard"},
				Styles:  map[string]string{"fontSize": "24px", "color": "#333"},
			},
			{
				ID:      "section-2",
				Type:    SectionStats,
				Content: StatsContent{Title: "Orders", Value: "150", Description: "This month"},
			},
			{
				ID:      "section-3",
				Type:    SectionImage,
				Content: ImageContent{Src: "/logo.png", Alt: "Logo"},
			},
		},
	}

	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Text sections serialize their payload as a bare string.
	if !strings.Contains(string(data), `"content":"Welcome to your dashboard"`) {
		t.Errorf("text section content not serialized as string: %s", data)
	}

	var decoded PageContent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(decoded.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(decoded.Sections))
	}
	text, ok := decoded.Sections[0].Content.(TextContent)
	if !ok || text.Text != "Welcome to your dashboard" {
		t.Errorf("text content mismatch: %#v", decoded.Sections[0].Content)
	}
	stats, ok := decoded.Sections[1].Content.(StatsContent)
	if !ok || stats.Value != "150" {
		t.Errorf("stats content mismatch: %#v", decoded.Sections[1].Content)
	}
	if decoded.Sections[0].Styles["fontSize"] != "24px" {
		t.Errorf("styles not preserved: %v", decoded.Sections[0].Styles)
	}
}

func TestSectionUnmarshalUnknownType(t *testing.T) {
	var s Section
	err := json.Unmarshal([]byte(`{"id":"x","type":"video","content":{}}`), &s)
	if err == nil {
		t.Fatal("expected error for unknown section type")
	}
}

func TestSectionUnmarshalRejectsUnknownFields(t *testing.T) {
	var s Section
	err := json.Unmarshal([]byte(`{"id":"x","type":"stats","content":{"orders":150,"revenue":"$12,500"}}`), &s)
	if err == nil {
		t.Fatal("expected error for unknown stats fields")
	}
}

func TestPageContentClone(t *testing.T) {
	orig := &PageContent{
		Layout: "grid",
		Sections: []Section{
			{ID: "a", Type: SectionText, Content: TextContent{Text: "hi"}, Styles: map[string]string{"color": "#333"}},
		},
	}

	cp := orig.Clone()
	cp.Sections[0].Styles["color"] = "#fff"
	cp.Sections[0].ID = "b"

	if orig.Sections[0].Styles["color"] != "#333" {
		t.Error("clone shares styles map with original")
	}
	if orig.Sections[0].ID != "a" {
		t.Error("clone shares section slice with original")
	}
}

func TestPageContentCloneIsolatesChartData(t *testing.T) {
	orig := &PageContent{
		Layout: "grid",
		Sections: []Section{
			{ID: "a", Type: SectionChart, Content: ChartContent{Kind: "bar", Data: []float64{1, 2, 3}}},
		},
	}

	cp := orig.Clone()
	cc := cp.Sections[0].Content.(ChartContent)
	cc.Data[0] = 99

	got := orig.Sections[0].Content.(ChartContent)
	if got.Data[0] != 1 {
		t.Errorf("clone shares chart data with original: %v", got.Data)
	}
}
